package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/CChelak/dan-lab/internal/domain"
	"github.com/CChelak/dan-lab/internal/usecase"
)

func dailyCmd(configPath *string) *cobra.Command {
	var stationIDs []int
	var start, end string
	var properties string
	var outDir string
	var prefix string
	var name string
	var all bool

	c := &cobra.Command{
		Use:   "daily",
		Short: "Download daily climate records to CSV",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, cleanup, err := loadApp(*configPath)
			if err != nil {
				return err
			}
			defer cleanup()

			interval, err := intervalFromFlags(start, end)
			if err != nil {
				return err
			}
			q := domain.ClimateQuery{
				StationIDs: stationIDs,
				Properties: splitList(properties),
				Interval:   interval,
			}
			dir := outDir
			if dir == "" {
				dir = app.cfg.Paths.OutputDir
			}

			if all {
				if q.Properties == nil {
					q.Properties = []string{"CLIMATE_IDENTIFIER", "STATION_NAME", "LOCAL_DATE"}
				}
				uc := usecase.NewDownloadAllDaily(app.geomet, app.writer, app.manifests)
				res, err := uc.Execute(cmd.Context(), q, dir, prefix)
				if err != nil {
					return err
				}
				fmt.Printf("Wrote %d rows across %d file(s)\n", res.Rows, len(res.Files))
				for _, f := range res.Files {
					fmt.Printf("  %s\n", f)
				}
				return nil
			}

			if len(stationIDs) == 0 {
				return fmt.Errorf("at least one --station is required (or use --all)")
			}
			uc := usecase.NewDownloadDaily(app.geomet, app.writer, app.manifests)
			res, err := uc.Execute(cmd.Context(), usecase.DownloadRequest{
				Query:       q,
				StationName: name,
				OutputDir:   dir,
				Prefix:      prefix,
			})
			if err != nil {
				return err
			}
			if res.Path == "" {
				fmt.Println("No records matched; nothing written.")
				return nil
			}
			fmt.Printf("Wrote %d rows to %s\n", res.Rows, res.Path)
			return nil
		},
	}

	c.Flags().IntSliceVar(&stationIDs, "station", nil, "Station id to download, repeatable")
	c.Flags().StringVar(&start, "start", "", "First day of the interval (YYYY-MM-DD)")
	c.Flags().StringVar(&end, "end", "", "Last day of the interval (YYYY-MM-DD)")
	c.Flags().StringVar(&properties, "properties", "", "Comma separated record properties to request")
	c.Flags().StringVarP(&outDir, "out", "o", "", "Output directory (default from config)")
	c.Flags().StringVar(&prefix, "prefix", "", "Prefix prepended to the CSV file name")
	c.Flags().StringVar(&name, "name", "", "Station name to use in the CSV file name")
	c.Flags().BoolVar(&all, "all", false, "Stream the whole collection, one CSV per station")
	return c
}

func hourlyCmd(configPath *string) *cobra.Command {
	var stationID int
	var start, end string
	var properties string
	var outDir string
	var prefix string
	var name string

	c := &cobra.Command{
		Use:   "hourly",
		Short: "Download hourly climate records for one station",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if stationID == 0 {
				return fmt.Errorf("--station is required")
			}

			app, cleanup, err := loadApp(*configPath)
			if err != nil {
				return err
			}
			defer cleanup()

			interval, err := intervalFromFlags(start, end)
			if err != nil {
				return err
			}
			dir := outDir
			if dir == "" {
				dir = app.cfg.Paths.OutputDir
			}

			uc := usecase.NewDownloadHourly(app.geomet, app.writer, app.manifests)
			res, err := uc.Execute(cmd.Context(), usecase.DownloadRequest{
				Query: domain.ClimateQuery{
					StationIDs: []int{stationID},
					Properties: splitList(properties),
					Interval:   interval,
				},
				StationName: name,
				OutputDir:   dir,
				Prefix:      prefix,
			})
			if err != nil {
				return err
			}
			if res.Path == "" {
				fmt.Println("No records matched; nothing written.")
				return nil
			}
			fmt.Printf("Wrote %d rows to %s\n", res.Rows, res.Path)
			return nil
		},
	}

	c.Flags().IntVar(&stationID, "station", 0, "Station id to download")
	c.Flags().StringVar(&start, "start", "", "First day of the interval (YYYY-MM-DD)")
	c.Flags().StringVar(&end, "end", "", "Last day of the interval (YYYY-MM-DD)")
	c.Flags().StringVar(&properties, "properties", "", "Comma separated record properties to request")
	c.Flags().StringVarP(&outDir, "out", "o", "", "Output directory (default from config)")
	c.Flags().StringVar(&prefix, "prefix", "", "Prefix prepended to the CSV file name")
	c.Flags().StringVar(&name, "name", "", "Station name to use in the CSV file name")
	return c
}
