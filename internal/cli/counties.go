package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/CChelak/dan-lab/internal/infra/logger"
	"github.com/CChelak/dan-lab/internal/usecase"
)

// defaultObservationColumns are the daily measurements coverage is judged
// on when the caller does not pick their own.
var defaultObservationColumns = []string{
	"MEAN_TEMPERATURE", "TOTAL_PRECIPITATION",
}

func countiesCmd(configPath *string) *cobra.Command {
	var names []string
	var since, through string
	var columns string
	var minCoverage float64
	var outDir string

	c := &cobra.Command{
		Use:   "counties",
		Short: "List Alberta counties or survey their stations",
		Long: `With no --county flags, lists every county in the provincial boundary
service. With one or more --county flags, finds the daily stations inside
each county, measures data coverage, and writes the survivors to per-county
CSV directories.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, cleanup, err := loadApp(*configPath)
			if err != nil {
				return err
			}
			defer cleanup()

			if len(names) == 0 {
				counties, err := app.counties.AllCounties(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Printf("%d counties\n\n", len(counties))
				for _, county := range counties {
					fmt.Printf("- %s\n", county.Name)
				}
				return nil
			}

			req := usecase.CountyStationsRequest{
				CountyNames:        names,
				ObservationColumns: defaultObservationColumns,
				MinFullCoverage:    minCoverage,
				OutputDir:          outDir,
			}
			if cols := splitList(columns); cols != nil {
				req.ObservationColumns = cols
			}
			if since != "" {
				if req.ActiveSince, err = parseDay("since", since); err != nil {
					return err
				}
			}
			if through != "" {
				if req.ActiveThrough, err = parseDay("through", through); err != nil {
					return err
				}
			}

			uc := usecase.NewCountyStations(app.geomet, app.counties, app.geomet, app.writer, logger.L())
			reports, err := uc.Execute(cmd.Context(), req)
			if err != nil {
				return err
			}

			for _, report := range reports {
				fmt.Printf("%s: %d station(s)\n", report.County, len(report.Stations))
				for _, sc := range report.Stations {
					mark := "dropped"
					if sc.Kept {
						mark = "kept"
					}
					fmt.Printf("  %-30s  full coverage %.1f%%  %s\n",
						sc.Station.Name, sc.FullCoverage*100, mark)
					if sc.File != "" {
						fmt.Printf("    wrote %s\n", sc.File)
					}
				}
			}
			return nil
		},
	}

	c.Flags().StringArrayVar(&names, "county", nil, "County to survey, repeatable")
	c.Flags().StringVar(&since, "since", "", "Keep stations already reporting by this day (YYYY-MM-DD)")
	c.Flags().StringVar(&through, "through", "", "Keep stations still reporting on this day (YYYY-MM-DD)")
	c.Flags().StringVar(&columns, "columns", "", "Comma separated observation columns to measure")
	c.Flags().Float64Var(&minCoverage, "min-coverage", 0.5, "Minimum share of fully populated days (0..1)")
	c.Flags().StringVarP(&outDir, "out", "o", "", "Directory for per-county station CSVs")
	return c
}
