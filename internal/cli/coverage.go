package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/CChelak/dan-lab/internal/domain"
	"github.com/CChelak/dan-lab/internal/usecase"
)

func coverageCmd(configPath *string) *cobra.Command {
	var stationID int
	var start, end string
	var columns string

	c := &cobra.Command{
		Use:   "coverage",
		Short: "Report the data coverage of a station's daily records",
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

			cols := defaultObservationColumns
			if picked := splitList(columns); picked != nil {
				cols = picked
			}

			uc := usecase.NewCoverage(app.geomet)
			res, err := uc.Execute(cmd.Context(), usecase.CoverageRequest{
				Query: domain.ClimateQuery{
					StationIDs: []int{stationID},
					Properties: cols,
					Interval:   interval,
					SortBy:     "+LOCAL_DATE",
				},
				Columns: cols,
			})
			if err != nil {
				return err
			}

			fmt.Printf("Rows:            %d\n", res.Rows)
			fmt.Printf("Missing days:    %d\n", res.MissingDays)
			fmt.Printf("Fully covered:   %.1f%%\n", res.FullCoverage*100)

			keys := make([]string, 0, len(res.Coverage))
			for k := range res.Coverage {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				fmt.Printf("  %-32s %.1f%%\n", k, res.Coverage[k]*100)
			}
			return nil
		},
	}

	c.Flags().IntVar(&stationID, "station", 0, "Station id to summarize")
	c.Flags().StringVar(&start, "start", "", "First day of the interval (YYYY-MM-DD)")
	c.Flags().StringVar(&end, "end", "", "Last day of the interval (YYYY-MM-DD)")
	c.Flags().StringVar(&columns, "columns", "", "Comma separated observation columns to measure")
	return c
}
