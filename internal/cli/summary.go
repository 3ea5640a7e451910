package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/CChelak/dan-lab/internal/usecase"
)

func summaryCmd(configPath *string) *cobra.Command {
	var province string
	var before string

	c := &cobra.Command{
		Use:   "summary",
		Short: "Answer the recurring questions about a province's stations",
		Long: `Counts the stations in a province, how many report hourly data, and
how many records reach back past a cutoff date. The stations that are both
early and hourly-capable are listed by name.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, cleanup, err := loadApp(*configPath)
			if err != nil {
				return err
			}
			defer cleanup()

			req := usecase.SummaryRequest{}
			if req.Province, err = parseProvince(province); err != nil {
				return err
			}
			if before != "" {
				if req.Cutoff, err = parseDay("before", before); err != nil {
					return err
				}
			}

			uc := usecase.NewSummary(app.geomet)
			res, err := uc.Execute(cmd.Context(), req)
			if err != nil {
				return err
			}

			fmt.Printf("There are %d stations in %s\n", res.Total, res.Province)
			fmt.Printf("There are %d stations in %s with hourly data\n", res.WithHourly, res.Province)
			if res.Cutoff.IsZero() {
				return nil
			}

			cutoff := res.Cutoff.Format("2006-01-02")
			fmt.Printf("There are %d stations whose records begin before %s\n", res.EarlyTotal, cutoff)
			fmt.Printf("Of those early stations %d have hourly data\n", res.EarlyHourly)
			for _, st := range res.EarlyHourlyStations {
				fmt.Printf("  %-30s first record %s\n", st.Name, st.FirstDate.Format("2006-01-02"))
			}
			return nil
		},
	}

	c.Flags().StringVar(&province, "province", "AB", "Two-letter province code to survey")
	c.Flags().StringVar(&before, "before", "1920-01-01", "List stations whose records predate this day (empty disables)")
	return c
}
