package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func manifestsCmd(configPath *string) *cobra.Command {
	var verbose bool

	c := &cobra.Command{
		Use:   "manifests",
		Short: "List the recorded download manifests",
		RunE: func(_ *cobra.Command, _ []string) error {
			app, cleanup, err := loadApp(*configPath)
			if err != nil {
				return err
			}
			defer cleanup()

			manifests, err := app.manifests.ListManifests()
			if err != nil {
				return err
			}
			if len(manifests) == 0 {
				fmt.Println("No manifests recorded yet.")
				return nil
			}

			for _, m := range manifests {
				fmt.Printf("%s  %-14s  %d row(s) in %d file(s)  %s\n",
					m.StartedAt.Format("2006-01-02 15:04:05"),
					m.Collection, m.RowCount, len(m.Files), m.ID)
				if !verbose {
					continue
				}
				if len(m.ClimateIDs) > 0 {
					fmt.Printf("    climate ids: %v\n", m.ClimateIDs)
				}
				if m.Interval != "" {
					fmt.Printf("    interval: %s\n", m.Interval)
				}
				for _, f := range m.Files {
					fmt.Printf("    %s\n", f)
				}
			}
			return nil
		},
	}

	c.Flags().BoolVarP(&verbose, "verbose", "v", false, "Show the files and interval of each manifest")
	return c
}
