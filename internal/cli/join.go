package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/CChelak/dan-lab/internal/infra/csvfile"
	"github.com/CChelak/dan-lab/internal/infra/logger"
)

func joinCmd() *cobra.Command {
	var inDir string
	var outDir string
	var basename string

	c := &cobra.Command{
		Use:   "join",
		Short: "Join per-page station CSVs by climate identifier",
		Long: `Scans a directory of downloaded CSVs, groups them by the climate
identifier embedded in their file names, and writes one combined CSV per
station sorted newest first.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			if outDir == "" {
				outDir = inDir
			}
			joined, err := csvfile.JoinByClimateID(inDir, outDir, basename, logger.L())
			if err != nil {
				return err
			}
			if len(joined) == 0 {
				fmt.Println("No joinable CSV groups found.")
				return nil
			}
			for _, path := range joined {
				fmt.Printf("Wrote %s\n", path)
			}
			return nil
		},
	}

	c.Flags().StringVarP(&inDir, "in", "i", ".", "Directory holding the downloaded CSVs")
	c.Flags().StringVarP(&outDir, "out", "o", "", "Output directory (default same as --in)")
	c.Flags().StringVar(&basename, "basename", "joined", "Prefix for the combined file names")
	return c
}
