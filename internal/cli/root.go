// Package cli wires the danlab command tree.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/CChelak/dan-lab/internal/buildinfo"
	"github.com/CChelak/dan-lab/internal/infra/logger"
	"github.com/CChelak/dan-lab/internal/ui/tui"
)

func Execute() {
	cmd := newRootCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string
	var debug bool

	cmd := &cobra.Command{
		Use:          "danlab",
		Short:        "danlab - Canadian climate data retrieval and analysis",
		SilenceUsage: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			cleanup, _ := logger.Setup(logger.Config{Root: ".", Debug: debug})
			_ = cleanup // file handle lives for the process
		},
		RunE: func(_ *cobra.Command, _ []string) error {
			return runBrowse(configPath, debug)
		},
	}

	cmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to danlab.yaml (default: ./danlab.yaml)")
	cmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable verbose logging to .danlab/logs/danlab.log")

	cmd.AddCommand(
		stationsCmd(&configPath),
		dailyCmd(&configPath),
		hourlyCmd(&configPath),
		countiesCmd(&configPath),
		nearestCmd(&configPath),
		joinCmd(),
		queryablesCmd(&configPath),
		coverageCmd(&configPath),
		summaryCmd(&configPath),
		manifestsCmd(&configPath),
		browseCmd(&configPath, &debug),
		versionCmd(),
	)
	return cmd
}

func browseCmd(configPath *string, debug *bool) *cobra.Command {
	var province string

	c := &cobra.Command{
		Use:   "browse",
		Short: "Browse the station catalogue interactively",
		RunE: func(_ *cobra.Command, _ []string) error {
			return runBrowseProvince(*configPath, *debug, province)
		},
	}
	c.Flags().StringVar(&province, "province", "AB", "Two-letter province code to browse")
	return c
}

func runBrowse(configPath string, debug bool) error {
	return runBrowseProvince(configPath, debug, "AB")
}

func runBrowseProvince(configPath string, debug bool, province string) error {
	app, cleanup, err := loadApp(configPath)
	if err != nil {
		return err
	}
	defer cleanup()

	prov, err := parseProvince(province)
	if err != nil {
		return err
	}

	return tui.Run(tui.Deps{
		Stations: app.geomet,
		Province: prov,
		Logger:   logger.L(),
		Debug:    debug,
	})
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Println(buildinfo.String())
		},
	}
}
