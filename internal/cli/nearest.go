package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/CChelak/dan-lab/internal/domain"
	"github.com/CChelak/dan-lab/internal/usecase"
)

func nearestCmd(configPath *string) *cobra.Command {
	var lon, lat float64
	var maxMeters float64
	var limit int
	var province string
	var bbox string

	c := &cobra.Command{
		Use:   "nearest",
		Short: "Rank climate stations by distance from a point",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.Flags().Changed("lon") || !cmd.Flags().Changed("lat") {
				return fmt.Errorf("--lon and --lat are required")
			}

			app, cleanup, err := loadApp(*configPath)
			if err != nil {
				return err
			}
			defer cleanup()

			q := domain.StationQuery{Properties: defaultStationProperties}
			if q.Province, err = parseProvince(province); err != nil {
				return err
			}
			if bbox != "" {
				normalized, err := domain.NormalizeBBoxString(bbox)
				if err != nil {
					return err
				}
				q.Extra = map[string]string{"bbox": normalized}
			}

			uc := usecase.NewNearestStations(app.geomet)
			ranked, err := uc.Execute(cmd.Context(), q,
				domain.Coordinate{Lon: lon, Lat: lat}, maxMeters, limit)
			if err != nil {
				return err
			}
			if len(ranked) == 0 {
				fmt.Println("(no stations matched)")
				return nil
			}

			for _, sd := range ranked {
				fmt.Printf("%8.1f km  %-30s  climate id %s\n",
					sd.Meters/1000, sd.Station.Name, sd.Station.ClimateID)
			}
			return nil
		},
	}

	c.Flags().Float64Var(&lon, "lon", 0, "Reference longitude in degrees")
	c.Flags().Float64Var(&lat, "lat", 0, "Reference latitude in degrees")
	c.Flags().Float64Var(&maxMeters, "max-distance", 0, "Drop stations beyond this many meters (0 keeps all)")
	c.Flags().IntVarP(&limit, "limit", "n", 10, "Number of stations to report (0 keeps all)")
	c.Flags().StringVar(&province, "province", "", "Two-letter province code filter")
	c.Flags().StringVar(&bbox, "bbox", "", "Bounding box filter: minLon,minLat,maxLon,maxLat")
	return c
}
