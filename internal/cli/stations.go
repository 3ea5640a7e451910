package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/CChelak/dan-lab/internal/domain"
	"github.com/CChelak/dan-lab/internal/infra/csvfile"
	"github.com/CChelak/dan-lab/internal/usecase"
)

// defaultStationProperties mirror what the station survey workflows ask for.
var defaultStationProperties = []string{
	"STATION_NAME", "CLIMATE_IDENTIFIER", "STN_ID",
	"FIRST_DATE", "LAST_DATE", "PROV_STATE_TERR_CODE",
	"STATION_TYPE", "HAS_HOURLY_DATA",
}

func stationsCmd(configPath *string) *cobra.Command {
	var province string
	var bbox string
	var properties string
	var output string
	var noCache bool

	c := &cobra.Command{
		Use:   "stations",
		Short: "Fetch climate stations from the catalogue",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, cleanup, err := loadApp(*configPath)
			if err != nil {
				return err
			}
			defer cleanup()

			q := domain.StationQuery{Properties: defaultStationProperties}
			if props := splitList(properties); props != nil {
				q.Properties = props
			}
			if q.Province, err = parseProvince(province); err != nil {
				return err
			}
			if strings.TrimSpace(bbox) != "" {
				normalized, err := domain.NormalizeBBoxString(bbox)
				if err != nil {
					return err
				}
				q.Extra = map[string]string{"bbox": normalized}
			}

			store := app.stations
			if noCache {
				store = nil
			}

			uc := usecase.NewFetchStations(app.geomet, store)
			table, stations, err := uc.Execute(cmd.Context(), q)
			if err != nil {
				return err
			}

			if output != "" {
				if err := csvfile.WriteTable(table, output); err != nil {
					return err
				}
				fmt.Printf("Wrote %d stations to %s\n", len(stations), output)
				return nil
			}

			printStations(os.Stdout, stations)
			return nil
		},
	}

	c.Flags().StringVar(&province, "province", "", "Two-letter province code filter (e.g. AB)")
	c.Flags().StringVar(&bbox, "bbox", "", "Bounding box filter: minLon,minLat,maxLon,maxLat")
	c.Flags().StringVar(&properties, "properties", "", "Comma separated station properties to request")
	c.Flags().StringVarP(&output, "output", "o", "", "Write results to a CSV file instead of stdout")
	c.Flags().BoolVar(&noCache, "no-cache", false, "Do not save fetched stations to the station store")
	return c
}

func printStations(w io.Writer, stations []domain.Station) {
	if len(stations) == 0 {
		fmt.Fprintln(w, "(no stations matched)")
		return
	}

	fmt.Fprintf(w, "%d station(s)\n\n", len(stations))
	for _, st := range stations {
		span := ""
		if !st.FirstDate.IsZero() && !st.LastDate.IsZero() {
			span = fmt.Sprintf("  %s to %s",
				st.FirstDate.Format("2006-01-02"), st.LastDate.Format("2006-01-02"))
		}
		fmt.Fprintf(w, "- %-30s  climate id %s  stn %d%s\n", st.Name, st.ClimateID, st.StationID, span)
	}
}
