package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/CChelak/dan-lab/internal/infra/geomet"
)

func queryablesCmd(configPath *string) *cobra.Command {
	var check string

	c := &cobra.Command{
		Use:   "queryables [collection]",
		Short: "List the filterable properties of a collection",
		Long: `Lists the properties a collection accepts in query filters. The
collection defaults to ` + geomet.CollectionStations + `; pass "counties" for
the provincial boundary service. With --check, reports which of the named
properties are NOT queryable instead.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			collection := geomet.CollectionStations
			if len(args) == 1 {
				collection = args[0]
			}

			app, cleanup, err := loadApp(*configPath)
			if err != nil {
				return err
			}
			defer cleanup()

			if props := splitList(check); props != nil {
				var bad []string
				if collection == "counties" {
					bad, err = app.counties.UnqueryableFields(cmd.Context(), props)
				} else {
					bad, err = app.geomet.UnqueryableProperties(cmd.Context(), collection, props)
				}
				if err != nil {
					return err
				}
				if len(bad) == 0 {
					fmt.Println("All named properties are queryable.")
					return nil
				}
				fmt.Printf("%d propert%s cannot be used in filters:\n", len(bad), plural(len(bad), "y", "ies"))
				for _, p := range bad {
					fmt.Printf("- %s\n", p)
				}
				return nil
			}

			var props []string
			if collection == "counties" {
				props, err = app.counties.Fields(cmd.Context())
			} else {
				props, err = app.geomet.Queryables(cmd.Context(), collection)
			}
			if err != nil {
				return err
			}
			sort.Strings(props)
			for _, p := range props {
				fmt.Println(p)
			}
			return nil
		},
	}

	c.Flags().StringVar(&check, "check", "", "Comma separated properties to test against the collection")
	return c
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
