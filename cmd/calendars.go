package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/teemow/calfewer/internal/filter"
)

// newCalendarsCmd lists the calendars the configured store exposes. It is a
// quick way to check what a fixture or database contains, and which
// calendars a filter preset actually selects, without speaking the protocol.
func newCalendarsCmd() *cobra.Command {
	var (
		cfg    serveConfig
		preset string
	)

	cmd := &cobra.Command{
		Use:   "calendars",
		Short: "List the calendars the configured store exposes",
		RunE: func(cmd *cobra.Command, args []string) error {
			backing, closeStore, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer closeStore()

			calendars, err := backing.ListCalendars(cmd.Context())
			if err != nil {
				return err
			}
			if preset != "" {
				presetCfg := filter.PresetConfig{PersonalAccounts: cfg.PersonalAccounts}
				if len(presetCfg.PersonalAccounts) == 0 {
					presetCfg = filter.DefaultPresetConfig()
				}
				presetFilter, err := filter.FromPreset(preset, presetCfg)
				if err != nil {
					return err
				}
				calendars = presetFilter.Apply(calendars)
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tACCOUNT\tKIND\tWRITABLE")
			for _, cal := range calendars {
				fmt.Fprintf(w, "%s\t%s\t%s\t%t\n", cal.Name, cal.Account, cal.Kind, cal.Writable)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&cfg.StoreBackend, "store", "memory", "Store backend: memory or sqlite")
	cmd.Flags().StringVar(&cfg.DBPath, "db-path", defaultDBPath(), "Database file for the sqlite backend")
	cmd.Flags().StringVar(&cfg.SeedFile, "seed", "", "JSON fixture to load into the memory backend")
	cmd.Flags().StringVar(&preset, "preset", "", "Calendar filter preset to apply (work, personal, main, all, debug, clean)")
	cmd.Flags().StringSliceVar(&cfg.PersonalAccounts, "personal-accounts", nil, "Account names the personal calendar preset includes")

	return cmd
}
