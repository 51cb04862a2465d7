package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"biokeeper/internal/client/config"
)

// newVersionCmd prints the build and the service the current settings point
// at. It reads the config but never opens the session store.
func newVersionCmd(version, buildDate string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version info and the configured service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "biokeeper %s (%s)\n", version, buildDate)
			cfg, err := config.Load(cmd.Root().PersistentFlags())
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "server:  %s (%s profile)\n", cfg.Server, cfg.Profile)
			fmt.Fprintf(out, "dates:   %s\n", cfg.DateFormat)
			return nil
		},
	}
}
