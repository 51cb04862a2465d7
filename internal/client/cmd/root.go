package cmd

import (
	"github.com/spf13/cobra"

	"biokeeper/internal/client/app"
	"biokeeper/internal/client/config"
)

// env builds the App lazily so that commands like version never touch the
// session store.
type env struct {
	app *app.App
	// newApp is replaced in tests.
	newApp func(config.Config) (*app.App, error)
}

func (e *env) get(cmd *cobra.Command) (*app.App, error) {
	if e.app != nil {
		return e.app, nil
	}
	cfg, err := config.Load(cmd.Root().PersistentFlags())
	if err != nil {
		return nil, err
	}
	a, err := e.newApp(cfg)
	if err != nil {
		return nil, err
	}
	e.app = a
	return a, nil
}

func (e *env) close() error {
	if e.app == nil {
		return nil
	}
	err := e.app.Close()
	e.app = nil
	return err
}

// NewRootCmd returns the command tree and a cleanup that releases the
// session store and flushes the logger. Call it after Execute whatever the
// outcome: PersistentPostRunE does not run when a command fails.
func NewRootCmd(version, buildDate string) (*cobra.Command, func() error) {
	root, e := newRootCmd(version, buildDate, app.New)
	return root, e.close
}

func newRootCmd(version, buildDate string, newApp func(config.Config) (*app.App, error)) (*cobra.Command, *env) {
	e := &env{newApp: newApp}
	root := &cobra.Command{
		Use:           "biokeeper",
		Short:         "Biomedical material inventory client",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return e.close()
		},
	}
	config.RegisterFlags(root.PersistentFlags())

	root.AddCommand(newVersionCmd(version, buildDate))
	root.AddCommand(newAuthCmd(e))
	root.AddCommand(newDonorsCmd(e))
	root.AddCommand(newMaterialsCmd(e))
	root.AddCommand(newConditionsCmd(e))
	root.AddCommand(newNotificationsCmd(e))
	root.AddCommand(newEventLogsCmd(e))
	root.AddCommand(newUsersCmd(e))
	return root, e
}
