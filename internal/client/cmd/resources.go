package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"biokeeper/internal/client/api"
	"biokeeper/internal/client/app"
	"biokeeper/internal/client/listing"
	"biokeeper/internal/client/page"
	"biokeeper/internal/client/session"
	"biokeeper/internal/client/zone"
)

// refLoader prepares a side collection and, once loaded, stores it in refs.
type refLoader func(c *api.Client, actor int64, log *zap.Logger) (page.Loader, func(*listing.Refs))

// resource describes the CLI surface of one entity.
type resource[T, P any] struct {
	use     string
	aliases []string
	short   string

	col     func(*api.Client) api.Collection[T, P]
	table   func(listing.Refs) listing.Table[T]
	payload func(T) P
	check   func(v T, today time.Time, creating bool) error
	fields  []field[T]
	// prepare fills defaults on a new record before flags are applied.
	prepare func(v *T, sess session.Session, now time.Time)
	// filters registers filter flags and returns the predicate builder.
	filters func(fs *pflag.FlagSet) func() listing.Predicate[T]
	refs    []refLoader
}

func requireSession(e *env, cmd *cobra.Command) (*app.App, session.Session, error) {
	a, err := e.get(cmd)
	if err != nil {
		return nil, session.Session{}, err
	}
	sess, err := a.Gate.Require(cmd.Context())
	if err != nil {
		return nil, session.Session{}, err
	}
	return a, sess, nil
}

// warnReadOnly tells a non-FULL actor that the write is likely to be refused.
// The request is still sent; the service decides.
func warnReadOnly(cmd *cobra.Command, sess session.Session) {
	if !sess.CanWrite() {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s access cannot change data, the service is likely to refuse\n",
			zone.Access(sess.Role).Label)
	}
}

func argID(args []string) (int64, error) {
	return parseID(args[0])
}

func (r resource[T, P]) command(e *env, extra ...*cobra.Command) *cobra.Command {
	cmd := &cobra.Command{Use: r.use, Aliases: r.aliases, Short: r.short}
	cmd.AddCommand(r.listCmd(e), r.getCmd(e), r.addCmd(e), r.updateCmd(e), r.deleteCmd(e))
	cmd.AddCommand(extra...)
	return cmd
}

func (r resource[T, P]) listCmd(e *env) *cobra.Command {
	var (
		o       outputOpts
		sortKey string
		desc    bool
		filter  func() listing.Predicate[T]
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List " + r.col(nil).Resource().Plural,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, sess, err := requireSession(e, cmd)
			if err != nil {
				return err
			}

			main := page.New[T, P](r.col(a.API), sess.ActorID)
			loaders := []page.Loader{main}
			var fill []func(*listing.Refs)
			for _, load := range r.refs {
				l, set := load(a.API, sess.ActorID, a.Logger)
				loaders = append(loaders, l)
				fill = append(fill, set)
			}
			if err := page.LoadAll(cmd.Context(), loaders...); err != nil {
				return err
			}

			refs := listing.Refs{Format: a.Config.DateFormat, Loc: a.Location}
			for _, set := range fill {
				set(&refs)
			}
			table := r.table(refs)
			if sortKey != "" {
				if _, ok := table.Column(sortKey); !ok {
					return fmt.Errorf("unknown sort key %q (one of: %s)", sortKey, strings.Join(table.Keys(), ", "))
				}
			}
			var pred listing.Predicate[T]
			if filter != nil {
				pred = filter()
			}
			items := listing.Sort(listing.Apply(main.Items(), pred), table, listing.SortState{Key: sortKey, Desc: desc})
			return writeListing(cmd, o, r.use, table, items)
		},
	}
	o.register(cmd.Flags(), true)
	cmd.Flags().StringVar(&sortKey, "sort", "", "sort column key")
	cmd.Flags().BoolVar(&desc, "desc", false, "sort descending")
	if r.filters != nil {
		filter = r.filters(cmd.Flags())
	}
	return cmd
}

func (r resource[T, P]) getCmd(e *env) *cobra.Command {
	var o outputOpts
	cmd := &cobra.Command{
		Use:   "get ID",
		Short: "Show one " + r.col(nil).Resource().Singular,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := argID(args)
			if err != nil {
				return err
			}
			a, sess, err := requireSession(e, cmd)
			if err != nil {
				return err
			}
			col := r.col(a.API)
			item, err := col.Get(cmd.Context(), sess.ActorID, id)
			if err != nil {
				return fmt.Errorf("Failed to fetch %s: %w", col.Resource().Singular, err)
			}
			refs := listing.Refs{Format: a.Config.DateFormat, Loc: a.Location}
			for _, load := range r.refs {
				l, set := load(a.API, sess.ActorID, a.Logger)
				_ = l.Fetch(cmd.Context())
				set(&refs)
			}
			return writeRecord(cmd, o.format, r.table(refs), item)
		},
	}
	o.register(cmd.Flags(), false)
	return cmd
}

func (r resource[T, P]) addCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a " + r.col(nil).Resource().Singular,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, sess, err := requireSession(e, cmd)
			if err != nil {
				return err
			}
			warnReadOnly(cmd, sess)
			now := a.Now().In(a.Location)
			var v T
			if r.prepare != nil {
				r.prepare(&v, sess, now)
			}
			if err := applyFields(cmd.Flags(), r.fields, &v); err != nil {
				return err
			}
			if err := r.check(v, now, true); err != nil {
				return err
			}
			p := page.New[T, P](r.col(a.API), sess.ActorID)
			if err := p.Create(cmd.Context(), r.payload(v)); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", r.col(nil).Resource().Singular)
			return nil
		},
	}
	registerFields(cmd.Flags(), r.fields)
	return cmd
}

func (r resource[T, P]) updateCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Change fields of a " + r.col(nil).Resource().Singular,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := argID(args)
			if err != nil {
				return err
			}
			a, sess, err := requireSession(e, cmd)
			if err != nil {
				return err
			}
			warnReadOnly(cmd, sess)
			col := r.col(a.API)
			v, err := col.Get(cmd.Context(), sess.ActorID, id)
			if err != nil {
				return fmt.Errorf("Failed to fetch %s: %w", col.Resource().Singular, err)
			}
			if err := applyFields(cmd.Flags(), r.fields, &v); err != nil {
				return err
			}
			if err := r.check(v, a.Now().In(a.Location), false); err != nil {
				return err
			}
			p := page.New[T, P](col, sess.ActorID)
			if err := p.Update(cmd.Context(), id, r.payload(v)); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %s %d\n", col.Resource().Singular, id)
			return nil
		},
	}
	registerFields(cmd.Flags(), r.fields)
	return cmd
}

func (r resource[T, P]) deleteCmd(e *env) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete ID",
		Short: "Delete a " + r.col(nil).Resource().Singular,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := argID(args)
			if err != nil {
				return err
			}
			a, sess, err := requireSession(e, cmd)
			if err != nil {
				return err
			}
			warnReadOnly(cmd, sess)
			col := r.col(a.API)
			singular := col.Resource().Singular
			if !yes {
				answer, err := newPrompter(cmd).line(fmt.Sprintf("Are you sure you want to delete %s %d? [y/N] ", singular, id))
				if err != nil {
					return err
				}
				if ans := strings.ToLower(answer); ans != "y" && ans != "yes" {
					fmt.Fprintln(cmd.OutOrStdout(), "Cancelled")
					return nil
				}
			}
			if err := page.New[T, P](col, sess.ActorID).Delete(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s %d\n", singular, id)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}
