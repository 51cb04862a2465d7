package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"biokeeper/internal/client/session"
	"biokeeper/internal/client/validate"
	"biokeeper/internal/client/zone"
	"biokeeper/internal/shared/models"
)

type authClient struct {
	env *env
}

func newAuthCmd(e *env) *cobra.Command {
	a := &authClient{env: e}
	cmd := &cobra.Command{Use: "auth", Short: "Authentication commands"}

	login := &cobra.Command{Use: "login", Short: "Sign in and remember the session", Args: cobra.NoArgs, RunE: a.login}
	login.Flags().String("login", "", "account e-mail (prompted when empty)")

	register := &cobra.Command{Use: "register", Short: "Create an account and sign in", Args: cobra.NoArgs, RunE: a.register}
	register.Flags().String("first-name", "", "first name")
	register.Flags().String("last-name", "", "last name")
	register.Flags().String("role", "", "job role")
	register.Flags().String("access", string(models.AccessFull), "access rights: FULL, READ_ALL or READ_ONLY")
	register.Flags().String("login", "", "account e-mail (prompted when empty)")

	cmd.AddCommand(login, register,
		&cobra.Command{Use: "logout", Short: "Forget the stored session", Args: cobra.NoArgs, RunE: a.logout},
		&cobra.Command{Use: "status", Short: "Show the signed-in account", Args: cobra.NoArgs, RunE: a.status},
	)
	return cmd
}

// prompter reads answers from the command's input. Passwords are read
// without echo when the input is a terminal.
type prompter struct {
	cmd *cobra.Command
	in  *bufio.Reader
}

func newPrompter(cmd *cobra.Command) *prompter {
	return &prompter{cmd: cmd, in: bufio.NewReader(cmd.InOrStdin())}
}

func (p *prompter) line(prompt string) (string, error) {
	fmt.Fprint(p.cmd.OutOrStdout(), prompt)
	s, err := p.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read input: %w", err)
	}
	return strings.TrimSpace(s), nil
}

func (p *prompter) password(prompt string) (string, error) {
	if f, ok := p.cmd.InOrStdin().(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(p.cmd.OutOrStdout(), prompt)
		pass, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(p.cmd.OutOrStdout())
		return string(pass), err
	}
	return p.line(prompt)
}

// flagOrPrompt returns the flag value, asking for it when empty.
func (p *prompter) flagOrPrompt(name, prompt string) (string, error) {
	v, _ := p.cmd.Flags().GetString(name)
	if v != "" {
		return v, nil
	}
	return p.line(prompt)
}

func (a *authClient) login(cmd *cobra.Command, args []string) error {
	app, err := a.env.get(cmd)
	if err != nil {
		return err
	}
	p := newPrompter(cmd)
	login, err := p.flagOrPrompt("login", "Login: ")
	if err != nil {
		return err
	}
	password, err := p.password("Password: ")
	if err != nil {
		return err
	}
	sess, err := app.Gate.Login(cmd.Context(), login, password)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s (user %d, %s)\n", sess.Login, sess.ActorID, sess.Role)
	return nil
}

func (a *authClient) register(cmd *cobra.Command, args []string) error {
	app, err := a.env.get(cmd)
	if err != nil {
		return err
	}
	p := newPrompter(cmd)
	var u models.User
	for _, q := range []struct {
		flag, prompt string
		dst          *string
	}{
		{"first-name", "First name: ", &u.FirstName},
		{"last-name", "Last name: ", &u.LastName},
		{"role", "Role: ", &u.Role},
		{"login", "Login: ", &u.Login},
	} {
		if *q.dst, err = p.flagOrPrompt(q.flag, q.prompt); err != nil {
			return err
		}
	}
	access, _ := cmd.Flags().GetString("access")
	u.AccessRights = models.AccessRights(strings.ToUpper(access))
	if u.Password, err = p.password("Password: "); err != nil {
		return err
	}
	if err := validate.User(u, true); err != nil {
		return err
	}
	sess, err := app.Gate.Register(cmd.Context(), u)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Registered and logged in as %s (user %d)\n", sess.Login, sess.ActorID)
	return nil
}

func (a *authClient) logout(cmd *cobra.Command, args []string) error {
	app, err := a.env.get(cmd)
	if err != nil {
		return err
	}
	if err := app.Gate.Logout(cmd.Context()); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
	return nil
}

func (a *authClient) status(cmd *cobra.Command, args []string) error {
	app, err := a.env.get(cmd)
	if err != nil {
		return err
	}
	sess, err := app.Gate.Require(cmd.Context())
	if errors.Is(err, session.ErrNoSession) {
		fmt.Fprintln(cmd.OutOrStdout(), "Not logged in")
		return nil
	}
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Login:  %s\n", sess.Login)
	fmt.Fprintf(out, "User:   %d\n", sess.ActorID)
	fmt.Fprintf(out, "Access: %s\n", zone.Access(sess.Role).Label)
	fmt.Fprintf(out, "Writes: %s\n", writes(sess))
	fmt.Fprintf(out, "Since:  %s\n", sess.IssuedAt.In(app.Location).Format("2006-01-02 15:04:05"))
	fmt.Fprintf(out, "Server: %s\n", app.API.BaseURL())
	return nil
}

func writes(sess session.Session) string {
	if sess.CanWrite() {
		return "allowed"
	}
	return "read only"
}
