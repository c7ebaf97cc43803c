package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"net/mail"
	"os"
	"strings"

	"github.com/eltonarunga/lugha-learner-kenya/internal/backend"
	"github.com/eltonarunga/lugha-learner-kenya/internal/screens/auth"
	"github.com/spf13/cobra"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in and remember the session",
	Long: `Sign in with email and password. The session is stored in the local
database and reused by the TUI and the other commands.

The email and password are prompted for when not given as flags. The
password is read as one line from stdin, so it can be piped.`,
	RunE: runLogin,
}

func init() {
	loginCmd.Flags().String("email", "", "Account email")
	loginCmd.Flags().Bool("signup", false, "Create a new account instead of signing in")
	loginCmd.Flags().String("name", "", "Display name for a new account")
}

func runLogin(cmd *cobra.Command, args []string) error {
	email, _ := cmd.Flags().GetString("email")
	signup, _ := cmd.Flags().GetBool("signup")
	name, _ := cmd.Flags().GetString("name")

	in := bufio.NewScanner(cmd.InOrStdin())
	out := cmd.OutOrStdout()

	var err error
	if signup && name == "" {
		if name, err = prompt(in, out, "Name: "); err != nil {
			return err
		}
	}
	if email == "" {
		if email, err = prompt(in, out, "Email: "); err != nil {
			return err
		}
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return fmt.Errorf("invalid email %q", email)
	}
	password, err := prompt(in, out, "Password: ")
	if err != nil {
		return err
	}
	if len(password) < auth.MinPasswordLength {
		return fmt.Errorf("password must be at least %d characters", auth.MinPasswordLength)
	}

	d, err := openSession(cmd)
	if err != nil {
		return err
	}
	defer d.Close()

	ctx := cmd.Context()
	if signup {
		err = d.session.SignUp(ctx, email, password, name)
	} else {
		err = d.session.SignIn(ctx, email, password)
	}
	if err != nil {
		var apiErr *backend.APIError
		if errors.As(err, &apiErr) && apiErr.Message != "" {
			return fmt.Errorf("sign in failed: %s", apiErr.Message)
		}
		return fmt.Errorf("sign in failed: %w", err)
	}

	snap := d.session.Snapshot()
	who := email
	if p := snap.Profile; p != nil && p.Name != "" {
		who = p.Name
	}
	fmt.Fprintf(out, "Signed in as %s.\n", who)
	if snap.NeedsOnboarding() {
		fmt.Fprintln(out, "Run `lugha` to finish setting up your profile.")
	}
	return nil
}

// prompt writes label and reads one trimmed line.
func prompt(in *bufio.Scanner, out io.Writer, label string) (string, error) {
	fmt.Fprint(out, label)
	if !in.Scan() {
		if err := in.Err(); err != nil {
			return "", fmt.Errorf("read input: %w", err)
		}
		return "", io.ErrUnexpectedEOF
	}
	return strings.TrimSpace(in.Text()), nil
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and forget the stored session",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := openSession(cmd)
		if err != nil {
			return err
		}
		defer d.Close()

		if d.session.Snapshot().UserID() == "" {
			fmt.Fprintln(cmd.OutOrStdout(), "Not signed in.")
			return nil
		}
		if err := d.session.SignOut(cmd.Context()); err != nil {
			fmt.Fprintln(os.Stderr, "Server sign-out failed:", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Signed out.")
		return nil
	},
}
