package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/shashiranjanraj/bookshelf/app/repositories"
	"github.com/shashiranjanraj/bookshelf/app/services"
)

var revokeAdmin bool

// bookshelf user:promote <email>
var userPromoteCmd = &cobra.Command{
	Use:   "user:promote <email>",
	Short: "Grant (or with --revoke, remove) the admin flag",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := boot()
		if err != nil {
			return err
		}
		defer a.Close()
		db, err := a.DB()
		if err != nil {
			return err
		}

		u, err := repositories.NewUserRepository(db).SetAdmin(cmd.Context(), args[0], !revokeAdmin)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "user %d (%s) admin=%t\n", u.ID, u.Email, u.IsAdmin)
		return nil
	},
}

var adminPassword string

// bookshelf user:create-admin <email>
var userCreateAdminCmd = &cobra.Command{
	Use:   "user:create-admin <email>",
	Short: "Create a new admin account, prompting for its password",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		password := adminPassword
		if password == "" {
			p, err := readPassword(cmd.InOrStdin(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			password = p
		}

		a, err := boot()
		if err != nil {
			return err
		}
		defer a.Close()
		db, err := a.DB()
		if err != nil {
			return err
		}

		svc := services.NewUserService(repositories.NewUserRepository(db), a.Config().BcryptCost)
		u, err := svc.CreateAdmin(cmd.Context(), services.CreateUserInput{Email: args[0], Password: password})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "admin user %d (%s) created\n", u.ID, u.Email)
		return nil
	},
}

func init() {
	userPromoteCmd.Flags().BoolVar(&revokeAdmin, "revoke", false, "remove the admin flag instead")
	userCreateAdminCmd.Flags().StringVar(&adminPassword, "password", "", "password (prompted when omitted)")
}

// readPassword prompts without echo on a terminal and reads a line
// otherwise, so the command also works with piped input.
func readPassword(in io.Reader, prompt io.Writer) (string, error) {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(prompt, "Password: ")
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(prompt)
		if err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		return string(b), nil
	}
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read password: %w", err)
	}
	line = strings.TrimRight(line, "\r\n")
	if line == "" {
		return "", errors.New("password is required")
	}
	return line, nil
}
