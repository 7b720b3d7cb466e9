package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/AKASH-DEV-23/taskctl/internal/api"
	"github.com/AKASH-DEV-23/taskctl/internal/core"
	"github.com/AKASH-DEV-23/taskctl/pkg/models"
)

var (
	signupName     string
	signupEmail    string
	signupPassword string
)

var signupCmd = &cobra.Command{
	Use:   "signup",
	Short: "Create a new account",
	Long: `Create a new account with name, email, and password.

New accounts must verify their email address before logging in; after
signup, run 'taskctl verify' with the code sent to your inbox.`,
	Args:    cobra.NoArgs,
	PreRunE: requireAnonymous,
	RunE: func(cmd *cobra.Command, args []string) error {
		name := strings.TrimSpace(signupName)
		email := strings.TrimSpace(signupEmail)
		password := signupPassword

		if name == "" {
			value, err := promptText("Name", false)
			if err != nil {
				return err
			}
			name = strings.TrimSpace(value)
		}
		if email == "" {
			value, err := promptText("Email", false)
			if err != nil {
				return err
			}
			email = strings.TrimSpace(value)
		}
		if password == "" {
			value, err := promptText("Password", true)
			if err != nil {
				return err
			}
			password = value
		}

		if errs := core.ValidateSignup(name, email, password); !errs.OK() {
			return errs
		}

		resp, err := Auth.Register(cmd.Context(), models.SignupCredentials{
			Name:     name,
			Email:    email,
			Password: password,
		})
		if err != nil {
			return fmt.Errorf("%s", api.DisplayMessage(err, "Signup failed. Please try again."))
		}
		return finishLogin(resp, email)
	},
}

func init() {
	signupCmd.Flags().StringVar(&signupName, "name", "", "full name")
	signupCmd.Flags().StringVar(&signupEmail, "email", "", "account email")
	signupCmd.Flags().StringVar(&signupPassword, "password", "", "account password")
	rootCmd.AddCommand(signupCmd)
}
