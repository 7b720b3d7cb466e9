package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/AKASH-DEV-23/taskctl/internal/api"
	"github.com/AKASH-DEV-23/taskctl/internal/core"
	"github.com/AKASH-DEV-23/taskctl/pkg/models"
)

var (
	loginEmail    string
	loginPassword string
	loginGoogle   bool
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in with email and password, or with Google",
	Long: `Log in to the Task Manager backend.

With --google, a browser-based Google sign-in flow is started and the
resulting authorization code is exchanged by the backend. Otherwise email
and password are used; unverified accounts are directed to 'taskctl verify'.`,
	Args:    cobra.NoArgs,
	PreRunE: requireAnonymous,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if loginGoogle {
			return loginWithGoogle(ctx)
		}
		return loginWithPassword(ctx)
	},
}

func loginWithPassword(ctx context.Context) error {
	email := strings.TrimSpace(loginEmail)
	password := loginPassword

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

	if errs := core.ValidateLogin(email, password); !errs.OK() {
		return errs
	}

	resp, err := Auth.Login(ctx, models.LoginCredentials{Email: email, Password: password})
	if err != nil {
		return fmt.Errorf("%s", api.DisplayMessage(err, "Login failed. Please try again."))
	}
	return finishLogin(resp, email)
}

func loginWithGoogle(ctx context.Context) error {
	if GoogleAuth == nil {
		return fmt.Errorf("google sign-in is not configured, set google.credentials_file in .taskctl.yaml")
	}
	code, err := GoogleAuth.Authorize(ctx)
	if err != nil {
		return fmt.Errorf("google sign-in: %w", err)
	}
	resp, err := Auth.GoogleAuth(ctx, code)
	if err != nil {
		return fmt.Errorf("%s", api.DisplayMessage(err, "Google sign-in failed. Please try again."))
	}
	return finishLogin(resp, "")
}

// finishLogin handles the shared tail of every auth flow: verification
// redirects, then session persistence.
func finishLogin(resp *models.AuthResponse, email string) error {
	if resp.RequiresVerification {
		target := resp.Email
		if target == "" {
			target = email
		}
		fmt.Printf("Your email is not verified yet. A verification code has been sent.\nRun: taskctl verify --email %s\n", target)
		return nil
	}
	if !resp.Success || resp.Token == "" {
		return fmt.Errorf("%s", fallbackMessage(resp.Message, "Login failed. Please try again."))
	}
	if err := Session.Set(resp.Token, resp.User); err != nil {
		return fmt.Errorf("saving session: %w", err)
	}
	name := ""
	if resp.User != nil {
		name = resp.User.Name
	}
	fmt.Println(okStyle.Render(fmt.Sprintf("Logged in as %s", name)))
	return nil
}

func fallbackMessage(msg, fallback string) string {
	if msg != "" {
		return msg
	}
	return fallback
}

// promptText runs a one-line textinput prompt. masked hides the typed
// characters, for passwords.
func promptText(label string, masked bool) (string, error) {
	input := textinput.New()
	input.Prompt = label + ": "
	input.Focus()
	if masked {
		input.EchoMode = textinput.EchoPassword
	}

	m := promptModel{input: input}
	final, err := tea.NewProgram(m).Run()
	if err != nil {
		return "", err
	}
	result, ok := final.(promptModel)
	if !ok || result.cancelled {
		return "", fmt.Errorf("cancelled")
	}
	return result.input.Value(), nil
}

type promptModel struct {
	input     textinput.Model
	cancelled bool
	done      bool
}

func (m promptModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m promptModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "enter":
			m.done = true
			return m, tea.Quit
		case "ctrl+c", "esc":
			m.cancelled = true
			return m, tea.Quit
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m promptModel) View() string {
	if m.done || m.cancelled {
		return ""
	}
	return m.input.View()
}

func init() {
	loginCmd.Flags().StringVar(&loginEmail, "email", "", "account email")
	loginCmd.Flags().StringVar(&loginPassword, "password", "", "account password")
	loginCmd.Flags().BoolVar(&loginGoogle, "google", false, "sign in with Google")
	rootCmd.AddCommand(loginCmd)
}
