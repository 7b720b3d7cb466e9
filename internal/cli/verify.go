package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/AKASH-DEV-23/taskctl/internal/api"
	"github.com/AKASH-DEV-23/taskctl/internal/core"
	"github.com/AKASH-DEV-23/taskctl/pkg/models"
)

var verifyEmail string

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Enter the emailed verification code",
	Long: `Enter the six-digit verification code sent to your email address.

The code expires after ten minutes; a new one can be requested once per
minute from inside the prompt.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		email := strings.TrimSpace(verifyEmail)
		if email == "" {
			return fmt.Errorf("--email is required")
		}
		if !core.IsValidEmail(email) {
			return fmt.Errorf("please enter a valid email address")
		}

		final, err := tea.NewProgram(newVerifyModel(email)).Run()
		if err != nil {
			return err
		}
		m, ok := final.(verifyModel)
		if !ok {
			return nil
		}
		if m.verified != nil {
			if err := Session.Set(m.verified.Token, m.verified.User); err != nil {
				return fmt.Errorf("saving session: %w", err)
			}
			name := ""
			if m.verified.User != nil {
				name = m.verified.User.Name
			}
			fmt.Println(okStyle.Render(fmt.Sprintf("Email verified. Logged in as %s", name)))
		}
		return nil
	},
}

type verifyTickMsg time.Time

type verifyResultMsg struct {
	resp *models.AuthResponse
	err  error
}

type resendResultMsg struct {
	err error
}

var (
	otpCellStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			Padding(0, 1)

	otpFocusStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(0, 1)
)

type verifyModel struct {
	email string
	otp   *core.OTPInput

	remaining  int
	cooldown   int
	submitting bool
	status     string
	statusErr  bool

	verified *models.AuthResponse
}

func newVerifyModel(email string) verifyModel {
	return verifyModel{
		email:     email,
		otp:       core.NewOTPInput(),
		remaining: core.OTPTTLSeconds,
		cooldown:  core.ResendCooldownSeconds,
	}
}

func verifyTick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return verifyTickMsg(t)
	})
}

func (m verifyModel) Init() tea.Cmd {
	return verifyTick()
}

func (m verifyModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case verifyTickMsg:
		if m.remaining > 0 {
			m.remaining--
		}
		if m.cooldown > 0 {
			m.cooldown--
		}
		return m, verifyTick()

	case verifyResultMsg:
		m.submitting = false
		if msg.err != nil {
			m.status = api.DisplayMessage(msg.err, "Verification failed. Please try again.")
			m.statusErr = true
			m.otp.Reset()
			return m, nil
		}
		if msg.resp == nil || !msg.resp.Success || msg.resp.Token == "" {
			m.status = fallbackMessage(msgMessage(msg.resp), "Invalid verification code.")
			m.statusErr = true
			m.otp.Reset()
			return m, nil
		}
		m.verified = msg.resp
		return m, tea.Quit

	case resendResultMsg:
		if msg.err != nil {
			m.status = api.DisplayMessage(msg.err, "Could not resend the code.")
			m.statusErr = true
			return m, nil
		}
		m.status = "A new code has been sent to your email."
		m.statusErr = false
		m.remaining = core.OTPTTLSeconds
		m.cooldown = core.ResendCooldownSeconds
		m.otp.Reset()
		return m, nil

	case tea.KeyMsg:
		if m.submitting {
			return m, nil
		}
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "backspace":
			m.otp.Backspace()
			return m, nil
		case "enter":
			// The countdown is display only; the backend is the authority
			// on expiry, so a complete code always goes through.
			if m.otp.Complete() {
				m.submitting = true
				return m, m.submit()
			}
			return m, nil
		case "r":
			if m.cooldown == 0 {
				return m, m.resend()
			}
			return m, nil
		}
		if msg.Type == tea.KeyRunes {
			if len(msg.Runes) > 1 {
				m.otp.Paste(string(msg.Runes))
				return m, nil
			}
			m.otp.Type(msg.Runes[0])
		}
		return m, nil
	}

	return m, nil
}

func (m verifyModel) submit() tea.Cmd {
	email, code := m.email, m.otp.Code()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), Config.APITimeout)
		defer cancel()
		resp, err := Auth.VerifyEmail(ctx, email, code)
		return verifyResultMsg{resp: resp, err: err}
	}
}

func (m verifyModel) resend() tea.Cmd {
	email := m.email
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), Config.APITimeout)
		defer cancel()
		_, err := Auth.ResendOTP(ctx, email)
		return resendResultMsg{err: err}
	}
}

func (m verifyModel) View() string {
	title := titleStyle.Render(" Verify your email ")

	cells := make([]string, core.OTPLength)
	for i := 0; i < core.OTPLength; i++ {
		value := m.otp.Cell(i)
		if value == "" {
			value = " "
		}
		style := otpCellStyle
		if i == m.otp.Focus() {
			style = otpFocusStyle
		}
		cells[i] = style.Render(value)
	}
	row := lipgloss.JoinHorizontal(lipgloss.Center, cells...)

	var lines []string
	lines = append(lines, title, "")
	lines = append(lines, fmt.Sprintf("Enter the code sent to %s", m.email), "")
	lines = append(lines, row, "")

	if m.remaining > 0 {
		lines = append(lines, dimStyle.Render(fmt.Sprintf("Code expires in %d:%02d", m.remaining/60, m.remaining%60)))
	} else {
		lines = append(lines, errStyle.Render("The code has expired. Press r to request a new one."))
	}
	if m.cooldown > 0 {
		lines = append(lines, dimStyle.Render(fmt.Sprintf("Resend available in %ds", m.cooldown)))
	} else {
		lines = append(lines, dimStyle.Render("Press r to resend the code"))
	}

	if m.submitting {
		lines = append(lines, "", "Verifying...")
	} else if m.status != "" {
		style := okStyle
		if m.statusErr {
			style = errStyle
		}
		lines = append(lines, "", style.Render(m.status))
	}

	lines = append(lines, "", helpStyle.Render("enter: submit | r: resend | esc: cancel"))
	return strings.Join(lines, "\n")
}

func msgMessage(resp *models.AuthResponse) string {
	if resp == nil {
		return ""
	}
	return resp.Message
}

func init() {
	verifyCmd.Flags().StringVar(&verifyEmail, "email", "", "email address being verified")
	rootCmd.AddCommand(verifyCmd)
}
