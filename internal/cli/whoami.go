package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var whoamiCmd = &cobra.Command{
	Use:     "whoami",
	Short:   "Show the logged-in user and their permissions",
	Args:    cobra.NoArgs,
	PreRunE: requireAuth,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Re-validate against the profile endpoint so stale local state
		// does not mislead; a dead token surfaces here instead of on the
		// next mutation.
		if err := Session.Validate(cmd.Context(), Auth); err != nil {
			return fmt.Errorf("session is no longer valid, run 'taskctl login': %w", err)
		}

		user := Session.CurrentUser()
		if user == nil {
			return fmt.Errorf("no user in session")
		}

		fmt.Printf("Name:   %s\n", user.Name)
		fmt.Printf("Email:  %s\n", user.Email)
		if user.Role != nil && user.Role.Name != "" {
			fmt.Printf("Role:   %s\n", user.Role.Name)
		}
		if user.Status != "" {
			fmt.Printf("Status: %s\n", user.Status)
		}

		names := permissionNames(user.EffectivePermissions())
		if len(names) == 0 {
			fmt.Println("Permissions: none")
			return nil
		}
		fmt.Printf("Permissions: %s\n", strings.Join(names, ", "))
		return nil
	},
}

// permissionNames maps codes through the configured permission map,
// expanding the "all" sentinel to every individual capability.
func permissionNames(codes []int) []string {
	pm := Config.Permissions
	if allCode, ok := pm.AllCode(); ok {
		for _, code := range codes {
			if code == allCode {
				names := make([]string, 0, len(pm.IndividualCodes()))
				for _, c := range pm.IndividualCodes() {
					names = append(names, pm.FormattedNameFor(c))
				}
				return names
			}
		}
	}
	names := make([]string, 0, len(codes))
	for _, code := range codes {
		names = append(names, pm.FormattedNameFor(code))
	}
	return names
}

func init() {
	rootCmd.AddCommand(whoamiCmd)
}
