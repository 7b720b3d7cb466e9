package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// requireAuth is a PreRunE that rejects commands needing a logged-in
// session.
func requireAuth(cmd *cobra.Command, args []string) error {
	if Session == nil || !Session.Authenticated() {
		return fmt.Errorf("not logged in, run 'taskctl login' first")
	}
	return nil
}

// requireAnonymous is a PreRunE for login and signup: running them while a
// session exists would silently replace it.
func requireAnonymous(cmd *cobra.Command, args []string) error {
	if Session != nil && Session.Authenticated() {
		user := Session.CurrentUser()
		name := ""
		if user != nil {
			name = user.Email
		}
		return fmt.Errorf("already logged in as %s, run 'taskctl logout' first", name)
	}
	return nil
}

// requirePermission builds a PreRunE that also checks a capability code
// resolved by name from the configured permission map.
func requirePermission(name string) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if err := requireAuth(cmd, args); err != nil {
			return err
		}
		code, ok := Config.Permissions.CodeFor(name)
		if !ok {
			return fmt.Errorf("unknown permission %q in configuration", name)
		}
		if !Session.HasPermission(code) {
			return fmt.Errorf("you do not have the %s permission", Config.Permissions.FormattedNameFor(code))
		}
		return nil
	}
}
