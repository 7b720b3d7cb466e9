package cli

import (
	"github.com/AKASH-DEV-23/taskctl/internal/api"
	"github.com/AKASH-DEV-23/taskctl/internal/core"
	"github.com/AKASH-DEV-23/taskctl/internal/integration"
	"github.com/AKASH-DEV-23/taskctl/internal/session"
)

// Service instances, set during app initialization in app.go.
var (
	BasePath string
	Config   *core.Config

	Session session.Manager

	Auth  *api.AuthClient
	Tasks *api.TaskClient
	Users *api.UserClient
	Roles *api.RoleClient

	GoogleAuth integration.GoogleAuthorizer
)
