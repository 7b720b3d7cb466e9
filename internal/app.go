// Package internal provides the App struct that wires all components of
// taskctl together and initializes the CLI layer.
package internal

import (
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/AKASH-DEV-23/taskctl/internal/api"
	"github.com/AKASH-DEV-23/taskctl/internal/cli"
	"github.com/AKASH-DEV-23/taskctl/internal/core"
	"github.com/AKASH-DEV-23/taskctl/internal/integration"
	"github.com/AKASH-DEV-23/taskctl/internal/session"
	"github.com/AKASH-DEV-23/taskctl/internal/storage"
)

// App holds all service dependencies of the client.
type App struct {
	BasePath string

	// Configuration
	ConfigMgr core.ConfigurationManager
	Config    *core.Config

	// Storage layer
	CredStore storage.CredentialStore

	// Session
	Session session.Manager

	// API clients
	Client *api.Client
	Auth   *api.AuthClient
	Tasks  *api.TaskClient
	Users  *api.UserClient
	Roles  *api.RoleClient

	// Integration services
	GoogleAuth integration.GoogleAuthorizer
}

// NewApp creates and wires all components. basePath is where the
// configuration and stored credentials live, typically ~/.config/taskctl.
func NewApp(basePath string) (*App, error) {
	app := &App{BasePath: basePath}

	// --- Configuration ---
	app.ConfigMgr = core.NewConfigurationManager(basePath)
	cfg, err := app.ConfigMgr.Load()
	if err != nil {
		return nil, err
	}
	app.Config = cfg

	// --- Storage and session ---
	app.CredStore = storage.NewCredentialStore(basePath)
	app.Session = session.NewManager(app.CredStore, cfg.Permissions)
	if err := app.Session.Load(); err != nil {
		// A corrupt credentials file should not brick the CLI; start
		// logged out instead.
		_ = app.CredStore.Clear()
	}

	// --- API clients ---
	// The 401 hook drops the session so a dead token is cleaned up the
	// first time the backend rejects it. The subscriber prints the hint
	// only for hook-driven clears; an explicit logout stays quiet here.
	// Bulk operations issue requests from several goroutines, so the flag
	// has to be atomic.
	var rejected atomic.Bool
	app.Session.Subscribe(func() {
		if rejected.Swap(false) && !app.Session.Authenticated() {
			fmt.Fprintln(os.Stderr, "Session expired. Run 'taskctl login' to sign in again.")
		}
	})
	app.Client = api.NewClient(cfg.APIBaseURL, cfg.APITimeout,
		api.WithTokenSource(app.Session.Token),
		api.WithUnauthorizedHook(func() {
			rejected.Store(true)
			_ = app.Session.Clear()
		}),
	)
	app.Auth = api.NewAuthClient(app.Client)
	app.Tasks = api.NewTaskClient(app.Client)
	app.Users = api.NewUserClient(app.Client)
	app.Roles = api.NewRoleClient(app.Client)

	// --- Integration services ---
	if cfg.GoogleCredentialsFile != "" {
		app.GoogleAuth = integration.NewGoogleAuthorizer(cfg.GoogleCredentialsFile, os.Stderr)
	}

	// --- Wire CLI package-level variables ---
	cli.BasePath = basePath
	cli.Config = app.Config
	cli.Session = app.Session
	cli.Auth = app.Auth
	cli.Tasks = app.Tasks
	cli.Users = app.Users
	cli.Roles = app.Roles
	cli.GoogleAuth = app.GoogleAuth

	return app, nil
}

// ResolveBasePath determines where taskctl keeps its configuration and
// credentials. TASKCTL_HOME overrides the default of ~/.config/taskctl.
func ResolveBasePath() string {
	if home := os.Getenv("TASKCTL_HOME"); home != "" {
		return home
	}
	userHome, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(userHome, ".config", "taskctl")
}
