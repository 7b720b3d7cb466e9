// Package integration holds clients for services outside the task
// backend itself.
package integration

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"os"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const (
	// CallbackPort is where the local redirect listener binds. The
	// OAuth client in the Google console must list
	// http://localhost:6789/oauth2callback as a redirect URI.
	CallbackPort = "6789"

	// AuthTimeout bounds how long we wait for the user to finish the
	// consent screen in their browser.
	AuthTimeout = 5 * time.Minute
)

// Scopes requested for sign-in. The backend only needs identity, the
// token exchange itself happens server side.
var Scopes = []string{
	"openid",
	"https://www.googleapis.com/auth/userinfo.email",
	"https://www.googleapis.com/auth/userinfo.profile",
}

// GoogleAuthorizer runs the browser half of the Google sign-in flow
// and hands back the authorization code for the backend to exchange.
type GoogleAuthorizer interface {
	Authorize(ctx context.Context) (code string, err error)
}

type googleAuthorizer struct {
	credentialsFile string
	out             *os.File
}

// NewGoogleAuthorizer reads the OAuth client configuration from the
// downloaded credentials JSON at credentialsFile. Prompts go to out,
// typically stderr so the auth URL survives piped stdout.
func NewGoogleAuthorizer(credentialsFile string, out *os.File) GoogleAuthorizer {
	if out == nil {
		out = os.Stderr
	}
	return &googleAuthorizer{credentialsFile: credentialsFile, out: out}
}

func (g *googleAuthorizer) config() (*oauth2.Config, error) {
	b, err := os.ReadFile(g.credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("unable to read Google credentials file %s: %w", g.credentialsFile, err)
	}
	config, err := google.ConfigFromJSON(b, Scopes...)
	if err != nil {
		return nil, fmt.Errorf("unable to parse Google credentials file: %w", err)
	}
	forceLocalRedirect(config)
	return config, nil
}

// forceLocalRedirect pins the redirect URI to our callback listener.
// Whatever port credentials.json carries, the listener binds
// CallbackPort, so the two must agree.
func forceLocalRedirect(config *oauth2.Config) {
	parsed, err := url.Parse(config.RedirectURL)
	if err != nil || parsed.Hostname() == "" {
		config.RedirectURL = fmt.Sprintf("http://localhost:%s/oauth2callback", CallbackPort)
		return
	}
	parsed.Host = fmt.Sprintf("%s:%s", parsed.Hostname(), CallbackPort)
	config.RedirectURL = parsed.String()
}

// Authorize starts a localhost listener, prints the consent URL and
// blocks until the redirect delivers an authorization code, the
// context is cancelled, or AuthTimeout elapses.
func (g *googleAuthorizer) Authorize(ctx context.Context) (string, error) {
	config, err := g.config()
	if err != nil {
		return "", err
	}

	listener, err := net.Listen("tcp", ":"+CallbackPort)
	if err != nil {
		return "", fmt.Errorf("failed to listen on port %s: %w", CallbackPort, err)
	}
	defer listener.Close()

	codeCh := make(chan string, 1)
	errCh := make(chan error, 1)

	server := &http.Server{
		Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			code := r.URL.Query().Get("code")
			if code == "" {
				http.Error(w, "Authorization code not found", http.StatusBadRequest)
				errCh <- fmt.Errorf("authorization code not found in redirect")
				return
			}
			fmt.Fprint(w, "Authentication successful! You can close this window.")
			codeCh <- code
		}),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	go func() {
		if err := server.Serve(listener); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("callback server error: %w", err)
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()

	authURL := config.AuthCodeURL("state-token", oauth2.AccessTypeOffline)
	fmt.Fprintf(g.out, "Open the following URL in your browser to sign in:\n\n  %s\n\nWaiting for authorization...\n", authURL)

	select {
	case code := <-codeCh:
		return code, nil
	case err := <-errCh:
		return "", err
	case <-ctx.Done():
		return "", ctx.Err()
	case <-time.After(AuthTimeout):
		return "", fmt.Errorf("authorization timed out, please try again")
	}
}
