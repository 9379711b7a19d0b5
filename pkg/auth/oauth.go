package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/harrisonrobin/agenda/pkg/logx"
	"github.com/spf13/afero"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/calendar/v3"
)

const (
	// ClientSecretsFile is the downloaded Google API credentials, placed in
	// the config directory.
	ClientSecretsFile = "credentials.json"

	// TokenFile holds the access and refresh token.
	TokenFile = "token.json"

	// LocalhostAuthPort is where the local server captures the OAuth redirect.
	LocalhostAuthPort = "6789"

	authTimeout = 5 * time.Minute
)

// Scopes needed to read events from the user's calendars.
var Scopes = []string{calendar.CalendarReadonlyScope}

// Store locates the credentials and token files.
type Store struct {
	Fs  afero.Fs
	Dir string
	Log logx.Logger
}

func (s Store) tokenPath() string   { return filepath.Join(s.Dir, TokenFile) }
func (s Store) secretsPath() string { return filepath.Join(s.Dir, ClientSecretsFile) }

// GetConfig creates an oauth2.Config from the client secrets file.
func (s Store) GetConfig(scopes []string) (*oauth2.Config, error) {
	b, err := afero.ReadFile(s.Fs, s.secretsPath())
	if err != nil {
		return nil, fmt.Errorf("unable to read client secret file %s: %w", s.secretsPath(), err)
	}

	config, err := google.ConfigFromJSON(b, scopes...)
	if err != nil {
		return nil, fmt.Errorf("unable to parse client secret file to config: %w", err)
	}
	config.RedirectURL = s.normalizeRedirect(config.RedirectURL)
	return config, nil
}

// normalizeRedirect points localhost and out-of-band redirects at the port
// the local listener uses.
func (s Store) normalizeRedirect(raw string) string {
	log := s.Log.Component("auth")
	if raw == "urn:ietf:wg:oauth:2.0:oob" {
		out := fmt.Sprintf("http://localhost:%s/oauth2callback", LocalhostAuthPort)
		log.Info("overriding out-of-band redirect", logx.String("redirect", out))
		return out
	}
	u, err := url.Parse(raw)
	if err != nil {
		log.Warn("could not parse redirect url, using it as is", logx.String("redirect", raw), logx.Err(err))
		return raw
	}
	if u.Hostname() != "localhost" && u.Hostname() != "127.0.0.1" {
		log.Warn("redirect is not a localhost callback", logx.String("redirect", raw))
		return raw
	}
	if p := u.Port(); p != "" && p != LocalhostAuthPort {
		log.Warn("forcing localhost redirect port", logx.String("configured", p), logx.String("port", LocalhostAuthPort))
	}
	u.Host = net.JoinHostPort(u.Hostname(), LocalhostAuthPort)
	return u.String()
}

// GetClient returns an authenticated *http.Client. It loads the stored
// token, or runs the browser flow when there is none. Refreshed tokens are
// written back.
func (s Store) GetClient(ctx context.Context, scopes []string) (*http.Client, error) {
	config, err := s.GetConfig(scopes)
	if err != nil {
		return nil, err
	}

	tok, err := s.LoadToken()
	if err != nil {
		s.Log.Component("auth").Info("no usable token, starting web authorization", logx.String("path", s.tokenPath()), logx.Err(err))
		tok, err = getTokenFromWeb(ctx, config, s.Log)
		if err != nil {
			return nil, fmt.Errorf("failed to get token from web: %w", err)
		}
		if err := s.SaveToken(tok); err != nil {
			return nil, err
		}
	}

	src := &savingSource{base: config.TokenSource(ctx, tok), last: tok, store: s}
	return oauth2.NewClient(ctx, oauth2.ReuseTokenSource(tok, src)), nil
}

// Reset removes the stored token so the next GetClient asks again.
func (s Store) Reset() error {
	err := s.Fs.Remove(s.tokenPath())
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove token: %w", err)
	}
	return nil
}

func (s Store) LoadToken() (*oauth2.Token, error) {
	b, err := afero.ReadFile(s.Fs, s.tokenPath())
	if err != nil {
		return nil, err
	}
	tok := &oauth2.Token{}
	if err := json.Unmarshal(b, tok); err != nil {
		return nil, fmt.Errorf("failed to decode token from file %s: %w", s.tokenPath(), err)
	}
	return tok, nil
}

func (s Store) SaveToken(tok *oauth2.Token) error {
	if err := s.Fs.MkdirAll(s.Dir, 0700); err != nil {
		return fmt.Errorf("could not create token directory %s: %w", s.Dir, err)
	}
	b, err := json.Marshal(tok)
	if err != nil {
		return err
	}
	if err := afero.WriteFile(s.Fs, s.tokenPath(), b, 0600); err != nil {
		return fmt.Errorf("unable to cache OAuth token to %s: %w", s.tokenPath(), err)
	}
	return nil
}

// savingSource persists the token whenever the wrapped source hands out a
// different one.
type savingSource struct {
	base  oauth2.TokenSource
	store Store

	mu   sync.Mutex
	last *oauth2.Token
}

func (s *savingSource) Token() (*oauth2.Token, error) {
	tok, err := s.base.Token()
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.last == nil || tok.AccessToken != s.last.AccessToken || tok.RefreshToken != s.last.RefreshToken {
		if err := s.store.SaveToken(tok); err != nil {
			s.store.Log.Component("auth").Warn("could not save refreshed token", logx.Err(err))
		}
		s.last = tok
	}
	return tok, nil
}

// getTokenFromWeb runs the authorization code flow, capturing the redirect
// on a local server.
func getTokenFromWeb(ctx context.Context, config *oauth2.Config, log logx.Logger) (*oauth2.Token, error) {
	log = log.Component("auth")
	codeCh := make(chan string, 1)
	errCh := make(chan error, 1)

	listener, err := net.Listen("tcp", ":"+LocalhostAuthPort)
	if err != nil {
		return nil, fmt.Errorf("failed to start listener on port %s: %w", LocalhostAuthPort, err)
	}
	defer listener.Close()

	server := &http.Server{
		Handler: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			code := r.URL.Query().Get("code")
			if code == "" {
				http.Error(w, "Authorization code not found", http.StatusBadRequest)
				select {
				case errCh <- errors.New("authorization code not found in redirect URL"):
				default:
				}
				return
			}
			fmt.Fprintf(w, "Authentication successful! You can close this window.")
			select {
			case codeCh <- code:
			default:
			}
		}),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  15 * time.Second,
	}
	defer server.Shutdown(context.Background())

	go func() {
		log.Debug("listening for OAuth2 redirect", logx.String("redirect", config.RedirectURL))
		if err := server.Serve(listener); err != nil && err != http.ErrServerClosed {
			select {
			case errCh <- fmt.Errorf("HTTP server error: %w", err):
			default:
			}
		}
	}()

	// AccessTypeOffline makes Google return a refresh token.
	authURL := config.AuthCodeURL("state-token", oauth2.AccessTypeOffline, oauth2.SetAuthURLParam("prompt", "consent"))
	fmt.Fprintf(os.Stderr, "Please open the following URL in your browser to authorize agenda:\n%s\n", authURL)
	log.Info("waiting for authorization code")

	select {
	case code := <-codeCh:
		ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()
		tok, err := config.Exchange(ctx, code)
		if err != nil {
			return nil, fmt.Errorf("unable to retrieve token from Google: %w", err)
		}
		return tok, nil
	case err := <-errCh:
		return nil, err
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(authTimeout):
		return nil, errors.New("authorization timed out, please try again")
	}
}
