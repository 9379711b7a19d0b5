package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/harrisonrobin/agenda/pkg/logx"
	"github.com/spf13/afero"
	"golang.org/x/oauth2"
)

const secrets = `{"installed":{"client_id":"id.apps.googleusercontent.com","client_secret":"shh",
"auth_uri":"https://accounts.google.com/o/oauth2/auth","token_uri":"https://oauth2.googleapis.com/token",
"redirect_uris":["http://localhost"]}}`

func newStore() Store {
	return Store{Fs: afero.NewMemMapFs(), Dir: "/cfg/agenda", Log: logx.Nop()}
}

func TestTokenRoundTrip(t *testing.T) {
	s := newStore()
	if _, err := s.LoadToken(); err == nil {
		t.Fatal("Expected error loading a missing token")
	}

	want := &oauth2.Token{AccessToken: "a", RefreshToken: "r", Expiry: time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)}
	if err := s.SaveToken(want); err != nil {
		t.Fatalf("SaveToken failed: %v", err)
	}
	got, err := s.LoadToken()
	if err != nil {
		t.Fatalf("LoadToken failed: %v", err)
	}
	if got.AccessToken != "a" || got.RefreshToken != "r" || !got.Expiry.Equal(want.Expiry) {
		t.Errorf("Unexpected token %+v", got)
	}

	if err := s.Reset(); err != nil {
		t.Fatalf("Reset failed: %v", err)
	}
	if _, err := s.LoadToken(); err == nil {
		t.Error("Expected token to be gone after Reset")
	}
	if err := s.Reset(); err != nil {
		t.Errorf("Reset of a missing token should succeed, got %v", err)
	}
}

func TestGetConfigForcesLocalPort(t *testing.T) {
	s := newStore()
	afero.WriteFile(s.Fs, "/cfg/agenda/credentials.json", []byte(secrets), 0o600)

	cfg, err := s.GetConfig(Scopes)
	if err != nil {
		t.Fatalf("GetConfig failed: %v", err)
	}
	if cfg.RedirectURL != "http://localhost:"+LocalhostAuthPort {
		t.Errorf("Unexpected redirect %q", cfg.RedirectURL)
	}
	if len(cfg.Scopes) != 1 || !strings.Contains(cfg.Scopes[0], "calendar.readonly") {
		t.Errorf("Unexpected scopes %v", cfg.Scopes)
	}
}

func TestGetConfigMissingSecrets(t *testing.T) {
	if _, err := newStore().GetConfig(Scopes); err == nil {
		t.Fatal("Expected error without credentials.json")
	}
}

func TestNormalizeRedirect(t *testing.T) {
	s := newStore()
	tests := map[string]string{
		"urn:ietf:wg:oauth:2.0:oob":          "http://localhost:6789/oauth2callback",
		"http://localhost:1234/cb":           "http://localhost:6789/cb",
		"http://127.0.0.1/cb":                "http://127.0.0.1:6789/cb",
		"https://example.com/oauth2callback": "https://example.com/oauth2callback",
	}
	for in, want := range tests {
		if got := s.normalizeRedirect(in); got != want {
			t.Errorf("normalizeRedirect(%q) = %q, want %q", in, got, want)
		}
	}
}

type staticSource struct{ tok *oauth2.Token }

func (s staticSource) Token() (*oauth2.Token, error) { return s.tok, nil }

func TestSavingSourcePersistsRefresh(t *testing.T) {
	s := newStore()
	old := &oauth2.Token{AccessToken: "old"}
	fresh := &oauth2.Token{AccessToken: "new", RefreshToken: "r"}

	src := &savingSource{base: staticSource{fresh}, last: old, store: s}
	if _, err := src.Token(); err != nil {
		t.Fatalf("Token failed: %v", err)
	}
	got, err := s.LoadToken()
	if err != nil {
		t.Fatalf("LoadToken failed: %v", err)
	}
	if got.AccessToken != "new" {
		t.Errorf("Expected refreshed token to be saved, got %+v", got)
	}
}
