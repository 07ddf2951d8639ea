// Package auth keeps the bearer token the API client sends. The token is opaque
// to the rest of the program; only whoami looks inside it.
package auth

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"github.com/Makepad-fr/tada-kanban/internal/store/jsonstore"
)

const (
	credFileName = "credentials.json"

	SourceEnv  = "env"
	SourceFile = "file"
)

var ErrNotLoggedIn = errors.New("no token found. Set TADA_TOKEN or run `tada auth login`")

type TokenInfo struct {
	Token     string     `json:"token"`
	Source    string     `json:"source"`     // "env" | "file"
	CreatedAt time.Time  `json:"created_at"` // when we saved to file
	ExpiresAt *time.Time `json:"expires_at"` // from the JWT exp claim, if any
}

// Expired reports whether the token has a known expiry in the past.
func (ti *TokenInfo) Expired(now time.Time) bool {
	return ti.ExpiresAt != nil && now.After(*ti.ExpiresAt)
}

// Store reads and writes credentials in dir. A non-empty envToken wins over
// the file and is never written.
type Store struct {
	dir      string
	envToken string
}

func NewStore(dir, envToken string) *Store {
	return &Store{dir: dir, envToken: strings.TrimSpace(envToken)}
}

// DefaultDir is ~/.tada.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("home: %w", err)
	}
	return filepath.Join(home, ".tada"), nil
}

func (s *Store) path() string { return filepath.Join(s.dir, credFileName) }

// Get returns the current credentials, or nil when not logged in.
func (s *Store) Get() (*TokenInfo, error) {
	if s.envToken != "" {
		tok := stripBearer(s.envToken)
		return &TokenInfo{Token: tok, Source: SourceEnv, ExpiresAt: expiry(tok)}, nil
	}

	var ti TokenInfo
	found, err := jsonstore.Load(s.path(), &ti)
	if err != nil {
		return nil, fmt.Errorf("read credentials: %w", err)
	}
	if !found {
		return nil, nil
	}
	ti.Token = stripBearer(ti.Token)
	return &ti, nil
}

// Set saves token owner-only. A JWT's exp claim becomes ExpiresAt.
func (s *Store) Set(token string) (*TokenInfo, error) {
	token = stripBearer(strings.TrimSpace(token))
	if token == "" {
		return nil, fmt.Errorf("empty token")
	}
	ti := &TokenInfo{
		Token:     token,
		Source:    SourceFile,
		CreatedAt: time.Now(),
		ExpiresAt: expiry(token),
	}
	if err := jsonstore.Save(s.path(), ti, 0o600); err != nil {
		return nil, fmt.Errorf("write credentials: %w", err)
	}
	return ti, nil
}

func (s *Store) Delete() error {
	return jsonstore.Remove(s.path())
}

// Token implements the API client's credential source.
func (s *Store) Token(context.Context) (string, error) {
	ti, err := s.Get()
	if err != nil {
		return "", err
	}
	if ti == nil || ti.Token == "" {
		return "", ErrNotLoggedIn
	}
	return ti.Token, nil
}

// Claims decodes a JWT payload without checking the signature; the server does
// that. ok is false for opaque tokens.
func Claims(token string) (claims jwt.MapClaims, ok bool) {
	claims = jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, false
	}
	return claims, true
}

func expiry(token string) *time.Time {
	claims, ok := Claims(token)
	if !ok {
		return nil
	}
	exp, ok := claims["exp"].(float64)
	if !ok {
		return nil
	}
	t := time.Unix(int64(exp), 0)
	return &t
}

func stripBearer(s string) string {
	if strings.HasPrefix(strings.ToLower(s), "bearer ") {
		return strings.TrimSpace(s[7:])
	}
	return s
}
