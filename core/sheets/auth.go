package sheets

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	gsheets "google.golang.org/api/sheets/v4"
)

// Authorizer performs the interactive consent step of the installed-app flow.
// It receives the consent URL and returns the authorization code.
type Authorizer func(ctx context.Context, authURL string) (string, error)

// StdinAuthorizer prints the consent URL to out and reads the code from in.
func StdinAuthorizer(in io.Reader, out io.Writer) Authorizer {
	return func(ctx context.Context, authURL string) (string, error) {
		fmt.Fprintf(out, "Open the following link in your browser, then paste the authorization code:\n%s\n> ", authURL)
		line, err := bufio.NewReader(in).ReadString('\n')
		if err != nil && line == "" {
			return "", fmt.Errorf("failed to read authorization code: %w", err)
		}
		code := strings.TrimSpace(line)
		if code == "" {
			return "", fmt.Errorf("empty authorization code")
		}
		return code, nil
	}
}

// NewHTTPClient returns an HTTP client that authenticates every request to the Sheets API.
//
// For oauth credentials the token file is loaded and refreshed tokens are written back to it.
// When no token exists yet the authorizer is asked for consent; a nil authorizer makes that an error.
func NewHTTPClient(ctx context.Context, cfg Config, authorize Authorizer) (*http.Client, error) {
	timeout := cfg.TimeoutSeconds
	if timeout <= 0 {
		timeout = 30
	}
	// oauth2 uses this client both for token refreshes and, wrapped, for API calls
	base := &http.Client{Timeout: time.Duration(timeout) * time.Second}
	ctx = context.WithValue(ctx, oauth2.HTTPClient, base)

	secret, err := os.ReadFile(cfg.CredentialsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read credentials file: %w", err)
	}

	if cfg.CredentialsType == CredentialsServiceAccount {
		jwtConfig, err := google.JWTConfigFromJSON(secret, gsheets.SpreadsheetsScope)
		if err != nil {
			return nil, fmt.Errorf("failed to parse service account key: %w", err)
		}
		return jwtConfig.Client(ctx), nil
	}

	oauthConfig, err := google.ConfigFromJSON(secret, gsheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("failed to parse client secret: %w", err)
	}

	tok, err := LoadToken(cfg.TokenFile)
	if err != nil {
		if authorize == nil {
			return nil, fmt.Errorf("no usable token in %s, run the auth command first: %w", cfg.TokenFile, err)
		}
		tok, err = Authorize(ctx, oauthConfig, authorize)
		if err != nil {
			return nil, err
		}
		if err := SaveToken(cfg.TokenFile, tok); err != nil {
			return nil, err
		}
	}

	ts := &persistingTokenSource{
		base: oauthConfig.TokenSource(ctx, tok),
		path: cfg.TokenFile,
		last: tok,
	}
	return oauth2.NewClient(ctx, oauth2.ReuseTokenSource(tok, ts)), nil
}

// Authorize runs the consent step and exchanges the code for a token.
func Authorize(ctx context.Context, oauthConfig *oauth2.Config, authorize Authorizer) (*oauth2.Token, error) {
	authURL := oauthConfig.AuthCodeURL("state-token", oauth2.AccessTypeOffline)
	code, err := authorize(ctx, authURL)
	if err != nil {
		return nil, err
	}
	tok, err := oauthConfig.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange authorization code: %w", err)
	}
	return tok, nil
}

// LoadToken reads a token previously stored with SaveToken.
func LoadToken(path string) (*oauth2.Token, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	tok := &oauth2.Token{}
	if err := json.NewDecoder(f).Decode(tok); err != nil {
		return nil, fmt.Errorf("failed to decode token file: %w", err)
	}
	return tok, nil
}

// SaveToken writes the token to path, readable by the owner only.
func SaveToken(path string, tok *oauth2.Token) error {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("failed to open token file: %w", err)
	}
	defer f.Close()

	if err := json.NewEncoder(f).Encode(tok); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}
	return nil
}

// persistingTokenSource writes every newly minted token back to the token file.
type persistingTokenSource struct {
	base oauth2.TokenSource
	path string

	mu   sync.Mutex
	last *oauth2.Token
}

func (s *persistingTokenSource) Token() (*oauth2.Token, error) {
	tok, err := s.base.Token()
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.last == nil || s.last.AccessToken != tok.AccessToken {
		// A failed write only costs a refresh on the next start
		_ = SaveToken(s.path, tok)
		s.last = tok
	}
	return tok, nil
}
