package auth

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	// EnvToken is the environment variable consulted when no explicit
	// token is given.
	EnvToken = "WARDROBE_TOKEN"

	tokenFileName = "token"
	configDirName = "wardrobe"
)

// Known test deployments accept a fixed development token so automated
// runs don't need a login flow. This is documented behavior of the
// backend, not a security boundary: the token only works against these
// hosts and they serve synthetic data.
var testHostTokens = map[string]string{
	"localhost":             "dev-bypass-token",
	"127.0.0.1":             "dev-bypass-token",
	"staging.wardrobe.test": "dev-bypass-token",
}

// Resolve returns the bearer token for the given API base URL, trying in
// order: the explicit value, the WARDROBE_TOKEN environment variable, the
// token file under the user config dir, and finally the test-host bypass.
// Returns "" when nothing applies; callers surface that as Unauthorized.
func Resolve(explicit, apiBase string) string {
	if explicit != "" {
		return explicit
	}
	if tok := os.Getenv(EnvToken); tok != "" {
		return tok
	}
	if tok, err := readTokenFile(); err == nil && tok != "" {
		return tok
	}
	if host := hostOf(apiBase); host != "" {
		if tok, ok := testHostTokens[host]; ok {
			return tok
		}
	}
	return ""
}

// SaveToken persists the token to the user config dir for later runs.
func SaveToken(token string) error {
	path, err := tokenFilePath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(token+"\n"), 0600); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}
	return nil
}

// Expired reports whether the token is a JWT with an exp claim in the
// past. The signature is NOT verified here — the backend does that; this
// only exists to warn before the first request instead of after a 401.
// Non-JWT tokens and tokens without exp are treated as not expired.
func Expired(token string) bool {
	parser := jwt.NewParser()
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(time.Now())
}

func tokenFilePath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate config directory: %w", err)
	}
	return filepath.Join(dir, configDirName, tokenFileName), nil
}

func readTokenFile() (string, error) {
	path, err := tokenFilePath()
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

func hostOf(apiBase string) string {
	parsed, err := url.Parse(apiBase)
	if err != nil {
		return ""
	}
	return parsed.Hostname()
}
