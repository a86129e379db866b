// Package credentials resolves the provider secrets for each request.
package credentials

import (
	"errors"
	"os"
	"strings"
)

const (
	KeyBaseURL  = "LISTINGS_API_BASE_URL"
	KeyToken    = "LISTINGS_API_TOKEN"
	KeyAPIKey   = "LISTINGS_API_KEY"
	KeyRelayURL = "LISTINGS_RELAY_URL"
)

// ErrConfiguration matches any *ConfigurationFault via errors.Is.
var ErrConfiguration = errors.New("configuration fault")

// ConfigurationFault reports required settings that are blank or unset. It
// is terminal for the request and never retried.
type ConfigurationFault struct {
	Missing []string
}

func (e *ConfigurationFault) Error() string {
	return "configuration fault: missing " + strings.Join(e.Missing, ", ")
}

func (e *ConfigurationFault) Is(target error) bool { return target == ErrConfiguration }

// Source looks up a named configuration value; "" means unset.
type Source interface {
	Lookup(key string) string
}

type SourceFunc func(key string) string

func (f SourceFunc) Lookup(key string) string { return f(key) }

// Env reads the process environment.
var Env Source = SourceFunc(os.Getenv)

// Map is a fixed Source, handy for tests and tooling.
type Map map[string]string

func (m Map) Lookup(key string) string { return m[key] }

type Credentials struct {
	BaseURL string
	Token   string
	APIKey  string
}

// Resolve loads the three provider secrets from src.
func Resolve(src Source) (Credentials, error) {
	vals, err := lookupAll(src, KeyBaseURL, KeyToken, KeyAPIKey)
	if err != nil {
		return Credentials{}, err
	}
	return Credentials{BaseURL: vals[0], Token: vals[1], APIKey: vals[2]}, nil
}

// RelayBase loads the relay tier's base URL from src.
func RelayBase(src Source) (string, error) {
	vals, err := lookupAll(src, KeyRelayURL)
	if err != nil {
		return "", err
	}
	return vals[0], nil
}

func lookupAll(src Source, keys ...string) ([]string, error) {
	if src == nil {
		return nil, &ConfigurationFault{Missing: keys}
	}
	vals := make([]string, len(keys))
	var missing []string
	for i, k := range keys {
		vals[i] = strings.TrimSpace(src.Lookup(k))
		if vals[i] == "" {
			missing = append(missing, k)
		}
	}
	if len(missing) > 0 {
		return nil, &ConfigurationFault{Missing: missing}
	}
	return vals, nil
}
