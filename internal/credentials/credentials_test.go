package credentials

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	creds, err := Resolve(Map{
		KeyBaseURL: " https://api.example.com ",
		KeyToken:   "tok",
		KeyAPIKey:  "key",
	})
	require.NoError(t, err)
	assert.Equal(t, Credentials{BaseURL: "https://api.example.com", Token: "tok", APIKey: "key"}, creds)
}

func TestResolveReportsEveryMissingKey(t *testing.T) {
	_, err := Resolve(Map{KeyToken: "tok", KeyAPIKey: "   "})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrConfiguration))

	var fault *ConfigurationFault
	require.True(t, errors.As(err, &fault))
	assert.Equal(t, []string{KeyBaseURL, KeyAPIKey}, fault.Missing)
	assert.Contains(t, err.Error(), KeyBaseURL)
}

func TestResolveNilSource(t *testing.T) {
	_, err := Resolve(nil)
	assert.ErrorIs(t, err, ErrConfiguration)
}

func TestResolveFromEnv(t *testing.T) {
	t.Setenv(KeyBaseURL, "https://api.example.com")
	t.Setenv(KeyToken, "tok")
	t.Setenv(KeyAPIKey, "")

	_, err := Resolve(Env)
	assert.ErrorIs(t, err, ErrConfiguration)

	t.Setenv(KeyAPIKey, "key")
	creds, err := Resolve(Env)
	require.NoError(t, err)
	assert.Equal(t, "key", creds.APIKey)
}

func TestRelayBase(t *testing.T) {
	_, err := RelayBase(Map{})
	assert.ErrorIs(t, err, ErrConfiguration)

	base, err := RelayBase(Map{KeyRelayURL: "https://relay.example.com"})
	require.NoError(t, err)
	assert.Equal(t, "https://relay.example.com", base)
}
