package credential

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCredentialNeverPrintsSecret(t *testing.T) {
	c := New("  sk-live-123  ")

	assert.True(t, c.IsSet())
	assert.Equal(t, "sk-live-123", c.Reveal())
	assert.Equal(t, "[REDACTED]", c.String())
	assert.Equal(t, "[REDACTED]", fmt.Sprintf("%v", c))

	payload, err := json.Marshal(map[string]any{"key": c})
	require.NoError(t, err)
	assert.JSONEq(t, `{"key":"[REDACTED]"}`, string(payload))
	assert.NotContains(t, string(payload), "sk-live-123")
}

func TestEmptyCredential(t *testing.T) {
	c := New("   ")
	assert.False(t, c.IsSet())
	assert.Equal(t, "", c.String())
	assert.Equal(t, "", c.Reveal())
}

func TestStaticProvider(t *testing.T) {
	p := NewStatic("serper-key", "")
	assert.True(t, p.Search().IsSet())
	assert.False(t, p.Model().IsSet())

	var nilProvider *Static
	assert.False(t, nilProvider.Search().IsSet())
	assert.False(t, nilProvider.Model().IsSet())
}
