package config

import (
	"os"
	"path/filepath"
	"testing"

	"stockbot/internal/dialog"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadProfile_MissingFileUsesDefaults(t *testing.T) {
	profile, err := LoadProfile(filepath.Join(t.TempDir(), "no-such-profile.yaml"))
	require.NoError(t, err)
	assert.Equal(t, dialog.DefaultResponses().Help, profile.Responses.Help)
	assert.Contains(t, profile.Entities.Quantity, "수량")
}

func TestLoadProfile_OverridesMergeWithDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.yaml")
	content := `
entities:
  quantity: ["수량", "qty"]
responses:
  order_prompt: "주문 정보를 더 알려주세요."
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	profile, err := LoadProfile(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"수량", "qty"}, profile.Entities.Quantity)
	assert.Equal(t, "주문 정보를 더 알려주세요.", profile.Responses.OrderPrompt)
	// Everything not overridden keeps the compiled-in default.
	assert.Equal(t, dialog.DefaultResponses().Help, profile.Responses.Help)
	assert.Equal(t, dialog.DefaultResponses().CancelAck, profile.Responses.CancelAck)
}

func TestLoadProfile_MalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("entities: [not: a: map"), 0o644))

	_, err := LoadProfile(path)
	require.Error(t, err)
}
