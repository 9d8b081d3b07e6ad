package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestConfigureEchoesAppliedValues(t *testing.T) {
	limits := newRateLimitRegistry()

	res := limits.Configure(nil, strPtr("u1"), 100, 60)
	assert.Nil(t, res.Endpoint)
	require.NotNil(t, res.UserID)
	assert.Equal(t, "u1", *res.UserID)
	assert.Equal(t, 100, res.Limit)
	assert.Equal(t, 60, res.Period)
	assert.Equal(t, "Rate limiting configuration successful.", res.Status)
}

func TestAllowEnforcesConfiguredBurst(t *testing.T) {
	limits := newRateLimitRegistry()
	limits.Configure(strPtr("/prompts/refine"), nil, 2, 60)

	assert.True(t, limits.Allow("/prompts/refine", "u1"))
	assert.True(t, limits.Allow("/prompts/refine", "u2"))
	assert.False(t, limits.Allow("/prompts/refine", "u3"))
}

func TestAllowPrefersMostSpecificScope(t *testing.T) {
	limits := newRateLimitRegistry()
	limits.Configure(strPtr("/prompts/refine"), nil, 100, 60)
	limits.Configure(strPtr("/prompts/refine"), strPtr("u1"), 1, 60)

	assert.True(t, limits.Allow("/prompts/refine", "u1"))
	assert.False(t, limits.Allow("/prompts/refine", "u1"))
	// the endpoint-wide bucket still admits other callers
	assert.True(t, limits.Allow("/prompts/refine", "u2"))
}

func TestAllowWithoutRulesAdmitsEverything(t *testing.T) {
	limits := newRateLimitRegistry()
	for i := 0; i < 50; i++ {
		assert.True(t, limits.Allow("/prompts/refine", "u1"))
	}
}

func TestLoadFileInstallsRules(t *testing.T) {
	limits := newRateLimitRegistry()
	rules := []rateLimitRule{
		{Endpoint: strPtr("/prompts/refine"), Limit: 1, Period: 60},
		{Limit: 0, Period: 60}, // invalid, skipped
	}
	data, err := json.Marshal(rules)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "ratelimit.json")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	limits.loadFile(path)

	assert.True(t, limits.Allow("/prompts/refine", ""))
	assert.False(t, limits.Allow("/prompts/refine", ""))
}
