package middleware

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateSeverity(t *testing.T) {
	for _, s := range []string{"", "style", "info", "warning", "error", "WARNING"} {
		assert.NoError(t, ValidateSeverity(s), s)
	}
	for _, s := range []string{"critical", "verbose", "warn"} {
		assert.Error(t, ValidateSeverity(s), s)
	}
}

func TestValidateDockerTag(t *testing.T) {
	assert.NoError(t, ValidateDockerTag(""))
	assert.NoError(t, ValidateDockerTag("stable"))
	assert.NoError(t, ValidateDockerTag("v0.10.0"))
	assert.Error(t, ValidateDockerTag("bad tag"))
	assert.Error(t, ValidateDockerTag("tag;rm -rf /"))
}

func TestValidatePath(t *testing.T) {
	assert.NoError(t, ValidatePath(""))
	assert.NoError(t, ValidatePath("/srv/repos/app"))
	assert.NoError(t, ValidatePath("scripts/deploy"))

	assert.Error(t, ValidatePath("../../etc/passwd"))
	assert.Error(t, ValidatePath("/etc/shadow"))
	assert.Error(t, ValidatePath("/proc/self"))
	assert.Error(t, ValidatePath("scripts; rm -rf /"))
	assert.Error(t, ValidatePath("scripts$(whoami)"))
}

func TestValidateTenantID(t *testing.T) {
	assert.NoError(t, ValidateTenantID("acme"))
	assert.NoError(t, ValidateTenantID("team_ci-01"))
	assert.Error(t, ValidateTenantID(""))
	assert.Error(t, ValidateTenantID("a b"))
	assert.Error(t, ValidateTenantID("tenant/../admin"))
}

func TestValidateCheckID(t *testing.T) {
	assert.NoError(t, ValidateCheckID("0b1ff531-9025-4cfe-8a43-373b2d6b05a1-shellcheck"))
	assert.Error(t, ValidateCheckID(""))
	assert.Error(t, ValidateCheckID("0b1ff531-9025-4cfe-8a43-373b2d6b05a1"))
	assert.Error(t, ValidateCheckID("not-a-uuid-shellcheck"))
}

func TestValidateLimitBounds(t *testing.T) {
	assert.Equal(t, 20, ValidateLimit(0))
	assert.Equal(t, 20, ValidateLimit(-5))
	assert.Equal(t, 50, ValidateLimit(50))
	assert.Equal(t, 100, ValidateLimit(1000))
}

func TestValidateDaysBounds(t *testing.T) {
	assert.Equal(t, 7, ValidateDays(0))
	assert.Equal(t, 30, ValidateDays(30))
	assert.Equal(t, 365, ValidateDays(4000))
}

func TestSanitizeString(t *testing.T) {
	assert.Equal(t, "hello", SanitizeString("  hello \x00"))
	assert.Equal(t, "a\tb", SanitizeString("a\tb\x07"))
}
