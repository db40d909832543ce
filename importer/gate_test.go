package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSupportsImport(t *testing.T) {
	tests := []struct {
		version string
		want    bool
	}{
		{"0.12.4", true},
		{"0.13.5", true},
		{"1.9.8", true},
		{"0.12.3", false},
		{"0.11.0", false},
		{"", false},
		{"not-a-version", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, SupportsImport(tt.version), "version %q", tt.version)
	}
}

func TestSupportsShellImport(t *testing.T) {
	assert.True(t, SupportsShellImport("0.13.5", true))
	assert.True(t, SupportsShellImport("1.9.8", true))

	assert.False(t, SupportsShellImport("0.13.4", true), "below the shell minimum")
	assert.False(t, SupportsShellImport("0.13.5", false), "no live shell session")
	assert.False(t, SupportsShellImport("", true))
}
