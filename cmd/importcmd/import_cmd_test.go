package importcmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSettings_Defaults(t *testing.T) {
	cmd := NewCommand()

	settings, jdk, err := loadSettings(cmd, t.TempDir())
	require.NoError(t, err)

	assert.Empty(t, settings.LauncherPath)
	assert.True(t, settings.Download)
	assert.False(t, settings.ResolveClassifiers)
	assert.False(t, settings.ResolveJavadocs)
	assert.False(t, settings.ResolveSbtClassifiers)
	assert.Empty(t, jdk)
}

func TestLoadSettings_ConfigFileOverridesDefaults(t *testing.T) {
	root := t.TempDir()
	config := "launcher: /opt/sbt-structure\njavadocs: true\njdk: temurin-17\n"
	require.NoError(t, os.WriteFile(filepath.Join(root, ".keel.yaml"), []byte(config), 0644))

	cmd := NewCommand()
	settings, jdk, err := loadSettings(cmd, root)
	require.NoError(t, err)

	assert.Equal(t, "/opt/sbt-structure", settings.LauncherPath)
	assert.True(t, settings.ResolveJavadocs)
	assert.Equal(t, "temurin-17", jdk)
}

func TestLoadSettings_ExplicitFlagWinsOverConfigFile(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, ".keel.yaml"), []byte("javadocs: true\n"), 0644))

	cmd := NewCommand()
	require.NoError(t, cmd.Flags().Set("javadocs", "false"))

	settings, _, err := loadSettings(cmd, root)
	require.NoError(t, err)
	assert.False(t, settings.ResolveJavadocs)
}
