package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/dossier/internal/cli/config"
)

func TestNewInitCommand(t *testing.T) {
	tests := []struct {
		name       string
		setupDir   func(t *testing.T, dir string)
		args       []string
		wantConfig string
	}{
		{
			name:       "init empty directory",
			wantConfig: "driver: sqlite",
		},
		{
			name: "existing config is kept",
			setupDir: func(t *testing.T, dir string) {
				require.NoError(t, os.WriteFile(filepath.Join(dir, "dossier.yaml"), []byte("output: auto\n"), 0600))
			},
			wantConfig: "output: auto\n",
		},
		{
			name: "existing config with force",
			setupDir: func(t *testing.T, dir string) {
				require.NoError(t, os.WriteFile(filepath.Join(dir, "dossier.yaml"), []byte("output: auto\n"), 0600))
			},
			args:       []string{"--force"},
			wantConfig: "busy_timeout: 5s",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpDir := t.TempDir()
			t.Chdir(tmpDir)
			t.Cleanup(config.ResetConfig)

			if tt.setupDir != nil {
				tt.setupDir(t, tmpDir)
			}

			cmd := NewInitCommand()
			buf := new(bytes.Buffer)
			cmd.SetOut(buf)
			cmd.SetErr(buf)
			cmd.SetArgs(tt.args)

			require.NoError(t, cmd.Execute())

			content, err := os.ReadFile(filepath.Join(tmpDir, "dossier.yaml"))
			require.NoError(t, err)
			assert.Contains(t, string(content), tt.wantConfig)
			assert.FileExists(t, filepath.Join(tmpDir, "database.db"), "default store is created and migrated")
			assert.Contains(t, buf.String(), "schema version 1")
		})
	}
}

func TestInitNoConfig(t *testing.T) {
	tmpDir := t.TempDir()
	t.Chdir(tmpDir)
	t.Cleanup(config.ResetConfig)

	cmd := NewInitCommand()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetArgs([]string{"--no-config"})

	require.NoError(t, cmd.Execute())
	assert.NoFileExists(t, filepath.Join(tmpDir, "dossier.yaml"))
	assert.FileExists(t, filepath.Join(tmpDir, "database.db"))
}

func TestInitTemplateLoads(t *testing.T) {
	tmpDir := t.TempDir()
	t.Chdir(tmpDir)
	t.Cleanup(config.ResetConfig)

	written, err := writeConfigTemplate(tmpDir, false)
	require.NoError(t, err)
	require.True(t, written)

	cfg, err := config.LoadConfig("", nil)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(tmpDir, "database.db"), cfg.Store.Path)
	assert.True(t, cfg.Store.AutoMigrate)
}
