package cli

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thedreamteamconsultancy/workstatus/internal/config"
)

func TestWriteConfig(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "nested", "workstatus.yaml")

	require.NoError(t, writeConfig(dest, false))

	err := writeConfig(dest, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	require.NoError(t, writeConfig(dest, true))

	v := viper.New()
	v.SetConfigFile(dest)
	require.NoError(t, v.ReadInConfig())
	cfg, err := config.Load(v)
	require.NoError(t, err)
	assert.Equal(t, config.Default().Engine, cfg.Engine)
	assert.Equal(t, config.RepositoryInMemory, cfg.Repository.Type)
}

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	versionCmd.SetOut(&out)
	t.Cleanup(func() { versionCmd.SetOut(nil) })

	versionCmd.Run(versionCmd, nil)

	assert.Contains(t, out.String(), "workstatus dev")
	assert.Contains(t, out.String(), "go version:")
}

func TestMigrate_RejectsUnknownDirection(t *testing.T) {
	viper.Set("database.url", "postgres://localhost/none")
	t.Cleanup(viper.Reset)

	err := runMigrate(migrateCmd, []string{"sideways"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown direction")
}
