package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"lendpool/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "lendpool.yaml")
	require.NoError(t, os.WriteFile(file, []byte("app:\n  genesis: 1603366002\n"), 0o600))

	var cfg core.Config
	require.NoError(t, Load(file, &cfg))

	assert.Equal(t, int64(1603366002), cfg.App.Genesis)
	assert.Equal(t, int64(defaultSecondsPerBlock), cfg.App.SecondsPerBlock)
	assert.Equal(t, defaultSubjectPrefix, cfg.Nats.SubjectPrefix)
	assert.Equal(t, defaultWorkerDelay, cfg.Worker.InterestDelay)
	assert.Equal(t, 30*time.Second, cfg.PriceOracle.CacheTTL)
}

func TestLoadRejectsMissingGenesis(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "lendpool.yaml")
	require.NoError(t, os.WriteFile(file, []byte("admins: [a]\n"), 0o600))

	var cfg core.Config
	assert.Error(t, Load(file, &cfg))
}
