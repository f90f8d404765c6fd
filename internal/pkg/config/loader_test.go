package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
}

func TestLoader_Load(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "config.yaml", `
app:
  profiles:
    active: prod,eu
db:
  port: 5432
  user-name: base
  host: localhost
`)
	writeFile(t, dir, "config.prod.yaml", `
db:
  port: 5433
`)
	writeFile(t, dir, ".env", "GATEKEEP_FEATURE_FLAG=from-dotenv\nGATEKEEP_DB_HOST=dotenv-host\n")

	loader := &Loader{
		Dir:       dir,
		EnvPrefix: "GATEKEEP_",
		DotEnv:    []string{filepath.Join(dir, ".env"), filepath.Join(dir, ".env.missing")},
		Overrides: map[string]string{"db.host": "override-host"},
		Environ: func() []string {
			return []string{"GATEKEEP_DB_USER_NAME=env-user", "HOME=/root"}
		},
	}

	layers, err := loader.Load()
	require.NoError(t, err)

	// eu has no file and is skipped.
	require.Len(t, layers, 4)
	assert.Equal(t, []string{"default", "profile:prod", "environment", "override"},
		[]string{layers[0].Name, layers[1].Name, layers[2].Name, layers[3].Name})

	snap, err := Resolve(layers)
	require.NoError(t, err)

	assert.Equal(t, 5433, snap.GetInt("db.port"))
	assert.Equal(t, "env-user", snap.GetString("db.user-name"))
	assert.Equal(t, "from-dotenv", snap.GetString("feature.flag"))
	assert.Equal(t, "override-host", snap.GetString("db.host"))
	_, leaked := snap.Lookup("home")
	assert.False(t, leaked)
}

func TestLoader_ProcessEnvWinsOverDotEnv(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "config.yaml", "db:\n  host: localhost\n")
	writeFile(t, dir, ".env", "GATEKEEP_DB_HOST=from-dotenv\nGATEKEEP_DB_NAME=from-dotenv\n")

	loader := &Loader{
		Dir:       dir,
		EnvPrefix: "GATEKEEP_",
		DotEnv:    []string{filepath.Join(dir, ".env")},
		Environ: func() []string {
			return []string{"GATEKEEP_DB_HOST=from-process"}
		},
	}

	layers, err := loader.Load()
	require.NoError(t, err)

	snap, err := Resolve(layers)
	require.NoError(t, err)
	assert.Equal(t, "from-process", snap.GetString("db.host"))
	assert.Equal(t, "from-dotenv", snap.GetString("db.name"))
}

func TestLoader_ProfilesFromEnvironment(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "config.yaml", "db:\n  port: 5432\n")
	writeFile(t, dir, "config.staging.yaml", "db:\n  port: 6543\n")

	loader := &Loader{
		Dir:       dir,
		EnvPrefix: "GATEKEEP_",
		Environ: func() []string {
			return []string{"GATEKEEP_APP_PROFILES_ACTIVE=staging"}
		},
	}

	layers, err := loader.Load()
	require.NoError(t, err)

	snap, err := Resolve(layers)
	require.NoError(t, err)
	assert.Equal(t, 6543, snap.GetInt("db.port"))
	assert.Equal(t, []string{"staging"}, snap.Profiles())
}

func TestLoader_WatchAddsNewProfiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "config.yaml", "db:\n  port: 5432\n")
	writeFile(t, dir, "config.prod.yaml", "db:\n  port: 5433\n")

	loader := &Loader{Dir: dir}
	onChange := func() {}

	require.NoError(t, loader.Watch(nil, onChange))
	assert.Equal(t, map[string]struct{}{"config": {}}, loader.watched)

	require.NoError(t, loader.Watch([]string{"prod", "eu"}, onChange))
	assert.Equal(t, map[string]struct{}{"config": {}, "config.prod": {}}, loader.watched,
		"profiles without a file are not watched")

	writeFile(t, dir, "config.eu.yaml", "db:\n  port: 5434\n")
	require.NoError(t, loader.Watch([]string{"prod", "eu"}, onChange))
	assert.Len(t, loader.watched, 3)
}

func TestLoader_MissingBaseFile(t *testing.T) {
	loader := &Loader{Dir: t.TempDir(), Environ: func() []string { return nil }}

	_, err := loader.Load()
	assert.ErrorIs(t, err, errFileNotFound)
}

func TestReadLayer(t *testing.T) {
	layer, err := ReadLayer("inline", TierProfile, "json", []byte(`{"db":{"port":7000}}`))
	require.NoError(t, err)

	snap, err := Resolve([]Layer{layer})
	require.NoError(t, err)
	assert.Equal(t, 7000, snap.GetInt("db.port"))

	_, err = ReadLayer("inline", TierProfile, "", nil)
	assert.Error(t, err)
}
