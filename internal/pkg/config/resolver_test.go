package config

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve_RelaxedKeys(t *testing.T) {
	snap, err := Resolve([]Layer{Base(map[string]any{"db.user-name": "alice"})})
	require.NoError(t, err)

	for _, key := range []string{"db.user-name", "DB_USER_NAME", "dbUserName"} {
		assert.Equal(t, "alice", snap.GetString(key), key)
	}
}

func TestResolve_RelaxedKeysAcrossLayers(t *testing.T) {
	snap, err := Resolve([]Layer{
		Base(map[string]any{"db.user-name": "from-base"}),
		Environment(map[string]any{"DB_USER_NAME": "from-env"}),
	})
	require.NoError(t, err)

	assert.Equal(t, "from-env", snap.GetString("dbUserName"))
	assert.Equal(t, "environment", snap.Origin("db.user-name"))
}

func TestResolve_Precedence(t *testing.T) {
	base := Base(map[string]any{"k": "X"})
	profile := Profile("prod", map[string]any{"k": "Y"})
	override := Override(map[string]any{"k": "Z"})

	tests := []struct {
		name   string
		layers []Layer
		want   string
	}{
		{name: "base only", layers: []Layer{base}, want: "X"},
		{name: "base and profile", layers: []Layer{base, profile}, want: "Y"},
		{name: "all three", layers: []Layer{base, profile, override}, want: "Z"},
		{name: "declaration order does not beat tiers", layers: []Layer{override, profile, base}, want: "Z"},
		{
			name:   "environment beats profile",
			layers: []Layer{base, profile, Environment(map[string]any{"K": "E"})},
			want:   "E",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap, err := Resolve(tt.layers)
			require.NoError(t, err)
			assert.Equal(t, tt.want, snap.GetString("k"))
		})
	}
}

func TestResolve_ProfileOverridesBase(t *testing.T) {
	snap, err := Resolve([]Layer{
		Base(map[string]any{"db": map[string]any{"port": 5432}}),
		Profile("prod", map[string]any{"db.port": 5433}),
	})
	require.NoError(t, err)

	assert.Equal(t, 5433, snap.GetInt("db.port"))
	assert.Equal(t, []string{"prod"}, snap.Profiles())
}

func TestResolve_ProfilesLeftToRight(t *testing.T) {
	snap, err := Resolve([]Layer{
		Base(map[string]any{"region": "none", "tier": "free"}),
		Profile("prod", map[string]any{"region": "us", "tier": "paid"}),
		Profile("eu", map[string]any{"region": "eu"}),
	})
	require.NoError(t, err)

	assert.Equal(t, "eu", snap.GetString("region"))
	assert.Equal(t, "paid", snap.GetString("tier"))
	assert.Equal(t, []string{"prod", "eu"}, snap.Profiles())
}

func TestResolve_AmbiguousKey(t *testing.T) {
	_, err := Resolve([]Layer{Base(map[string]any{
		"db.user-name": "alice",
		"dbUserName":   "bob",
	})})

	var ambiguous *AmbiguousKeyError
	require.ErrorAs(t, err, &ambiguous)
	assert.Equal(t, "dbusername", ambiguous.Key)
	assert.Equal(t, "default", ambiguous.Layer)
	assert.True(t, errors.Is(err, ErrAmbiguousKey))
}

func TestResolve_SameValueDifferentSpellingIsNotAmbiguous(t *testing.T) {
	snap, err := Resolve([]Layer{Base(map[string]any{
		"db.port": 5432,
		"DB_PORT": "5432",
	})})
	require.NoError(t, err)

	assert.Equal(t, 5432, snap.GetInt("db.port"))
}

func TestResolve_Required(t *testing.T) {
	_, err := Resolve([]Layer{Base(map[string]any{"a": 1})}, WithRequired("a", "db.url"))

	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "db.url", cfgErr.Key)
	assert.ErrorIs(t, err, ErrConfig)
}

func TestResolve_RequiredSatisfiedByAnyLayer(t *testing.T) {
	_, err := Resolve([]Layer{
		Base(map[string]any{"a": 1}),
		Environment(map[string]any{"DB_URL": "postgres://"}),
	}, WithRequired("db.url"))

	assert.NoError(t, err)
}

func TestResolve_Immutable(t *testing.T) {
	t.Run("conflicting values fail", func(t *testing.T) {
		_, err := Resolve([]Layer{
			Base(map[string]any{"app.name": "gatekeep"}),
			Environment(map[string]any{"APP_NAME": "other"}),
		}, WithImmutable("app.name"))

		var cfgErr *ConfigError
		require.ErrorAs(t, err, &cfgErr)
		assert.Equal(t, "environment", cfgErr.Layer)
	})

	t.Run("equal values pass", func(t *testing.T) {
		snap, err := Resolve([]Layer{
			Base(map[string]any{"app.version": 3}),
			Environment(map[string]any{"APP_VERSION": "3"}),
		}, WithImmutable("app.version"))

		require.NoError(t, err)
		assert.Equal(t, 3, snap.GetInt("app.version"))
	})
}

func TestResolve_TypeMismatch(t *testing.T) {
	_, err := Resolve([]Layer{
		Base(map[string]any{"db.port": 5432}),
		Environment(map[string]any{"DB_PORT": "not-a-number"}),
	}, WithType("db.port", TypeInt))

	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "DB_PORT", cfgErr.Key)
	assert.Contains(t, cfgErr.Error(), "int")
}

func TestResolve_DoesNotMutateInput(t *testing.T) {
	layers := []Layer{
		Override(map[string]any{"k": "Z"}),
		Base(map[string]any{"k": "X"}),
	}

	_, err := Resolve(layers)
	require.NoError(t, err)

	assert.Equal(t, TierOverride, layers[0].Tier)
}
