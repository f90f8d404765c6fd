package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/joho/godotenv"
	"github.com/samber/lo"
	"github.com/spf13/cast"
	"github.com/spf13/viper"
)

// ProfilesKey lists the active profiles, comma separated, in activation order.
const ProfilesKey = "app.profiles.active"

var errFileNotFound = errors.New("config file not found")

// Loader materializes layers from config files and the process environment.
//
// Files are read with viper, so any format it supports works; the base file
// is <Dir>/<Name>.<ext> and each active profile adds <Dir>/<Name>.<profile>.<ext>.
type Loader struct {
	// Dir is the directory holding the config files.
	Dir string
	// Name is the base file name without extension. Defaults to "config".
	Name string
	// EnvPrefix selects environment variables, e.g. "GATEKEEP_". The prefix is stripped.
	EnvPrefix string
	// DotEnv lists optional .env files merged under the process environment.
	DotEnv []string
	// Overrides are explicit runtime overrides, the highest precedence tier.
	Overrides map[string]string
	// Environ returns the process environment. Defaults to os.Environ.
	Environ func() []string

	watchMu sync.Mutex
	watched map[string]struct{}
}

func (l *Loader) name() string {
	if l.Name == "" {
		return "config"
	}
	return l.Name
}

// Load returns the layers of one resolution cycle: base, profiles, environment, override.
func (l *Loader) Load() ([]Layer, error) {
	baseValues, err := l.readFile(l.name())
	if err != nil {
		return nil, fmt.Errorf("config: read base file: %w", err)
	}
	base := Base(baseValues)

	envValues, err := l.environment()
	if err != nil {
		return nil, err
	}
	env := Environment(envValues)
	override := Override(StringValues(l.Overrides))

	layers := []Layer{base}
	for _, profile := range activeProfiles(override, env, base) {
		values, err := l.readFile(l.name() + "." + profile)
		if errors.Is(err, errFileNotFound) {
			slog.Warn("config profile file not found, skipping", "profile", profile, "dir", l.Dir)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("config: read profile %q: %w", profile, err)
		}
		layers = append(layers, Profile(profile, values))
	}

	return append(layers, env, override), nil
}

// Watch calls onChange whenever the base file or a file of profiles changes.
// Files already watched are skipped, so it is safe to call again when the
// active profiles change.
func (l *Loader) Watch(profiles []string, onChange func()) error {
	names := append([]string{l.name()}, lo.Map(profiles, func(p string, _ int) string {
		return l.name() + "." + p
	})...)

	l.watchMu.Lock()
	defer l.watchMu.Unlock()
	if l.watched == nil {
		l.watched = make(map[string]struct{})
	}

	for _, name := range names {
		if _, ok := l.watched[name]; ok {
			continue
		}

		v := viper.New()
		v.AddConfigPath(l.Dir)
		v.SetConfigName(name)

		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if errors.As(err, &notFound) {
				continue
			}
			return err
		}

		v.OnConfigChange(func(e fsnotify.Event) {
			slog.Info("config file changed", "path", e.Name, "op", e.Op.String())
			onChange()
		})
		v.WatchConfig()
		l.watched[name] = struct{}{}
	}

	return nil
}

func (l *Loader) readFile(name string) (map[string]any, error) {
	v := viper.New()
	v.AddConfigPath(l.Dir)
	v.SetConfigName(name)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil, fmt.Errorf("%w: %s in %s", errFileNotFound, name, l.Dir)
		}
		return nil, err
	}

	return v.AllSettings(), nil
}

// ReadLayer parses an in-memory document of configType ("yaml", "json", "toml", ...)
// into a layer.
func ReadLayer(name string, tier Tier, configType string, data []byte) (Layer, error) {
	if strings.TrimSpace(configType) == "" {
		return Layer{}, errors.New("config type is required")
	}

	v := viper.New()
	v.SetConfigType(configType)

	if err := v.ReadConfig(strings.NewReader(string(data))); err != nil {
		return Layer{}, err
	}

	return Layer{Name: name, Tier: tier, Values: v.AllSettings()}, nil
}

func (l *Loader) environment() (map[string]any, error) {
	out := make(map[string]any)

	if len(l.DotEnv) > 0 {
		var files []string
		for _, f := range l.DotEnv {
			if _, err := os.Stat(f); errors.Is(err, fs.ErrNotExist) {
				continue
			}
			files = append(files, f)
		}

		if len(files) > 0 {
			dotenv, err := godotenv.Read(files...)
			if err != nil {
				return nil, fmt.Errorf("config: read dotenv: %w", err)
			}
			for k, v := range dotenv {
				if key, ok := l.stripPrefix(k); ok {
					out[key] = v
				}
			}
		}
	}

	environ := l.Environ
	if environ == nil {
		environ = os.Environ
	}
	for _, kv := range environ() {
		k, v, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		if key, ok := l.stripPrefix(k); ok {
			out[key] = v
		}
	}

	return out, nil
}

func (l *Loader) stripPrefix(k string) (string, bool) {
	if l.EnvPrefix == "" {
		return k, true
	}
	if !strings.HasPrefix(strings.ToUpper(k), strings.ToUpper(l.EnvPrefix)) {
		return "", false
	}
	key := k[len(l.EnvPrefix):]
	return key, key != ""
}

// activeProfiles reads ProfilesKey from the highest precedence layer defining it.
func activeProfiles(layers ...Layer) []string {
	want := NormalizeKey(ProfilesKey)

	for _, layer := range layers {
		flat := make(map[string]any)
		flatten("", layer.Values, flat)

		for _, rawKey := range sortedKeys(flat) {
			if NormalizeKey(rawKey) != want {
				continue
			}

			raw := flat[rawKey]
			var profiles []string
			if s, ok := raw.(string); ok {
				profiles = strings.Split(s, ",")
			} else {
				profiles = cast.ToStringSlice(raw)
			}

			out := make([]string, 0, len(profiles))
			for _, p := range profiles {
				if p = strings.TrimSpace(p); p != "" {
					out = append(out, p)
				}
			}
			return out
		}
	}

	return nil
}
