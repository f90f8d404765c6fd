package config

import (
	"encoding/base64"
	"strings"
	"time"

	"github.com/spf13/cast"
)

type entry struct {
	value any
	raw   string
	layer string
}

// Snapshot is one immutable, fully merged configuration view.
//
// A nil *Snapshot behaves as an empty configuration.
type Snapshot struct {
	values   map[string]entry
	profiles []string
}

var _ Config = (*Snapshot)(nil)

// Empty returns a snapshot without any key.
func Empty() *Snapshot {
	return &Snapshot{values: map[string]entry{}}
}

// Lookup returns the raw value for key and whether any layer defined it.
func (s *Snapshot) Lookup(key string) (any, bool) {
	if s == nil {
		return nil, false
	}
	e, ok := s.values[NormalizeKey(key)]
	return e.value, ok
}

// Origin returns the name of the layer that supplied key, or "" when absent.
func (s *Snapshot) Origin(key string) string {
	if s == nil {
		return ""
	}
	return s.values[NormalizeKey(key)].layer
}

// Keys returns the winning raw spelling of every key, sorted.
func (s *Snapshot) Keys() []string {
	if s == nil {
		return nil
	}
	keys := make([]string, 0, len(s.values))
	for _, k := range sortedKeys(s.values) {
		keys = append(keys, s.values[k].raw)
	}
	return keys
}

// Profiles returns the active profile names merged into the snapshot, in order.
func (s *Snapshot) Profiles() []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s.profiles...)
}

func (s *Snapshot) get(key string) any {
	v, _ := s.Lookup(key)
	return v
}

// GetInt returns the value for key as int.
func (s *Snapshot) GetInt(key string) int {
	return cast.ToInt(s.get(key))
}

// GetInt32 returns the value for key as int32.
func (s *Snapshot) GetInt32(key string) int32 {
	return cast.ToInt32(s.get(key))
}

// GetInt64 returns the value for key as int64.
func (s *Snapshot) GetInt64(key string) int64 {
	return cast.ToInt64(s.get(key))
}

// GetUint returns the value for key as uint.
func (s *Snapshot) GetUint(key string) uint {
	return cast.ToUint(s.get(key))
}

// GetUint16 returns the value for key as uint16.
func (s *Snapshot) GetUint16(key string) uint16 {
	return cast.ToUint16(s.get(key))
}

// GetUint32 returns the value for key as uint32.
func (s *Snapshot) GetUint32(key string) uint32 {
	return cast.ToUint32(s.get(key))
}

// GetUint64 returns the value for key as uint64.
func (s *Snapshot) GetUint64(key string) uint64 {
	return cast.ToUint64(s.get(key))
}

// GetBool returns the value for key as bool.
func (s *Snapshot) GetBool(key string) bool {
	return cast.ToBool(s.get(key))
}

// GetFloat32 returns the value for key as float32.
func (s *Snapshot) GetFloat32(key string) float32 {
	return cast.ToFloat32(s.get(key))
}

// GetFloat64 returns the value for key as float64.
func (s *Snapshot) GetFloat64(key string) float64 {
	return cast.ToFloat64(s.get(key))
}

// GetSecond returns the value for key as seconds.
func (s *Snapshot) GetSecond(key string) time.Duration {
	return time.Duration(s.GetInt64(key)) * time.Second
}

// GetMinute returns the value for key as minutes.
func (s *Snapshot) GetMinute(key string) time.Duration {
	return time.Duration(s.GetInt64(key)) * time.Minute
}

// GetHour returns the value for key as hours.
func (s *Snapshot) GetHour(key string) time.Duration {
	return time.Duration(s.GetInt64(key)) * time.Hour
}

// GetDay returns the value for key as days (24h).
func (s *Snapshot) GetDay(key string) time.Duration {
	return time.Duration(s.GetInt64(key)) * 24 * time.Hour
}

// GetString returns the value for key as string.
func (s *Snapshot) GetString(key string) string {
	return cast.ToString(s.get(key))
}

// GetBinary returns the value for key decoded from base64.
func (s *Snapshot) GetBinary(key string) []byte {
	data, err := base64.StdEncoding.DecodeString(s.GetString(key))
	if err != nil {
		return nil
	}

	return data
}

// GetArray returns the value for key as a list. Strings are split by commas.
func (s *Snapshot) GetArray(key string) []string {
	v := s.get(key)
	if v == nil {
		return nil
	}

	str, ok := v.(string)
	if !ok {
		return cast.ToStringSlice(v)
	}

	var out []string
	for _, part := range strings.Split(str, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// GetMap returns the value for key as a map. Strings are parsed from "k:v,k:v" pairs.
func (s *Snapshot) GetMap(key string) map[string]string {
	v := s.get(key)
	str, ok := v.(string)
	if !ok {
		if v == nil {
			return map[string]string{}
		}
		return cast.ToStringMapString(v)
	}

	m := make(map[string]string)
	for _, pair := range strings.Split(str, ",") {
		kv := strings.SplitN(pair, ":", 2)
		if len(kv) == 2 {
			m[strings.TrimSpace(kv[0])] = strings.TrimSpace(kv[1])
		}
	}

	return m
}
