package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/shandysiswandi/gatekeep/internal/pkg/strcase"
)

// ErrInvalidPath is returned for a field path that cannot be parsed.
var ErrInvalidPath = errors.New("validator: invalid field path")

type segment struct {
	name  string
	index int
	each  bool
	isIdx bool
}

// fieldPath is a parsed path such as "address.zip", "tags[*]" or "items[0].sku".
// An empty fieldPath addresses the object itself.
type fieldPath struct {
	raw      string
	segments []segment
}

func (p fieldPath) objectLevel() bool {
	return len(p.segments) == 0
}

func parsePath(raw string) (fieldPath, error) {
	p := fieldPath{raw: raw}
	if strings.TrimSpace(raw) == "" {
		return fieldPath{}, nil
	}

	rest := raw
	for rest != "" {
		switch {
		case rest[0] == '[':
			end := strings.IndexByte(rest, ']')
			if end < 0 {
				return fieldPath{}, fmt.Errorf("%w: %q: unclosed bracket", ErrInvalidPath, raw)
			}

			inner := rest[1:end]
			if inner == "*" {
				p.segments = append(p.segments, segment{each: true})
			} else {
				n, err := strconv.Atoi(inner)
				if err != nil || n < 0 {
					return fieldPath{}, fmt.Errorf("%w: %q: bad index %q", ErrInvalidPath, raw, inner)
				}
				p.segments = append(p.segments, segment{index: n, isIdx: true})
			}
			rest = rest[end+1:]

		case rest[0] == '.':
			if len(p.segments) == 0 || len(rest) == 1 || rest[1] == '.' || rest[1] == '[' {
				return fieldPath{}, fmt.Errorf("%w: %q: empty name", ErrInvalidPath, raw)
			}
			rest = rest[1:]

		default:
			end := strings.IndexAny(rest, ".[")
			if end < 0 {
				end = len(rest)
			}
			name := rest[:end]
			if strings.ContainsAny(name, "] ") {
				return fieldPath{}, fmt.Errorf("%w: %q: bad name %q", ErrInvalidPath, raw, name)
			}
			p.segments = append(p.segments, segment{name: name})
			rest = rest[end:]
		}
	}

	return p, nil
}

// target is one resolved value with its concrete path.
type target struct {
	path  string
	value any
}

// resolve walks obj along p. Missing or nil intermediate values resolve to a
// nil target; each-element segments fan out, one target per element.
func (p fieldPath) resolve(obj any) []target {
	var out []target
	walk(reflect.ValueOf(obj), "", p.segments, &out)
	return out
}

func walk(v reflect.Value, path string, segs []segment, out *[]target) {
	v = indirect(v)

	if len(segs) == 0 {
		*out = append(*out, target{path: path, value: interfaceOf(v)})
		return
	}

	seg := segs[0]
	switch {
	case seg.each:
		if !v.IsValid() || (v.Kind() != reflect.Slice && v.Kind() != reflect.Array) {
			return
		}
		for i := range v.Len() {
			walk(v.Index(i), indexPath(path, i), segs[1:], out)
		}

	case seg.isIdx:
		next := reflect.Value{}
		if v.IsValid() && (v.Kind() == reflect.Slice || v.Kind() == reflect.Array) && seg.index < v.Len() {
			next = v.Index(seg.index)
		}
		walk(next, indexPath(path, seg.index), segs[1:], out)

	default:
		walk(field(v, seg.name), namePath(path, seg.name), segs[1:], out)
	}
}

func indexPath(path string, i int) string {
	return path + "[" + strconv.Itoa(i) + "]"
}

func namePath(path, name string) string {
	if path == "" {
		return name
	}
	return path + "." + name
}

func indirect(v reflect.Value) reflect.Value {
	for v.IsValid() && (v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface) {
		if v.IsNil() {
			return reflect.Value{}
		}
		v = v.Elem()
	}
	return v
}

func interfaceOf(v reflect.Value) any {
	if !v.IsValid() || !v.CanInterface() {
		return nil
	}
	return v.Interface()
}

// field looks name up in a string keyed map or a struct. Struct fields match by
// json tag, Go name (case-insensitive) or snake_case name.
func field(v reflect.Value, name string) reflect.Value {
	if !v.IsValid() {
		return reflect.Value{}
	}

	switch v.Kind() {
	case reflect.Map:
		if v.Type().Key().Kind() != reflect.String {
			return reflect.Value{}
		}
		return v.MapIndex(reflect.ValueOf(name).Convert(v.Type().Key()))

	case reflect.Struct:
		t := v.Type()
		for i := range t.NumField() {
			sf := t.Field(i)
			if !sf.IsExported() {
				continue
			}
			if fieldName(sf) == name || strings.EqualFold(sf.Name, name) || strcase.ToLowerSnake(sf.Name) == name {
				return v.Field(i)
			}
		}
	}

	return reflect.Value{}
}

func fieldName(sf reflect.StructField) string {
	tag, _, _ := strings.Cut(sf.Tag.Get("json"), ",")
	if tag == "" || tag == "-" {
		return sf.Name
	}
	return tag
}
