package validator

import (
	"errors"
	"log/slog"
	"regexp"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/spf13/cast"
)

// ErrTranslatorNotFound indicates the requested translator is unavailable.
var ErrTranslatorNotFound = errors.New("translator not found")

const (
	msgSizeMin  = "size-range-min"
	msgRangeMin = "numeric-range-min"
	msgRangeMax = "numeric-range-max"
	msgInvalid  = "invalid"
)

var defaultMessages = map[string]string{
	string(KindNotNull):  "must not be null",
	string(KindNotEmpty): "must not be empty",
	string(KindNotBlank): "must not be blank",
	string(KindSize):     "size must be between {0} and {1}",
	msgSizeMin:           "size must be at least {0}",
	string(KindRange):    "must be between {0} and {1}",
	msgRangeMin:          "must be >= {0}",
	msgRangeMax:          "must be <= {0}",
	string(KindPattern):  "must match \"{0}\"",
	string(KindEmail):    "must be a valid email",
	string(KindPositive): "must be greater than 0",
	string(KindNegative): "must be less than 0",
	string(KindPast):     "must be in the past",
	string(KindFuture):   "must be in the future",
	msgInvalid:           "is invalid",
}

// catalog renders violation messages.
type catalog struct {
	trans ut.Translator
}

func newCatalog() (*catalog, error) {
	enLang := en.New()
	uni := ut.New(enLang, enLang)
	trans, ok := uni.GetTranslator("en")
	if !ok {
		return nil, ErrTranslatorNotFound
	}

	for key, text := range defaultMessages {
		if err := trans.Add(key, text, false); err != nil {
			return nil, err
		}
	}

	return &catalog{trans: trans}, nil
}

// render returns the message of a failed constraint. A template, from the
// constraint or the custom rule, wins over the catalog.
func (c *catalog) render(kind Kind, template string, params Params) string {
	if template != "" {
		return substitute(template, params)
	}

	key, args := catalogKey(kind, params)
	msg, err := c.trans.T(key, args...)
	if err != nil {
		slog.Warn("warning: error translating", "kind", kind, "error", err)
		return defaultMessages[msgInvalid]
	}

	return msg
}

func catalogKey(kind Kind, params Params) (string, []string) {
	minVal, hasMin := params[ParamMin]
	maxVal, hasMax := params[ParamMax]

	switch kind {
	case KindSize:
		if cast.ToInt(maxVal) < 0 {
			return msgSizeMin, []string{paramString(minVal)}
		}
		return string(kind), []string{paramString(minVal), paramString(maxVal)}

	case KindRange:
		switch {
		case hasMin && hasMax:
			return string(kind), []string{paramString(minVal), paramString(maxVal)}
		case hasMin:
			return msgRangeMin, []string{paramString(minVal)}
		default:
			return msgRangeMax, []string{paramString(maxVal)}
		}

	case KindPattern:
		return string(kind), []string{paramString(params[ParamRegexp])}
	}

	if _, ok := defaultMessages[string(kind)]; ok {
		return string(kind), nil
	}
	return msgInvalid, nil
}

// substitute replaces every {name} in template with the matching param.
func substitute(template string, params Params) string {
	if len(params) == 0 || !strings.Contains(template, "{") {
		return template
	}

	pairs := make([]string, 0, len(params)*2)
	for k, v := range params {
		pairs = append(pairs, "{"+k+"}", paramString(v))
	}

	return strings.NewReplacer(pairs...).Replace(template)
}

func paramString(v any) string {
	if re, ok := v.(*regexp.Regexp); ok {
		return re.String()
	}
	return cast.ToString(v)
}
