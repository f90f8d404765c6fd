package usecase

import (
	"bytes"
	_ "embed"

	"github.com/shandysiswandi/gatekeep/internal/pkg/validator"
	"github.com/spf13/cast"
)

// Validation groups of the member inputs.
const (
	GroupCreate validator.Group = "create"
	GroupUpdate validator.Group = "update"
	GroupLookup validator.Group = "lookup"
	GroupList   validator.Group = "list"
)

// KindCityRequiresZip rejects an address with a city but no zip code.
const KindCityRequiresZip validator.Kind = "city-requires-zip"

//go:embed schema.yaml
var schemaYAML []byte

// addressed is implemented by inputs carrying an address.
type addressed interface {
	address() (city, zip string)
}

func cityRequiresZip(value any, params validator.Params) bool {
	if cast.ToInt(params[validator.FieldViolations]) > 0 {
		return true
	}

	in, ok := value.(addressed)
	if !ok {
		return true
	}

	city, zip := in.address()
	return city == "" || zip != ""
}

// NewValidator builds the executor for every member input.
func NewValidator(opts ...validator.ExecutorOption) (*validator.Executor, error) {
	schema, err := validator.LoadSchema(bytes.NewReader(schemaYAML))
	if err != nil {
		return nil, err
	}

	if err := schema.RegisterCustomRule(KindCityRequiresZip, cityRequiresZip,
		validator.WithDefaultMessage("zip code is required when city is set")); err != nil {
		return nil, err
	}

	return validator.NewExecutor(schema, opts...)
}
