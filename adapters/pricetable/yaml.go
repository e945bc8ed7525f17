package pricetable

import (
	"gopkg.in/yaml.v3"

	"pricing-guard/core/types"
	"pricing-guard/internal/errors"
)

// YAMLCodec handles flat YAML mappings of key: price
type YAMLCodec struct{}

// Name returns the format name
func (YAMLCodec) Name() string { return "yaml" }

// Extensions returns the handled extensions
func (YAMLCodec) Extensions() []string { return []string{".yaml", ".yml"} }

// Decode parses a YAML price table
func (YAMLCodec) Decode(data []byte, filename string) (types.Prices, error) {
	var raw map[string]interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, errors.Parsing("invalid YAML price table", err).WithContext("file", filename)
	}
	if raw == nil {
		return nil, errors.Input("price table is empty").WithContext("file", filename)
	}
	return FromValues(raw)
}

// Encode renders a YAML price table with sorted keys
func (YAMLCodec) Encode(prices types.Prices) ([]byte, error) {
	data, err := yaml.Marshal(map[string]float64(prices))
	if err != nil {
		return nil, errors.Internal("failed to encode YAML price table", err)
	}
	return data, nil
}
