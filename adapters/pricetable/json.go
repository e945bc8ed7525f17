package pricetable

import (
	"bytes"
	"encoding/json"

	"pricing-guard/core/types"
	"pricing-guard/internal/errors"
)

// JSONCodec handles flat JSON objects: {"mtpl": 400, "casco_basic_100": 900}.
// Numbers are read as exact decimals before conversion to float.
type JSONCodec struct{}

// Name returns the format name
func (JSONCodec) Name() string { return "json" }

// Extensions returns the handled extensions
func (JSONCodec) Extensions() []string { return []string{".json"} }

// Decode parses a JSON price table
func (JSONCodec) Decode(data []byte, filename string) (types.Prices, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw map[string]interface{}
	if err := dec.Decode(&raw); err != nil {
		return nil, errors.Parsing("invalid JSON price table", err).WithContext("file", filename)
	}
	if raw == nil {
		return nil, errors.Input("price table is empty").WithContext("file", filename)
	}
	return FromValues(raw)
}

// Encode renders a JSON price table with sorted keys
func (JSONCodec) Encode(prices types.Prices) ([]byte, error) {
	data, err := json.MarshalIndent(map[string]float64(prices), "", "  ")
	if err != nil {
		return nil, errors.Internal("failed to encode JSON price table", err)
	}
	return append(data, '\n'), nil
}
