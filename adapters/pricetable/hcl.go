package pricetable

import (
	"fmt"
	"sort"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/zclconf/go-cty/cty"

	"pricing-guard/core/types"
	"pricing-guard/internal/errors"
)

// HCLCodec handles HCL files made of top-level attributes:
//
//	mtpl            = 400
//	casco_basic_100 = 900
type HCLCodec struct{}

// Name returns the format name
func (HCLCodec) Name() string { return "hcl" }

// Extensions returns the handled extensions
func (HCLCodec) Extensions() []string { return []string{".hcl"} }

// Decode parses an HCL price table. Every attribute must evaluate, without
// variables or functions, to a known number.
func (HCLCodec) Decode(data []byte, filename string) (types.Prices, error) {
	file, diags := hclparse.NewParser().ParseHCL(data, filename)
	if diags.HasErrors() {
		return nil, diagError(filename, diags)
	}

	attrs, diags := file.Body.JustAttributes()
	if diags.HasErrors() {
		return nil, diagError(filename, diags)
	}

	names := make([]string, 0, len(attrs))
	for name := range attrs {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make(types.Prices, len(attrs))
	for _, name := range names {
		attr := attrs[name]
		val, diags := attr.Expr.Value(nil)
		if diags.HasErrors() {
			return nil, diagError(filename, diags)
		}
		if val.IsNull() || !val.IsKnown() || val.Type() != cty.Number {
			return nil, errors.Newf(errors.TypeInput, "price of %q must be a number, got %s", name, val.Type().FriendlyName()).
				WithContext("file", filename).
				WithContext("line", attr.Range.Start.Line)
		}
		f, _ := val.AsBigFloat().Float64()
		out[name] = f
	}
	return out, nil
}

// Encode renders an HCL price table with sorted attributes
func (HCLCodec) Encode(prices types.Prices) ([]byte, error) {
	f := hclwrite.NewEmptyFile()
	body := f.Body()
	for _, k := range prices.Keys() {
		if !hclsyntax.ValidIdentifier(k) {
			return nil, errors.Newf(errors.TypeInput, "key %q is not a valid HCL identifier", k)
		}
		body.SetAttributeValue(k, cty.NumberFloatVal(prices[k]))
	}
	return hclwrite.Format(f.Bytes()), nil
}

func diagError(filename string, diags hcl.Diagnostics) error {
	var msgs []string
	line := 0
	for _, d := range diags {
		if d.Severity != hcl.DiagError {
			continue
		}
		if line == 0 && d.Subject != nil {
			line = d.Subject.Start.Line
		}
		msgs = append(msgs, d.Summary+": "+d.Detail)
	}
	return errors.Parsing("invalid HCL price table", fmt.Errorf("%s", strings.Join(msgs, "; "))).
		WithContext("file", filename).
		WithContext("line", line)
}
