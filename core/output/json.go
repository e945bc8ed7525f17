package output

import (
	"encoding/json"
	"io"

	"pricing-guard/core/types"
)

// JSONFormatter renders machine-readable JSON. Prices are emitted as JSON
// numbers rounded to the configured precision.
type JSONFormatter struct {
	opts Options
}

// Format returns the format type
func (f *JSONFormatter) Format() Format { return FormatJSON }

// Render writes the report
func (f *JSONFormatter) Render(w io.Writer, report *Report) error {
	out := map[string]interface{}{
		"source": report.Source,
		"keys":   len(report.Original),
	}

	if !report.IsFix() {
		out["violations"] = f.violations(report.Violations)
		out["valid"] = len(report.Violations) == 0
	} else {
		res := report.Result
		changed := res.ChangedKeys(report.Original)
		if changed == nil {
			changed = []string{}
		}
		out["converged"] = res.Converged
		out["iterations"] = res.Iterations
		out["fixed_prices"] = f.prices(res.FixedPrices)
		out["changed_keys"] = changed
		out["violations_before"] = f.violations(res.Report.ViolationsBefore)
		out["violations_after"] = f.violations(res.Report.ViolationsAfter)
		if f.opts.ShowLog {
			out["fix_log"] = res.Report.FixLog
		}
		out["metadata"] = res.Metadata
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(out)
}

func (f *JSONFormatter) prices(p types.Prices) map[string]json.Number {
	out := make(map[string]json.Number, len(p))
	for k, v := range p {
		out[k] = json.Number(f.opts.price(v))
	}
	return out
}

func (f *JSONFormatter) violations(vs []types.Violation) []map[string]interface{} {
	out := make([]map[string]interface{}, len(vs))
	for i, v := range vs {
		out[i] = map[string]interface{}{
			"category":    v.Category,
			"rule":        v.Rule,
			"message":     v.Message,
			"left_key":    v.LeftKey,
			"right_key":   v.RightKey,
			"left_value":  json.Number(f.opts.price(v.LeftValue)),
			"right_value": json.Number(f.opts.price(v.RightValue)),
		}
	}
	return out
}
