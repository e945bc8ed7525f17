package output

import (
	"io"

	"pricing-guard/core/types"
)

// MarkdownFormatter renders a report suitable for PR comments and wikis
type MarkdownFormatter struct {
	opts Options
}

// Format returns the format type
func (f *MarkdownFormatter) Format() Format { return FormatMarkdown }

// Render writes the report
func (f *MarkdownFormatter) Render(w io.Writer, report *Report) error {
	ew := &errWriter{w: w}

	if !report.IsFix() {
		ew.println("# Price Table Validation")
		ew.println("")
		if report.Source != "" {
			ew.printf("**Source:** `%s`\n", report.Source)
		}
		ew.printf("**Violations:** %d\n", len(report.Violations))
		ew.println("")
		f.violations(ew, report.Violations)
		return ew.err
	}

	res := report.Result
	ew.println("# Price Table Fix Report")
	ew.println("")
	if report.Source != "" {
		ew.printf("**Source:** `%s`\n", report.Source)
	}
	ew.printf("**Status:** %s\n", status(res))
	ew.printf("**Violations:** %d before, %d after\n", len(res.Report.ViolationsBefore), len(res.Report.ViolationsAfter))
	ew.println("")

	ew.println("## Changed Prices")
	ew.println("")
	changed := res.ChangedKeys(report.Original)
	if len(changed) == 0 {
		ew.println("_No prices changed._")
	} else {
		ew.println("| Key | Original | Fixed |")
		ew.println("|-----|----------|-------|")
		for _, k := range changed {
			ew.printf("| `%s` | %s | %s |\n", k, f.opts.price(report.Original[k]), f.opts.price(res.FixedPrices[k]))
		}
	}
	ew.println("")

	if f.opts.ShowLog && len(res.Report.FixLog) > 0 {
		ew.println("## Fix Log")
		ew.println("")
		for _, entry := range res.Report.FixLog {
			ew.printf("- `%s`\n", entry)
		}
		ew.println("")
	}

	if len(res.Report.ViolationsAfter) > 0 {
		ew.println("## Remaining Violations")
		ew.println("")
		f.violations(ew, res.Report.ViolationsAfter)
	}
	return ew.err
}

func (f *MarkdownFormatter) violations(ew *errWriter, vs []types.Violation) {
	if len(vs) == 0 {
		ew.println("✅ No violations.")
		return
	}
	ew.println("| Category | Rule | Left | Right |")
	ew.println("|----------|------|------|-------|")
	for _, v := range vs {
		ew.printf("| %s | `%s` | `%s` = %s | `%s` = %s |\n",
			v.Category, v.Rule, v.LeftKey, f.opts.price(v.LeftValue), v.RightKey, f.opts.price(v.RightValue))
	}
	ew.println("")
}
