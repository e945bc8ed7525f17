package output

import (
	"fmt"
	"io"
	"strings"

	"pricing-guard/core/types"
)

const rule = "─────────────────────────────────────────────────────────────────────"

// CLIFormatter renders plain-text tables for terminals
type CLIFormatter struct {
	opts Options
}

// Format returns the format type
func (f *CLIFormatter) Format() Format { return FormatCLI }

// Render writes the report
func (f *CLIFormatter) Render(w io.Writer, report *Report) error {
	ew := &errWriter{w: w}

	ew.println("")
	if report.IsFix() {
		ew.println("PRICE TABLE FIX REPORT")
	} else {
		ew.println("PRICE TABLE VALIDATION REPORT")
	}
	ew.println(strings.Repeat("═", 69))
	if report.Source != "" {
		ew.printf("Source:      %s\n", report.Source)
	}
	ew.printf("Keys:        %d\n", len(report.Original))

	if !report.IsFix() {
		ew.printf("Violations:  %d\n", len(report.Violations))
		ew.println("")
		f.violations(ew, "VIOLATIONS", report.Violations)
		return ew.err
	}

	res := report.Result
	ew.printf("Status:      %s\n", status(res))
	ew.printf("Violations:  %d before, %d after\n", len(res.Report.ViolationsBefore), len(res.Report.ViolationsAfter))
	ew.printf("Run:         %s\n", res.Metadata.RunID)
	ew.printf("Input hash:  %s\n", shortHash(res.Metadata.InputHash))
	ew.println("")

	changed := make(map[string]bool)
	for _, k := range res.ChangedKeys(report.Original) {
		changed[k] = true
	}

	ew.println("PRICES")
	ew.println(rule)
	ew.printf("%-30s %16s %16s  %s\n", "KEY", "ORIGINAL", "FIXED", "")
	ew.println(rule)
	for _, k := range res.FixedPrices.Keys() {
		mark := ""
		if changed[k] {
			mark = "*"
		}
		ew.printf("%-30s %16s %16s  %s\n",
			truncate(k, 30), f.opts.price(report.Original[k]), f.opts.price(res.FixedPrices[k]), mark)
	}
	ew.println(rule)
	ew.printf("%d of %d prices changed\n", len(changed), len(res.FixedPrices))
	ew.println("")

	if f.opts.ShowLog && len(res.Report.FixLog) > 0 {
		ew.println("FIX LOG")
		ew.println(rule)
		for i, entry := range res.Report.FixLog {
			ew.printf("%3d. %s\n", i+1, entry)
		}
		ew.println("")
	}

	if len(res.Report.ViolationsAfter) > 0 {
		f.violations(ew, "REMAINING VIOLATIONS", res.Report.ViolationsAfter)
	}
	return ew.err
}

func (f *CLIFormatter) violations(ew *errWriter, title string, vs []types.Violation) {
	if len(vs) == 0 {
		ew.println("✓ no violations")
		ew.println("")
		return
	}
	ew.println(title)
	ew.println(rule)
	for _, v := range vs {
		ew.printf("✗ [%s] %s: %s\n", v.Category, v.Rule, v.Message)
		ew.printf("    %s = %s, %s = %s\n",
			v.LeftKey, f.opts.price(v.LeftValue), v.RightKey, f.opts.price(v.RightValue))
	}
	ew.println("")
}

// errWriter keeps the first write error so rendering code stays linear
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) printf(format string, args ...interface{}) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintf(e.w, format, args...)
}

func (e *errWriter) println(s string) {
	if e.err != nil {
		return
	}
	_, e.err = fmt.Fprintln(e.w, s)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}

func shortHash(h string) string {
	if len(h) > 16 {
		return h[:16]
	}
	return h
}
