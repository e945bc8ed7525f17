package guards

import (
	"math"
	"testing"

	"pricing-guard/core/types"
)

func TestCheckResult(t *testing.T) {
	original := types.Prices{"mtpl": 400, "casco_basic_100": 900}

	tests := []struct {
		name    string
		fixed   types.Prices
		after   []types.Violation
		wantErr bool
	}{
		{"unchanged", types.Prices{"mtpl": 400, "casco_basic_100": 900}, nil, false},
		{"values changed", types.Prices{"mtpl": 400, "casco_basic_100": 1000}, nil, false},
		{"dropped key", types.Prices{"mtpl": 400}, nil, true},
		{"renamed key", types.Prices{"mtpl": 400, "casco_basic_200": 900}, nil, true},
		{"nan", types.Prices{"mtpl": 400, "casco_basic_100": math.NaN()}, nil, true},
		{"zero", types.Prices{"mtpl": 0, "casco_basic_100": 900}, nil, true},
		{"dirty converged", types.Prices{"mtpl": 400, "casco_basic_100": 900}, []types.Violation{{Rule: "x"}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report := types.NewFixReport()
			if tt.after != nil {
				report.ViolationsAfter = tt.after
			}
			r := &types.FixResult{FixedPrices: tt.fixed, Converged: true, Report: report}

			err := CheckResult(original, r)
			if (err != nil) != tt.wantErr {
				t.Errorf("CheckResult() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConvergedCleanIgnoresUnconverged(t *testing.T) {
	report := types.NewFixReport()
	report.ViolationsAfter = []types.Violation{{Rule: "x"}}
	if err := ConvergedClean(&types.FixResult{Converged: false, Report: report}); err != nil {
		t.Errorf("unconverged results may carry violations: %v", err)
	}
}
