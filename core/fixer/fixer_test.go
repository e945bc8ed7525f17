package fixer

import (
	"strings"
	"testing"

	"pricing-guard/core/parser"
	"pricing-guard/core/types"
	"pricing-guard/internal/pricetest"
)

func parse(t *testing.T, prices types.Prices) []types.PricingItem {
	t.Helper()
	items, err := parser.NewDefaultParser().ParseAll(prices)
	if err != nil {
		t.Fatalf("ParseAll: %v", err)
	}
	return items
}

func TestFixPassNoChangeOnCompliantInput(t *testing.T) {
	prices := pricetest.Consistent(400)
	before := prices.Clone()
	report := types.NewFixReport()

	if NewDefaultFixer().FixPass(prices, parse(t, prices), report) {
		t.Fatal("FixPass reported a change on a compliant table")
	}
	for k, v := range before {
		if prices[k] != v {
			t.Errorf("%s changed from %v to %v", k, v, prices[k])
		}
	}
	if len(report.FixLog) != 0 {
		t.Errorf("expected empty fix log, got %v", report.FixLog)
	}
}

func TestDeductibleLadderRebuiltFrom100(t *testing.T) {
	prices := pricetest.Consistent(400)
	prices["casco_basic_200"] = prices["casco_basic_100"] * 2
	prices["casco_basic_500"] = prices["casco_basic_100"] * 3
	report := types.NewFixReport()

	f := NewDefaultFixer()
	if !f.EnforceDeductibleLadder(prices, parse(t, prices), report) {
		t.Fatal("expected a change")
	}

	p100 := prices["casco_basic_100"]
	if !pricetest.ApproxEqual(prices["casco_basic_200"], 0.90*p100) {
		t.Errorf("200 tier: got %v, want %v", prices["casco_basic_200"], 0.90*p100)
	}
	if !pricetest.ApproxEqual(prices["casco_basic_500"], 0.80*p100) {
		t.Errorf("500 tier: got %v, want %v", prices["casco_basic_500"], 0.80*p100)
	}
	if p100 != 900 {
		t.Errorf("100 tier must not change, got %v", p100)
	}

	want := []string{
		"[deductible] casco_basic_200: 1800.000000 -> 810.000000",
		"[deductible] casco_basic_500: 2700.000000 -> 720.000000",
	}
	if len(report.FixLog) != len(want) {
		t.Fatalf("expected %d log entries, got %v", len(want), report.FixLog)
	}
	for i, w := range want {
		if report.FixLog[i] != w {
			t.Errorf("log %d: got %q, want %q", i, report.FixLog[i], w)
		}
	}
}

func TestDeductibleViolationInUpperPairRebuildsWholeLadder(t *testing.T) {
	prices := pricetest.Consistent(400)
	prices["limited_casco_comfort_200"] = 700 // still below 100 (749) but
	prices["limited_casco_comfort_500"] = 701 // 200 <= 500
	report := types.NewFixReport()

	NewDefaultFixer().EnforceDeductibleLadder(prices, parse(t, prices), report)

	p100 := prices["limited_casco_comfort_100"]
	if !pricetest.ApproxEqual(prices["limited_casco_comfort_200"], 0.9*p100) {
		t.Errorf("200 tier must be rebuilt even though 100 > 200 held, got %v", prices["limited_casco_comfort_200"])
	}
	if !pricetest.ApproxEqual(prices["limited_casco_comfort_500"], 0.8*p100) {
		t.Errorf("500 tier: got %v", prices["limited_casco_comfort_500"])
	}
}

func TestDeductibleLadderWithout100Untouched(t *testing.T) {
	prices := types.Prices{
		"mtpl":            400,
		"casco_basic_200": 800,
		"casco_basic_500": 900,
	}
	if NewDefaultFixer().EnforceDeductibleLadder(prices, parse(t, prices), types.NewFixReport()) {
		t.Fatal("ladders without a 100 tier have no anchor to rebuild from")
	}
	if prices["casco_basic_200"] != 800 || prices["casco_basic_500"] != 900 {
		t.Errorf("prices changed: %v", prices)
	}
}

func TestVariantLadderRebuiltFromBase(t *testing.T) {
	prices := pricetest.Consistent(400)
	prices["limited_casco_compact_100"] = 720 // base is now max(compact, basic)
	prices["limited_casco_comfort_100"] = prices["limited_casco_basic_100"] * 0.5
	prices["limited_casco_premium_100"] = prices["limited_casco_basic_100"] * 0.6
	report := types.NewFixReport()

	if !NewDefaultFixer().EnforceVariantLadder(prices, parse(t, prices), report) {
		t.Fatal("expected a change")
	}

	base := 720.0
	if !pricetest.ApproxEqual(prices["limited_casco_comfort_100"], 1.07*base) {
		t.Errorf("comfort: got %v, want %v", prices["limited_casco_comfort_100"], 1.07*base)
	}
	if !pricetest.ApproxEqual(prices["limited_casco_premium_100"], 1.14*base) {
		t.Errorf("premium: got %v, want %v", prices["limited_casco_premium_100"], 1.14*base)
	}
	if prices["limited_casco_compact_100"] != 720 || prices["limited_casco_basic_100"] != 700 {
		t.Error("base tiers must not change")
	}
	if len(report.FixLog) != 2 {
		t.Errorf("expected one log entry per rebuilt tier, got %v", report.FixLog)
	}
}

func TestProductMinimaScalingPreservesRatios(t *testing.T) {
	prices := pricetest.Consistent(400)
	for k := range prices {
		if k != "mtpl" {
			prices[k] *= 0.25
		}
	}
	old := prices.Clone()
	items := parse(t, prices)
	report := types.NewFixReport()

	if !NewDefaultFixer().EnforceProductMinima(prices, items, report) {
		t.Fatal("expected a change")
	}

	mins := map[types.Product]float64{}
	for _, it := range items {
		if it.IsAnchor() {
			continue
		}
		if m, ok := mins[it.Product]; !ok || prices[it.Key] < m {
			mins[it.Product] = prices[it.Key]
		}
	}
	if !pricetest.ApproxEqual(mins[types.ProductLimitedCasco], 700) {
		t.Errorf("min(limited_casco) = %v, want 700", mins[types.ProductLimitedCasco])
	}
	if !pricetest.ApproxEqual(mins[types.ProductCasco], 900) {
		t.Errorf("min(casco) = %v, want 900", mins[types.ProductCasco])
	}

	pairs := [][2]string{
		{"casco_premium_100", "casco_compact_500"},
		{"casco_comfort_200", "casco_basic_100"},
		{"limited_casco_premium_500", "limited_casco_basic_200"},
	}
	for _, p := range pairs {
		if !pricetest.RelEqual(prices[p[0]]/prices[p[1]], old[p[0]]/old[p[1]]) {
			t.Errorf("ratio %s/%s not preserved", p[0], p[1])
		}
	}
	if prices["mtpl"] != 400 {
		t.Error("mtpl must not change")
	}
	if len(report.FixLog) != 2 || !strings.HasPrefix(report.FixLog[0], "[product-min] scaled limited_casco by ") {
		t.Errorf("expected one log entry per scaled group, got %v", report.FixLog)
	}
}

func TestCrossProductRebasesOnlyViolatingCell(t *testing.T) {
	prices := pricetest.Consistent(400)
	prices["limited_casco_basic_100"] = 2000
	prices["casco_basic_100"] = 1500
	untouched := prices["casco_basic_200"]
	report := types.NewFixReport()

	if !NewDefaultFixer().EnforceCrossProduct(prices, parse(t, prices), report) {
		t.Fatal("expected a change")
	}

	want := 900.0 / 700.0 * 2000
	if !pricetest.ApproxEqual(prices["casco_basic_100"], want) {
		t.Errorf("casco_basic_100 = %v, want %v", prices["casco_basic_100"], want)
	}
	if prices["limited_casco_basic_100"] != 2000 {
		t.Error("limited casco must not change")
	}
	if prices["casco_basic_200"] != untouched {
		t.Error("other casco cells must not change")
	}
	wantLog := "[product] casco_basic_100: 1500.000000 -> 2571.428571 (rebase vs limited_casco_basic_100)"
	if len(report.FixLog) != 1 || report.FixLog[0] != wantLog {
		t.Errorf("unexpected log %v", report.FixLog)
	}
}

func TestAnchorReplacedWhenOutlier(t *testing.T) {
	prices := pricetest.Consistent(40000)
	report := types.NewFixReport()

	if !NewDefaultFixer().SetAnchor(prices, parse(t, prices), report) {
		t.Fatal("expected anchor replacement")
	}

	// both casco groups sit at mean factor 1.0525 * 0.9 of their reference
	want := 400 * 1.0525 * 0.9
	if !pricetest.RelEqual(prices["mtpl"], want) {
		t.Errorf("mtpl = %v, want %v", prices["mtpl"], want)
	}
	if len(report.FixLog) != 1 || !strings.HasPrefix(report.FixLog[0], "[anchor] mtpl 40000.000000 -> ") {
		t.Errorf("unexpected log %v", report.FixLog)
	}
}

func TestAnchorKeptWithinTolerance(t *testing.T) {
	prices := pricetest.Consistent(1000)

	if NewDefaultFixer().SetAnchor(prices, parse(t, prices), types.NewFixReport()) {
		t.Fatal("anchor within tolerance must be trusted")
	}
	if prices["mtpl"] != 1000 {
		t.Errorf("mtpl changed to %v", prices["mtpl"])
	}

	// A tighter threshold flags the same anchor.
	if !NewDefaultFixer(WithTauOutlier(2.0)).SetAnchor(prices, parse(t, prices), types.NewFixReport()) {
		t.Fatal("expected replacement with tau=2")
	}
}

func TestAnchorDisabled(t *testing.T) {
	prices := pricetest.Consistent(40000)
	report := types.NewFixReport()

	NewDefaultFixer(WithAnchor(false)).FixPass(prices, parse(t, prices), report)

	if prices["mtpl"] != 40000 {
		t.Errorf("disabled anchor correction changed mtpl to %v", prices["mtpl"])
	}
	for _, line := range report.FixLog {
		if strings.HasPrefix(line, "[anchor]") {
			t.Errorf("unexpected anchor entry %q", line)
		}
	}
}

func TestAnchorAloneIsItsOwnReference(t *testing.T) {
	prices := types.Prices{"mtpl": 12345}
	if NewDefaultFixer().SetAnchor(prices, parse(t, prices), types.NewFixReport()) {
		t.Fatal("a lone anchor cannot be an outlier")
	}
}

func TestMedian(t *testing.T) {
	tests := []struct {
		in   []float64
		want float64
	}{
		{[]float64{3}, 3},
		{[]float64{4, 1}, 2.5},
		{[]float64{100, 0.9, 1.1}, 1.1},
	}
	for _, tt := range tests {
		if got := median(tt.in); got != tt.want {
			t.Errorf("median(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
