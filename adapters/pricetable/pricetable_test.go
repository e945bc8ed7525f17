package pricetable

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"

	"pricing-guard/core/types"
	"pricing-guard/internal/errors"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadFormats(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"json", "prices.json", `{"mtpl": 400, "casco_basic_100": 900.5, "casco_basic_200": 810}`},
		{"yaml", "prices.yaml", "mtpl: 400\ncasco_basic_100: 900.5\ncasco_basic_200: 810\n"},
		{"yml", "prices.YML", "mtpl: 400\ncasco_basic_100: 900.5\ncasco_basic_200: 810\n"},
		{"hcl", "prices.hcl", "mtpl = 400\ncasco_basic_100 = 900.5\ncasco_basic_200 = 810\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prices, err := Load(writeFile(t, tt.file, tt.content))
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			want := types.Prices{"mtpl": 400, "casco_basic_100": 900.5, "casco_basic_200": 810}
			if len(prices) != len(want) {
				t.Fatalf("expected %d entries, got %v", len(want), prices)
			}
			for k, v := range want {
				if prices[k] != v {
					t.Errorf("%s: got %v, want %v", k, prices[k], v)
				}
			}
		})
	}
}

func TestLoadUnsupportedExtension(t *testing.T) {
	_, err := Load(writeFile(t, "prices.csv", "mtpl,400\n"))
	if !errors.IsType(err, errors.TypeNotSupported) {
		t.Fatalf("expected NOT_SUPPORTED, got %v", err)
	}
}

func TestLoadRejectsNonNumbers(t *testing.T) {
	tests := []struct {
		file    string
		content string
		errType errors.Type
	}{
		{"bad.json", `{"mtpl": "cheap"}`, errors.TypeInput},
		{"bad.json", `{"mtpl": 400`, errors.TypeParsing},
		{"bad.yaml", "mtpl: [1, 2]\n", errors.TypeInput},
		{"bad.hcl", "mtpl = \"cheap\"\n", errors.TypeInput},
		{"bad.hcl", "mtpl = var.price\n", errors.TypeParsing},
		{"bad.hcl", "mtpl = \n", errors.TypeParsing},
	}

	for _, tt := range tests {
		t.Run(tt.file+"/"+tt.content, func(t *testing.T) {
			_, err := Load(writeFile(t, tt.file, tt.content))
			if !errors.IsType(err, tt.errType) {
				t.Fatalf("expected %s, got %v", tt.errType, err)
			}
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	prices := types.Prices{"mtpl": 400, "casco_basic_100": 2571.4285714285716, "casco_basic_200": 810.25}

	for _, ext := range []string{".json", ".yaml", ".hcl"} {
		t.Run(ext, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "out", "fixed"+ext)
			if err := Save(path, prices); err != nil {
				t.Fatalf("Save: %v", err)
			}
			got, err := Load(path)
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			for k, v := range prices {
				if got[k] != v {
					t.Errorf("%s: got %v, want %v", k, got[k], v)
				}
			}
		})
	}
}

func TestHCLEncodeRejectsInvalidIdentifier(t *testing.T) {
	_, err := HCLCodec{}.Encode(types.Prices{" MTPL": 400})
	if !errors.IsType(err, errors.TypeInput) {
		t.Fatalf("expected INPUT_ERROR, got %v", err)
	}
}

func TestFromValues(t *testing.T) {
	raw := map[string]interface{}{
		"a": 400,
		"b": int64(500),
		"c": 1.5,
		"d": json.Number("0.1"),
		"e": decimal.RequireFromString("2.25"),
		"f": float32(0.5),
	}
	prices, err := FromValues(raw)
	if err != nil {
		t.Fatalf("FromValues: %v", err)
	}
	want := map[string]float64{"a": 400, "b": 500, "c": 1.5, "d": 0.1, "e": 2.25, "f": 0.5}
	for k, v := range want {
		if prices[k] != v {
			t.Errorf("%s: got %v, want %v", k, prices[k], v)
		}
	}

	if _, err := FromValues(map[string]interface{}{"mtpl": true}); !errors.IsType(err, errors.TypeInput) {
		t.Errorf("expected INPUT_ERROR for a bool, got %v", err)
	}
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(JSONCodec{}); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := r.Register(JSONCodec{}); err == nil {
		t.Error("duplicate registration must fail")
	}
	if _, ok := r.Get("json"); !ok {
		t.Error("json codec not found")
	}
	if names := Default().Names(); len(names) != 3 || names[0] != "json" {
		t.Errorf("unexpected default codecs %v", names)
	}
}

func TestSampleHasAnchor(t *testing.T) {
	s := Sample()
	if s["mtpl"] != 400 || len(s) != 25 {
		t.Errorf("unexpected sample table with %d entries", len(s))
	}
}
