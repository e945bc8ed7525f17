package config

import (
	"os"
	"path/filepath"
	"testing"

	"pricing-guard/internal/errors"
)

func TestDefault(t *testing.T) {
	c := Default()
	if c.Engine.MaxIterations != 10 || c.Engine.TauOutlier != 5.0 || !c.Engine.EnableAnchor {
		t.Errorf("unexpected engine defaults %+v", c.Engine)
	}
	if c.Output.DefaultFormat != "cli" || c.Output.Precision != 6 || !c.Output.ShowLog {
		t.Errorf("unexpected output defaults %+v", c.Output)
	}
	if err := c.Validate(); err != nil {
		t.Errorf("defaults must validate: %v", err)
	}
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Engine.MaxIterations != 10 {
		t.Errorf("expected defaults, got %+v", c.Engine)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.json")

	c := Default()
	c.Engine.MaxIterations = 25
	c.Engine.TauOutlier = 3.0
	c.Engine.EnableAnchor = false
	c.Output.DefaultFormat = "json"
	if err := c.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Engine != c.Engine || loaded.Output != c.Output {
		t.Errorf("round trip mismatch: got %+v %+v", loaded.Engine, loaded.Output)
	}
}

func TestLoadPartialKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"engine": {"max_iterations": 4, "tau_outlier": 5, "enable_anchor": true}}`), 0o644); err != nil {
		t.Fatal(err)
	}
	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Engine.MaxIterations != 4 {
		t.Errorf("expected 4 iterations, got %d", c.Engine.MaxIterations)
	}
	if c.Output.Precision != 6 || c.Logging.Level != "warn" {
		t.Errorf("unset sections must keep defaults: %+v %+v", c.Output, c.Logging)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"malformed", `{"engine": `},
		{"zero iterations", `{"engine": {"max_iterations": 0, "tau_outlier": 5}}`},
		{"tau not above one", `{"engine": {"max_iterations": 10, "tau_outlier": 1}}`},
		{"negative precision", `{"output": {"default_format": "cli", "precision": -1}}`},
		{"unknown format", `{"output": {"default_format": "html", "precision": 6}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.json")
			if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
				t.Fatal(err)
			}
			if _, err := Load(path); !errors.IsType(err, errors.TypeConfig) {
				t.Errorf("expected CONFIG_ERROR, got %v", err)
			}
		})
	}
}

func TestEngineOptions(t *testing.T) {
	c := Default()
	c.Engine.MaxIterations = 7
	ec, opts := c.EngineOptions()
	if ec.MaxIterations != 7 {
		t.Errorf("expected 7, got %d", ec.MaxIterations)
	}
	if len(opts) != 2 {
		t.Errorf("expected tau and anchor options, got %d", len(opts))
	}
	if o := c.OutputOptions(); o.Precision != 6 || !o.ShowLog {
		t.Errorf("unexpected output options %+v", o)
	}
}

func TestGetSet(t *testing.T) {
	prev := Get()
	defer Set(prev)

	c := Default()
	c.Version = "test"
	Set(c)
	if Get().Version != "test" {
		t.Error("Set did not replace the global config")
	}
}
