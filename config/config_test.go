package config

import (
	"os"
	"testing"
)

func TestLoadEmbeddedDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Physics.MaxTraceDepth != 500 {
		t.Errorf("expected default max trace depth 500, got %d", cfg.Physics.MaxTraceDepth)
	}
	if cfg.Daq.SortWindowMultiplier != 5.0 {
		t.Errorf("expected default sort window multiplier 5.0, got %v", cfg.Daq.SortWindowMultiplier)
	}
	if cfg.Derived.SpeedOfLightCmPerNs <= 0 {
		t.Error("expected a positive derived speed of light")
	}
}

func TestLoadOverridesPartialFile(t *testing.T) {
	path := t.TempDir() + "/override.yaml"
	if err := os.WriteFile(path, []byte("physics:\n  max_trace_depth: 10\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Physics.MaxTraceDepth != 10 {
		t.Errorf("expected overridden max trace depth 10, got %d", cfg.Physics.MaxTraceDepth)
	}
	if cfg.Physics.Epsilon != 1e-10 {
		t.Errorf("expected untouched field to keep its default, got %v", cfg.Physics.Epsilon)
	}
}

func TestCfgPanicsBeforeInit(t *testing.T) {
	saved := global
	global = nil
	defer func() { global = saved }()

	defer func() {
		if recover() == nil {
			t.Error("expected Cfg() to panic before Init()")
		}
	}()
	Cfg()
}
