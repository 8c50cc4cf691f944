package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/hdl2go/rv32pipe/config"
)

func TestDefault(t *testing.T) {
	c := config.Default()
	if c.ResetVector != 0x80000000 {
		t.Errorf("ResetVector = %#x, want 0x80000000", c.ResetVector)
	}
	if c.Misaligned != config.MisalignedTolerate {
		t.Errorf("Misaligned = %v, want tolerate", c.Misaligned)
	}
	if err := c.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoadOverlaysDefault(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "core.yaml")
	if err := os.WriteFile(path, []byte("reset_vector: 0x1000\npredictor_mode: btb\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	c, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.ResetVector != 0x1000 {
		t.Errorf("ResetVector = %#x, want 0x1000", c.ResetVector)
	}
	if c.Predictor != config.PredictorBTB {
		t.Errorf("Predictor = %v, want btb", c.Predictor)
	}
	// untouched field should still carry the default
	if c.Misaligned != config.MisalignedTolerate {
		t.Errorf("Misaligned = %v, want tolerate (untouched by overlay)", c.Misaligned)
	}
}

func TestLoadInvalidPolicy(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "core.yaml")
	if err := os.WriteFile(path, []byte("misaligned_policy: bogus\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := config.Load(path); err == nil {
		t.Errorf("expected error for invalid misaligned_policy")
	}
}
