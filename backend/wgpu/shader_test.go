//go:build !nogpu

package wgpu

import (
	"strings"
	"testing"
)

func TestQuadShaderSource(t *testing.T) {
	for _, want := range []string{"fn vs_main", "fn fs_main", "@binding(1)", "array<Quad>"} {
		if !strings.Contains(quadShaderSource, want) {
			t.Errorf("quad shader missing %q", want)
		}
	}
}

func TestCompileQuadShader(t *testing.T) {
	code, err := compileSPIRV(quadShaderSource)
	if err != nil {
		msg := err.Error()
		if strings.Contains(msg, "not yet implemented") || strings.Contains(msg, "not supported") {
			t.Skipf("naga does not support this shader yet: %v", err)
		}
		t.Fatalf("compileSPIRV: %v", err)
	}
	if len(code) == 0 {
		t.Fatal("empty SPIR-V")
	}
	if code[0] != 0x07230203 {
		t.Errorf("SPIR-V magic = %#x, want 0x07230203", code[0])
	}
}
