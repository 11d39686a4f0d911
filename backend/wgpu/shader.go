//go:build !nogpu

package wgpu

import (
	_ "embed"
	"fmt"

	"github.com/gogpu/naga"
	"github.com/gogpu/wgpu/hal"
)

//go:embed shaders/quad.wgsl
var quadShaderSource string

// compileSPIRV compiles WGSL to SPIR-V words with naga.
func compileSPIRV(wgsl string) ([]uint32, error) {
	spirvBytes, err := naga.Compile(wgsl)
	if err != nil {
		return nil, fmt.Errorf("compile shader: %w", err)
	}

	// SPIR-V is little-endian 32-bit words.
	code := make([]uint32, len(spirvBytes)/4)
	for i := range code {
		code[i] = uint32(spirvBytes[i*4]) |
			uint32(spirvBytes[i*4+1])<<8 |
			uint32(spirvBytes[i*4+2])<<16 |
			uint32(spirvBytes[i*4+3])<<24
	}
	return code, nil
}

// createQuadShader creates the quad shader module. SPIR-V from naga is
// preferred; when naga cannot compile the source the WGSL text is handed
// to the backend instead.
func createQuadShader(device hal.Device) (hal.ShaderModule, error) {
	if quadShaderSource == "" {
		return nil, fmt.Errorf("quad shader source is empty")
	}

	source := hal.ShaderSource{WGSL: quadShaderSource}
	if code, err := compileSPIRV(quadShaderSource); err == nil {
		source = hal.ShaderSource{SPIRV: code}
	} else {
		slogger().Warn("wgpu: naga compile failed, using WGSL source", "err", err)
	}

	shader, err := device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  "quad_shader",
		Source: source,
	})
	if err != nil {
		return nil, fmt.Errorf("create quad shader module: %w", err)
	}
	return shader, nil
}
