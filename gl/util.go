// SPDX-License-Identifier: Unlicense OR MIT

package gl

import (
	"errors"
	"fmt"
	"strings"
)

// CreateProgram compiles and links a vertex and fragment shader pair.
// Attribute i of attribs is bound to location i before linking.
func CreateProgram(ctx Functions, vsSrc, fsSrc string, attribs []string) (Program, error) {
	vs, err := createShader(ctx, VERTEX_SHADER, vsSrc)
	if err != nil {
		return Program{}, err
	}
	defer ctx.DeleteShader(vs)
	fs, err := createShader(ctx, FRAGMENT_SHADER, fsSrc)
	if err != nil {
		return Program{}, err
	}
	defer ctx.DeleteShader(fs)
	prog := ctx.CreateProgram()
	if !prog.Valid() {
		return Program{}, errors.New("glCreateProgram failed")
	}
	ctx.AttachShader(prog, vs)
	ctx.AttachShader(prog, fs)
	for i, a := range attribs {
		ctx.BindAttribLocation(prog, Attrib(i), a)
	}
	ctx.LinkProgram(prog)
	if ctx.GetProgrami(prog, LINK_STATUS) == 0 {
		log := ctx.GetProgramInfoLog(prog)
		ctx.DeleteProgram(prog)
		return Program{}, fmt.Errorf("program link failed: %s", strings.TrimSpace(log))
	}
	return prog, nil
}

func createShader(ctx Functions, typ Enum, src string) (Shader, error) {
	sh := ctx.CreateShader(typ)
	if !sh.Valid() {
		return Shader{}, errors.New("glCreateShader failed")
	}
	ctx.ShaderSource(sh, src)
	ctx.CompileShader(sh)
	if ctx.GetShaderi(sh, COMPILE_STATUS) == 0 {
		log := ctx.GetShaderInfoLog(sh)
		ctx.DeleteShader(sh)
		return Shader{}, fmt.Errorf("shader compilation failed: %s", strings.TrimSpace(log))
	}
	return sh, nil
}

// ParseGLVersion extracts the major and minor version from a
// GL_VERSION string.
func ParseGLVersion(glVer string) (version [2]int, gles bool, err error) {
	if _, err := fmt.Sscanf(glVer, "OpenGL ES %d.%d", &version[0], &version[1]); err == nil {
		return version, true, nil
	} else if _, err := fmt.Sscanf(glVer, "WebGL %d.%d", &version[0], &version[1]); err == nil {
		// WebGL major version v corresponds to OpenGL ES version v + 1
		version[0]++
		return version, true, nil
	} else if _, err := fmt.Sscanf(glVer, "%d.%d", &version[0], &version[1]); err == nil {
		return version, false, nil
	}
	return version, false, fmt.Errorf("failed to parse OpenGL version (%s)", glVer)
}

// StatusString names a framebuffer completeness status.
func StatusString(st Enum) string {
	switch st {
	case FRAMEBUFFER_COMPLETE:
		return "complete"
	case FRAMEBUFFER_INCOMPLETE_ATTACHMENT:
		return "incomplete attachment"
	case FRAMEBUFFER_INCOMPLETE_MISSING:
		return "missing attachment"
	case FRAMEBUFFER_UNSUPPORTED:
		return "unsupported"
	default:
		return fmt.Sprintf("status 0x%x", uint(st))
	}
}

// ErrorString names a glGetError code.
func ErrorString(err Enum) string {
	switch err {
	case NO_ERROR:
		return "no error"
	case INVALID_ENUM:
		return "invalid enum"
	case INVALID_VALUE:
		return "invalid value"
	case INVALID_OPERATION:
		return "invalid operation"
	case OUT_OF_MEMORY:
		return "out of memory"
	default:
		return fmt.Sprintf("error 0x%x", uint(err))
	}
}
