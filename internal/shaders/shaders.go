// SPDX-License-Identifier: Unlicense OR MIT

// Package shaders contains the programs of the two shader variants.
// Vertex inputs are listed in attribute location order.
package shaders

import "gioui.org/shader"

// Uniform names shared by both programs, in upload order.
const (
	UniformState     = "State"
	UniformTransform = "Transform"
	UniformScalar4   = "Scalar4"
	UniformVector    = "Vector"
	UniformClipSize  = "ClipSize"
	UniformClip      = "Clip"
)

var uniforms = shader.UniformsReflection{
	Locations: []shader.UniformLocation{
		{Name: UniformState, Type: shader.DataTypeFloat, Size: 4},
		{Name: UniformTransform, Type: shader.DataTypeFloat, Size: 16},
		{Name: UniformScalar4, Type: shader.DataTypeFloat, Size: 2 * 4},
		{Name: UniformVector, Type: shader.DataTypeFloat, Size: 8 * 4},
		{Name: UniformClipSize, Type: shader.DataTypeInt, Size: 1},
		{Name: UniformClip, Type: shader.DataTypeFloat, Size: 8 * 16},
	},
}

var textures = []shader.TextureBinding{
	{Name: "Texture1", Binding: 0},
	{Name: "Texture2", Binding: 1},
	{Name: "Texture3", Binding: 2},
}

var baseInputs = []shader.InputLocation{
	{Name: "in_Position", Location: 0, Type: shader.DataTypeFloat, Size: 2},
	{Name: "in_Color", Location: 1, Type: shader.DataTypeFloat, Size: 4},
	{Name: "in_TexCoord", Location: 2, Type: shader.DataTypeFloat, Size: 2},
}

var fillInputs = append(append([]shader.InputLocation{}, baseInputs...),
	shader.InputLocation{Name: "in_ObjCoord", Location: 3, Type: shader.DataTypeFloat, Size: 2},
	shader.InputLocation{Name: "in_Data0", Location: 4, Type: shader.DataTypeFloat, Size: 4},
	shader.InputLocation{Name: "in_Data1", Location: 5, Type: shader.DataTypeFloat, Size: 4},
	shader.InputLocation{Name: "in_Data2", Location: 6, Type: shader.DataTypeFloat, Size: 4},
	shader.InputLocation{Name: "in_Data3", Location: 7, Type: shader.DataTypeFloat, Size: 4},
	shader.InputLocation{Name: "in_Data4", Location: 8, Type: shader.DataTypeFloat, Size: 4},
	shader.InputLocation{Name: "in_Data5", Location: 9, Type: shader.DataTypeFloat, Size: 4},
	shader.InputLocation{Name: "in_Data6", Location: 10, Type: shader.DataTypeFloat, Size: 4},
)

const header = `#version 150

uniform vec4 State;
uniform mat4 Transform;
uniform vec4 Scalar4[2];
uniform vec4 Vector[8];
uniform int ClipSize;
uniform mat4 Clip[8];
`

const clipFunc = `
// clipAlpha is zero outside any clip rectangle. Each clip matrix maps
// screen space to a unit square centered on the origin.
float clipAlpha(vec2 p) {
	for (int i = 0; i < ClipSize; i++) {
		vec2 c = (Clip[i] * vec4(p, 0.0, 1.0)).xy;
		if (abs(c.x) > 1.0 || abs(c.y) > 1.0) {
			return 0.0;
		}
	}
	return 1.0;
}
`

var (
	Fill = [...]shader.Sources{
		{
			Name:     "fill.vert",
			Inputs:   fillInputs,
			Uniforms: uniforms,
			GLSL150: header + `
in vec2 in_Position;
in vec4 in_Color;
in vec2 in_TexCoord;
in vec2 in_ObjCoord;
in vec4 in_Data0;
in vec4 in_Data1;
in vec4 in_Data2;
in vec4 in_Data3;
in vec4 in_Data4;
in vec4 in_Data5;
in vec4 in_Data6;

out vec4 ex_Color;
out vec2 ex_TexCoord;
out vec2 ex_ObjCoord;
out vec2 ex_ScreenCoord;
flat out vec4 ex_Data0;
flat out vec4 ex_Data1;
out vec4 ex_Data2;
out vec4 ex_Data3;
out vec4 ex_Data4;
out vec4 ex_Data5;
out vec4 ex_Data6;

void main() {
	ex_Color = in_Color;
	ex_TexCoord = in_TexCoord;
	ex_ObjCoord = in_ObjCoord;
	ex_ScreenCoord = in_Position;
	ex_Data0 = in_Data0;
	ex_Data1 = in_Data1;
	ex_Data2 = in_Data2;
	ex_Data3 = in_Data3;
	ex_Data4 = in_Data4;
	ex_Data5 = in_Data5;
	ex_Data6 = in_Data6;
	gl_Position = Transform * vec4(in_Position, 0.0, 1.0);
}
`,
		},
		{
			Name:     "fill.frag",
			Textures: textures,
			Uniforms: uniforms,
			GLSL150: header + clipFunc + `
uniform sampler2D Texture1;
uniform sampler2D Texture2;
uniform sampler2D Texture3;

in vec4 ex_Color;
in vec2 ex_TexCoord;
in vec2 ex_ObjCoord;
in vec2 ex_ScreenCoord;
flat in vec4 ex_Data0;
flat in vec4 ex_Data1;
in vec4 ex_Data2;
in vec4 ex_Data3;
in vec4 ex_Data4;
in vec4 ex_Data5;
in vec4 ex_Data6;

out vec4 out_Color;

const int FillSolid = 0;
const int FillImage = 1;
const int FillPattern = 2;

void main() {
	int fillType = int(ex_Data0.x + 0.5);
	vec4 col = ex_Color;
	if (fillType == FillImage) {
		col = texture(Texture1, ex_TexCoord) * ex_Color;
	} else if (fillType == FillPattern) {
		// Modulate the image by a second texture, e.g. a mask.
		col = texture(Texture1, ex_TexCoord) * texture(Texture2, ex_ObjCoord).a * ex_Color;
	}
	out_Color = col * clipAlpha(ex_ScreenCoord);
}
`,
		},
	}

	FillPath = [...]shader.Sources{
		{
			Name:     "fill_path.vert",
			Inputs:   baseInputs,
			Uniforms: uniforms,
			GLSL150: header + `
in vec2 in_Position;
in vec4 in_Color;
in vec2 in_TexCoord;

out vec4 ex_Color;
out vec2 ex_TexCoord;
out vec2 ex_ScreenCoord;

void main() {
	ex_Color = in_Color;
	ex_TexCoord = in_TexCoord;
	ex_ScreenCoord = in_Position;
	gl_Position = Transform * vec4(in_Position, 0.0, 1.0);
}
`,
		},
		{
			Name:     "fill_path.frag",
			Uniforms: uniforms,
			GLSL150: header + clipFunc + `
in vec4 ex_Color;
in vec2 ex_TexCoord;
in vec2 ex_ScreenCoord;

out vec4 out_Color;

void main() {
	// Texture coordinates carry anti-aliasing coverage along path edges.
	float coverage = clamp(ex_TexCoord.x, 0.0, 1.0);
	if (ex_TexCoord == vec2(0.0)) {
		coverage = 1.0;
	}
	out_Color = ex_Color * coverage * clipAlpha(ex_ScreenCoord);
}
`,
		},
	}
)
