// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package glsl

// es300Reserved contains names that are reserved or predeclared in GLSL ES
// 3.00 and may appear as plain identifiers in ES 1.00 source.
var es300Reserved = map[string]struct{}{
	// Keywords added in ES 3.00
	"centroid": {}, "flat": {}, "smooth": {}, "layout": {},
	"switch": {}, "case": {}, "default": {},

	// Types added in ES 3.00
	"uint": {}, "uvec2": {}, "uvec3": {}, "uvec4": {},
	"mat2x2": {}, "mat2x3": {}, "mat2x4": {},
	"mat3x2": {}, "mat3x3": {}, "mat3x4": {},
	"mat4x2": {}, "mat4x3": {}, "mat4x4": {},
	"sampler3D": {}, "sampler2DShadow": {}, "samplerCubeShadow": {},
	"sampler2DArray": {}, "sampler2DArrayShadow": {},
	"isampler2D": {}, "isampler3D": {}, "isamplerCube": {}, "isampler2DArray": {},
	"usampler2D": {}, "usampler3D": {}, "usamplerCube": {}, "usampler2DArray": {},

	// Reserved for future use in ES 3.00
	"attribute": {}, "varying": {},
	"coherent": {}, "volatile": {}, "restrict": {}, "readonly": {}, "writeonly": {},
	"resource": {}, "atomic_uint": {},
	"noperspective": {}, "patch": {}, "sample": {},
	"subroutine": {}, "common": {}, "partition": {}, "active": {},
	"filter": {}, "superp": {}, "buffer": {}, "shared": {},
	"image1D": {}, "image2D": {}, "image3D": {}, "imageCube": {},
	"iimage1D": {}, "iimage2D": {}, "iimage3D": {}, "iimageCube": {},
	"uimage1D": {}, "uimage2D": {}, "uimage3D": {}, "uimageCube": {},
	"image1DArray": {}, "image2DArray": {},
	"iimage1DArray": {}, "iimage2DArray": {}, "uimage1DArray": {}, "uimage2DArray": {},
	"imageBuffer": {}, "iimageBuffer": {}, "uimageBuffer": {},
	"sampler1D": {}, "sampler1DShadow": {}, "sampler1DArray": {}, "sampler1DArrayShadow": {},
	"isampler1D": {}, "isampler1DArray": {}, "usampler1D": {}, "usampler1DArray": {},
	"sampler2DRect": {}, "sampler2DRectShadow": {}, "isampler2DRect": {}, "usampler2DRect": {},
	"samplerBuffer": {}, "isamplerBuffer": {}, "usamplerBuffer": {},
	"sampler2DMS": {}, "isampler2DMS": {}, "usampler2DMS": {},
	"sampler2DMSArray": {}, "isampler2DMSArray": {}, "usampler2DMSArray": {},

	// Builtin functions added in ES 3.00
	"sinh": {}, "cosh": {}, "tanh": {}, "asinh": {}, "acosh": {}, "atanh": {},
	"trunc": {}, "round": {}, "roundEven": {}, "modf": {},
	"isnan": {}, "isinf": {},
	"floatBitsToInt": {}, "floatBitsToUint": {}, "intBitsToFloat": {}, "uintBitsToFloat": {},
	"packSnorm2x16": {}, "unpackSnorm2x16": {}, "packUnorm2x16": {}, "unpackUnorm2x16": {},
	"packHalf2x16": {}, "unpackHalf2x16": {},
	"outerProduct": {}, "transpose": {}, "determinant": {}, "inverse": {},
	"texture": {}, "textureProj": {}, "textureLod": {}, "textureProjLod": {},
	"textureGrad": {}, "textureProjGrad": {}, "textureOffset": {}, "textureProjOffset": {},
	"textureLodOffset": {}, "textureProjLodOffset": {}, "textureGradOffset": {}, "textureProjGradOffset": {},
	"textureSize": {}, "texelFetch": {}, "texelFetchOffset": {},
}

// isKeyword reports whether name is reserved in GLSL ES 3.00.
func isKeyword(name string) bool {
	_, ok := es300Reserved[name]
	return ok
}

// escapeKeyword prefixes a reserved name with an underscore.
func escapeKeyword(name string) string {
	if isKeyword(name) {
		return "_" + name
	}
	return name
}
