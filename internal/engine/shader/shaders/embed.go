// Package shaders provides embedded GLSL shader sources.
package shaders

import _ "embed"

// LitVertexShader transforms position+normal meshes for directional lighting.
//
//go:embed lit.vert
var LitVertexShader string

// LitFragmentShader shades with a single fixed light: 0.1 + dot(n, l) * 0.9.
//
//go:embed lit.frag
var LitFragmentShader string

// FlatVertexShader transforms position-only meshes.
//
//go:embed flat.vert
var FlatVertexShader string

// FlatFragmentShader fills with a uniform color.
//
//go:embed flat.frag
var FlatFragmentShader string

// QuadVertexShader places a textured quad in clip space.
//
//go:embed quad.vert
var QuadVertexShader string

// QuadFragmentShader samples the quad texture.
//
//go:embed quad.frag
var QuadFragmentShader string
