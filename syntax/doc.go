// Package syntax tokenizes and parses preprocessed ShaderLab source.
//
// A ShaderLab file holds one Shader block. The Shader, each SubShader and
// each Pass carry tags, render states and GLSL ES declarations:
//
//	Shader "Unlit" {
//	    uniform sampler2D u_texture;
//	    SubShader "Default" {
//	        Pass "Forward" {
//	            RenderState { DepthState.Enabled = true; }
//	            VertexShader = vert;
//	            FragmentShader = frag;
//	            struct V2F { vec2 uv; };
//	            V2F vert(Attributes attr) { ... }
//	            void frag(V2F v) { ... }
//	        }
//	        UsePass "Base/Default/Shadow"
//	    }
//	}
//
// Parsing produces a Shader tree and a SymbolTable. The table is an arena
// of scopes (global, sub-shader, pass, function, block) addressed by
// ScopeID, so every pass sees the global declarations but never the
// declarations of a sibling pass. Identifiers are bound to their symbol when
// the name is already declared; otherwise they keep their scope and are
// resolved when generating code.
//
// Render-state entries are validated against a renderstate.Registry while
// parsing. The first error stops the parser and is returned as a
// *source.Error.
package syntax
