// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package glsl

import (
	"sort"
	"sync"
)

// PassLibrary resolves "Shader/SubShader/Pass" paths to passes compiled
// for a backend.
type PassLibrary interface {
	LookupPass(backend Backend, path string) (*PassResult, bool)
}

type libraryKey struct {
	backend Backend
	path    string
}

// Library is a PassLibrary filled with generated shaders. Passes are kept
// per backend, so a shader generated for one dialect never resolves a
// UsePass to the text of another. It is safe for concurrent use. The zero
// value is empty and ready to use.
type Library struct {
	mu     sync.RWMutex
	passes map[libraryKey]*PassResult
}

// NewLibrary returns an empty library.
func NewLibrary() *Library {
	return &Library{passes: make(map[libraryKey]*PassResult)}
}

// LookupPass implements PassLibrary.
func (l *Library) LookupPass(backend Backend, path string) (*PassResult, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	pr, ok := l.passes[libraryKey{backend, path}]
	return pr, ok
}

// Add stores a pass compiled for backend under path, replacing any
// previous one.
func (l *Library) Add(backend Backend, path string, pass *PassResult) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.passes == nil {
		l.passes = make(map[libraryKey]*PassResult)
	}
	l.passes[libraryKey{backend, path}] = pass
}

// Register adds every pass of a shader result under the result's backend.
// Passes of unnamed sub-shaders cannot be named by a path and are skipped.
func (l *Library) Register(result *ShaderResult) {
	for _, sub := range result.SubShaders {
		if sub.Name == "" {
			continue
		}
		for _, p := range sub.Passes {
			l.Add(result.Backend, passPath(result.Name, sub.Name, p.Name), p)
		}
	}
}

// Paths returns the paths registered for backend in sorted order.
func (l *Library) Paths(backend Backend) []string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	var paths []string
	for k := range l.passes {
		if k.backend == backend {
			paths = append(paths, k.path)
		}
	}
	sort.Strings(paths)
	return paths
}
