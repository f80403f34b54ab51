// Package lang holds the language registry: per-language file-extension
// conventions, index-file names, and stdlib/well-known package sets used
// by import resolution. The registry is built explicitly at startup via
// Register calls rather than living as ambient global state, so tests can
// construct their own tables.
package lang

import (
	"fmt"
	"sort"
	"strings"
)

// Language describes what the resolver needs to know about one language.
type Language struct {
	Name string

	// Extensions recognised for this language, with leading dot (".py").
	// The first entry is the canonical one used when probing candidates.
	Extensions []string

	// IndexNames are directory-index / package-init file names such as
	// "__init__.py", "index.ts" or "mod.rs".
	IndexNames []string

	// DottedImports is true for languages whose absolute import strings
	// use dots as path separators (python, java).
	DottedImports bool

	// Stdlib is the exclusion set of stdlib/well-known package names.
	// Contains both full names and their first path segment.
	Stdlib map[string]bool
}

// IsStdlib reports whether the import names a stdlib or well-known package.
// Both the full import string and its first segment are checked.
func (l *Language) IsStdlib(imp string) bool {
	if l.Stdlib[imp] {
		return true
	}
	first := imp
	if i := strings.IndexAny(imp, "./:"); i > 0 {
		first = imp[:i]
	}
	return l.Stdlib[first]
}

// Registry maps language names and file extensions to Language entries.
type Registry struct {
	byName map[string]*Language
	byExt  map[string]*Language
}

func NewRegistry() *Registry {
	return &Registry{
		byName: make(map[string]*Language),
		byExt:  make(map[string]*Language),
	}
}

// Register adds a language. Name and extension collisions are rejected so
// a misconfigured table fails loudly at startup instead of silently
// shadowing an earlier entry.
func (r *Registry) Register(l *Language) error {
	if l == nil || l.Name == "" {
		return fmt.Errorf("language registration requires a name")
	}
	if _, exists := r.byName[l.Name]; exists {
		return fmt.Errorf("language %q already registered", l.Name)
	}
	for _, ext := range l.Extensions {
		if prev, exists := r.byExt[ext]; exists {
			return fmt.Errorf("extension %q already claimed by %q", ext, prev.Name)
		}
	}
	r.byName[l.Name] = l
	for _, ext := range l.Extensions {
		r.byExt[ext] = l
	}
	return nil
}

// Lookup returns the language registered under name, or nil.
func (r *Registry) Lookup(name string) *Language {
	return r.byName[name]
}

// ByExtension returns the language owning the path's extension, or nil.
func (r *Registry) ByExtension(path string) *Language {
	i := strings.LastIndex(path, ".")
	if i < 0 {
		return nil
	}
	return r.byExt[strings.ToLower(path[i:])]
}

// Extensions returns every registered extension, sorted. Used to build
// the module-path index by stripping any known extension.
func (r *Registry) Extensions() []string {
	exts := make([]string, 0, len(r.byExt))
	for ext := range r.byExt {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// IndexNames returns every registered index-file name, sorted.
func (r *Registry) IndexNames() []string {
	var names []string
	seen := make(map[string]bool)
	for _, l := range r.byName {
		for _, n := range l.IndexNames {
			if !seen[n] {
				seen[n] = true
				names = append(names, n)
			}
		}
	}
	sort.Strings(names)
	return names
}
