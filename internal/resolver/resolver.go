// # internal/resolver/resolver.go
//
// Package resolver maps raw import strings to repo-relative file paths.
// Resolution is pure table lookups over an index built once from the scan
// manifest, so it is deterministic and needs no filesystem access.
package resolver

import (
	"path"
	"strings"

	"strata/internal/lang"
	"strata/internal/scan"
	"strata/internal/shared/util"
)

// sourceRoots are directory names that conventionally hold code without
// appearing in import strings ("from graph import x" for src/graph/x.py).
var sourceRoots = map[string]bool{"src": true, "lib": true}

type Resolver struct {
	registry *lang.Registry

	files map[string]string // normalized path -> language name

	// index maps slashed, extension-less module keys to file paths.
	// "src/graph/builder.py" indexes as "src/graph/builder" and, because
	// src is a source root, "graph/builder". Index files also claim
	// their directory key.
	index map[string]string

	// prefixes are first import segments considered project-internal.
	prefixes map[string]bool
}

// New builds the resolution index from the manifest.
func New(registry *lang.Registry, files []scan.SourceFile) *Resolver {
	r := &Resolver{
		registry: registry,
		files:    make(map[string]string, len(files)),
		index:    make(map[string]string),
		prefixes: make(map[string]bool),
	}
	for _, f := range files {
		r.files[f.Path] = f.Language
	}
	// Sorted insertion plus first-wins makes index collisions (a.py vs
	// a/__init__.py) resolve the same way on every run.
	for _, p := range util.SortedStringKeys(r.files) {
		r.indexFile(p)
	}
	return r
}

func (r *Resolver) indexFile(p string) {
	stem := r.stripExtension(p)
	keys := []string{stem}
	if r.isIndexName(path.Base(p)) {
		if dir := path.Dir(p); dir != "." {
			keys = append(keys, dir)
		}
	}
	for _, key := range keys {
		r.addKey(key, p)
		first, rest, found := strings.Cut(key, "/")
		if found && sourceRoots[first] {
			r.addKey(rest, p)
		}
	}
	if parts := strings.SplitN(p, "/", 3); len(parts) > 1 {
		r.prefixes[parts[0]] = true
		if sourceRoots[parts[0]] && len(parts) > 2 {
			r.prefixes[parts[1]] = true
		}
	}
}

func (r *Resolver) addKey(key, p string) {
	if key == "" || key == "." {
		return
	}
	if _, taken := r.index[key]; !taken {
		r.index[key] = p
	}
}

func (r *Resolver) stripExtension(p string) string {
	ext := strings.ToLower(path.Ext(p))
	for _, known := range r.registry.Extensions() {
		if ext == known {
			return p[:len(p)-len(ext)]
		}
	}
	return p
}

func (r *Resolver) isIndexName(base string) bool {
	for _, name := range r.registry.IndexNames() {
		if base == name {
			return true
		}
	}
	return false
}

// Resolve maps an import string found in importer to a file path.
// Returns ("", false) when the import is external or unresolvable.
func (r *Resolver) Resolve(importer, imp string) (string, bool) {
	imp = strings.TrimSpace(imp)
	if imp == "" {
		return "", false
	}
	language := r.registry.Lookup(r.files[importer])

	switch {
	case strings.HasPrefix(imp, "./"), strings.HasPrefix(imp, "../"):
		return r.resolvePathRelative(importer, imp)
	case strings.HasPrefix(imp, ".") && language != nil && language.DottedImports:
		return r.resolveDotRelative(importer, imp)
	}
	return r.resolveAbsolute(imp, language)
}

// resolveDotRelative handles python-style "from ..pkg import x" strings:
// N leading dots ascend N-1 directories from the importer's package.
func (r *Resolver) resolveDotRelative(importer, imp string) (string, bool) {
	dots := 0
	for dots < len(imp) && imp[dots] == '.' {
		dots++
	}
	rest := imp[dots:]

	base := path.Dir(importer)
	for i := 1; i < dots; i++ {
		if base == "." {
			return "", false
		}
		base = path.Dir(base)
	}
	stem := base
	if rest != "" {
		stem = path.Join(base, strings.ReplaceAll(rest, ".", "/"))
	}
	if stem == "." {
		return "", false
	}
	return r.probe(stem)
}

// resolvePathRelative handles "./x" and "../x" imports.
func (r *Resolver) resolvePathRelative(importer, imp string) (string, bool) {
	joined := path.Join(path.Dir(importer), imp)
	if joined == "." || strings.HasPrefix(joined, "../") {
		return "", false
	}
	// The import may already carry its extension.
	if _, known := r.files[joined]; known {
		return joined, true
	}
	return r.probe(r.stripExtension(joined))
}

func (r *Resolver) resolveAbsolute(imp string, language *lang.Language) (string, bool) {
	key := imp
	if language != nil && language.DottedImports {
		key = strings.ReplaceAll(imp, ".", "/")
	}
	key = strings.TrimSuffix(key, "/")
	if target, ok := r.index[key]; ok {
		return target, true
	}
	// A bare module name may sit under a source root or the repo's own
	// top-level package directory.
	for _, prefix := range util.SortedStringKeys(r.prefixes) {
		if target, ok := r.index[prefix+"/"+key]; ok {
			return target, true
		}
	}
	return "", false
}

// probe tries a stem as a direct module file, then as a directory with
// an index file.
func (r *Resolver) probe(stem string) (string, bool) {
	if target, ok := r.index[stem]; ok {
		return target, true
	}
	for _, ext := range r.registry.Extensions() {
		if _, ok := r.files[stem+ext]; ok {
			return stem + ext, true
		}
	}
	for _, name := range r.registry.IndexNames() {
		candidate := stem + "/" + name
		if _, ok := r.files[candidate]; ok {
			return candidate, true
		}
	}
	return "", false
}

// LooksInternal reports whether an unresolved import probably names
// project code, which makes it a phantom dependency rather than an
// external package. Relative imports always look internal; absolute
// ones do when their first segment matches a project namespace and the
// string is not stdlib, a stylesheet, or a scoped package.
func (r *Resolver) LooksInternal(importer, imp string) bool {
	if lang.IsStylesheet(imp) || lang.IsScopedPackage(imp) {
		return false
	}
	if strings.HasPrefix(imp, ".") {
		return true
	}
	if language := r.registry.Lookup(r.files[importer]); language != nil && language.IsStdlib(imp) {
		return false
	}
	first := imp
	if i := strings.IndexAny(imp, "./"); i > 0 {
		first = imp[:i]
	}
	return r.prefixes[first]
}
