package lang

// Stylesheet extensions are never treated as phantom imports even when the
// import string looks relative. They are assets, not code dependencies.
var stylesheetExts = map[string]bool{
	".css":  true,
	".scss": true,
	".sass": true,
	".less": true,
}

// IsStylesheet reports whether the import string names a stylesheet asset.
func IsStylesheet(imp string) bool {
	i := len(imp) - 1
	for ; i >= 0 && imp[i] != '.'; i-- {
	}
	if i < 0 {
		return false
	}
	return stylesheetExts[imp[i:]]
}

// IsScopedPackage reports npm-style scoped packages ("@angular/core"),
// which are always external.
func IsScopedPackage(imp string) bool {
	return len(imp) > 0 && imp[0] == '@'
}

// DefaultRegistry builds the registry for every supported language.
// Registration collisions here would be a table bug, so they panic.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	table := []*Language{
		{
			Name:          "python",
			Extensions:    []string{".py", ".pyi"},
			IndexNames:    []string{"__init__.py"},
			DottedImports: true,
			Stdlib:        loadStdlibSet("python"),
		},
		{
			Name:       "go",
			Extensions: []string{".go"},
			Stdlib:     loadStdlibSet("go"),
		},
		{
			Name:       "javascript",
			Extensions: []string{".js", ".jsx", ".mjs", ".cjs"},
			IndexNames: []string{"index.js", "index.jsx", "index.mjs"},
			Stdlib:     loadStdlibSet("javascript"),
		},
		{
			Name:       "typescript",
			Extensions: []string{".ts", ".tsx", ".mts", ".cts"},
			IndexNames: []string{"index.ts", "index.tsx"},
			Stdlib:     loadStdlibSet("javascript"),
		},
		{
			Name:       "rust",
			Extensions: []string{".rs"},
			IndexNames: []string{"mod.rs", "lib.rs"},
			Stdlib:     loadStdlibSet("rust"),
		},
		{
			Name:          "java",
			Extensions:    []string{".java"},
			DottedImports: true,
			Stdlib:        loadStdlibSet("java"),
		},
		{
			Name:       "ruby",
			Extensions: []string{".rb"},
			Stdlib:     loadStdlibSet("ruby"),
		},
	}
	for _, l := range table {
		if err := r.Register(l); err != nil {
			panic("lang: " + err.Error())
		}
	}
	return r
}
