package lang

import "testing"

func TestRegisterCollision(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(&Language{Name: "python", Extensions: []string{".py"}}); err != nil {
		t.Fatalf("first registration failed: %v", err)
	}
	if err := r.Register(&Language{Name: "python", Extensions: []string{".pyx"}}); err == nil {
		t.Error("duplicate name should be rejected")
	}
	if err := r.Register(&Language{Name: "cython", Extensions: []string{".py"}}); err == nil {
		t.Error("duplicate extension should be rejected")
	}
}

func TestByExtension(t *testing.T) {
	r := DefaultRegistry()
	cases := map[string]string{
		"src/app/main.py":     "python",
		"src/ui/App.TSX":      "typescript",
		"cmd/server/main.go":  "go",
		"lib/parser/mod.rs":   "rust",
		"app/models/user.rb":  "ruby",
		"com/acme/Main.java":  "java",
		"web/static/index.js": "javascript",
	}
	for path, want := range cases {
		l := r.ByExtension(path)
		if l == nil || l.Name != want {
			t.Errorf("ByExtension(%q) = %v, want %s", path, l, want)
		}
	}
	if r.ByExtension("Makefile") != nil {
		t.Error("extensionless file should have no language")
	}
}

func TestIsStdlib(t *testing.T) {
	py := DefaultRegistry().Lookup("python")
	for _, imp := range []string{"os", "os.path", "collections.abc", "numpy"} {
		if !py.IsStdlib(imp) {
			t.Errorf("%q should be stdlib/well-known", imp)
		}
	}
	if py.IsStdlib("myproject.core") {
		t.Error("project import misclassified as stdlib")
	}

	js := DefaultRegistry().Lookup("javascript")
	if !js.IsStdlib("node:fs") || !js.IsStdlib("path") {
		t.Error("node builtins should be stdlib")
	}
}

func TestStylesheetAndScoped(t *testing.T) {
	if !IsStylesheet("./styles/app.scss") || IsStylesheet("./app.ts") {
		t.Error("stylesheet detection wrong")
	}
	if !IsScopedPackage("@angular/core") || IsScopedPackage("react") {
		t.Error("scoped package detection wrong")
	}
}
