package util

import "testing"

func TestNormalizePath(t *testing.T) {
	cases := map[string]string{
		"./src/graph/builder.py": "src/graph/builder.py",
		"src\\graph\\builder.py": "src/graph/builder.py",
		"  src/a.go ":            "src/a.go",
		".":                      "",
		"a/./b/../c.ts":          "a/c.ts",
	}
	for in, want := range cases {
		if got := NormalizePath(in); got != want {
			t.Errorf("NormalizePath(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestHasPathPrefix(t *testing.T) {
	if !HasPathPrefix("src/graph/builder.py", "src/graph") {
		t.Error("expected prefix match for containing directory")
	}
	if !HasPathPrefix("src/graph", "src/graph") {
		t.Error("expected prefix match for equal paths")
	}
	if HasPathPrefix("src/graphics/a.py", "src/graph") {
		t.Error("segment boundary should not match")
	}
}

func TestSortedStringKeys(t *testing.T) {
	m := map[string]int{"c": 1, "a": 2, "b": 3}
	keys := SortedStringKeys(m)
	want := []string{"a", "b", "c"}
	for i, k := range want {
		if keys[i] != k {
			t.Fatalf("keys = %v, want %v", keys, want)
		}
	}
}

func TestDirParts(t *testing.T) {
	parts := DirParts("src/graph/builder.py")
	if len(parts) != 2 || parts[0] != "src" || parts[1] != "graph" {
		t.Fatalf("DirParts = %v", parts)
	}
	if DirParts("main.go") != nil {
		t.Error("bare filename should have no directory parts")
	}
}
