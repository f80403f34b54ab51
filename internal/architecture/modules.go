// # internal/architecture/modules.go
//
// Package architecture groups files into modules, computes Martin
// metrics per module, and infers the layer structure with its
// violations.
package architecture

import (
	"fmt"
	"sort"
	"strings"

	"strata/internal/shared/util"
)

// Module is a directory-derived (or community-derived) group of files.
type Module struct {
	Path      string   `json:"path"`
	Files     []string `json:"files"`
	FileCount int      `json:"file_count"`
	Layer     int      `json:"layer"` // -1 until layer inference runs

	AfferentCoupling int      `json:"afferent_coupling"`
	EfferentCoupling int      `json:"efferent_coupling"`
	Instability      *float64 `json:"instability"` // nil when Ca+Ce == 0
	Abstractness     float64  `json:"abstractness"`
	MainSeqDistance  float64  `json:"main_seq_distance"`

	InternalEdges int     `json:"internal_edges"`
	ExternalEdges int     `json:"external_edges"`
	Cohesion      float64 `json:"cohesion"`
	Coupling      float64 `json:"coupling"`

	BoundaryAlignment float64 `json:"boundary_alignment"`
}

// DetectOptions tunes module detection. Zero values mean auto depth and
// the default 3..15 target band.
type DetectOptions struct {
	Depth       int // explicit module depth, 0 = infer
	TargetFloor int
	TargetCeil  int
	Communities map[string]int // fallback for flat projects
	IndexNames  []string       // directory-index files to ignore when a dir holds nothing else
}

func (o DetectOptions) band() (int, int) {
	floor, ceil := o.TargetFloor, o.TargetCeil
	if floor <= 0 {
		floor = 3
	}
	if ceil < floor {
		ceil = 15
	}
	return floor, ceil
}

// DetermineDepth picks the directory depth at which file groups best
// match the target module size. Depth 0 means a flat project; otherwise
// the depth with the most directories in the target band wins, falling
// back to the deepest level that still has at least two directories.
func DetermineDepth(paths []string, opts DetectOptions) int {
	if len(paths) == 0 {
		return 0
	}
	floor, ceil := opts.band()

	depthStats := make(map[int]map[string]int)
	maxDepth := 0
	for _, p := range paths {
		parts := util.DirParts(p)
		if len(parts) > maxDepth {
			maxDepth = len(parts)
		}
		for depth := 0; depth <= len(parts); depth++ {
			dir := "."
			if depth > 0 {
				dir = strings.Join(parts[:depth], "/")
			}
			if depthStats[depth] == nil {
				depthStats[depth] = make(map[string]int)
			}
			depthStats[depth][dir]++
		}
	}
	if maxDepth == 0 {
		return 0
	}

	bestDepth := maxDepth
	bestScore := -1
	for depth := 1; depth <= maxDepth; depth++ {
		dirs := depthStats[depth]
		if len(dirs) < 2 {
			continue
		}
		inRange := 0
		for _, count := range dirs {
			if count >= floor && count <= ceil {
				inRange++
			}
		}
		score := inRange*2 + len(dirs)
		if score > bestScore {
			bestScore = score
			bestDepth = depth
		}
	}
	if bestScore <= 0 {
		for depth := maxDepth; depth >= 1; depth-- {
			if len(depthStats[depth]) >= 2 {
				return depth
			}
		}
		return maxDepth
	}
	return bestDepth
}

// DetectModules partitions every file into exactly one module. Flat
// projects collapse into a single "." module; when that happens and
// community assignments are available, communities become synthetic
// modules instead so downstream metrics still have boundaries to work
// with.
func DetectModules(paths []string, opts DetectOptions) map[string]*Module {
	if len(paths) == 0 {
		return map[string]*Module{}
	}
	depth := opts.Depth
	if depth == 0 {
		depth = DetermineDepth(paths, opts)
	}

	indexNames := make(map[string]bool, len(opts.IndexNames))
	for _, name := range opts.IndexNames {
		indexNames[name] = true
	}

	grouped := make(map[string][]string)
	for _, p := range paths {
		parts := util.DirParts(p)
		var modPath string
		switch {
		case depth == 0 || len(parts) == 0:
			modPath = "."
		case len(parts) < depth:
			modPath = strings.Join(parts, "/")
		default:
			modPath = strings.Join(parts[:depth], "/")
		}
		grouped[modPath] = append(grouped[modPath], p)
	}

	modules := make(map[string]*Module, len(grouped))
	var skipped []string
	for _, modPath := range util.SortedStringKeys(grouped) {
		files := grouped[modPath]
		sort.Strings(files)
		// A directory holding only its index file is packaging, not a
		// module.
		if len(files) == 1 && indexNames[baseName(files[0])] {
			skipped = append(skipped, files[0])
			continue
		}
		modules[modPath] = &Module{Path: modPath, Files: files, FileCount: len(files), Layer: -1}
	}
	// Orphaned index files still need a home to keep the partition total.
	for _, p := range skipped {
		reattachFile(modules, p)
	}

	if len(modules) == 1 && len(opts.Communities) > 0 {
		return communityModules(paths, opts.Communities)
	}
	return modules
}

func baseName(p string) string {
	if i := strings.LastIndex(p, "/"); i >= 0 {
		return p[i+1:]
	}
	return p
}

// reattachFile assigns a skipped index file to the deepest module whose
// path contains it, or a fresh module of its own directory when none
// exists.
func reattachFile(modules map[string]*Module, p string) {
	best := ""
	for _, modPath := range util.SortedStringKeys(modules) {
		if modPath == "." || !util.HasPathPrefix(p, modPath) {
			continue
		}
		if len(modPath) > len(best) {
			best = modPath
		}
	}
	if best == "" {
		if _, ok := modules["."]; ok {
			best = "."
		}
	}
	if m, ok := modules[best]; ok {
		m.Files = append(m.Files, p)
		sort.Strings(m.Files)
		m.FileCount = len(m.Files)
		return
	}
	dir := "."
	if parts := util.DirParts(p); len(parts) > 0 {
		dir = strings.Join(parts, "/")
	}
	modules[dir] = &Module{Path: dir, Files: []string{p}, FileCount: 1, Layer: -1}
}

func communityModules(paths []string, communities map[string]int) map[string]*Module {
	grouped := make(map[int][]string)
	for _, p := range paths {
		grouped[communities[p]] = append(grouped[communities[p]], p)
	}
	modules := make(map[string]*Module, len(grouped))
	for _, id := range util.SortedIntKeys(grouped) {
		files := grouped[id]
		sort.Strings(files)
		path := fmt.Sprintf("community_%d", id)
		modules[path] = &Module{Path: path, Files: files, FileCount: len(files), Layer: -1}
	}
	return modules
}

// FileIndex builds the file -> module lookup used by coupling and layer
// computation.
func FileIndex(modules map[string]*Module) map[string]string {
	index := make(map[string]string)
	for modPath, mod := range modules {
		for _, f := range mod.Files {
			index[f] = modPath
		}
	}
	return index
}
