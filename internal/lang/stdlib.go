package lang

import (
	"embed"
	"strings"
)

//go:embed stdlib/*.txt
var stdlibFS embed.FS

// loadStdlibSet reads one embedded list into a set. Lines are package
// names; blank lines and # comments are skipped. Each name is stored as
// given and as its first segment so dotted and slashed imports both hit.
func loadStdlibSet(name string) map[string]bool {
	data, err := stdlibFS.ReadFile("stdlib/" + name + ".txt")
	if err != nil {
		// Embedded files are fixed at compile time; a miss is a
		// programming error in the registry table.
		panic("lang: missing embedded stdlib list " + name)
	}
	set := make(map[string]bool)
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		set[line] = true
		if i := strings.IndexAny(line, "./"); i > 0 {
			set[line[:i]] = true
		}
	}
	return set
}
