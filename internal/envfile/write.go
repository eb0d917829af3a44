package envfile

import (
	"os"
	"strings"
)

// Write serializes vars as key=value lines and overwrites path. Keys are
// written in sorted order. A nil value serializes as an empty value; the
// platform never returns nulls on fetch, so this only matters for callers
// writing hand-built mappings.
func Write(vars Vars, path string) error {
	lines := make([]string, 0, len(vars))
	for _, k := range vars.SortedKeys() {
		v := ""
		if vars[k] != nil {
			v = *vars[k]
		}
		lines = append(lines, k+"="+v)
	}
	return os.WriteFile(path, []byte(strings.Join(lines, "\n")), 0o600)
}
