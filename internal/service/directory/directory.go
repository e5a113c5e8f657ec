package directory

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/campushq/campusbot/internal/core"
)

//go:embed departments.json
var embeddedDirectory []byte

// Directory is the static department contact table. Loaded once at process
// start, read-only afterwards.
type Directory struct {
	entries      []core.DirectoryEntry
	defaultEntry core.DirectoryEntry
}

// Load reads the directory from path, or from the embedded default table
// when path is empty.
func Load(path string) (*Directory, error) {
	data := embeddedDirectory
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read directory file: %w", err)
		}
	}

	var raw struct {
		Departments []core.DirectoryEntry `json:"departments"`
		Default     core.DirectoryEntry   `json:"default"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse directory: %w", err)
	}
	if raw.Default.Name == "" {
		return nil, fmt.Errorf("directory has no default entry")
	}

	return &Directory{
		entries:      raw.Departments,
		defaultEntry: raw.Default,
	}, nil
}

// Match returns the department whose keywords best cover the query, or the
// default main-office entry when nothing matches. The second return
// reports whether a real department matched.
func (d *Directory) Match(query string) (core.DirectoryEntry, bool) {
	query = strings.ToLower(query)

	best := -1
	bestHits := 0
	for i, entry := range d.entries {
		hits := 0
		for _, kw := range entry.Keywords {
			if strings.Contains(query, strings.ToLower(kw)) {
				hits++
			}
		}
		if hits > bestHits {
			best, bestHits = i, hits
		}
	}

	if best < 0 {
		return d.defaultEntry, false
	}
	return d.entries[best], true
}

// Default exposes the main-office entry for the no-confident-match answer.
func (d *Directory) Default() core.DirectoryEntry {
	return d.defaultEntry
}

// Format renders an entry the way the assistant presents contacts.
func Format(entry core.DirectoryEntry) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "For questions like this, it's best to contact the %s.\n", entry.Name)
	sb.WriteString("You can reach them at:\n")
	fmt.Fprintf(&sb, "- Email: %s\n", entry.Email)
	if entry.Phone != "" {
		fmt.Fprintf(&sb, "- Phone: %s\n", entry.Phone)
	}
	fmt.Fprintf(&sb, "- Location: %s", entry.Location)
	return sb.String()
}
