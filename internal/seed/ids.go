package seed

import (
	"errors"
	"fmt"
	"strings"

	"relief/internal/utils"
)

// Kind names a seeded table.
type Kind string

const (
	KindProductType Kind = "product-type"
	KindCenter      Kind = "center"
)

// seededIDs returns every fixed id in the seed files.
func seededIDs() map[string]bool {
	ids := make(map[string]bool, len(ProductTypes)+len(Centers))
	for _, pt := range ProductTypes {
		ids[pt.ID] = true
	}
	for _, c := range Centers {
		ids[c.ID] = true
	}
	return ids
}

// NewID returns a fresh primary key that collides with no seeded row.
func NewID(taken map[string]bool) string {
	for {
		id := utils.NanoID()
		if !taken[id] {
			taken[id] = true
			return id
		}
	}
}

// Entries renders paste-ready seed literals for the given names, one per line.
func Entries(kind Kind, names []string) ([]string, error) {
	taken := seededIDs()

	out := make([]string, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, errors.New("seed entry name cannot be blank")
		}

		switch kind {
		case KindProductType:
			out = append(out, fmt.Sprintf("{ID: %q, Name: %q, Description: \"\"},", NewID(taken), name))
		case KindCenter:
			out = append(out, fmt.Sprintf("{ID: %q, Name: %q, Location: \"\", OperatingHours: \"\"},", NewID(taken), name))
		default:
			return nil, fmt.Errorf("unknown seed kind %q (want %s or %s)", kind, KindProductType, KindCenter)
		}
	}

	return out, nil
}
