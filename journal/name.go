package journal

import (
	"github.com/gosimple/slug"
)

// GetName produces a stable readable database file name for a device label.
func GetName(label string) string {
	return slug.Make(label) + ".db"
}
