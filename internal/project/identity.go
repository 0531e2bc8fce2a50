// Package project defines the identity of a translation project. A project
// is keyed by language, book, and level slugs; the combination produces a
// stable name used for both the local working tree directory and the remote
// repository. Renaming any component is a different project.
package project

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/docscantools/docsync/internal/paths"
)

// Identity is the composed key of a project.
type Identity struct {
	Language string
	Book     string
	Level    string
}

// NewIdentity builds an Identity from raw slugs, lowercasing and trimming
// whitespace so the derived name is deterministic.
func NewIdentity(language, book, level string) Identity {
	return Identity{
		Language: normalize(language),
		Book:     normalize(book),
		Level:    normalize(level),
	}
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Slug returns the deterministic project name, e.g. "en_ulb_mat_text".
func (id Identity) Slug() string {
	return fmt.Sprintf("%s_%s_%s", id.Language, id.Book, id.Level)
}

// Dir returns the working tree path for this project under the provider's
// projects directory.
func (id Identity) Dir(p paths.Provider) string {
	return filepath.Join(p.ProjectsDir(), id.Slug())
}

// Valid reports whether all three components are present.
func (id Identity) Valid() bool {
	return id.Language != "" && id.Book != "" && id.Level != ""
}

func (id Identity) String() string {
	return id.Slug()
}
