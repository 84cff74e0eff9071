package migrate

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"go.uber.org/multierr"
)

var sqlFileRe = regexp.MustCompile(`^(\d{14})_[a-z0-9_]+\.sql$`)

const (
	gooseUpMarker   = "-- +goose Up"
	gooseDownMarker = "-- +goose Down"
)

// ValidateDir checks every schema migration under dir before a deploy:
// filenames follow the timestamped goose convention, no two files share a
// version, and each file carries an Up section followed by a Down section.
// All problems are reported at once rather than stopping at the first.
func ValidateDir(dir string) error {
	if dir == "" {
		return fmt.Errorf("dir is required")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read dir %q: %w", dir, err)
	}

	seen := map[string]string{} // version -> filename
	var problems error

	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".sql") {
			continue
		}
		name := e.Name()

		m := sqlFileRe.FindStringSubmatch(name)
		if m == nil {
			problems = multierr.Append(problems, fmt.Errorf("invalid migration filename %q (expected YYYYMMDDHHMMSS_name.sql)", name))
			continue
		}

		version := m[1]
		if prev, ok := seen[version]; ok {
			problems = multierr.Append(problems, fmt.Errorf("duplicate migration version %s in %q and %q", version, prev, name))
		} else {
			seen[version] = name
		}

		problems = multierr.Append(problems, validateMigrationFile(filepath.Join(dir, name)))
	}

	return problems
}

func validateMigrationFile(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read file %q: %w", path, err)
	}

	name := filepath.Base(path)
	txt := string(b)
	up := strings.Index(txt, gooseUpMarker)
	down := strings.Index(txt, gooseDownMarker)
	if up < 0 {
		return fmt.Errorf("migration %q missing %q", name, gooseUpMarker)
	}
	if down < 0 {
		return fmt.Errorf("migration %q missing %q", name, gooseDownMarker)
	}
	if down < up {
		return fmt.Errorf("migration %q has the Down section before the Up section", name)
	}
	return nil
}
