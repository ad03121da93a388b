package migrate

import (
	"fmt"
	"io/fs"
	"os"
	"regexp"
	"strconv"
	"strings"
)

var sqlFileRe = regexp.MustCompile(`^(\d{14})_[a-z0-9_]+\.sql$`)

// postgresOnly lists constructs the sqlite cart store rejects.
var postgresOnly = []string{"CREATE EXTENSION", "JSONB", "TIMESTAMPTZ", "SERIAL PRIMARY KEY"}

// ValidateDir validates the migrations in dir.
func ValidateDir(dir string) error {
	if dir == "" {
		return fmt.Errorf("dir is required")
	}
	if _, err := os.Stat(dir); err != nil {
		return fmt.Errorf("read dir %q: %w", dir, err)
	}
	return ValidateFS(os.DirFS(dir))
}

// ValidateEmbedded validates the migrations compiled into the binary.
func ValidateEmbedded() error {
	sub, err := fs.Sub(embedded, embeddedDir)
	if err != nil {
		return fmt.Errorf("open embedded migrations: %w", err)
	}
	return ValidateFS(sub)
}

// ValidateFS checks filenames, unique versions, goose headers and sqlite
// compatibility of every .sql file at the root of fsys.
func ValidateFS(fsys fs.FS) error {
	files, err := migrationFiles(fsys)
	if err != nil {
		return err
	}

	seen := map[int64]string{}
	for _, f := range files {
		if prev, ok := seen[f.version]; ok {
			return fmt.Errorf("duplicate migration version %d in %q and %q", f.version, prev, f.name)
		}
		seen[f.version] = f.name

		b, err := fs.ReadFile(fsys, f.name)
		if err != nil {
			return fmt.Errorf("read file %q: %w", f.name, err)
		}
		txt := string(b)
		if !strings.Contains(txt, "-- +goose Up") {
			return fmt.Errorf("migration %q missing \"-- +goose Up\"", f.name)
		}
		if !strings.Contains(txt, "-- +goose Down") {
			return fmt.Errorf("migration %q missing \"-- +goose Down\"", f.name)
		}
		upper := strings.ToUpper(txt)
		for _, construct := range postgresOnly {
			if strings.Contains(upper, construct) {
				return fmt.Errorf("migration %q uses %s, which sqlite does not support", f.name, construct)
			}
		}
	}

	// an empty directory is valid
	return nil
}

type migrationFile struct {
	name    string
	version int64
}

func migrationFiles(fsys fs.FS) ([]migrationFile, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("read migrations: %w", err)
	}
	var files []migrationFile
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".sql") {
			continue
		}
		m := sqlFileRe.FindStringSubmatch(name)
		if m == nil {
			return nil, fmt.Errorf("invalid migration filename %q (expected YYYYMMDDHHMMSS_name.sql)", name)
		}
		version, err := strconv.ParseInt(m[1], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid migration version in %q: %w", name, err)
		}
		files = append(files, migrationFile{name: name, version: version})
	}
	return files, nil
}

func latestVersion(fsys fs.FS) (int64, error) {
	files, err := migrationFiles(fsys)
	if err != nil {
		return 0, err
	}
	var latest int64
	for _, f := range files {
		latest = max(latest, f.version)
	}
	return latest, nil
}
