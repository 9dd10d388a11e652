package migration

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"text/template"
	"time"
	"unicode"

	"github.com/golang-migrate/migrate/v4/source"
)

var fileTemplate = template.Must(template.New("migration").Parse(`-- {{.Entry}} ({{.Direction}})
-- {{.Created}}
{{- if .Description}}
-- {{.Description}}
{{- end}}

`))

// Entry is one numbered migration found on disk
type Entry struct {
	Version  uint
	Name     string
	UpPath   string
	DownPath string
}

// String renders the file stem, e.g. 000004_create_calculation_factors
func (e Entry) String() string {
	return fmt.Sprintf("%06d_%s", e.Version, e.Name)
}

// List returns the migrations in dir by version. A missing directory is
// empty. Files golang-migrate would not load are ignored.
func List(dir string) ([]Entry, error) {
	files, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", dir, err)
	}

	byVersion := make(map[uint]*Entry)
	for _, f := range files {
		if f.IsDir() {
			continue
		}
		parsed, err := source.Parse(f.Name())
		if err != nil {
			continue
		}
		e, ok := byVersion[parsed.Version]
		if !ok {
			e = &Entry{Version: parsed.Version, Name: parsed.Identifier}
			byVersion[parsed.Version] = e
		}
		path := filepath.Join(dir, f.Name())
		if parsed.Direction == source.Up {
			e.UpPath = path
		} else {
			e.DownPath = path
		}
	}

	entries := make([]Entry, 0, len(byVersion))
	for _, e := range byVersion {
		entries = append(entries, *e)
	}
	slices.SortFunc(entries, func(a, b Entry) int { return int(a.Version) - int(b.Version) })
	return entries, nil
}

// Create writes the next up/down pair into dir, numbered after the highest
// existing version
func Create(dir, name, description string) (Entry, error) {
	stem := slug(name)
	if stem == "" {
		return Entry{}, fmt.Errorf("migration name %q has no usable characters", name)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Entry{}, fmt.Errorf("create %s: %w", dir, err)
	}
	existing, err := List(dir)
	if err != nil {
		return Entry{}, err
	}

	e := Entry{Version: 1, Name: stem}
	if n := len(existing); n > 0 {
		e.Version = existing[n-1].Version + 1
	}
	e.UpPath = filepath.Join(dir, e.String()+".up.sql")
	e.DownPath = filepath.Join(dir, e.String()+".down.sql")

	created := time.Now().Format(time.RFC3339)
	if err := writeTemplate(e.UpPath, e, source.Up, created, description); err != nil {
		return Entry{}, err
	}
	if err := writeTemplate(e.DownPath, e, source.Down, created, description); err != nil {
		_ = os.Remove(e.UpPath)
		return Entry{}, err
	}
	return e, nil
}

func writeTemplate(path string, e Entry, dir source.Direction, created, description string) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	return fileTemplate.Execute(f, map[string]any{
		"Entry":       e,
		"Direction":   dir,
		"Created":     created,
		"Description": description,
	})
}

// slug lowercases name and joins its words with underscores
func slug(name string) string {
	words := strings.FieldsFunc(strings.ToLower(name), func(r rune) bool {
		return r == ' ' || r == '-' || r == '_'
	})
	for i, w := range words {
		words[i] = strings.Map(func(r rune) rune {
			if r < unicode.MaxASCII && (unicode.IsLower(r) || unicode.IsDigit(r)) {
				return r
			}
			return -1
		}, w)
	}
	words = slices.DeleteFunc(words, func(w string) bool { return w == "" })
	return strings.Join(words, "_")
}
