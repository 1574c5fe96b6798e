package uihints

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadFS walks the provided filesystem and parses JSON/YAML hint files. When
// fsys is nil or no hint files are present, the returned store is empty.
func LoadFS(fsys fs.FS) (*Store, error) {
	store := &Store{callables: make(map[string]Callable)}
	if fsys == nil {
		return store, nil
	}

	err := fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isHintFile(path) {
			return nil
		}

		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("uihints: read %s: %w", path, err)
		}
		doc, err := parseDocument(data, path)
		if err != nil {
			return err
		}

		for rawName, raw := range doc.Callables {
			name := strings.TrimSpace(rawName)
			if name == "" {
				return fmt.Errorf("uihints: file %s declares an empty callable name", path)
			}
			if _, exists := store.callables[name]; exists {
				return fmt.Errorf("uihints: duplicate callable %q (file %s)", name, path)
			}
			store.callables[name] = normalise(raw, name, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return store, nil
}

type documentFile struct {
	Callables map[string]callableFile `json:"callables" yaml:"callables"`
}

type callableFile struct {
	Form   FormConfig             `json:"form" yaml:"form"`
	Fields map[string]FieldConfig `json:"fields" yaml:"fields"`
}

func parseDocument(data []byte, source string) (documentFile, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return documentFile{}, fmt.Errorf("uihints: file %s is empty", source)
	}

	var doc documentFile
	if err := json.Unmarshal(data, &doc); err == nil {
		return doc, nil
	}
	if err := yaml.Unmarshal(data, &doc); err == nil {
		return doc, nil
	}
	return documentFile{}, fmt.Errorf("uihints: parse %s: invalid JSON or YAML", source)
}

func normalise(raw callableFile, name, source string) Callable {
	c := Callable{
		Name:   name,
		Source: source,
		Form:   raw.Form,
		Fields: make(map[string]FieldConfig, len(raw.Fields)),
	}
	for field, cfg := range raw.Fields {
		trimmed := strings.TrimSpace(field)
		if trimmed == "" {
			continue
		}
		c.Fields[trimmed] = cfg
	}
	return c
}

func isHintFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	}
	return false
}
