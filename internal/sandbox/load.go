package sandbox

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
)

//go:embed rules/*.yaml
var defaultRules embed.FS

// DefaultRules returns the names of the embedded rule documents in load
// order.
func DefaultRules() []string {
	names, _ := fs.Glob(defaultRules, "rules/*.yaml")
	sort.Strings(names)
	return names
}

// LoadDefaults adds every embedded rule document.
func (s *Simulation) LoadDefaults() error {
	var errs []error
	for _, name := range DefaultRules() {
		data, err := defaultRules.ReadFile(name)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if _, err := s.AddParticleType(data); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", path.Base(name), err))
		}
	}
	return errors.Join(errs...)
}

// LoadDir adds every rule document in dir, in name order. A bad document is
// reported and skipped; the rest still load.
func (s *Simulation) LoadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("sandbox: read rules: %w", err)
	}
	var errs []error
	for _, entry := range entries {
		if entry.IsDir() || !IsRuleFile(entry.Name()) {
			continue
		}
		file := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(file)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if _, err := s.AddParticleType(data); err != nil {
			s.log.Error("rule document rejected", "file", file, "err", err)
			errs = append(errs, fmt.Errorf("%s: %w", file, err))
		}
	}
	return errors.Join(errs...)
}

// IsRuleFile reports whether path has a rule document extension.
func IsRuleFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml", ".json":
		return true
	}
	return false
}
