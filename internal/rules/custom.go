package rules

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// customFile is the on-disk shape of a custom rule definition file. A file
// may hold a single rule or a list under "rules".
type customFile struct {
	Rules []Rule `yaml:"rules"`
	Rule  `yaml:",inline"`
}

// loadCustomDir reads every *.yaml / *.yml file in dir as custom rule
// definitions. The directory must exist when named; unreadable or
// unparseable files are LoadErrors, since a partially loaded rule set would
// silently weaken detection.
func loadCustomDir(dir string) ([]Rule, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, &LoadError{Err: fmt.Errorf("read rules dir %s: %w", dir, err)}
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	var out []Rule
	for _, name := range names {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, &LoadError{Err: fmt.Errorf("read rule file %s: %w", path, err)}
		}
		var parsed customFile
		if err := yaml.Unmarshal(data, &parsed); err != nil {
			return nil, &LoadError{Err: fmt.Errorf("parse rule file %s: %w", path, err)}
		}
		if len(parsed.Rules) > 0 {
			out = append(out, parsed.Rules...)
			continue
		}
		if strings.TrimSpace(parsed.Rule.ID) != "" {
			out = append(out, parsed.Rule)
		}
	}
	return out, nil
}
