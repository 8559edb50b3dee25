package scenario

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/maruel/natural"
	"gopkg.in/yaml.v3"

	"github.com/eugenenazirov/boxpack/internal/packer"
)

// fileScenario mirrors the YAML layout. Box is a pointer so files that only
// list items can be merged by LoadDir.
type fileScenario struct {
	Box   *packer.Box `yaml:"box"`
	Items []itemSpec  `yaml:"items"`
}

// Load reads a scenario from a file, or from every scenario file when path is
// a directory.
func Load(path string) (Scenario, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Scenario{}, err
	}
	if info.IsDir() {
		return LoadDir(path)
	}
	return LoadFile(path)
}

// LoadFile reads a scenario from a .yaml, .yml or .xlsx file. Files that omit
// the box get the default one.
func LoadFile(path string) (Scenario, error) {
	part, err := loadPart(path)
	if err != nil {
		return Scenario{}, err
	}
	s := Scenario{Box: Default().Box, Items: part.items}
	if part.box != nil {
		s.Box = *part.box
	}
	if err := s.Validate(); err != nil {
		return Scenario{}, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// LoadDir reads every scenario file in dir in natural file name order
// (items2 before items10) and concatenates their items. The box comes from
// the first file that declares one.
func LoadDir(dir string) (Scenario, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return Scenario{}, fmt.Errorf("read dir: %w", err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() || !supported(entry.Name()) {
			continue
		}
		paths = append(paths, filepath.Join(dir, entry.Name()))
	}
	if len(paths) == 0 {
		return Scenario{}, fmt.Errorf("%w in %s", ErrNoScenarioFiles, dir)
	}
	sort.Sort(natural.StringSlice(paths))

	var (
		box   *packer.Box
		items []packer.Item
	)
	for _, path := range paths {
		part, err := loadPart(path)
		if err != nil {
			return Scenario{}, err
		}
		if box == nil && part.box != nil {
			box = part.box
		}
		items = append(items, part.items...)
	}

	s := Scenario{Box: Default().Box, Items: items}
	if box != nil {
		s.Box = *box
	}
	if err := s.Validate(); err != nil {
		return Scenario{}, fmt.Errorf("%s: %w", dir, err)
	}
	return s, nil
}

// ParseYAML decodes a scenario document. A missing box falls back to the
// default one.
func ParseYAML(data []byte) (Scenario, error) {
	part, err := parseYAML(data)
	if err != nil {
		return Scenario{}, err
	}
	s := Scenario{Box: Default().Box, Items: part.items}
	if part.box != nil {
		s.Box = *part.box
	}
	if err := s.Validate(); err != nil {
		return Scenario{}, err
	}
	return s, nil
}

// MarshalYAML encodes s in the file layout accepted by LoadFile.
func MarshalYAML(s Scenario) ([]byte, error) {
	box := s.Box
	doc := fileScenario{Box: &box, Items: make([]itemSpec, 0, len(s.Items))}
	for _, item := range s.Items {
		doc.Items = append(doc.Items, itemSpec{Width: item.Width, Height: item.Height, Weight: item.Weight})
	}
	return yaml.Marshal(doc)
}

type part struct {
	box   *packer.Box
	items []packer.Item
}

func loadPart(path string) (part, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err := os.ReadFile(path)
		if err != nil {
			return part{}, fmt.Errorf("read file: %w", err)
		}
		p, err := parseYAML(data)
		if err != nil {
			return part{}, fmt.Errorf("%s: %w", path, err)
		}
		return p, nil
	case ".xlsx":
		p, err := loadXLSX(path)
		if err != nil {
			return part{}, fmt.Errorf("%s: %w", path, err)
		}
		return p, nil
	default:
		return part{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

func parseYAML(data []byte) (part, error) {
	var doc fileScenario
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return part{}, fmt.Errorf("parse YAML: %w", err)
	}
	return part{box: doc.Box, items: expand(doc.Items)}, nil
}

func supported(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml", ".xlsx":
		return !strings.HasPrefix(name, "~$")
	}
	return false
}
