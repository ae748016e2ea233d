package toolkit

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Toolkit is a plan template: the stop-type vocabulary the editor offers and
// the static defaults the UI shows as a preview when earned evidence is
// insufficient.
type Toolkit struct {
	ID              string   `yaml:"id"`
	Name            string   `yaml:"name"`
	StopTypes       []string `yaml:"stop_types"`
	DefaultStops    int      `yaml:"default_stops"`
	DefaultSequence []string `yaml:"default_sequence"`
	DefaultHourBin  string   `yaml:"default_hour_bin"`
}

type Registry struct {
	toolkits map[string]Toolkit
}

type registryFile struct {
	Version  int       `yaml:"version"`
	Toolkits []Toolkit `yaml:"toolkits"`
}

// Load reads a registry from a YAML file.
func Load(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading toolkit registry: %w", err)
	}
	var f registryFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("loading toolkit registry: %w", err)
	}
	if err := validateRegistry(&f); err != nil {
		return nil, fmt.Errorf("loading toolkit registry: %w", err)
	}
	return fromFile(&f), nil
}

// Builtin returns the compiled-in registry used when no TOOLKITS_PATH is set.
func Builtin() *Registry {
	f := registryFile{
		Version: 1,
		Toolkits: []Toolkit{
			{
				ID:              "date-night",
				Name:            "Date Night",
				StopTypes:       []string{"dinner", "drinks", "dessert", "activity", "walk"},
				DefaultStops:    3,
				DefaultSequence: []string{"dinner", "drinks", "dessert"},
				DefaultHourBin:  "18-21",
			},
			{
				ID:              "day-out",
				Name:            "Day Out",
				StopTypes:       []string{"coffee", "brunch", "activity", "lunch", "shopping", "walk"},
				DefaultStops:    4,
				DefaultSequence: []string{"coffee", "activity", "lunch", "walk"},
				DefaultHourBin:  "9-12",
			},
			{
				ID:              "night-out",
				Name:            "Night Out",
				StopTypes:       []string{"dinner", "bar", "club", "late-bite"},
				DefaultStops:    3,
				DefaultSequence: []string{"dinner", "bar", "club"},
				DefaultHourBin:  "21-24",
			},
		},
	}
	return fromFile(&f)
}

func fromFile(f *registryFile) *Registry {
	r := &Registry{toolkits: make(map[string]Toolkit, len(f.Toolkits))}
	for _, t := range f.Toolkits {
		r.toolkits[t.ID] = t
	}
	return r
}

func validateRegistry(f *registryFile) error {
	if f.Version != 1 {
		return fmt.Errorf("unsupported version: %d", f.Version)
	}
	seen := map[string]bool{}
	for i, t := range f.Toolkits {
		if strings.TrimSpace(t.ID) == "" {
			return fmt.Errorf("toolkit %d: id is required", i)
		}
		if seen[t.ID] {
			return fmt.Errorf("toolkit %q: duplicate id", t.ID)
		}
		seen[t.ID] = true
		if t.DefaultStops < 1 {
			return fmt.Errorf("toolkit %q: default_stops must be positive", t.ID)
		}
		vocab := map[string]bool{}
		for _, st := range t.StopTypes {
			vocab[st] = true
		}
		for _, st := range t.DefaultSequence {
			if !vocab[st] {
				return fmt.Errorf("toolkit %q: default sequence uses unknown stop type %q", t.ID, st)
			}
		}
	}
	return nil
}

func (r *Registry) Get(id string) (Toolkit, bool) {
	t, ok := r.toolkits[id]
	return t, ok
}

func (r *Registry) IDs() []string {
	out := make([]string, 0, len(r.toolkits))
	for id := range r.toolkits {
		out = append(out, id)
	}
	return out
}
