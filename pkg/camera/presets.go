package camera

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// Value is a preset entry: either a manual integer or the request to
// hand the property back to device automation.
type Value struct {
	auto  bool
	value int
}

func ValueOf(v int) Value {
	return Value{value: v}
}

func AutoValue() Value {
	return Value{auto: true}
}

func (v Value) IsAuto() bool {
	return v.auto
}

// Int returns the manual value; zero when the entry is auto.
func (v Value) Int() int {
	return v.value
}

func (v Value) String() string {
	if v.auto {
		return "auto"
	}

	return fmt.Sprintf("%d", v.value)
}

// UnmarshalYAML accepts a plain integer or the string "auto".
func (v *Value) UnmarshalYAML(node *yaml.Node) error {
	var raw string
	if err := node.Decode(&raw); err == nil && raw == "auto" {
		*v = AutoValue()

		return nil
	}

	var n int
	if err := node.Decode(&n); err != nil {
		return fmt.Errorf("preset value must be an integer or \"auto\": %w", err)
	}

	*v = ValueOf(n)

	return nil
}

func (v Value) MarshalYAML() (any, error) {
	if v.auto {
		return "auto", nil
	}

	return v.value, nil
}

// Preset is a named bundle of property assignments, keyed by property
// name or alias.
type Preset map[string]Value

// builtinPresets are the stock scene profiles. Custom presets with the
// same name shadow them without mutating this table.
var builtinPresets = map[string]Preset{
	"daylight": {
		"white_balance": ValueOf(5500),
		"brightness":    ValueOf(55),
		"contrast":      ValueOf(55),
		"saturation":    ValueOf(60),
	},
	"indoor": {
		"white_balance": ValueOf(3200),
		"brightness":    ValueOf(65),
		"contrast":      ValueOf(50),
	},
	"night": {
		"brightness": ValueOf(80),
		"gain":       ValueOf(80),
		"exposure":   AutoValue(),
	},
	"conference": {
		"brightness":    ValueOf(60),
		"contrast":      ValueOf(55),
		"focus":         AutoValue(),
		"white_balance": AutoValue(),
	},
}

// BuiltinPresetNames lists the stock presets, sorted.
func BuiltinPresetNames() []string {
	names := make([]string, 0, len(builtinPresets))
	for name := range builtinPresets {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// presetFile is the on-disk shape of a custom preset collection.
type presetFile struct {
	Presets map[string]Preset `yaml:"presets"`
}

func loadPresetsFile(path string) (map[string]Preset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read presets file: %w", err)
	}

	var file presetFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse presets file %s: %w", path, err)
	}

	return file.Presets, nil
}

func savePresetsFile(path string, presets map[string]Preset) error {
	data, err := yaml.Marshal(presetFile{Presets: presets})
	if err != nil {
		return fmt.Errorf("failed to encode presets: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write presets file: %w", err)
	}

	return nil
}
