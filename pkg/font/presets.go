package font

import (
	"io"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/rotisserie/eris"
)

// PresetFile is the TOML form of a set of presets:
//
//	default = "liberation-mono"
//
//	[[preset]]
//	key = "liberation-mono"
//	regular = "fonts/liberation_mono/regular.ttf"
//	bold = "fonts/liberation_mono/bold.ttf"
//	size = 20
//	color = "#bf85d1"
type PresetFile struct {
	Default string        `toml:"default"`
	Presets []PresetEntry `toml:"preset"`
}

// PresetEntry is a single preset in a PresetFile.
type PresetEntry struct {
	Key        string  `toml:"key"`
	Regular    string  `toml:"regular"`
	Italic     string  `toml:"italic"`
	Bold       string  `toml:"bold"`
	BoldItalic string  `toml:"bold_italic"`
	Size       float32 `toml:"size"`
	Color      *Color  `toml:"color"`
}

// Preset converts the entry. A missing colour becomes White.
func (e PresetEntry) Preset() Preset {
	color := White
	if e.Color != nil {
		color = *e.Color
	}
	return Preset{
		Key:        e.Key,
		Regular:    Handle(e.Regular),
		Italic:     Handle(e.Italic),
		Bold:       Handle(e.Bold),
		BoldItalic: Handle(e.BoldItalic),
		Size:       e.Size,
		Color:      color,
	}
}

// LoadPresets decodes and validates a preset file. Unknown keys are rejected so typos don't go
// unnoticed.
func LoadPresets(r io.Reader) (*PresetFile, error) {
	var file PresetFile
	meta, err := toml.NewDecoder(r).Decode(&file)
	if err != nil {
		return nil, eris.Wrap(err, "failed to decode preset file")
	}

	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, key := range undecoded {
			keys[i] = key.String()
		}
		return nil, eris.Errorf("unknown keys in preset file: %s", strings.Join(keys, ", "))
	}

	if err := file.validate(); err != nil {
		return nil, err
	}
	return &file, nil
}

// LoadPresetsFile reads a preset file from disk.
func LoadPresetsFile(path string) (*PresetFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "failed to open preset file %s", path)
	}
	defer f.Close()

	file, err := LoadPresets(f)
	if err != nil {
		return nil, eris.Wrapf(err, "invalid preset file %s", path)
	}
	return file, nil
}

// validate checks the presets without touching a registry.
func (f *PresetFile) validate() error {
	seen := make(map[string]struct{}, len(f.Presets))
	for i, entry := range f.Presets {
		if _, err := entry.Preset().normalize(); err != nil {
			return eris.Wrapf(err, "preset #%d", i+1)
		}
		if _, ok := seen[entry.Key]; ok {
			return eris.Wrapf(ErrDuplicateFont, "preset %s appears twice", entry.Key)
		}
		seen[entry.Key] = struct{}{}
	}

	if _, ok := seen[f.Default]; f.Default != "" && !ok {
		return eris.Wrapf(ErrFontNotFound, "default font %s is not defined in the file", f.Default)
	}
	return nil
}

// Apply registers the presets in file order and selects the default if the file names one. Keys
// that are already registered are replaced.
func (f *PresetFile) Apply(r *Registry) error {
	for _, entry := range f.Presets {
		preset := entry.Preset()
		if _, err := r.Lookup(entry.Key); err == nil {
			if err := r.Replace(entry.Key, preset); err != nil {
				return err
			}
			continue
		}
		if err := r.Register(entry.Key, preset); err != nil {
			return err
		}
	}

	if f.Default != "" {
		return r.SetDefault(f.Default)
	}
	return nil
}
