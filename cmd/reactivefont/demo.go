package main

import (
	"github.com/argus-labs/reactive-font/pkg/ecs"
	"github.com/argus-labs/reactive-font/pkg/font"
	"github.com/rotisserie/eris"
)

const (
	monoKey     = "liberation_mono"
	dyslexicKey = "open_dyslexic"

	// Ticks between default colour changes.
	cycleEvery = 30
)

var demoPresets = []font.Preset{
	{
		Key:        monoKey,
		Regular:    "fonts/liberation_mono/regular.ttf",
		Italic:     "fonts/liberation_mono/italic.ttf",
		Bold:       "fonts/liberation_mono/bold.ttf",
		BoldItalic: "fonts/liberation_mono/bold_italic.ttf",
		Size:       20,
		Color:      font.Color{R: 191, G: 133, B: 209, A: 255},
	},
	{
		Key:        dyslexicKey,
		Regular:    "fonts/opendyslexic/regular.otf",
		Italic:     "fonts/opendyslexic/italic.otf",
		Bold:       "fonts/opendyslexic/bold.otf",
		BoldItalic: "fonts/opendyslexic/bold_italic.otf",
		Size:       20,
		Color:      font.Color{R: 191, G: 133, B: 209, A: 255},
	},
}

// palette is the list of colours the default preset cycles through.
type palette struct {
	colors  []font.Color
	current int
}

func newPalette() *palette {
	return &palette{
		colors: []font.Color{
			{R: 162, G: 209, B: 133, A: 255}, // green
			{R: 133, G: 209, B: 155, A: 255}, // lime
			{R: 133, G: 209, B: 209, A: 255}, // blue
			{R: 133, G: 150, B: 209, A: 255}, // deep blue
			{R: 191, G: 133, B: 209, A: 255}, // purple
			{R: 209, G: 133, B: 168, A: 255}, // pink
		},
		current: 4,
	}
}

func (p *palette) next() font.Color {
	p.current = (p.current + 1) % len(p.colors)
	return p.colors[p.current]
}

// setupDemo registers the demo presets when none were loaded, then the systems that spawn the
// texts and cycle the default colour.
func setupDemo(w *ecs.World, registry *font.Registry) error {
	if registry.Len() == 0 {
		for _, preset := range demoPresets {
			if err := registry.Register(preset.Key, preset); err != nil {
				return err
			}
		}
		if err := registry.SetDefault(monoKey); err != nil {
			return err
		}
	}

	ecs.SetResource(w, newPalette())

	if err := ecs.RegisterSystem(w, spawnTexts, ecs.WithHook(ecs.Init), ecs.WithName("demo.spawn")); err != nil {
		return err
	}
	return ecs.RegisterSystem(w, cycleDefaultColor, ecs.WithName("demo.cycle"))
}

type spawnState struct {
	ecs.BaseSystemState
}

func spawnTexts(state *spawnState) error {
	ws := state.WorldState()

	texts := []struct {
		key   string
		value string
		extra []ecs.Component
	}{
		{dyslexicKey, "Wow this took way too long.", []ecs.Component{
			font.FontColor{Color: font.MustParseColor("rebeccapurple")},
		}},
		{"", "Hello there", nil},
		{"", "I did a cool thing!", []ecs.Component{font.Bold{}, font.Italic{}}},
		{"", "And came up with a way of storing fonts.", []ecs.Component{font.Bold{}}},
		{"", "Presets bundle the regular, bold, italic and bold italic fonts.", nil},
		{"", "They also carry a default size and colour.", nil},
		{"", "Override them with FontSize and FontColor on the text itself.", []ecs.Component{
			font.FontSize{Value: 25},
			font.FontColor{Color: font.Color{R: 94, G: 145, B: 136, A: 255}},
		}},
		{"", "Texts without a key follow the default preset.", nil},
	}

	for _, text := range texts {
		if _, err := font.SpawnText(ws, text.key, text.value, text.extra...); err != nil {
			return eris.Wrapf(err, "failed to spawn %q", text.value)
		}
	}
	state.Logger().Info().Int("texts", len(texts)).Msg("spawned demo texts")
	return nil
}

type cycleState struct {
	ecs.BaseSystemState
	Registry ecs.WithResource[font.Registry]
	Palette  ecs.WithResource[palette]
}

func cycleDefaultColor(state *cycleState) error {
	if state.Tick()%cycleEvery != 0 {
		return nil
	}

	registry := state.Registry.Get()
	preset, err := registry.Default()
	if err != nil {
		// Nothing to cycle without a default.
		return nil //nolint:nilerr // not an error for the demo
	}
	preset.Color = state.Palette.Get().next()
	if err := registry.Replace(preset.Key, preset); err != nil {
		return err
	}

	state.Logger().Debug().Str("preset", preset.Key).Str("color", preset.Color.Hex()).Msg("cycled default color")
	return nil
}
