package font

// ReactiveFont marks a text entity as styled by a preset. An empty key selects the registry's
// default preset.
type ReactiveFont struct {
	Key string `json:"key"`
}

func (ReactiveFont) Name() string { return "reactive_font" }

// Text is the content of a text entity.
type Text struct {
	Value string `json:"value"`
}

func (Text) Name() string { return "text" }

// TextFont is the font a text entity is rendered with. The plugin owns it for marked entities.
type TextFont struct {
	Font Handle  `json:"font"`
	Size float32 `json:"size"`
}

func (TextFont) Name() string { return "text_font" }

// TextColor is the colour a text entity is rendered with. The plugin owns it for marked entities.
type TextColor struct {
	Color Color `json:"color"`
}

func (TextColor) Name() string { return "text_color" }

// Bold selects the bold handle of the preset.
type Bold struct{}

func (Bold) Name() string { return "bold" }

// Italic selects the italic handle of the preset.
type Italic struct{}

func (Italic) Name() string { return "italic" }

// FontSize overrides the preset size. The entity keeps this size when the preset changes.
type FontSize struct {
	Value float32 `json:"value"`
}

func (FontSize) Name() string { return "font_size" }

// FontColor overrides the preset colour. The entity keeps this colour when the preset changes.
type FontColor struct {
	Color Color `json:"color"`
}

func (FontColor) Name() string { return "font_color" }
