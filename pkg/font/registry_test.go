package font

import (
	"math"
	"testing"

	"github.com/argus-labs/reactive-font/pkg/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_RegisterLookup(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	require.NoError(t, r.Register("mono", Preset{
		Regular: "mono/regular.ttf",
		Bold:    "mono/bold.ttf",
		Size:    20,
		Color:   White,
	}))

	preset, err := r.Lookup("mono")
	require.NoError(t, err)
	assert.Equal(t, Preset{
		Key:        "mono",
		Regular:    "mono/regular.ttf",
		Italic:     "mono/regular.ttf",
		Bold:       "mono/bold.ttf",
		BoldItalic: "mono/regular.ttf",
		Size:       20,
		Color:      White,
	}, preset)

	_, err = r.Lookup("serif")
	require.ErrorIs(t, err, ErrFontNotFound)
}

func TestRegistry_RegisterErrors(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		key     string
		preset  Preset
		wantErr error
	}{
		{name: "no regular font", key: "a", preset: Preset{}, wantErr: ErrInvalidPreset},
		{name: "negative size", key: "a", preset: Preset{Regular: "a.ttf", Size: -1}, wantErr: ErrInvalidPreset},
		{name: "nan size", key: "a", preset: Preset{Regular: "a.ttf", Size: float32(math.NaN())}, wantErr: ErrInvalidPreset},
		{name: "infinite size", key: "a", preset: Preset{Regular: "a.ttf", Size: float32(math.Inf(1))}, wantErr: ErrInvalidPreset},
		{name: "negative infinite size", key: "a", preset: Preset{Regular: "a.ttf", Size: float32(math.Inf(-1))}, wantErr: ErrInvalidPreset},
		{name: "empty key", key: "", preset: Preset{Regular: "a.ttf"}, wantErr: ErrInvalidPreset},
		{name: "mismatched key", key: "a", preset: Preset{Key: "b", Regular: "a.ttf"}, wantErr: ErrInvalidPreset},
		{name: "duplicate", key: "dup", preset: Preset{Regular: "a.ttf"}, wantErr: ErrDuplicateFont},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			r := NewRegistry()
			require.NoError(t, r.Register("dup", Preset{Regular: "dup.ttf"}))

			err := r.Register(tc.key, tc.preset)
			require.ErrorIs(t, err, tc.wantErr)
			assert.Equal(t, 1, r.Len())
		})
	}
}

func TestRegistry_DefaultSizeAndColor(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	require.NoError(t, r.Register("a", Preset{Regular: "a.ttf"}))
	require.NoError(t, r.Register("clear", Preset{Regular: "a.ttf", Color: Color{R: 0xff, G: 0xff, B: 0xff}}))

	preset, err := r.Lookup("a")
	require.NoError(t, err)
	assert.Equal(t, DefaultSize, preset.Size)
	assert.Equal(t, White, preset.Color)

	// Transparent colours other than the zero value are kept.
	preset, err = r.Lookup("clear")
	require.NoError(t, err)
	assert.Equal(t, Color{R: 0xff, G: 0xff, B: 0xff}, preset.Color)

	// Replace applies the same defaults.
	require.NoError(t, r.Replace("a", Preset{Regular: "b.ttf"}))
	preset, err = r.Lookup("a")
	require.NoError(t, err)
	assert.Equal(t, White, preset.Color)
}

func TestRegistry_Default(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	_, err := r.Default()
	require.ErrorIs(t, err, ErrCannotFindFont)

	require.NoError(t, r.Register("first", Preset{Regular: "first.ttf"}))
	require.NoError(t, r.Register("second", Preset{Regular: "second.ttf"}))

	preset, err := r.Default()
	require.NoError(t, err)
	assert.Equal(t, "first", preset.Key)

	require.NoError(t, r.SetDefault("second"))
	assert.Equal(t, "second", r.DefaultKey())

	err = r.SetDefault("third")
	require.ErrorIs(t, err, ErrFontNotFound)
	assert.Equal(t, "second", r.DefaultKey())

	assert.Equal(t, []string{"first", "second"}, r.Keys())
}

func TestRegistry_Replace(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	err := r.Replace("a", Preset{Regular: "a.ttf"})
	require.ErrorIs(t, err, ErrFontNotFound)

	require.NoError(t, r.Register("a", Preset{Regular: "a.ttf", Size: 10}))
	require.NoError(t, r.Replace("a", Preset{Regular: "b.ttf", Size: 12}))

	preset, err := r.Lookup("a")
	require.NoError(t, err)
	assert.Equal(t, Handle("b.ttf"), preset.Regular)
	assert.Equal(t, []string{"a"}, r.Keys())
}

func TestRegistry_BackReferences(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	r.track(3, "a")
	r.track(1, "a")
	r.track(2, "")

	assert.Equal(t, []ecs.EntityID{1, 3}, r.UsedBy("a"))
	assert.Equal(t, []ecs.EntityID{2}, r.UsedBy(""))
	assert.Equal(t, 3, r.Tracked())

	r.track(3, "b")
	key, ok := r.KeyOf(3)
	require.True(t, ok)
	assert.Equal(t, "b", key)

	assert.True(t, r.untrack(1))
	assert.False(t, r.untrack(1))
	assert.Empty(t, r.UsedBy("a"))
	assert.Equal(t, 2, r.Tracked())
}
