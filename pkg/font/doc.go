// Package font lets text entities share named font presets.
//
// A Preset bundles the regular, italic, bold and bold-italic font handles of a typeface together
// with a default size and colour. Presets live in a Registry, which is stored as a world resource
// by the Plugin. Text entities opt in by carrying a ReactiveFont marker naming a preset key; the
// plugin keeps their TextFont and TextColor in sync with the preset, the Bold and Italic tags, and
// the FontSize and FontColor overrides.
//
// The registry keeps a back-reference from every preset key to the entities using it so that
// replacing a preset restyles exactly its users. Back-references are dropped by the marker's
// removal hook, which the world runs before a destroyed entity's ID is released.
package font
