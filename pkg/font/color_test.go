package font

import (
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseColor(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		input   string
		want    Color
		wantErr bool
	}{
		{input: "#bf85d1", want: Color{R: 0xbf, G: 0x85, B: 0xd1, A: 0xff}},
		{input: "#fff", want: White},
		{input: "#00000080", want: Color{A: 0x80}},
		{input: "rebeccapurple", want: Color{R: 0x66, G: 0x33, B: 0x99, A: 0xff}},
		{input: "RebeccaPurple", want: Color{R: 0x66, G: 0x33, B: 0x99, A: 0xff}},
		{input: "mediumpurple", want: Color{R: 0x93, G: 0x70, B: 0xdb, A: 0xff}},
		{input: "  Black ", want: Black},
		{input: "", wantErr: true},
		{input: "notacolor", wantErr: true},
		{input: "#12345", wantErr: true},
		{input: "#zzzzzz", wantErr: true},
		{input: "#12345g", wantErr: true},
		{input: "#1g3", wantErr: true},
		{input: "#-12345", wantErr: true},
		{input: "#+12345", wantErr: true},
		{input: "#112233zz", wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			t.Parallel()

			got, err := ParseColor(tc.input)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestColor_HexAndJSON(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "#bf85d1", Color{R: 0xbf, G: 0x85, B: 0xd1, A: 0xff}.Hex())
	assert.Equal(t, "#00000080", Color{A: 0x80}.Hex())

	data, err := json.Marshal(TextColor{Color: White})
	require.NoError(t, err)
	assert.JSONEq(t, `{"color":"#ffffff"}`, string(data))

	var decoded TextColor
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, White, decoded.Color)
}
