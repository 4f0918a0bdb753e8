package server

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/argus-labs/reactive-font/pkg/ecs"
	"github.com/argus-labs/reactive-font/pkg/font"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	server *Server
	guard  *WorldGuard
	title  ecs.EntityID
	body   ecs.EntityID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	reg := font.NewRegistry()
	require.NoError(t, reg.Register("mono", font.Preset{Key: "mono", Regular: "fonts/mono.ttf", Size: 20}))
	require.NoError(t, reg.Register("serif", font.Preset{Key: "serif", Regular: "fonts/serif.ttf"}))
	require.NoError(t, reg.SetDefault("mono"))

	w := ecs.NewWorld()
	require.NoError(t, w.RegisterPlugin(font.NewPlugin(reg)))

	f := &fixture{guard: NewWorldGuard(w)}
	require.NoError(t, f.guard.Update(func(w *ecs.World) error {
		var err error
		f.title, err = font.SpawnText(w.State(), "serif", "Title", font.Bold{})
		if err != nil {
			return err
		}
		f.body, err = font.SpawnText(w.State(), "", "Body")
		if err != nil {
			return err
		}
		return w.Tick(context.Background())
	}))

	s, err := New(f.guard)
	require.NoError(t, err)
	f.server = s
	return f
}

func (f *fixture) do(t *testing.T, method, path string, body []byte, out any) int {
	t.Helper()

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := f.server.App().Test(req, -1)
	require.NoError(t, err)
	defer res.Body.Close()

	if out != nil {
		require.NoError(t, json.NewDecoder(res.Body).Decode(out))
	}
	return res.StatusCode
}

func TestNew_RequiresGuard(t *testing.T) {
	t.Parallel()

	_, err := New(nil)
	require.Error(t, err)
}

func TestServer_Health(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	var reply HealthReply
	code := f.do(t, http.MethodGet, "/health", nil, &reply)

	assert.Equal(t, http.StatusOK, code)
	assert.True(t, reply.IsServerRunning)
	assert.Equal(t, uint64(1), reply.TickHeight)
	assert.Equal(t, 2, reply.Entities)
}

func TestServer_ListFonts(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	var reply ListFontsReply
	code := f.do(t, http.MethodGet, "/fonts", nil, &reply)

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "mono", reply.Default)
	assert.Equal(t, 1, reply.DefaultUsers)
	require.Len(t, reply.Presets, 2)
	assert.Equal(t, "mono", reply.Presets[0].Key)
	assert.Equal(t, "serif", reply.Presets[1].Key)
	assert.InDelta(t, font.DefaultSize, reply.Presets[1].Size, 0)
}

func TestServer_GetFont(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	var preset font.Preset
	code := f.do(t, http.MethodGet, "/fonts/serif", nil, &preset)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, font.Handle("fonts/serif.ttf"), preset.Bold)
	assert.Equal(t, font.White, preset.Color)

	var errReply map[string]string
	code = f.do(t, http.MethodGet, "/fonts/missing", nil, &errReply)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Contains(t, errReply["error"], "missing")
}

func TestServer_GetFontUsers(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	var reply FontUsersReply
	code := f.do(t, http.MethodGet, "/fonts/serif/users", nil, &reply)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "serif", reply.Key)
	assert.Equal(t, []ecs.EntityID{f.title}, reply.Entities)

	code = f.do(t, http.MethodGet, "/fonts/mono/users", nil, &reply)
	assert.Equal(t, http.StatusOK, code)
	assert.Empty(t, reply.Entities)

	code = f.do(t, http.MethodGet, "/fonts/missing/users", nil, nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestServer_GetFontUsers_UnregisteredKeyInUse(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	var pending ecs.EntityID
	require.NoError(t, f.guard.Update(func(w *ecs.World) error {
		var err error
		pending, err = font.SpawnText(w.State(), "later", "Pending")
		return err
	}))

	var reply FontUsersReply
	code := f.do(t, http.MethodGet, "/fonts/later/users", nil, &reply)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, []ecs.EntityID{pending}, reply.Entities)
}

func TestServer_Search(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	body, err := json.Marshal(ecs.SearchParam{
		Find:  []string{"reactive_font", "bold"},
		Match: ecs.MatchContains,
	})
	require.NoError(t, err)

	var reply SearchReply
	code := f.do(t, http.MethodPost, "/debug/search", body, &reply)
	require.Equal(t, http.StatusOK, code)
	require.Len(t, reply.Results, 1)
	assert.InDelta(t, float64(f.title), reply.Results[0]["_id"], 0)
}

func TestServer_Search_DefaultsToContains(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	var reply SearchReply
	code := f.do(t, http.MethodPost, "/debug/search", []byte(`{"find":["text"]}`), &reply)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, reply.Results, 2)
}

func TestServer_Search_BadRequest(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	code := f.do(t, http.MethodPost, "/debug/search", []byte(`{"find":`), nil)
	assert.Equal(t, http.StatusBadRequest, code)

	code = f.do(t, http.MethodPost, "/debug/search", []byte(`{"find":["nope"],"match":"exact"}`), nil)
	assert.Equal(t, http.StatusBadRequest, code)

	code = f.do(t, http.MethodPost, "/debug/search", []byte(`{"find":["text"],"match":"fuzzy"}`), nil)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestServer_Components(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	var reply ComponentsReply
	code := f.do(t, http.MethodGet, "/debug/components", nil, &reply)
	require.Equal(t, http.StatusOK, code)

	assert.Contains(t, reply.Components, "reactive_font")
	assert.Contains(t, reply.Components, "bold")

	textFont := reply.Components["text_font"]
	require.NotNil(t, textFont)
	properties, ok := textFont["properties"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, properties, "size")
	assert.NotContains(t, textFont, "$schema")
}

func TestServer_ServeStopsOnCancel(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- f.server.Serve(ctx, "127.0.0.1:0") }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("server did not shut down")
	}
}
