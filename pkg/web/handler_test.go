package web

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wbweb-dev/wbweb/pkg/hiccup"
	"github.com/wbweb-dev/wbweb/pkg/negotiate"
)

func profile(p negotiate.Payload) (*hiccup.Node, error) {
	name, err := p.String("name")
	if err != nil {
		return nil, err
	}
	return hiccup.Section(hiccup.A("class", "profile"), hiccup.H1(nil, hiccup.Text(name))), nil
}

func newRouter(t *testing.T, n *negotiate.Negotiator, view ViewFunc, opts ...Option) http.Handler {
	t.Helper()
	opts = append([]Option{WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))}, opts...)
	r := chi.NewRouter()
	r.Method(http.MethodGet, "/users/{name}", Handler(n, view, opts...))
	return r
}

func userView(r *http.Request) (negotiate.Payload, error) {
	return negotiate.Payload{"name": chi.URLParam(r, "name")}, nil
}

func get(h http.Handler, accept string, headers ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/users/ada", nil)
	if accept != "" {
		req.Header.Set("Accept", accept)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHandlerNegotiates(t *testing.T) {
	h := newRouter(t, negotiate.New(profile), userView)

	tests := []struct {
		name        string
		accept      string
		contentType string
		body        string
	}{
		{
			name:        "browser",
			accept:      "text/html,application/xhtml+xml,*/*;q=0.8",
			contentType: negotiate.ContentTypeHTML,
			body:        `<section class="profile"><h1>ada</h1></section>`,
		},
		{
			name:        "no accept header",
			contentType: negotiate.ContentTypeHTML,
			body:        `<section class="profile"><h1>ada</h1></section>`,
		},
		{
			name:        "json client",
			accept:      "application/json",
			contentType: negotiate.ContentTypeJSON,
			body:        `{"name":"ada"}`,
		},
		{
			name:        "raw debug",
			accept:      "application/raw",
			contentType: negotiate.ContentTypeText,
			body:        "{\n  \"name\": \"ada\"\n}",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(h, tt.accept)
			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, tt.contentType, rec.Header().Get("Content-Type"))
			assert.Equal(t, "Accept", rec.Header().Get("Vary"))
			assert.Equal(t, tt.body, rec.Body.String())
		})
	}
}

func TestHandlerStatusFromPayload(t *testing.T) {
	view := func(r *http.Request) (negotiate.Payload, error) {
		return negotiate.Payload{"name": "missing", negotiate.StatusKey: http.StatusNotFound}, nil
	}
	h := newRouter(t, negotiate.New(profile), view)

	rec := get(h, "application/json")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, map[string]any{"name": "missing"}, body)
}

func TestHandlerAPIClient(t *testing.T) {
	api := func(p negotiate.Payload) (*hiccup.Node, error) {
		return hiccup.Div(hiccup.A("class", "api"), hiccup.Text("API response")), nil
	}
	h := newRouter(t, negotiate.New(profile, negotiate.WithAPIBuilder(api)), userView)

	for _, header := range []string{HeaderAPIClient, HeaderHXRequest} {
		t.Run(header, func(t *testing.T) {
			rec := get(h, "text/html", header, "true")
			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, `<div class="api">API response</div>`, rec.Body.String())
		})
	}

	rec := get(h, "application/json")
	assert.JSONEq(t, `{"component":"div","attributes":{"class":"api"},"children":["API response"]}`, rec.Body.String())
}

func TestHandlerStrategyError(t *testing.T) {
	view := func(r *http.Request) (negotiate.Payload, error) {
		return negotiate.Payload{"other": 1}, nil
	}

	var events []RenderEvent
	obs := ObserverFunc(func(ev RenderEvent) { events = append(events, ev) })
	h := newRouter(t, negotiate.New(profile), view, WithObserver(obs))

	rec := get(h, "text/html")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, "<p>Internal Server Error</p>", rec.Body.String())

	rec = get(h, "text/html", HeaderAPIClient, "1")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Internal Server Error", rec.Body.String())

	require.Len(t, events, 2)
	assert.Equal(t, negotiate.NameFragment, events[0].Strategy)
	var rse *negotiate.RenderStrategyError
	require.ErrorAs(t, events[0].Err, &rse)
	assert.Equal(t, "name", rse.Key)
}

func TestHandlerViewError(t *testing.T) {
	view := func(r *http.Request) (negotiate.Payload, error) {
		return nil, errors.New("database unavailable")
	}

	var got RenderEvent
	h := newRouter(t, negotiate.New(profile), view,
		WithErrorPage(hiccup.Main(nil, hiccup.H1(nil, hiccup.Text("Something went wrong")))),
		WithObserver(ObserverFunc(func(ev RenderEvent) { got = ev })),
	)

	rec := get(h, "text/html")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "<main><h1>Something went wrong</h1></main>", rec.Body.String())
	assert.Empty(t, got.Strategy)
	assert.EqualError(t, got.Err, "database unavailable")
}

func TestHandlerLogsStrategyFailure(t *testing.T) {
	var buf strings.Builder
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	view := func(r *http.Request) (negotiate.Payload, error) {
		return negotiate.Payload{}, nil
	}
	h := newRouter(t, negotiate.New(profile), view, WithLogger(logger))

	get(h, "")
	out := buf.String()
	assert.Contains(t, out, "render strategy failed")
	assert.Contains(t, out, "strategy=fragment")
	assert.Contains(t, out, "key=name")
}

func TestHandlerHead(t *testing.T) {
	r := chi.NewRouter()
	r.Method(http.MethodHead, "/users/{name}", Handler(negotiate.New(profile), userView))

	req := httptest.NewRequest(http.MethodHead, "/users/ada", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("Content-Length"))
}

func TestIsAPIRequest(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		want    bool
	}{
		{"browser", nil, false},
		{"htmx", map[string]string{HeaderHXRequest: "true"}, true},
		{"api client", map[string]string{HeaderAPIClient: "1"}, true},
		{"empty htmx header", map[string]string{HeaderHXRequest: ""}, true},
		{"empty api client header", map[string]string{HeaderAPIClient: ""}, true},
		{"unrelated header", map[string]string{"X-Requested-With": "XMLHttpRequest"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			for k, v := range tt.headers {
				req.Header[http.CanonicalHeaderKey(k)] = []string{v}
			}
			assert.Equal(t, tt.want, IsAPIRequest(req))
		})
	}
}

func TestHandlerJoinsAcceptHeaders(t *testing.T) {
	h := newRouter(t, negotiate.New(profile), userView)

	req := httptest.NewRequest(http.MethodGet, "/users/ada", nil)
	req.Header.Add("Accept", "image/webp")
	req.Header.Add("Accept", "application/json, text/html")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, negotiate.ContentTypeJSON, rec.Header().Get("Content-Type"))
}

func TestRenderError(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	rec := httptest.NewRecorder()
	RenderError(rec, req, "not found", hiccup.P(nil, hiccup.Text("Page <missing>")), http.StatusNotFound)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "<p>Page &lt;missing&gt;</p>", rec.Body.String())

	// An unrenderable page falls back to the escaped message.
	rec = httptest.NewRecorder()
	RenderError(rec, req, "a < b", hiccup.El("", nil), http.StatusBadRequest)
	assert.Equal(t, "<p>a &lt; b</p>", rec.Body.String())

	req.Header.Set(HeaderAPIClient, "cli")
	rec = httptest.NewRecorder()
	RenderError(rec, req, "not found", hiccup.P(nil), http.StatusNotFound)
	assert.Equal(t, "text/plain; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, "not found", rec.Body.String())
}
