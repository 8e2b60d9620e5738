package web

import (
	"net/http"

	"github.com/wbweb-dev/wbweb/pkg/hiccup"
	"github.com/wbweb-dev/wbweb/pkg/render"
)

// IsAPIRequest reports whether the request comes from an API client:
// either X-API-Client or HX-Request is present, even with an empty value.
func IsAPIRequest(r *http.Request) bool {
	return len(r.Header.Values(HeaderAPIClient)) > 0 || len(r.Header.Values(HeaderHXRequest)) > 0
}

// RenderError writes an error response. API clients get apiMessage as
// plain text; browsers get uiNode rendered as HTML. If uiNode cannot be
// rendered, browsers fall back to apiMessage escaped in a paragraph.
func RenderError(w http.ResponseWriter, r *http.Request, apiMessage string, uiNode *hiccup.Node, status int) {
	if IsAPIRequest(r) || uiNode == nil {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(apiMessage))
		return
	}

	html, err := render.Render(uiNode)
	if err != nil {
		html = "<p>" + render.EscapeString(apiMessage) + "</p>"
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(html))
}
