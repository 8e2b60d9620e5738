// Package web adapts the negotiator to net/http.
//
// A view function returns a payload; Handler turns the request's Accept
// header into an accept-list, negotiates and writes the result:
//
//	n := negotiate.New(buildProfile)
//	r := chi.NewRouter()
//	r.Method(http.MethodGet, "/users/{id}", web.Handler(n, func(r *http.Request) (negotiate.Payload, error) {
//	    return negotiate.Payload{"id": chi.URLParam(r, "id")}, nil
//	}, web.WithLogger(logger)))
//
// Requests carrying X-API-Client or HX-Request are API clients: they get
// the API builder's markup when one is configured, and plain-text errors.
package web
