// Package negotiate picks an output format from a caller's accept-list and
// produces the response body in that format.
//
// # Strategies
//
// A Strategy turns a Payload into a Result. The set is closed:
//
//   - FragmentStrategy builds a Hiccup tree and renders it to HTML
//   - StructuredStrategy produces a JSON value for API clients
//   - RawStrategy dumps the payload as indented JSON text for debugging
//
// # Selection
//
// Negotiator.Select is the single dispatch point. It walks the accept-list
// in order and the first entry naming a known media type wins:
//
//	n := negotiate.New(buildPage)
//	n.Select([]string{"application/json", "text/html"}) // ChoiceStructured
//	n.Select([]string{"text/html"})                     // ChoiceFragment
//	n.Select(nil)                                       // ChoiceFragment
//
// Parameters are ignored and q-values are not weighted; this is a
// first-match policy, not full HTTP content negotiation.
//
// # Errors
//
// A strategy that cannot produce output returns a *RenderStrategyError
// naming the strategy and, when one is at fault, the payload key. The
// error is returned to the caller as is; no other strategy is tried.
package negotiate
