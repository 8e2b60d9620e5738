// Package errors provides structured, actionable error messages for the
// wbweb command line.
//
// Library packages return their own typed errors (hiccup.MalformedNodeError,
// negotiate.RenderStrategyError). Those carry an ErrorCode() that maps onto
// this package's registry, so the CLI can show a consistent message:
//
//	if err != nil {
//	    errors.PrintError(os.Stderr, errors.FromError(err, "X001").WithFile(path))
//	}
//	// ERROR R001: Malformed node
//	//
//	//   page.json at node /0/2
//	//
//	//   malformed node at /0/2: element needs a tag and an attribute mapping
//	//
//	//   Hint: Check the node at the reported path; ...
//
// # Error Categories
//
//   - render: tree structure errors
//   - negotiation: strategy failures
//   - config: configuration loading and validation
//   - publish: upload failures
//   - cli: input handling
package errors
