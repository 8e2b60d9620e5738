// Package hiccup provides the Hiccup tree model used by wbweb.
//
// A Hiccup tree describes HTML as data. In its data form an element is a
// list whose first item is the tag, whose second item is the attribute
// mapping and whose remaining items are children; a string is a text leaf:
//
//	["div", {"class": "card"},
//	    ["h1", {}, "Title"],
//	    ["p", {}, "Content"]]
//
// # Core Types
//
// Node is a tagged node. Its Kind is fixed by the constructor used (Text,
// Raw, El) rather than guessed from the value's shape. Attrs is an ordered
// attribute list; render order is insertion order.
//
// # Decoding
//
// FromValue converts loosely typed data ([]any, strings, attribute maps)
// into Nodes and reports a MalformedNodeError for anything that does not
// fit the shape above. DecodeJSON and DecodeYAML read documents while
// keeping attribute order. ParseHTML goes the other way, turning an HTML
// fragment into Nodes.
package hiccup
