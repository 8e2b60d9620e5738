package hiccup

import "fmt"

// DefaultMaxDepth is the deepest tree, in levels, that decoding and
// rendering accept by default. The root node is level 1.
const DefaultMaxDepth = 512

// MalformedNodeError reports a tree that violates the node contract.
// Path locates the offending node as child indexes from the root
// ("/" is the root, "/0/2" the third child of the first child).
type MalformedNodeError struct {
	Path   string
	Reason string
}

// Error implements the error interface.
func (e *MalformedNodeError) Error() string {
	return fmt.Sprintf("malformed node at %s: %s", e.Path, e.Reason)
}

// ErrorCode returns the registered error code.
func (e *MalformedNodeError) ErrorCode() string {
	return "R001"
}

// ErrorPath returns the path of the offending node.
func (e *MalformedNodeError) ErrorPath() string {
	return e.Path
}

// Malformed builds a MalformedNodeError for the node at path.
func Malformed(path, format string, args ...any) *MalformedNodeError {
	if path == "" {
		path = "/"
	}
	return &MalformedNodeError{Path: path, Reason: fmt.Sprintf(format, args...)}
}

// TooDeep reports a node at path that lies below the maxDepth level.
func TooDeep(path string, maxDepth int) *MalformedNodeError {
	return Malformed(path, "tree deeper than %d levels", maxDepth)
}

// DepthLimit returns maxDepth, or DefaultMaxDepth when maxDepth is not
// positive.
func DepthLimit(maxDepth int) int {
	if maxDepth <= 0 {
		return DefaultMaxDepth
	}
	return maxDepth
}

// ChildPath returns the path of child i under parent.
func ChildPath(parent string, i int) string {
	if parent == "/" || parent == "" {
		return fmt.Sprintf("/%d", i)
	}
	return fmt.Sprintf("%s/%d", parent, i)
}
