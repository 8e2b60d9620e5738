package render

// voidElements are elements that cannot have children and have no closing tag.
// Only consulted when Config.VoidElements is set.
var voidElements = map[string]bool{
	"area":   true,
	"base":   true,
	"br":     true,
	"col":    true,
	"embed":  true,
	"hr":     true,
	"img":    true,
	"input":  true,
	"link":   true,
	"meta":   true,
	"param":  true,
	"source": true,
	"track":  true,
	"wbr":    true,
}

// isVoidElement returns true if the tag is a void element.
func isVoidElement(tag string) bool {
	return voidElements[tag]
}

// IsVoidElement reports whether tag is an HTML5 void element.
func IsVoidElement(tag string) bool {
	return isVoidElement(tag)
}
