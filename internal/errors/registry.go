package errors

import "sort"

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category   Category
	Message    string
	Detail     string
	Suggestion string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Render Errors (R001-R099)
	// ============================================

	"R001": {
		Category:   CategoryRender,
		Message:    "Malformed node",
		Detail:     "The tree does not fit the node contract: an element is [tag, {attributes}, children...] and a text leaf is a string.",
		Suggestion: "Check the node at the reported path; every element needs an attribute mapping, even an empty one",
	},

	// ============================================
	// Negotiation Errors (N001-N099)
	// ============================================

	"N001": {
		Category:   CategoryNegotiation,
		Message:    "Render strategy failed",
		Detail:     "The selected strategy could not produce output for the payload.",
		Suggestion: "Check the reported payload key and the strategy's builder",
	},

	// ============================================
	// Config Errors (C001-C099)
	// ============================================

	"C001": {
		Category: CategoryConfig,
		Message:  "Invalid configuration",
	},
	"C002": {
		Category:   CategoryConfig,
		Message:    "Configuration file not found",
		Suggestion: "Create wbweb.json or wbweb.yaml, or pass --config",
	},
	"C003": {
		Category:   CategoryConfig,
		Message:    "Cannot parse configuration file",
		Suggestion: "Check that the file is valid JSON or YAML",
	},

	// ============================================
	// Publish Errors (P001-P099)
	// ============================================

	"P001": {
		Category: CategoryPublish,
		Message:  "Publishing failed",
		Detail:   "The rendered page could not be uploaded.",
	},

	// ============================================
	// CLI Errors (X001-X099)
	// ============================================

	"X001": {
		Category: CategoryCLI,
		Message:  "Cannot read input",
	},
	"X002": {
		Category:   CategoryCLI,
		Message:    "Unknown input format",
		Suggestion: "Use a .json, .yaml, .yml or .html file, or pass --format",
	},
}

// GetAllCodes returns all registered error codes, sorted.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// GetTemplate returns the template for an error code.
func GetTemplate(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}

// Register adds or replaces an error template.
func Register(code string, template ErrorTemplate) {
	registry[code] = template
}
