package render

import (
	"strings"
	"testing"

	"github.com/wbweb-dev/wbweb/pkg/hiccup"
)

func TestEscapeHTML(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "empty string",
			input:    "",
			expected: "",
		},
		{
			name:     "plain text",
			input:    "Hello, World!",
			expected: "Hello, World!",
		},
		{
			name:     "ampersand",
			input:    "Tom & Jerry",
			expected: "Tom &amp; Jerry",
		},
		{
			name:     "less than",
			input:    "a < b",
			expected: "a &lt; b",
		},
		{
			name:     "greater than",
			input:    "a > b",
			expected: "a &gt; b",
		},
		{
			name:     "double quote",
			input:    `say "hello"`,
			expected: "say &quot;hello&quot;",
		},
		{
			name:     "single quote",
			input:    "it's fine",
			expected: "it&#39;s fine",
		},
		{
			name:     "script tag",
			input:    "<script>alert('xss')</script>",
			expected: "&lt;script&gt;alert(&#39;xss&#39;)&lt;/script&gt;",
		},
		{
			name:     "multiple special chars",
			input:    `<a href="test?a=1&b=2">link</a>`,
			expected: `&lt;a href=&quot;test?a=1&amp;b=2&quot;&gt;link&lt;/a&gt;`,
		},
		{
			name:     "unicode preserved",
			input:    "Hello 世界 🌍",
			expected: "Hello 世界 🌍",
		},
		{
			name:     "literal entity escaped once",
			input:    "fish &amp; chips",
			expected: "fish &amp;amp; chips",
		},
		{
			name:     "newline kept in text",
			input:    "a\nb",
			expected: "a\nb",
		},
		{
			name:     "invalid utf-8 kept",
			input:    "a\xff",
			expected: "a\xff",
		},
		{
			name:     "invalid utf-8 kept next to entity",
			input:    "a\xff&",
			expected: "a\xff&amp;",
		},
		{
			name:     "unicode next to entity",
			input:    "世界 <3",
			expected: "世界 &lt;3",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := escapeHTML(tt.input)
			if result != tt.expected {
				t.Errorf("escapeHTML(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestEscapeAttr(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "empty string",
			input:    "",
			expected: "",
		},
		{
			name:     "plain text",
			input:    "hello",
			expected: "hello",
		},
		{
			name:     "ampersand",
			input:    "a&b",
			expected: "a&amp;b",
		},
		{
			name:     "double quote",
			input:    `value="test"`,
			expected: "value=&quot;test&quot;",
		},
		{
			name:     "newline",
			input:    "line1\nline2",
			expected: "line1&#10;line2",
		},
		{
			name:     "carriage return",
			input:    "line1\rline2",
			expected: "line1&#13;line2",
		},
		{
			name:     "tab",
			input:    "col1\tcol2",
			expected: "col1&#9;col2",
		},
		{
			name:     "mixed whitespace",
			input:    "a\n\r\tb",
			expected: "a&#10;&#13;&#9;b",
		},
		{
			name:     "all special chars",
			input:    `<>&"'` + "\n\r\t",
			expected: "&lt;&gt;&amp;&quot;&#39;&#10;&#13;&#9;",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := escapeAttr(tt.input)
			if result != tt.expected {
				t.Errorf("escapeAttr(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func BenchmarkEscapeHTML(b *testing.B) {
	b.Run("plain text", func(b *testing.B) {
		s := "Hello, World! This is a plain text string without special characters."
		for i := 0; i < b.N; i++ {
			escapeHTML(s)
		}
	})

	b.Run("with special chars", func(b *testing.B) {
		s := `<script>alert("xss")</script> & more content here`
		for i := 0; i < b.N; i++ {
			escapeHTML(s)
		}
	})
}

func TestRenderTextInvalidUTF8(t *testing.T) {
	for _, text := range []string{"a\xff", "a\xff&"} {
		got, err := Render(hiccup.Text(text))
		if err != nil {
			t.Fatalf("Render(%q): %v", text, err)
		}
		if !strings.HasPrefix(got, "a\xff") {
			t.Errorf("Render(%q) = %q, want the invalid byte kept", text, got)
		}
	}

	got, err := Render(hiccup.Div(hiccup.A("title", "\xfe\"")))
	if err != nil {
		t.Fatal(err)
	}
	if want := "<div title=\"\xfe&quot;\"></div>"; got != want {
		t.Errorf("attribute = %q, want %q", got, want)
	}
}

func BenchmarkEscapeAttr(b *testing.B) {
	b.Run("plain text", func(b *testing.B) {
		s := "simple-value"
		for i := 0; i < b.N; i++ {
			escapeAttr(s)
		}
	})

	b.Run("with special chars", func(b *testing.B) {
		s := `value="test" with 'quotes' & newlines
and tabs	here`
		for i := 0; i < b.N; i++ {
			escapeAttr(s)
		}
	})
}
