package pagepath

import (
	"errors"
	"path/filepath"
	"testing"
)

func TestClean(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr error
	}{
		{name: "single segment", input: "home", want: "home"},
		{name: "leading slash", input: "/home", want: "home"},
		{name: "trailing slash", input: "blog/", want: "blog"},
		{name: "nested", input: "blog/2024/launch", want: "blog/2024/launch"},
		{name: "collapse slashes", input: "blog//post", want: "blog/post"},
		{name: "single dot", input: "blog/./post", want: "blog/post"},
		{name: "double dot", input: "blog/drafts/../post", want: "blog/post"},
		{name: "percent decoded", input: "caf%C3%A9", want: "café"},
		{name: "space", input: "my%20page", want: "my page"},
		{name: "empty", input: "", wantErr: ErrEmpty},
		{name: "only slashes", input: "//", wantErr: ErrEmpty},
		{name: "dot dot to nothing", input: "blog/..", wantErr: ErrEmpty},
		{name: "escapes root", input: "../secret", wantErr: ErrEscapesRoot},
		{name: "escapes root late", input: "a/../../b", wantErr: ErrEscapesRoot},
		{name: "encoded dot dot", input: "%2e%2e/secret", wantErr: ErrEscapesRoot},
		{name: "backslash", input: `blog\post`, wantErr: ErrBackslash},
		{name: "literal nul", input: "a\x00b", wantErr: ErrNullByte},
		{name: "encoded nul", input: "a%00b", wantErr: ErrNullByte},
		{name: "bad escape", input: "a%GG", wantErr: ErrInvalidPercentEscape},
		{name: "short escape", input: "a%2", wantErr: ErrInvalidPercentEscape},
		{name: "encoded slash", input: "a%2Fb", wantErr: ErrEncodedSlash},
		{name: "hidden file", input: ".env", wantErr: ErrHidden},
		{name: "hidden dir", input: "blog/.git/config", wantErr: ErrHidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Clean(tt.input)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Clean(%q) error = %v, want %v", tt.input, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Clean(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("Clean(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestResolve(t *testing.T) {
	got, err := Resolve("pages", "/blog//launch/")
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join("pages", "blog", "launch"); got != want {
		t.Errorf("Resolve = %q, want %q", got, want)
	}

	if _, err := Resolve("pages", "../etc/passwd"); !errors.Is(err, ErrEscapesRoot) {
		t.Errorf("Resolve escaping root: error = %v", err)
	}
}
