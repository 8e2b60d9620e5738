// Package pagepath canonicalizes the page paths that address trees on
// disk, such as "blog/2024/launch" in GET /pages/blog/2024/launch.
//
// A canonical page path is relative, uses "/" separators, has no empty,
// "." or ".." segments and never names a hidden file.
package pagepath

import (
	"errors"
	"net/url"
	"path/filepath"
	"strings"
)

// Page path errors.
var (
	ErrEmpty                = errors.New("empty page path")
	ErrBackslash            = errors.New("page path contains backslash")
	ErrNullByte             = errors.New("page path contains null byte")
	ErrInvalidPercentEscape = errors.New("invalid percent escape sequence")
	ErrEscapesRoot          = errors.New("page path escapes root via ..")
	ErrEncodedSlash         = errors.New("encoded slash (%2F) in page path segment")
	ErrHidden               = errors.New("page path names a hidden file")
)

// Clean returns the canonical form of p.
//
// Repeated slashes collapse, "." segments drop and ".." segments resolve
// against their parent. Leading and trailing slashes are removed. Segments
// are percent-decoded.
func Clean(p string) (string, error) {
	if strings.Contains(p, "\\") {
		return "", ErrBackslash
	}
	if strings.Contains(p, "\x00") || strings.Contains(strings.ToUpper(p), "%00") {
		return "", ErrNullByte
	}
	if strings.Contains(p, "%") {
		if err := validatePercentEscapes(p); err != nil {
			return "", err
		}
	}

	var out []string
	for _, seg := range strings.Split(p, "/") {
		decoded, err := url.PathUnescape(seg)
		if err != nil {
			return "", ErrInvalidPercentEscape
		}
		if strings.Contains(decoded, "/") {
			return "", ErrEncodedSlash
		}
		switch decoded {
		case "", ".":
			continue
		case "..":
			if len(out) == 0 {
				return "", ErrEscapesRoot
			}
			out = out[:len(out)-1]
			continue
		}
		if strings.HasPrefix(decoded, ".") {
			return "", ErrHidden
		}
		out = append(out, decoded)
	}

	if len(out) == 0 {
		return "", ErrEmpty
	}
	return strings.Join(out, "/"), nil
}

// Resolve cleans p and joins it under dir using the OS separator.
func Resolve(dir, p string) (string, error) {
	clean, err := Clean(p)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, filepath.FromSlash(clean)), nil
}

func validatePercentEscapes(p string) error {
	for i := 0; i < len(p); i++ {
		if p[i] != '%' {
			continue
		}
		if i+2 >= len(p) || !isHexDigit(p[i+1]) || !isHexDigit(p[i+2]) {
			return ErrInvalidPercentEscape
		}
		i += 2
	}
	return nil
}

func isHexDigit(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}
