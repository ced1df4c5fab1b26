package mediavault

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var validTableNameRegex = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// IsValidTableName checks if a metadata table name is valid (lowercase,
// alphanumeric with underscores, max 63 chars). SQL backends interpolate
// the table name into statements, so it is validated up front.
func IsValidTableName(name string) bool {
	return validTableNameRegex.MatchString(name) && len(name) <= 63
}

const maxNameLength = 200

// IsValidName validates that an object name can be used directly as a
// filesystem-safe storage key. It checks that the name:
//   - is not empty and at most 200 bytes
//   - contains no path separators ("/", "\") or parent references ("..")
//   - does not start with "." (reserved for temp files)
//   - does not contain invalid characters: ? # ~ % * : | " < >
//   - is valid UTF-8
//   - does not contain null bytes, control characters, or whitespace
//
// Returns true if the name is valid, false otherwise.
func IsValidName(name string) bool {
	if name == "" || len(name) > maxNameLength {
		return false
	}

	if name[0] == '.' {
		return false
	}

	if strings.ContainsAny(name, `/\`) {
		return false
	}

	if strings.Contains(name, "..") {
		return false
	}

	if strings.ContainsAny(name, `?#~%*:|"<>`) {
		return false
	}

	if !utf8.ValidString(name) {
		return false
	}

	for _, r := range name {
		if r == 0 || r < 0x20 || r == 0x7f || unicode.IsSpace(r) {
			return false
		}
	}

	return true
}
