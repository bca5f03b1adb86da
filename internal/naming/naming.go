package naming

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// entryNamePattern allows alphanumeric chars, dash and underscore.
// Anything else would leak into the source and output paths.
var entryNamePattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// EntryName is an entry point name that passed ParseEntryName.
type EntryName string

func (n EntryName) String() string {
	return string(n)
}

// PascalCase joins the dash or underscore separated segments of name,
// upper-casing the first character of each and lower-casing the rest.
//
//	post-editor      -> PostEditor
//	rich_text_editor -> RichTextEditor
func PascalCase(name string) string {
	var b strings.Builder
	b.Grow(len(name))

	for _, segment := range strings.FieldsFunc(name, isSeparator) {
		_, size := utf8.DecodeRuneInString(segment)
		b.WriteString(strings.ToUpper(segment[:size]))
		b.WriteString(strings.ToLower(segment[size:]))
	}

	return b.String()
}

// UnitName returns the build unit name for an entry, e.g. divimode_post_editor.
func UnitName(vendor, name string) string {
	return vendor + "_" + strings.ReplaceAll(name, "-", "_")
}

// ParseEntryName validates s before it is turned into paths.
func ParseEntryName(s string) (EntryName, error) {
	if s == "" {
		return "", fmt.Errorf("%w: empty name", ErrInvalidEntryName)
	}

	if strings.Contains(s, "..") || strings.ContainsAny(s, `/\`) {
		return "", fmt.Errorf("%w: %q must not contain path separators", ErrInvalidEntryName, s)
	}

	if !entryNamePattern.MatchString(s) {
		return "", fmt.Errorf("%w: %q must contain only alphanumeric, dash or underscore", ErrInvalidEntryName, s)
	}

	return EntryName(s), nil
}

func isSeparator(r rune) bool {
	return r == '-' || r == '_'
}
