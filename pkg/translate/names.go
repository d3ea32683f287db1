package translate

import (
	"errors"
	"strings"
	"unicode"
	"unicode/utf8"
)

var errEmptyTitle = errors.New("record has no title")

// afterMarker returns the text after the first marker, or the whole line when
// it has none.
func afterMarker(line string) string {
	if _, after, ok := strings.Cut(line, string(Marker)); ok {
		return after
	}
	return line
}

// positionalName is the label printed before the first ':' and then the first
// '(', with leading whitespace removed. For body records the result still
// starts with the marker.
func positionalName(line string) string {
	name, _, _ := strings.Cut(line, ":")
	name, _, _ = strings.Cut(name, "(")
	return strings.TrimLeftFunc(name, unicode.IsSpace)
}

// ruleName is the positional name of a body record without its marker.
func ruleName(line string) (string, error) {
	name := positionalName(line)
	if name == "" {
		return "", errEmptyTitle
	}
	_, size := utf8.DecodeRuneInString(name)
	name = strings.TrimSpace(name[size:])
	if name == "" {
		return "", errEmptyTitle
	}
	return name, nil
}

// literalName is the literal a body record argues for: its last token without
// the trailing terminator, prefixed with "not " when the token before it is
// the word not.
func literalName(line string) (string, error) {
	fields := strings.Fields(afterMarker(line))
	if len(fields) == 0 {
		return "", errEmptyTitle
	}
	last := fields[len(fields)-1]
	_, size := utf8.DecodeLastRuneInString(last)
	name := last[:len(last)-size]
	if name == "" {
		return "", errEmptyTitle
	}
	if len(fields) > 1 && fields[len(fields)-2] == "not" {
		name = "not " + name
	}
	return name, nil
}
