package roster

import "strings"

// Name is an instructor identity as it appears on the schedule pages.
// Equality is exact string-pair equality; no case or whitespace
// normalization is applied, so near-duplicates from inconsistent
// source formatting may coexist.
type Name struct {
	First string
	Last  string
}

// placeholders the registrar uses when no instructor is assigned yet.
var placeholders = map[string]bool{
	"":      true,
	"Staff": true,
	"TBA":   true,
}

// SplitCell splits an instructor cell's text on newline boundaries
// into raw name strings, order preserved. A single course may list
// multiple instructors in one cell. Placeholder entries are dropped.
func SplitCell(cell string) []string {
	var raws []string
	for _, line := range strings.Split(cell, "\n") {
		line = strings.TrimSpace(line)
		if placeholders[line] {
			continue
		}
		raws = append(raws, line)
	}
	return raws
}

// ParseName parses one raw name string into its (first, last) pair.
//
// The registrar lists names as "Last, First"; anything before the
// first comma is the last name. Comma-less strings with a space use
// the first token as the first name and the remainder as the last
// name. A string with no space at all is a last name with an empty
// first name. Multi-part surnames and suffixes get no special
// treatment.
func ParseName(raw string) (Name, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Name{}, false
	}

	if last, first, ok := strings.Cut(raw, ","); ok {
		return Name{
			First: strings.TrimSpace(first),
			Last:  strings.TrimSpace(last),
		}, true
	}

	first, rest, ok := strings.Cut(raw, " ")
	if !ok {
		return Name{Last: raw}, true
	}
	return Name{First: first, Last: strings.TrimSpace(rest)}, true
}
