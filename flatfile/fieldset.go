package flatfile

import (
	"strconv"
	"strings"
)

// DelimiterComma is the default field delimiter.
const DelimiterComma = ","

// Tokenizer splits a line into fields.
type Tokenizer struct {
	// Delimiter separates fields. Empty means DelimiterComma.
	Delimiter string
	// Names optionally labels fields by position for Named lookups.
	Names []string
}

// Tokenize splits line into a FieldSet. An empty line yields a single empty field.
func (t Tokenizer) Tokenize(line string) FieldSet {
	delim := t.Delimiter
	if delim == "" {
		delim = DelimiterComma
	}
	return FieldSet{values: strings.Split(line, delim), names: t.Names}
}

// FieldSet holds the fields of one line.
type FieldSet struct {
	values []string
	names  []string
}

// NewFieldSet creates a FieldSet over values with optional names.
func NewFieldSet(values []string, names ...string) FieldSet {
	return FieldSet{values: values, names: names}
}

// Len returns the number of fields on the line.
func (fs FieldSet) Len() int { return len(fs.values) }

// Values returns a copy of the raw fields.
func (fs FieldSet) Values() []string {
	return append([]string(nil), fs.values...)
}

// String returns field i verbatim, or "" when the line has no such field.
func (fs FieldSet) String(i int) string {
	if i < 0 || i >= len(fs.values) {
		return ""
	}
	return fs.values[i]
}

// IntOrZero parses field i as a base-10 integer after trimming surrounding
// whitespace. Absent, empty, non-numeric and out-of-range fields give 0.
func (fs FieldSet) IntOrZero(i int) int {
	n, err := strconv.Atoi(strings.TrimSpace(fs.String(i)))
	if err != nil {
		return 0
	}
	return n
}

// Named returns the field labelled name, or "".
func (fs FieldSet) Named(name string) string {
	return fs.String(fs.index(name))
}

// IntOrZeroNamed is IntOrZero for the field labelled name.
func (fs FieldSet) IntOrZeroNamed(name string) int {
	return fs.IntOrZero(fs.index(name))
}

func (fs FieldSet) index(name string) int {
	for i, n := range fs.names {
		if n == name {
			return i
		}
	}
	return -1
}
