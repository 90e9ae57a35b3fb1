package person

import (
	"context"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/kbukum/personjob/batch"
	"github.com/kbukum/personjob/flatfile"
)

// Field names of an input line, in column order.
const (
	FieldName = "name"
	FieldAge  = "age"
)

// Person is one record of the job.
type Person struct {
	Name string `json:"name"`
	Age  int    `json:"age"`
}

// MapLine maps a "name,age" line to a Person. An absent name is empty; an
// absent or non-numeric age is 0. It never fails.
var MapLine = flatfile.Delimited(
	flatfile.Tokenizer{Delimiter: flatfile.DelimiterComma, Names: []string{FieldName, FieldAge}},
	func(fs flatfile.FieldSet) Person {
		return Person{
			Name: fs.Named(FieldName),
			Age:  fs.IntOrZeroNamed(FieldAge),
		}
	},
)

// Lowercase returns p with its name lowercased using the Unicode default,
// locale-independent mapping, context rules included (a word-final capital
// sigma becomes ς). The age is unchanged.
func Lowercase(p Person) Person {
	// a Caser holds state, so each call gets its own
	return Person{Name: cases.Lower(language.Und).String(p.Name), Age: p.Age}
}

// LowercaseProcessor is Lowercase as a step processor.
var LowercaseProcessor batch.ItemProcessor[Person, Person] = batch.ProcessorFunc[Person, Person](
	func(_ context.Context, p Person) (Person, error) {
		return Lowercase(p), nil
	},
)
