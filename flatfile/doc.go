// Package flatfile reads line-oriented text resources from a storage backend
// as a stream of typed items.
//
// Each line is handed to a LineMapper together with its 1-based line number.
// Delimited builds a mapper that splits a line on a fixed delimiter, without
// quoting rules, into a FieldSet whose accessors never fail: absent fields
// read as "" and non-numeric fields as 0.
//
//	r := flatfile.NewReader(store, "people.csv",
//	    flatfile.Delimited(flatfile.Tokenizer{Names: []string{"name", "age"}}, func(fs flatfile.FieldSet) Person {
//	        return Person{Name: fs.Named("name"), Age: fs.IntOrZeroNamed("age")}
//	    }),
//	    flatfile.WithName("csv-reader"),
//	)
package flatfile
