package flatfile

// LineMapper turns one line into an item. lineNumber is 1-based and counts
// every physical line, skipped ones included.
type LineMapper[T any] func(line string, lineNumber int) (T, error)

// Delimited returns a LineMapper that tokenizes each line and builds the item
// with fn. It never fails.
func Delimited[T any](tokenizer Tokenizer, fn func(FieldSet) T) LineMapper[T] {
	return func(line string, _ int) (T, error) {
		return fn(tokenizer.Tokenize(line)), nil
	}
}
