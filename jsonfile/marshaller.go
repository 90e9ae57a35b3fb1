package jsonfile

import "encoding/json"

// ObjectMarshaller encodes one item as a JSON value.
type ObjectMarshaller[T any] interface {
	Marshal(item T) ([]byte, error)
}

// MarshallerFunc adapts a function to ObjectMarshaller.
type MarshallerFunc[T any] func(item T) ([]byte, error)

// Marshal calls f.
func (f MarshallerFunc[T]) Marshal(item T) ([]byte, error) { return f(item) }

// JSONMarshaller encodes items with encoding/json, honouring struct tags.
type JSONMarshaller[T any] struct{}

// Marshal encodes item.
func (JSONMarshaller[T]) Marshal(item T) ([]byte, error) {
	return json.Marshal(item)
}
