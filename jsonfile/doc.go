// Package jsonfile writes items as a single JSON array document to a
// storage backend.
//
// The Writer buffers every item it is given and publishes the whole
// document in one upload when flushed, so readers of the destination see
// either the previous document or the complete new one. A run with no items
// publishes an empty array.
package jsonfile
