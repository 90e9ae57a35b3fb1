// Package pipeline provides composable, pull-based data pipeline operators.
//
// Pipelines are lazy: no work happens until a Drain terminal is run. Each
// stage pulls from the previous stage on demand, one value at a time, on the
// caller's goroutine.
//
// # Operators
//
//   - Map: transform each value
//   - Tap: side-effect without altering the value (counting, logging)
//   - Chunk: group consecutive values into slices of a fixed size
//
// # Usage
//
//	src := pipeline.From(reader)
//	processed := pipeline.Map(src, processor.Process)
//	chunks := pipeline.Chunk(processed, 1)
//	err := pipeline.Drain(chunks, writer.Write).Run(ctx)
package pipeline
