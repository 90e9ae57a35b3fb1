// Package batch is a small chunk-oriented batch framework.
//
// A Job runs Steps one after another. The chunk step pulls one item at a
// time from an ItemReader, passes it through an ItemProcessor, collects the
// results into chunks and hands each chunk to an ItemWriter. When the reader
// is exhausted the writer is flushed if it implements Flusher. Reader and
// writer are always closed, on success and on failure.
//
//	step := batch.NewStep("load", reader, processor, writer, batch.WithChunkSize(10))
//	exec, err := batch.NewJob("import", step).Execute(ctx)
//
// There is no job repository, no restart and no retry: a failure ends the
// run and is returned with the execution record.
package batch
