package batch

import (
	"context"
	stderrors "errors"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/personjob/errors"
	"github.com/kbukum/personjob/logger"
	"github.com/kbukum/personjob/observability"
	"github.com/kbukum/personjob/pipeline"
)

// Step is one unit of work in a Job.
type Step interface {
	Name() string
	Execute(ctx context.Context, exec *StepExecution) error
}

// ChunkStep reads, processes and writes items in chunks.
type ChunkStep[I, O any] struct {
	name      string
	reader    ItemReader[I]
	processor ItemProcessor[I, O]
	writer    ItemWriter[O]
	chunkSize int
	log       *logger.Logger
	metrics   *observability.BatchMetrics
}

var _ Step = (*ChunkStep[int, int])(nil)

// NewStep creates a chunk-oriented step.
func NewStep[I, O any](name string, reader ItemReader[I], processor ItemProcessor[I, O], writer ItemWriter[O], opts ...StepOption) *ChunkStep[I, O] {
	o := resolveStepOptions(opts)
	return &ChunkStep[I, O]{
		name:      name,
		reader:    reader,
		processor: processor,
		writer:    writer,
		chunkSize: o.chunkSize,
		log:       o.log.WithComponent("batch").WithFields(logger.Fields(logger.FieldStep, name)),
		metrics:   o.metrics,
	}
}

// Name returns the step name.
func (s *ChunkStep[I, O]) Name() string { return s.name }

// ChunkSize returns the configured chunk size.
func (s *ChunkStep[I, O]) ChunkSize() int { return s.chunkSize }

// Execute runs the step to completion or first failure, updating exec as it goes.
func (s *ChunkStep[I, O]) Execute(ctx context.Context, exec *StepExecution) (err error) {
	if s.reader == nil || s.processor == nil || s.writer == nil {
		return errors.InvalidConfig("step " + s.name + " needs a reader, a processor and a writer")
	}

	ctx, span := observability.StartSpan(ctx, observability.SpanStep, trace.WithAttributes(
		attribute.String(observability.AttrStepName, s.name),
		attribute.String(observability.AttrExecutionID, exec.ExecutionID),
		attribute.Int(observability.AttrChunkSize, s.chunkSize),
	))
	start := time.Now()
	log := s.log.WithContext(ctx)

	// runs last, after the reader and writer are closed
	defer func() {
		s.finish(ctx, exec, start, err)
		span.SetAttributes(
			attribute.Int(observability.AttrReadCount, exec.ReadCount),
			attribute.Int(observability.AttrWriteCount, exec.WriteCount),
		)
		observability.SetSpanError(span, err)
		span.End()
	}()

	readerName := nameOf(s.reader, "reader")
	writerName := nameOf(s.writer, "writer")

	if err := s.reader.Open(ctx); err != nil {
		return wrap(err, func(cause error) *errors.AppError { return errors.ReadFailed(readerName, 0, cause) })
	}
	defer func() {
		if cerr := s.reader.Close(); cerr != nil {
			log.Warn("reader close failed", logger.Fields(logger.FieldResource, readerName, logger.FieldError, cerr.Error()))
		}
	}()

	if err := s.writer.Open(ctx); err != nil {
		return wrap(err, func(cause error) *errors.AppError { return errors.WriteFailed(writerName, cause) })
	}
	defer func() {
		if cerr := s.writer.Close(ctx); cerr != nil {
			log.Warn("writer close failed", logger.Fields(logger.FieldResource, writerName, logger.FieldError, cerr.Error()))
			if err == nil {
				err = errors.WriteFailed(writerName, cerr)
			}
		}
	}()

	src := pipeline.Tap(pipeline.From[I](&readerIter[I]{reader: s.reader}), func(ctx context.Context, _ I) error {
		exec.ReadCount++
		if s.metrics != nil {
			s.metrics.RecordRead(ctx, s.name, 1)
		}
		return nil
	})
	processed := pipeline.Map(src, func(ctx context.Context, item I) (O, error) {
		out, err := s.processor.Process(ctx, item)
		if err != nil {
			return out, wrap(err, func(cause error) *errors.AppError { return errors.ProcessFailed(s.name, cause) })
		}
		return out, nil
	})
	chunks := pipeline.Chunk(processed, s.chunkSize)

	err = pipeline.Drain(chunks, func(ctx context.Context, chunk []O) error {
		if err := s.writer.Write(ctx, chunk); err != nil {
			return wrap(err, func(cause error) *errors.AppError { return errors.WriteFailed(writerName, cause) })
		}
		exec.WriteCount += len(chunk)
		exec.ChunkCount++
		if s.metrics != nil {
			s.metrics.RecordChunk(ctx, s.name, len(chunk))
		}
		log.Debug("chunk written", logger.Fields("size", len(chunk), logger.FieldWriteCount, exec.WriteCount))
		return nil
	}).Run(ctx)
	if err != nil {
		return wrap(err, func(cause error) *errors.AppError { return errors.ReadFailed(readerName, 0, cause) })
	}

	if f, ok := s.writer.(Flusher); ok {
		if ferr := f.Flush(ctx); ferr != nil {
			return wrap(ferr, func(cause error) *errors.AppError { return errors.WriteFailed(writerName, cause) })
		}
	}
	return nil
}

func (s *ChunkStep[I, O]) finish(ctx context.Context, exec *StepExecution, start time.Time, err error) {
	status := StatusCompleted
	if err != nil {
		status = StatusFailed
	}
	fields := logger.MergeWithDuration(logger.Fields(
		logger.FieldStatus, string(status),
		logger.FieldReadCount, exec.ReadCount,
		logger.FieldWriteCount, exec.WriteCount,
		logger.FieldChunkCount, exec.ChunkCount,
	), time.Since(start))
	if err != nil {
		s.log.WithContext(ctx).WithError(err).Error("step failed", fields)
	} else {
		s.log.WithContext(ctx).Info("step completed", fields)
	}

	if s.metrics == nil {
		return
	}
	s.metrics.RecordStep(ctx, exec.JobName, s.name, string(status), time.Since(start))
	if err != nil {
		code := string(errors.ErrCodeInternal)
		if appErr, ok := errors.As(err); ok {
			code = string(appErr.Code)
		}
		s.metrics.RecordFailure(ctx, s.name, code)
	}
}

// wrap keeps errors that already carry an AppError, maps context
// cancellation to CANCELED and wraps everything else with fallback.
func wrap(err error, fallback func(error) *errors.AppError) error {
	if _, ok := errors.As(err); ok {
		return err
	}
	if stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded) {
		return errors.Canceled(err)
	}
	return fallback(err)
}
