package person

import (
	"context"
	"path/filepath"

	"github.com/kbukum/personjob/batch"
	"github.com/kbukum/personjob/errors"
	"github.com/kbukum/personjob/flatfile"
	"github.com/kbukum/personjob/jsonfile"
	"github.com/kbukum/personjob/logger"
	"github.com/kbukum/personjob/observability"
	"github.com/kbukum/personjob/storage"
	"github.com/kbukum/personjob/storage/local"
)

// Names of the job's parts, as they appear in logs, spans and errors.
const (
	JobName    = "person-processing-job"
	StepName   = "person-processing-step"
	ReaderName = "csv-reader"
	WriterName = "json-writer"
)

var (
	_ batch.ItemReader[Person] = (*flatfile.Reader[Person])(nil)
	_ batch.ItemWriter[Person] = (*jsonfile.Writer[Person])(nil)
	_ batch.Flusher            = (*jsonfile.Writer[Person])(nil)
)

// Resources locates the job's input and output.
type Resources struct {
	Input      storage.Storage
	InputPath  string
	Output     storage.Storage
	OutputPath string
}

func (r Resources) validate() error {
	switch {
	case r.Input == nil:
		return errors.InvalidConfig("input storage is required")
	case r.InputPath == "":
		return errors.InvalidConfig("input path is required")
	case r.Output == nil:
		return errors.InvalidConfig("output storage is required")
	case r.OutputPath == "":
		return errors.InvalidConfig("output path is required")
	}
	return nil
}

// Option tunes the job built by NewJob.
type Option func(*jobOptions)

type jobOptions struct {
	chunkSize    int
	linesToSkip  int
	comments     []string
	failIfExists bool
	metrics      *observability.BatchMetrics
	log          *logger.Logger
}

// WithChunkSize sets the number of records written per chunk.
func WithChunkSize(n int) Option {
	return func(o *jobOptions) { o.chunkSize = n }
}

// WithLinesToSkip skips leading input lines, e.g. a header row.
func WithLinesToSkip(n int) Option {
	return func(o *jobOptions) { o.linesToSkip = n }
}

// WithComments skips input lines starting with any of the prefixes.
func WithComments(prefixes ...string) Option {
	return func(o *jobOptions) { o.comments = append(o.comments, prefixes...) }
}

// WithFailIfExists refuses to replace an existing output document.
func WithFailIfExists() Option {
	return func(o *jobOptions) { o.failIfExists = true }
}

// WithMetrics records step metrics on m instead of the global meter.
func WithMetrics(m *observability.BatchMetrics) Option {
	return func(o *jobOptions) { o.metrics = m }
}

// WithLogger sets the logger shared by every part of the job.
func WithLogger(l *logger.Logger) Option {
	return func(o *jobOptions) { o.log = l }
}

// NewJob wires the reader, processor, writer and step into the person job.
func NewJob(res Resources, opts ...Option) (*batch.Job, error) {
	if err := res.validate(); err != nil {
		return nil, err
	}
	o := jobOptions{chunkSize: batch.DefaultChunkSize}
	for _, opt := range opts {
		opt(&o)
	}
	if o.log == nil {
		o.log = logger.GetGlobalLogger()
	}

	reader := flatfile.NewReader(res.Input, res.InputPath, MapLine,
		flatfile.WithName(ReaderName),
		flatfile.WithLinesToSkip(o.linesToSkip),
		flatfile.WithComments(o.comments...),
		flatfile.WithLogger(o.log),
	)

	writerOpts := []jsonfile.Option[Person]{
		jsonfile.WithName[Person](WriterName),
		jsonfile.WithLogger[Person](o.log),
	}
	if o.failIfExists {
		writerOpts = append(writerOpts, jsonfile.WithFailIfExists[Person]())
	}
	writer := jsonfile.NewWriter(res.Output, res.OutputPath, writerOpts...)

	stepOpts := []batch.StepOption{
		batch.WithChunkSize(o.chunkSize),
		batch.WithLogger(o.log),
	}
	if o.metrics != nil {
		stepOpts = append(stepOpts, batch.WithMetrics(o.metrics))
	}
	step := batch.NewStep(StepName, reader, LowercaseProcessor, writer, stepOpts...)

	return batch.NewJob(JobName, step).WithLogger(o.log), nil
}

// RunFiles runs the job from one local file to another.
func RunFiles(ctx context.Context, inputPath, outputPath string, opts ...Option) (*batch.JobExecution, error) {
	in, err := local.NewStorage(filepath.Dir(inputPath))
	if err != nil {
		return nil, errors.InvalidConfig("input path " + inputPath).WithCause(err)
	}
	out, err := local.NewStorage(filepath.Dir(outputPath))
	if err != nil {
		return nil, errors.InvalidConfig("output path " + outputPath).WithCause(err)
	}

	job, err := NewJob(Resources{
		Input:      in,
		InputPath:  filepath.Base(inputPath),
		Output:     out,
		OutputPath: filepath.Base(outputPath),
	}, opts...)
	if err != nil {
		return nil, err
	}
	return job.Execute(ctx)
}
