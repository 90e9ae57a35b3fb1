package batch

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/kbukum/personjob/errors"
	"github.com/kbukum/personjob/logger"
	"github.com/kbukum/personjob/observability"
)

// events is a shared, ordered log of what the fakes saw.
type events []string

func (e *events) add(format string, args ...any) { *e = append(*e, fmt.Sprintf(format, args...)) }

type fakeReader struct {
	items   []string
	pos     int
	openErr error
	failAt  int
	log     *events
	opened  bool
	closed  bool
}

func (r *fakeReader) Name() string { return "fake-reader" }

func (r *fakeReader) Open(context.Context) error {
	if r.openErr != nil {
		return r.openErr
	}
	r.opened = true
	return nil
}

func (r *fakeReader) Read(context.Context) (string, bool, error) {
	if r.failAt > 0 && r.pos+1 == r.failAt {
		return "", false, fmt.Errorf("disk error")
	}
	if r.pos >= len(r.items) {
		return "", false, nil
	}
	v := r.items[r.pos]
	r.pos++
	if r.log != nil {
		r.log.add("read %s", v)
	}
	return v, true, nil
}

func (r *fakeReader) Close() error {
	r.closed = true
	return nil
}

type fakeWriter struct {
	chunks   [][]string
	writeErr error
	flushErr error
	openErr  error
	closeErr error
	log      *events
	opened   bool
	flushed  bool
	closed   bool
}

func (w *fakeWriter) Open(context.Context) error {
	if w.openErr != nil {
		return w.openErr
	}
	w.opened = true
	return nil
}

func (w *fakeWriter) Write(_ context.Context, items []string) error {
	if w.writeErr != nil {
		return w.writeErr
	}
	w.chunks = append(w.chunks, append([]string(nil), items...))
	if w.log != nil {
		w.log.add("write %s", strings.Join(items, "+"))
	}
	return nil
}

func (w *fakeWriter) Flush(context.Context) error {
	if w.flushErr != nil {
		return w.flushErr
	}
	w.flushed = true
	return nil
}

func (w *fakeWriter) Close(context.Context) error {
	w.closed = true
	return w.closeErr
}

func upper(log *events) ItemProcessor[string, string] {
	return ProcessorFunc[string, string](func(_ context.Context, s string) (string, error) {
		if log != nil {
			log.add("process %s", s)
		}
		return strings.ToUpper(s), nil
	})
}

func quietStep(r ItemReader[string], p ItemProcessor[string, string], w ItemWriter[string], opts ...StepOption) *ChunkStep[string, string] {
	return NewStep("test-step", r, p, w, append([]StepOption{WithLogger(logger.NewNop())}, opts...)...)
}

func quietJob(steps ...Step) *Job {
	return NewJob("test-job", steps...).WithLogger(logger.NewNop())
}

func TestStepInterleavesReadProcessWrite(t *testing.T) {
	var log events
	r := &fakeReader{items: []string{"a", "b"}, log: &log}
	w := &fakeWriter{log: &log}

	exec := &StepExecution{}
	if err := quietStep(r, upper(&log), w).Execute(context.Background(), exec); err != nil {
		t.Fatalf("Execute: %v", err)
	}

	want := "read a,process a,write A,read b,process b,write B"
	if got := strings.Join(log, ","); got != want {
		t.Errorf("got %s\nwant %s", got, want)
	}
	if exec.ReadCount != 2 || exec.WriteCount != 2 || exec.ChunkCount != 2 {
		t.Errorf("unexpected counts %+v", exec)
	}
	if !w.flushed || !w.closed || !r.closed {
		t.Errorf("expected flush and close, flushed=%v writerClosed=%v readerClosed=%v", w.flushed, w.closed, r.closed)
	}
}

func TestStepChunkSize(t *testing.T) {
	r := &fakeReader{items: []string{"a", "b", "c", "d", "e"}}
	w := &fakeWriter{}

	step := quietStep(r, upper(nil), w, WithChunkSize(2))
	if step.ChunkSize() != 2 {
		t.Fatalf("expected chunk size 2, got %d", step.ChunkSize())
	}
	exec := &StepExecution{}
	if err := step.Execute(context.Background(), exec); err != nil {
		t.Fatal(err)
	}
	if len(w.chunks) != 3 || len(w.chunks[2]) != 1 {
		t.Errorf("unexpected chunks %v", w.chunks)
	}
	if exec.ChunkCount != 3 || exec.WriteCount != 5 {
		t.Errorf("unexpected counts %+v", exec)
	}
}

func TestStepDefaultChunkSize(t *testing.T) {
	step := quietStep(&fakeReader{}, upper(nil), &fakeWriter{}, WithChunkSize(0))
	if step.ChunkSize() != DefaultChunkSize {
		t.Errorf("expected default chunk size, got %d", step.ChunkSize())
	}
}

func TestStepEmptyInputStillFlushes(t *testing.T) {
	w := &fakeWriter{}
	exec := &StepExecution{}
	if err := quietStep(&fakeReader{}, upper(nil), w).Execute(context.Background(), exec); err != nil {
		t.Fatal(err)
	}
	if !w.flushed || len(w.chunks) != 0 {
		t.Errorf("expected a flush with no chunks, flushed=%v chunks=%v", w.flushed, w.chunks)
	}
}

func TestStepFailures(t *testing.T) {
	failing := ProcessorFunc[string, string](func(_ context.Context, s string) (string, error) {
		if s == "b" {
			return "", fmt.Errorf("bad item")
		}
		return s, nil
	})

	tests := []struct {
		name      string
		reader    *fakeReader
		processor ItemProcessor[string, string]
		writer    *fakeWriter
		wantCode  errors.ErrorCode
		wantOpen  bool
	}{
		{
			name:      "missing resource",
			reader:    &fakeReader{openErr: errors.ResourceNotFound("people.csv")},
			processor: upper(nil),
			writer:    &fakeWriter{},
			wantCode:  errors.ErrCodeResourceNotFound,
		},
		{
			name:      "plain open error",
			reader:    &fakeReader{openErr: fmt.Errorf("permission denied")},
			processor: upper(nil),
			writer:    &fakeWriter{},
			wantCode:  errors.ErrCodeReadFailed,
		},
		{
			name:      "read error mid-stream",
			reader:    &fakeReader{items: []string{"a", "b", "c"}, failAt: 2},
			processor: upper(nil),
			writer:    &fakeWriter{},
			wantCode:  errors.ErrCodeReadFailed,
			wantOpen:  true,
		},
		{
			name:      "processor error",
			reader:    &fakeReader{items: []string{"a", "b"}},
			processor: failing,
			writer:    &fakeWriter{},
			wantCode:  errors.ErrCodeProcessFailed,
			wantOpen:  true,
		},
		{
			name:      "write error",
			reader:    &fakeReader{items: []string{"a"}},
			processor: upper(nil),
			writer:    &fakeWriter{writeErr: fmt.Errorf("disk full")},
			wantCode:  errors.ErrCodeWriteFailed,
			wantOpen:  true,
		},
		{
			name:      "writer open error",
			reader:    &fakeReader{items: []string{"a"}},
			processor: upper(nil),
			writer:    &fakeWriter{openErr: fmt.Errorf("read-only")},
			wantCode:  errors.ErrCodeWriteFailed,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			exec := &StepExecution{}
			err := quietStep(tc.reader, tc.processor, tc.writer).Execute(context.Background(), exec)
			if !errors.IsCode(err, tc.wantCode) {
				t.Fatalf("expected %s, got %v", tc.wantCode, err)
			}
			if tc.writer.flushed {
				t.Error("expected no flush after a failure")
			}
			if tc.wantOpen && !(tc.reader.closed && tc.writer.closed) {
				t.Errorf("expected reader and writer closed, reader=%v writer=%v", tc.reader.closed, tc.writer.closed)
			}
			if tc.reader.openErr != nil && tc.writer.opened {
				t.Error("expected the writer not to be opened when the reader cannot open")
			}
		})
	}
}

func TestStepFlushError(t *testing.T) {
	w := &fakeWriter{flushErr: fmt.Errorf("upload failed")}
	err := quietStep(&fakeReader{items: []string{"a"}}, upper(nil), w).Execute(context.Background(), &StepExecution{})
	if !errors.IsCode(err, errors.ErrCodeWriteFailed) {
		t.Fatalf("expected WRITE_FAILED, got %v", err)
	}
	if !w.closed {
		t.Error("expected writer to be closed")
	}
}

func TestStepMissingParts(t *testing.T) {
	err := quietStep(nil, upper(nil), &fakeWriter{}).Execute(context.Background(), &StepExecution{})
	if !errors.IsCode(err, errors.ErrCodeInvalidConfig) {
		t.Fatalf("expected INVALID_CONFIG, got %v", err)
	}
}

func TestStepCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r := &fakeReader{items: []string{"a"}}
	w := &fakeWriter{}

	err := quietStep(r, upper(nil), w).Execute(ctx, &StepExecution{})
	if !errors.IsCode(err, errors.ErrCodeCanceled) {
		t.Fatalf("expected CANCELED, got %v", err)
	}
	if w.flushed || !r.closed {
		t.Errorf("expected no flush and a closed reader, flushed=%v closed=%v", w.flushed, r.closed)
	}
}

func TestChain(t *testing.T) {
	trim := ProcessorFunc[string, string](func(_ context.Context, s string) (string, error) {
		return strings.TrimSpace(s), nil
	})
	p := Chain[string](trim, upper(nil))
	got, err := p.Process(context.Background(), "  alice ")
	if err != nil || got != "ALICE" {
		t.Errorf("got %q, %v", got, err)
	}

	boom := ProcessorFunc[string, string](func(context.Context, string) (string, error) {
		return "", fmt.Errorf("boom")
	})
	called := false
	after := ProcessorFunc[string, string](func(_ context.Context, s string) (string, error) {
		called = true
		return s, nil
	})
	if _, err := Chain[string](boom, after).Process(context.Background(), "x"); err == nil {
		t.Error("expected error")
	}
	if called {
		t.Error("expected the chain to stop at the first error")
	}
}

func TestJobExecuteCompleted(t *testing.T) {
	w := &fakeWriter{}
	job := quietJob(quietStep(&fakeReader{items: []string{"a", "b", "c"}}, upper(nil), w))

	exec, err := job.Execute(context.Background())
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if _, err := uuid.Parse(exec.ID); err != nil {
		t.Errorf("expected uuid execution id, got %q", exec.ID)
	}
	if exec.Status != StatusCompleted || exec.JobName != "test-job" {
		t.Errorf("unexpected execution %+v", exec)
	}
	if exec.EndTime.Before(exec.StartTime) {
		t.Error("expected end after start")
	}
	if len(exec.Steps) != 1 || exec.Steps[0].Status != StatusCompleted || exec.Steps[0].ExecutionID != exec.ID {
		t.Fatalf("unexpected step executions %+v", exec.Steps)
	}
	if exec.ReadCount() != 3 || exec.WriteCount() != 3 {
		t.Errorf("expected 3/3, got %d/%d", exec.ReadCount(), exec.WriteCount())
	}
}

func TestJobStopsAtFirstFailure(t *testing.T) {
	second := &fakeReader{items: []string{"x"}}
	job := quietJob(
		quietStep(&fakeReader{openErr: errors.ResourceNotFound("in.csv")}, upper(nil), &fakeWriter{}),
		NewStep("second", second, upper(nil), &fakeWriter{}, WithLogger(logger.NewNop())),
	)

	exec, err := job.Execute(context.Background())
	if !errors.IsCode(err, errors.ErrCodeResourceNotFound) {
		t.Fatalf("expected RESOURCE_NOT_FOUND, got %v", err)
	}
	if exec.Status != StatusFailed || exec.Err != err {
		t.Errorf("expected FAILED execution carrying the error, got %+v", exec)
	}
	if len(exec.Steps) != 1 || exec.Steps[0].Status != StatusFailed {
		t.Errorf("expected one failed step, got %+v", exec.Steps)
	}
	if second.opened {
		t.Error("expected the second step not to run")
	}
}

func TestJobSpans(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	_, err := quietJob(quietStep(&fakeReader{items: []string{"a"}}, upper(nil), &fakeWriter{})).Execute(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	spans := map[string]sdktrace.ReadOnlySpan{}
	for _, s := range sr.Ended() {
		spans[s.Name()] = s
	}
	job, step := spans[observability.SpanJob], spans[observability.SpanStep]
	if job == nil || step == nil {
		t.Fatalf("expected job and step spans, got %v", spans)
	}
	if step.Parent().SpanID() != job.SpanContext().SpanID() {
		t.Error("expected the step span to be a child of the job span")
	}
}

type collected struct {
	sums     map[string]int64
	failures map[string]int64
	statuses map[string]uint64
}

func collectMetrics(t *testing.T, reader *sdkmetric.ManualReader) collected {
	t.Helper()
	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatal(err)
	}
	c := collected{sums: map[string]int64{}, failures: map[string]int64{}, statuses: map[string]uint64{}}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			switch data := m.Data.(type) {
			case metricdata.Sum[int64]:
				for _, dp := range data.DataPoints {
					c.sums[m.Name] += dp.Value
					if m.Name == observability.MetricFailures {
						code, _ := dp.Attributes.Value(observability.AttrErrorCode)
						c.failures[code.AsString()] += dp.Value
					}
				}
			case metricdata.Histogram[float64]:
				for _, dp := range data.DataPoints {
					status, _ := dp.Attributes.Value(observability.AttrStatus)
					c.statuses[status.AsString()] += dp.Count
				}
			}
		}
	}
	return c
}

func TestStepMetrics(t *testing.T) {
	tests := []struct {
		name         string
		reader       *fakeReader
		writer       *fakeWriter
		wantErr      errors.ErrorCode
		wantRead     int64
		wantWritten  int64
		wantStatus   Status
		wantFailures int64
	}{
		{
			name:        "completed",
			reader:      &fakeReader{items: []string{"a", "b"}},
			writer:      &fakeWriter{},
			wantRead:    2,
			wantWritten: 2,
			wantStatus:  StatusCompleted,
		},
		{
			name:         "reader open failure",
			reader:       &fakeReader{openErr: fmt.Errorf("no such file")},
			writer:       &fakeWriter{},
			wantErr:      errors.ErrCodeReadFailed,
			wantStatus:   StatusFailed,
			wantFailures: 1,
		},
		{
			name:         "writer open failure",
			reader:       &fakeReader{items: []string{"a"}},
			writer:       &fakeWriter{openErr: fmt.Errorf("read-only")},
			wantErr:      errors.ErrCodeWriteFailed,
			wantStatus:   StatusFailed,
			wantFailures: 1,
		},
		{
			name:         "writer close failure",
			reader:       &fakeReader{items: []string{"a"}},
			writer:       &fakeWriter{closeErr: fmt.Errorf("release failed")},
			wantErr:      errors.ErrCodeWriteFailed,
			wantRead:     1,
			wantWritten:  1,
			wantStatus:   StatusFailed,
			wantFailures: 1,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			reader := sdkmetric.NewManualReader()
			mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
			defer mp.Shutdown(context.Background())
			m, err := observability.NewBatchMetrics(mp.Meter("test"))
			if err != nil {
				t.Fatal(err)
			}

			step := quietStep(tc.reader, upper(nil), tc.writer, WithMetrics(m))
			err = step.Execute(context.Background(), &StepExecution{JobName: "test-job"})
			if tc.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
			} else if !errors.IsCode(err, tc.wantErr) {
				t.Fatalf("expected %s, got %v", tc.wantErr, err)
			}

			got := collectMetrics(t, reader)
			if got.sums[observability.MetricItemsRead] != tc.wantRead || got.sums[observability.MetricItemsWritten] != tc.wantWritten {
				t.Errorf("unexpected metric sums %v", got.sums)
			}
			if got.statuses[string(tc.wantStatus)] != 1 || len(got.statuses) != 1 {
				t.Errorf("expected one %s step duration, got %v", tc.wantStatus, got.statuses)
			}
			if got.sums[observability.MetricFailures] != tc.wantFailures {
				t.Errorf("expected %d failures, got %v", tc.wantFailures, got.failures)
			}
			if tc.wantFailures > 0 && got.failures[string(tc.wantErr)] != tc.wantFailures {
				t.Errorf("expected failures under %s, got %v", tc.wantErr, got.failures)
			}
		})
	}
}
