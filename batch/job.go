package batch

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/personjob/logger"
	"github.com/kbukum/personjob/observability"
)

// Job runs its steps sequentially. The first failing step ends the run.
type Job struct {
	name  string
	steps []Step
	log   *logger.Logger
}

// NewJob creates a job from steps, run in the given order.
func NewJob(name string, steps ...Step) *Job {
	return &Job{
		name:  name,
		steps: steps,
		log:   logger.GetGlobalLogger().WithComponent("batch"),
	}
}

// WithLogger replaces the job's logger and returns the job.
func (j *Job) WithLogger(l *logger.Logger) *Job {
	j.log = l.WithComponent("batch")
	return j
}

// Name returns the job name.
func (j *Job) Name() string { return j.name }

// Steps returns the job's steps in execution order.
func (j *Job) Steps() []Step { return j.steps }

// Execute runs every step and returns the execution record. On failure the
// record has status FAILED and the step's error is returned as well.
func (j *Job) Execute(ctx context.Context) (*JobExecution, error) {
	exec := &JobExecution{
		ID:        uuid.NewString(),
		JobName:   j.name,
		Status:    StatusStarting,
		StartTime: time.Now(),
	}

	ctx, span := observability.StartSpan(ctx, observability.SpanJob, trace.WithAttributes(
		attribute.String(observability.AttrJobName, j.name),
		attribute.String(observability.AttrExecutionID, exec.ID),
	))
	defer span.End()

	log := j.log.WithContext(ctx).WithFields(logger.Fields(
		logger.FieldJob, j.name,
		logger.FieldExecutionID, exec.ID,
	))
	log.Info("job started", logger.Fields("steps", len(j.steps)))
	exec.Status = StatusStarted

	for _, step := range j.steps {
		se := &StepExecution{
			StepName:    step.Name(),
			JobName:     j.name,
			ExecutionID: exec.ID,
			Status:      StatusStarted,
			StartTime:   time.Now(),
		}
		exec.Steps = append(exec.Steps, se)

		err := step.Execute(ctx, se)
		se.EndTime = time.Now()
		if err != nil {
			se.Status, se.Err = StatusFailed, err
			exec.Status, exec.Err = StatusFailed, err
			exec.EndTime = se.EndTime

			observability.SetSpanError(span, err)
			span.SetAttributes(attribute.String(observability.AttrStatus, string(exec.Status)))
			log.Error("job failed", logger.MergeWithDuration(logger.Fields(
				logger.FieldStep, se.StepName,
				logger.FieldStatus, string(exec.Status),
				logger.FieldError, err.Error(),
			), exec.Duration()))
			return exec, err
		}
		se.Status = StatusCompleted
	}

	exec.Status = StatusCompleted
	exec.EndTime = time.Now()
	span.SetAttributes(
		attribute.String(observability.AttrStatus, string(exec.Status)),
		attribute.Int(observability.AttrReadCount, exec.ReadCount()),
		attribute.Int(observability.AttrWriteCount, exec.WriteCount()),
	)
	log.Info("job completed", logger.MergeWithDuration(logger.Fields(
		logger.FieldStatus, string(exec.Status),
		logger.FieldReadCount, exec.ReadCount(),
		logger.FieldWriteCount, exec.WriteCount(),
	), exec.Duration()))
	return exec, nil
}
