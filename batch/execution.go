package batch

import "time"

// Status is the lifecycle state of a job or step execution.
type Status string

const (
	StatusStarting  Status = "STARTING"
	StatusStarted   Status = "STARTED"
	StatusCompleted Status = "COMPLETED"
	StatusFailed    Status = "FAILED"
)

// JobExecution records one run of a Job.
type JobExecution struct {
	ID        string           `json:"id"`
	JobName   string           `json:"job_name"`
	Status    Status           `json:"status"`
	StartTime time.Time        `json:"start_time"`
	EndTime   time.Time        `json:"end_time"`
	Steps     []*StepExecution `json:"steps"`
	Err       error            `json:"-"`
}

// Duration returns the elapsed run time, or the time so far while running.
func (e *JobExecution) Duration() time.Duration {
	if e.EndTime.IsZero() {
		return time.Since(e.StartTime)
	}
	return e.EndTime.Sub(e.StartTime)
}

// ReadCount sums items read over all steps.
func (e *JobExecution) ReadCount() int {
	n := 0
	for _, s := range e.Steps {
		n += s.ReadCount
	}
	return n
}

// WriteCount sums items written over all steps.
func (e *JobExecution) WriteCount() int {
	n := 0
	for _, s := range e.Steps {
		n += s.WriteCount
	}
	return n
}

// StepExecution records one run of a Step within a job execution.
type StepExecution struct {
	StepName    string    `json:"step_name"`
	JobName     string    `json:"job_name"`
	ExecutionID string    `json:"execution_id"`
	Status      Status    `json:"status"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
	ReadCount   int       `json:"read_count"`
	WriteCount  int       `json:"write_count"`
	ChunkCount  int       `json:"chunk_count"`
	Err         error     `json:"-"`
}

// Duration returns the elapsed step time.
func (e *StepExecution) Duration() time.Duration {
	if e.EndTime.IsZero() {
		return time.Since(e.StartTime)
	}
	return e.EndTime.Sub(e.StartTime)
}
