package logger

import "time"

// Field keys shared by every package that logs batch progress.
const (
	FieldComponent   = "component"
	FieldJob         = "job"
	FieldStep        = "step"
	FieldExecutionID = "execution_id"
	FieldResource    = "resource"
	FieldReadCount   = "read_count"
	FieldWriteCount  = "write_count"
	FieldChunkCount  = "chunk_count"
	FieldOperation   = "operation"
	FieldStatus      = "status"
	FieldError       = "error"
	FieldDuration    = "duration_ms"
)

// Fields pairs up kvs as key, value, key, value. Pairs whose key is not a
// string are skipped, as is a trailing key without a value.
//
//	log.Info("chunk written", logger.Fields(logger.FieldStep, "load", logger.FieldWriteCount, 1))
func Fields(kvs ...interface{}) map[string]interface{} {
	m := make(map[string]interface{}, len(kvs)/2)
	for i := 1; i < len(kvs); i += 2 {
		if k, ok := kvs[i-1].(string); ok {
			m[k] = kvs[i]
		}
	}
	return m
}

// DurationFields tags op with how long it took, in milliseconds.
func DurationFields(op string, d time.Duration) map[string]interface{} {
	return MergeWithDuration(Fields(FieldOperation, op), d)
}

// MergeWithDuration sets FieldDuration on fields, allocating it when nil.
func MergeWithDuration(fields map[string]interface{}, d time.Duration) map[string]interface{} {
	if fields == nil {
		fields = map[string]interface{}{}
	}
	fields[FieldDuration] = d.Milliseconds()
	return fields
}
