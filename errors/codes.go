package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Configuration errors
const (
	// ErrCodeInvalidConfig indicates the job configuration is invalid.
	ErrCodeInvalidConfig ErrorCode = "INVALID_CONFIG"
)

// Resource errors
const (
	// ErrCodeResourceNotFound indicates an input resource does not exist.
	ErrCodeResourceNotFound ErrorCode = "RESOURCE_NOT_FOUND"
	// ErrCodeStorageUnavailable indicates the storage backend could not be reached.
	ErrCodeStorageUnavailable ErrorCode = "STORAGE_UNAVAILABLE"
)

// Item errors
const (
	// ErrCodeReadFailed indicates an item could not be read.
	ErrCodeReadFailed ErrorCode = "READ_FAILED"
	// ErrCodeProcessFailed indicates an item processor returned an error.
	ErrCodeProcessFailed ErrorCode = "PROCESS_FAILED"
	// ErrCodeWriteFailed indicates items could not be written or flushed.
	ErrCodeWriteFailed ErrorCode = "WRITE_FAILED"
)

// Execution errors
const (
	// ErrCodeCanceled indicates the run was canceled by its caller.
	ErrCodeCanceled ErrorCode = "CANCELED"
	// ErrCodeInternal labels failures that carry no AppError.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// IsRetryableCode is true for codes that describe a transient failure. The
// job never retries on its own; the command maps these to a distinct exit
// status so the host can.
func IsRetryableCode(code ErrorCode) bool {
	switch code {
	case ErrCodeStorageUnavailable, ErrCodeWriteFailed:
		return true
	}
	return false
}
