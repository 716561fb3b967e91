package errors

import "fmt"

// Error codes
const (
	CodeSync      = "SYNC_ERROR"
	CodeTransport = "TRANSPORT_ERROR"
	CodeParse     = "PARSE_ERROR"
	CodePersist   = "PERSIST_ERROR"
	CodeStorage   = "STORAGE_ERROR"
	CodeLock      = "LOCK_ERROR"
)

type SyncError struct {
	Message    string
	Code       string
	StatusCode int
	Context    map[string]any
	Cause      error
}

func (e *SyncError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *SyncError) Unwrap() error {
	return e.Cause
}

func NewSyncError(message, code string, statusCode int, context map[string]any) *SyncError {
	return &SyncError{
		Message:    message,
		Code:       code,
		StatusCode: statusCode,
		Context:    context,
	}
}

func (e *SyncError) WithCause(cause error) *SyncError {
	e.Cause = cause
	return e
}

// TransportError covers failed page/photo fetches: network failures and
// non-2xx responses. Recoverable at the unit level, never fatal to a batch.
type TransportError struct {
	*SyncError
	URL string
}

func NewTransportError(message, url string, statusCode int, cause error) *TransportError {
	return &TransportError{
		SyncError: &SyncError{
			Message:    message,
			Code:       CodeTransport,
			StatusCode: statusCode,
			Context: map[string]any{
				"url": url,
			},
			Cause: cause,
		},
		URL: url,
	}
}

// ParseError marks markup whose shape no longer matches the selectors.
type ParseError struct {
	*SyncError
	Page string
}

func NewParseError(message, page string, cause error) *ParseError {
	return &ParseError{
		SyncError: &SyncError{
			Message:    message,
			Code:       CodeParse,
			StatusCode: 500,
			Context: map[string]any{
				"page": page,
			},
			Cause: cause,
		},
		Page: page,
	}
}

type PersistError struct {
	*SyncError
	Table     string
	Operation string
}

func NewPersistError(message, table, operation string, cause error) *PersistError {
	return &PersistError{
		SyncError: &SyncError{
			Message:    message,
			Code:       CodePersist,
			StatusCode: 500,
			Context: map[string]any{
				"table":     table,
				"operation": operation,
			},
			Cause: cause,
		},
		Table:     table,
		Operation: operation,
	}
}

type StorageError struct {
	*SyncError
	Path      string
	Operation string
}

func NewStorageError(message, path, operation string, cause error) *StorageError {
	return &StorageError{
		SyncError: &SyncError{
			Message:    message,
			Code:       CodeStorage,
			StatusCode: 500,
			Context: map[string]any{
				"path":      path,
				"operation": operation,
			},
			Cause: cause,
		},
		Path:      path,
		Operation: operation,
	}
}

// LockError is returned when a sync lease is already held by another
// invocation.
type LockError struct {
	*SyncError
	Key string
}

func NewLockError(message, key string) *LockError {
	return &LockError{
		SyncError: &SyncError{
			Message:    message,
			Code:       CodeLock,
			StatusCode: 409,
			Context: map[string]any{
				"key": key,
			},
		},
		Key: key,
	}
}
