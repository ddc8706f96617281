package tts

import (
	"errors"
	"fmt"
	"time"
)

// Common errors for the TTS system.
var (
	// Controller errors
	ErrAlreadySpeaking = errors.New("playback already in progress")
	ErrEmptyInput      = errors.New("no speakable text in input")

	// Engine errors
	ErrEngineUnavailable = errors.New("speech engine is not available")
	ErrEngineClosed      = errors.New("speech engine has been closed")
	ErrPauseUnsupported  = errors.New("speech engine cannot pause on this platform")

	// Voice errors
	ErrNoVoice = errors.New("no matching voice")

	// Translation errors
	ErrTranslationFailed = errors.New("translation failed")

	// Configuration errors
	ErrInvalidConfig = errors.New("invalid configuration")
	ErrInvalidPolicy = errors.New("invalid segmentation policy")
)

// SegmentEngineError reports a synthesis failure for one segment. It is
// informational: playback continues with the next queued segment.
type SegmentEngineError struct {
	Index   int
	Segment Segment
	Err     error
}

// Error implements the error interface.
func (e *SegmentEngineError) Error() string {
	return fmt.Sprintf("segment %d (%s): %v", e.Index, e.Segment.Language, e.Err)
}

// Unwrap returns the engine error.
func (e *SegmentEngineError) Unwrap() error {
	return e.Err
}

// IsRecoverableError checks if an error is recoverable.
func IsRecoverableError(err error) bool {
	if err == nil {
		return true
	}

	switch {
	case errors.Is(err, ErrEngineUnavailable),
		errors.Is(err, ErrEngineClosed),
		errors.Is(err, ErrInvalidConfig):
		return false
	}

	return true
}

// ErrorSeverity represents the severity of an error.
type ErrorSeverity int

const (
	// SeverityInfo is for informational messages.
	SeverityInfo ErrorSeverity = iota
	// SeverityWarning is for warnings that don't prevent operation.
	SeverityWarning
	// SeverityError is for errors that prevent normal operation.
	SeverityError
)

// String returns the string representation of the severity.
func (s ErrorSeverity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

// TTSError provides detailed error information.
type TTSError struct {
	Err       error         // The underlying error
	Component string        // Component that generated the error
	Action    string        // Action being performed when error occurred
	Severity  ErrorSeverity // Severity of the error
	Timestamp time.Time     // When the error occurred
}

// Error implements the error interface.
func (e *TTSError) Error() string {
	if e.Err == nil {
		return "unknown TTS error"
	}
	if e.Component == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %s: %v", e.Component, e.Action, e.Err)
}

// Unwrap returns the underlying error.
func (e *TTSError) Unwrap() error {
	return e.Err
}

// IsRecoverable checks if the error is recoverable.
func (e *TTSError) IsRecoverable() bool {
	return IsRecoverableError(e.Err)
}

// NewTTSError creates a new TTS error with context.
func NewTTSError(err error, component, action string) *TTSError {
	return &TTSError{
		Err:       err,
		Component: component,
		Action:    action,
		Severity:  SeverityError,
		Timestamp: time.Now(),
	}
}

// WithSeverity sets the error severity.
func (e *TTSError) WithSeverity(severity ErrorSeverity) *TTSError {
	e.Severity = severity
	return e
}
