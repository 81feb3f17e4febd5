package errors

// ErrorCode represents a unique error identifier
type ErrorCode int

// Error code ranges allocation:
// 10000-10999: System & Common errors
// 11000-11999: Language & Launch errors
// 12000-12999: Execution errors
// 13000-13999: I/O routing errors

const (
	// ========== System & Common Errors (10000-10999) ==========

	// Success
	Success ErrorCode = 10000

	// Generic errors (10000-10099)
	InternalServerError ErrorCode = 10001
	InvalidParams       ErrorCode = 10002
	NotFound            ErrorCode = 10003
	TooManyRequests     ErrorCode = 10004
	ServiceUnavailable  ErrorCode = 10005

	// Validation errors (10300-10399)
	ValidationFailed   ErrorCode = 10300
	InvalidFormat      ErrorCode = 10301
	RequiredFieldEmpty ErrorCode = 10302

	// ========== Language & Launch Errors (11000-11999) ==========

	LanguageNotFound    ErrorCode = 11000
	LanguageMisconfig   ErrorCode = 11001
	ArtifactNotFound    ErrorCode = 11002
	ArtifactDeleteError ErrorCode = 11003

	// ========== Execution Errors (12000-12999) ==========

	SpawnFailure   ErrorCode = 12000
	ExecTimeout    ErrorCode = 12001
	ExecKilled     ErrorCode = 12002
	ExecInterrupt  ErrorCode = 12003
	ExecBusy       ErrorCode = 12004
	ExecUnfinished ErrorCode = 12005

	// ========== I/O Routing Errors (13000-13999) ==========

	IOFailure         ErrorCode = 13000
	InputFileError    ErrorCode = 13001
	OutputFileError   ErrorCode = 13002
	OriginFileError   ErrorCode = 13003
	UnsafeFileName    ErrorCode = 13004
	WorkDirUnresolved ErrorCode = 13005
)

var errorMessages = map[ErrorCode]string{
	Success: "Success",

	InternalServerError: "Internal server error",
	InvalidParams:       "Invalid parameters",
	NotFound:            "Resource not found",
	TooManyRequests:     "Too many requests",
	ServiceUnavailable:  "Service unavailable",

	ValidationFailed:   "Validation failed",
	InvalidFormat:      "Invalid format",
	RequiredFieldEmpty: "Required field is empty",

	LanguageNotFound:    "Language not found",
	LanguageMisconfig:   "Language is misconfigured",
	ArtifactNotFound:    "Artifact not found",
	ArtifactDeleteError: "Failed to delete artifact",

	SpawnFailure:   "Failed to start process",
	ExecTimeout:    "Execution timed out",
	ExecKilled:     "Execution was killed",
	ExecInterrupt:  "Execution was interrupted",
	ExecBusy:       "Another execution is in flight",
	ExecUnfinished: "Execution did not finalize",

	IOFailure:         "I/O routing failed",
	InputFileError:    "Failed to deliver input file",
	OutputFileError:   "Failed to read output file",
	OriginFileError:   "Failed to resolve origin file",
	UnsafeFileName:    "File name must not contain path separators",
	WorkDirUnresolved: "Working directory could not be resolved",
}

// Message returns the default message for the error code
func (c ErrorCode) Message() string {
	if msg, ok := errorMessages[c]; ok {
		return msg
	}
	return "Unknown error"
}

// HTTPStatus returns the recommended HTTP status code for the error code
func (c ErrorCode) HTTPStatus() int {
	switch {
	case c == Success:
		return 200
	case c == NotFound, c == LanguageNotFound, c == ArtifactNotFound:
		return 404
	case c == TooManyRequests, c == ExecBusy:
		return 429
	case c == ServiceUnavailable:
		return 503
	case c >= 10300 && c < 10400: // Validation errors
		return 400
	case c == InvalidParams, c == UnsafeFileName:
		return 400
	default:
		return 500
	}
}
