package errors

import (
	"net/http"
	"strings"
)

// ErrorCode is a string representation of a specific error condition.
// Codes follow the "<MODULE>_<nnn>" convention.
type ErrorCode string

func (c ErrorCode) String() string {
	return string(c)
}

// Common Error Codes
const (
	ErrCodeInternal           ErrorCode = "COMMON_001"
	ErrCodeBadRequest         ErrorCode = "COMMON_002"
	ErrCodeNotFound           ErrorCode = "COMMON_005"
	ErrCodeTooManyRequests    ErrorCode = "COMMON_007"
	ErrCodeServiceUnavailable ErrorCode = "COMMON_008"
	ErrCodeTimeout            ErrorCode = "COMMON_009"
	ErrCodeValidation         ErrorCode = "COMMON_010"
	ErrCodeSerialization      ErrorCode = "COMMON_011"
	ErrCodeCacheError         ErrorCode = "COMMON_013"
	ErrCodeFeatureDisabled    ErrorCode = "COMMON_015"
	ErrCodeMessageQueue       ErrorCode = "COMMON_017"
)

// Short aliases used at call sites.
const (
	CodeInternal     = ErrCodeInternal
	CodeInvalidParam = ErrCodeBadRequest
	CodeNotFound     = ErrCodeNotFound
	CodeCacheError   = ErrCodeCacheError
	CodeQueueError   = ErrCodeMessageQueue
	CodeOK           = ErrorCode("OK")
	CodeUnknown      = ErrorCode("")
)

// SMILES parsing error codes.  The first five mirror the parser's error kinds.
const (
	ErrCodeInvalidSMILES      ErrorCode = "MOL_001"
	ErrCodeUnknownElement     ErrorCode = "MOL_002"
	ErrCodeRingClosure        ErrorCode = "MOL_003"
	ErrCodeUnbalancedBranch   ErrorCode = "MOL_004"
	ErrCodeInvalidDisconnect  ErrorCode = "MOL_005"
	ErrCodeParsingFailed      ErrorCode = "MOL_006"
	ErrCodeSMILESTooLong      ErrorCode = "MOL_007"
	ErrCodeEmptySMILES        ErrorCode = "MOL_008"
	ErrCodeBatchTooLarge      ErrorCode = "MOL_009"
	ErrCodeInputFormatInvalid ErrorCode = "MOL_010"
)

// ErrorCodeHTTPStatus maps ErrorCodes to HTTP status codes.
var ErrorCodeHTTPStatus = map[ErrorCode]int{
	ErrCodeInternal:           http.StatusInternalServerError,
	ErrCodeBadRequest:         http.StatusBadRequest,
	ErrCodeNotFound:           http.StatusNotFound,
	ErrCodeTooManyRequests:    http.StatusTooManyRequests,
	ErrCodeServiceUnavailable: http.StatusServiceUnavailable,
	ErrCodeTimeout:            http.StatusGatewayTimeout,
	ErrCodeValidation:         http.StatusUnprocessableEntity,
	ErrCodeSerialization:      http.StatusInternalServerError,
	ErrCodeCacheError:         http.StatusInternalServerError,
	ErrCodeFeatureDisabled:    http.StatusForbidden,
	ErrCodeMessageQueue:       http.StatusInternalServerError,

	ErrCodeInvalidSMILES:      http.StatusBadRequest,
	ErrCodeUnknownElement:     http.StatusBadRequest,
	ErrCodeRingClosure:        http.StatusBadRequest,
	ErrCodeUnbalancedBranch:   http.StatusBadRequest,
	ErrCodeInvalidDisconnect:  http.StatusBadRequest,
	ErrCodeParsingFailed:      http.StatusInternalServerError,
	ErrCodeSMILESTooLong:      http.StatusRequestEntityTooLarge,
	ErrCodeEmptySMILES:        http.StatusBadRequest,
	ErrCodeBatchTooLarge:      http.StatusRequestEntityTooLarge,
	ErrCodeInputFormatInvalid: http.StatusBadRequest,
}

// ErrorCodeMessage maps ErrorCodes to default messages.
var ErrorCodeMessage = map[ErrorCode]string{
	ErrCodeInternal:           "internal server error",
	ErrCodeBadRequest:         "bad request",
	ErrCodeNotFound:           "resource not found",
	ErrCodeTooManyRequests:    "too many requests",
	ErrCodeServiceUnavailable: "service unavailable",
	ErrCodeTimeout:            "request timeout",
	ErrCodeValidation:         "validation failed",
	ErrCodeSerialization:      "serialization failed",
	ErrCodeCacheError:         "cache error",
	ErrCodeFeatureDisabled:    "feature disabled",
	ErrCodeMessageQueue:       "message queue error",

	ErrCodeInvalidSMILES:      "invalid SMILES",
	ErrCodeUnknownElement:     "unknown element symbol",
	ErrCodeRingClosure:        "invalid ring closure",
	ErrCodeUnbalancedBranch:   "unbalanced branch",
	ErrCodeInvalidDisconnect:  "invalid disconnection",
	ErrCodeParsingFailed:      "failed to parse molecule",
	ErrCodeSMILESTooLong:      "SMILES exceeds maximum length",
	ErrCodeEmptySMILES:        "SMILES must not be empty",
	ErrCodeBatchTooLarge:      "batch exceeds maximum size",
	ErrCodeInputFormatInvalid: "unrecognised input file format",
}

// HTTPStatusForCode returns the HTTP status code for an ErrorCode.
func HTTPStatusForCode(code ErrorCode) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// DefaultMessageForCode returns the default message for an ErrorCode.
func DefaultMessageForCode(code ErrorCode) string {
	if msg, ok := ErrorCodeMessage[code]; ok {
		return msg
	}
	return "unknown error"
}

// IsClientError returns true if the ErrorCode corresponds to a 4xx HTTP status.
func IsClientError(code ErrorCode) bool {
	status := HTTPStatusForCode(code)
	return status >= 400 && status < 500
}

// IsServerError returns true if the ErrorCode corresponds to a 5xx HTTP status.
func IsServerError(code ErrorCode) bool {
	status := HTTPStatusForCode(code)
	return status >= 500 && status < 600
}

// ModuleForCode returns the module prefix of an ErrorCode.
func ModuleForCode(code ErrorCode) string {
	parts := strings.Split(string(code), "_")
	if len(parts) > 0 && parts[0] != "" {
		return parts[0]
	}
	return "UNKNOWN"
}

//Personal.AI order the ending
