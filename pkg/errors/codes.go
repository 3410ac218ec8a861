package errors

import "net/http"

// ErrorCode is a string identifier for a specific error condition.
type ErrorCode string

func (c ErrorCode) String() string {
	return string(c)
}

// Common error codes
const (
	CodeOK        ErrorCode = "OK"
	CodeUnknown   ErrorCode = "COMMON_000"
	CodeInternal  ErrorCode = "COMMON_001"
	CodeBadRequest ErrorCode = "COMMON_002"
	CodeNotFound  ErrorCode = "COMMON_003"
	CodeConflict  ErrorCode = "COMMON_004"
	CodeTimeout   ErrorCode = "COMMON_005"
	CodeValidation ErrorCode = "COMMON_006"

	// Alias kept because most call sites validate caller-supplied parameters.
	CodeInvalidParam = CodeValidation
)

// SPARQL store error codes
const (
	CodeSPARQLConnection ErrorCode = "SPARQL_001"
	CodeSPARQLQuery      ErrorCode = "SPARQL_002"
)

// Reasoner error codes
const (
	CodeReasonerInconsistency ErrorCode = "RSN_001"
	CodeReasonerTimeout       ErrorCode = "RSN_002"
	CodeReasonerEngine        ErrorCode = "RSN_003"
)

// Ontology error codes
const (
	CodeOntologyNotFound ErrorCode = "ONT_001"
	CodeOntologyLoad     ErrorCode = "ONT_002"
)

// Catalog error codes
const (
	CodeProductNotFound  ErrorCode = "PRD_001"
	CodeCategoryNotFound ErrorCode = "CAT_001"
	CodeUserNotFound     ErrorCode = "USR_001"
)

// ErrorCodeHTTPStatus maps ErrorCodes to HTTP status codes. The interfaces
// layer consults this table; the core never speaks HTTP vocabulary.
var ErrorCodeHTTPStatus = map[ErrorCode]int{
	CodeInternal:   http.StatusInternalServerError,
	CodeBadRequest: http.StatusBadRequest,
	CodeNotFound:   http.StatusNotFound,
	CodeConflict:   http.StatusConflict,
	CodeTimeout:    http.StatusGatewayTimeout,
	CodeValidation: http.StatusBadRequest,

	CodeSPARQLConnection: http.StatusBadGateway,
	CodeSPARQLQuery:      http.StatusInternalServerError,

	CodeReasonerInconsistency: http.StatusConflict,
	CodeReasonerTimeout:       http.StatusGatewayTimeout,
	CodeReasonerEngine:        http.StatusInternalServerError,

	CodeOntologyNotFound: http.StatusInternalServerError,
	CodeOntologyLoad:     http.StatusInternalServerError,

	CodeProductNotFound:  http.StatusNotFound,
	CodeCategoryNotFound: http.StatusNotFound,
	CodeUserNotFound:     http.StatusNotFound,
}

// HTTPStatus returns the HTTP status for a code, defaulting to 500 for codes
// without an explicit mapping.
func HTTPStatus(code ErrorCode) int {
	if s, ok := ErrorCodeHTTPStatus[code]; ok {
		return s
	}
	return http.StatusInternalServerError
}

// Retryable reports whether the failure category is transient from the
// caller's point of view. Only reasoner timeouts and store connection
// failures qualify; inconsistency detection is deliberately fatal.
func Retryable(code ErrorCode) bool {
	switch code {
	case CodeReasonerTimeout, CodeSPARQLConnection, CodeTimeout:
		return true
	}
	return false
}
