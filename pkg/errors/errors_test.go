package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_PopulatesCodeMessageStack(t *testing.T) {
	err := New(CodeProductNotFound, "product laptop_hp_01 not found")

	assert.Equal(t, CodeProductNotFound, err.Code)
	assert.Equal(t, "product laptop_hp_01 not found", err.Message)
	assert.NotEmpty(t, err.Stack)
	assert.Nil(t, err.Cause)
}

func TestError_FormatWithAndWithoutDetail(t *testing.T) {
	err := New(CodeSPARQLQuery, "query failed")
	assert.Equal(t, "[SPARQL_002] query failed", err.Error())

	withDetail := err.WithDetail("limit=20 offset=0")
	assert.Equal(t, "[SPARQL_002] query failed: limit=20 offset=0", withDetail.Error())
	// The original is not mutated.
	assert.Empty(t, err.Detail)
}

func TestWrap_NilReturnsNil(t *testing.T) {
	assert.Nil(t, Wrap(nil, CodeInternal, "ignored"))
}

func TestWrap_PreservesCauseChain(t *testing.T) {
	cause := stderrors.New("connection refused")
	err := Wrap(cause, CodeSPARQLConnection, "endpoint unreachable")

	require.NotNil(t, err)
	assert.True(t, stderrors.Is(err, cause))
	assert.Equal(t, cause, err.Unwrap())
}

func TestWrap_UnknownCodeAdoptsInnerCode(t *testing.T) {
	inner := New(CodeReasonerTimeout, "inference exceeded budget")
	outer := Wrap(inner, CodeUnknown, "recommend failed")

	assert.Equal(t, CodeReasonerTimeout, outer.Code)
}

func TestIsCode_TraversesWrappedChain(t *testing.T) {
	inner := New(CodeReasonerInconsistency, "ontology unsatisfiable")
	outer := fmt.Errorf("recommend: %w", Wrap(inner, CodeInternal, "inference failed"))

	assert.True(t, IsCode(outer, CodeReasonerInconsistency))
	assert.True(t, IsCode(outer, CodeInternal))
	assert.False(t, IsCode(outer, CodeReasonerTimeout))
}

func TestIsNotFound_CoversDomainVariants(t *testing.T) {
	for _, code := range []ErrorCode{CodeNotFound, CodeProductNotFound, CodeCategoryNotFound, CodeUserNotFound} {
		assert.True(t, IsNotFound(New(code, "missing")), "code %s", code)
	}
	assert.False(t, IsNotFound(New(CodeInternal, "boom")))
	assert.False(t, IsNotFound(nil))
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(New(CodeReasonerTimeout, "slow")))
	assert.True(t, IsRetryable(New(CodeSPARQLConnection, "down")))
	assert.False(t, IsRetryable(New(CodeReasonerInconsistency, "fatal")))
	assert.False(t, IsRetryable(New(CodeReasonerEngine, "fatal")))
}

func TestGetCode(t *testing.T) {
	assert.Equal(t, CodeOK, GetCode(nil))
	assert.Equal(t, CodeUnknown, GetCode(stderrors.New("plain")))
	assert.Equal(t, CodeSPARQLQuery, GetCode(New(CodeSPARQLQuery, "bad query")))
}

func TestHTTPStatus_DefaultsTo500(t *testing.T) {
	assert.Equal(t, 404, HTTPStatus(CodeProductNotFound))
	assert.Equal(t, 400, HTTPStatus(CodeValidation))
	assert.Equal(t, 502, HTTPStatus(CodeSPARQLConnection))
	assert.Equal(t, 500, HTTPStatus(ErrorCode("NOPE_999")))
}

func TestWithCause_DoesNotMutateReceiver(t *testing.T) {
	base := New(CodeInternal, "base")
	cause := stderrors.New("root")
	derived := base.WithCause(cause)

	assert.Nil(t, base.Cause)
	assert.Equal(t, cause, derived.Cause)
}

func TestNilReceiverBuildersAreSafe(t *testing.T) {
	var e *AppError
	assert.Nil(t, e.WithDetail("x"))
	assert.Nil(t, e.WithCause(stderrors.New("x")))
}
