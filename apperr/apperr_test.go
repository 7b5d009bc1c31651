package apperr

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestKindOfUnwrapsWrappedErrors(t *testing.T) {
	base := NotFound("promotion %q not found", "SAVE20")

	assert.Equal(t, KindNotFound, KindOf(base))
	assert.Equal(t, KindNotFound, KindOf(errors.Wrap(base, "lookup")))
	assert.Equal(t, KindNotFound, KindOf(fmt.Errorf("redeem: %w", base)))
	assert.Equal(t, KindInternal, KindOf(errors.New("boom")))
	assert.Equal(t, KindInternal, KindOf(nil))
}

func TestIs(t *testing.T) {
	err := InvalidTransition("payment is %s", "Approved")
	assert.True(t, Is(err, KindInvalidTransition))
	assert.False(t, Is(err, KindInvalidState))
	assert.False(t, Is(nil, KindInternal))
}

func TestHTTPStatus(t *testing.T) {
	cases := map[Kind]int{
		KindNotFound:          http.StatusNotFound,
		KindValidation:        http.StatusBadRequest,
		KindParse:             http.StatusUnprocessableEntity,
		KindInvalidState:      http.StatusConflict,
		KindInvalidTransition: http.StatusConflict,
		KindInternal:          http.StatusInternalServerError,
	}
	for kind, status := range cases {
		assert.Equal(t, status, kind.HTTPStatus(), kind.String())
	}
}

func TestValidationKeepsFields(t *testing.T) {
	err := Validation("invalid payer", map[string]string{"phoneNumber": "must be 10 digits"})
	appErr, ok := As(errors.Wrap(err, "submit"))
	assert.True(t, ok)
	assert.Equal(t, "must be 10 digits", appErr.Fields["phoneNumber"])
}
