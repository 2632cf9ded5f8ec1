package types

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindNotFound, KindOf(NewAppError(KindNotFound, "gone", nil)))

	wrapped := fmt.Errorf("handler: %w", NewAppError(KindForbidden, "not yours", nil))
	assert.Equal(t, KindForbidden, KindOf(wrapped))

	assert.Equal(t, KindProcessingFailure, KindOf(errors.New("anonymous")))
}

func TestMessageOf(t *testing.T) {
	err := NewAppError(KindStorageFailure, "failed to store document", errors.New("connection reset"))
	assert.Equal(t, "failed to store document", MessageOf(err))

	// Raw errors never leak their text to the client.
	assert.Equal(t, "internal error", MessageOf(errors.New("dial tcp: refused")))
}

func TestHTTPStatusOf(t *testing.T) {
	cases := []struct {
		kind ErrorKind
		want int
	}{
		{KindBadRequest, http.StatusBadRequest},
		{KindNotFound, http.StatusNotFound},
		{KindForbidden, http.StatusForbidden},
		{KindProcessingFailure, http.StatusUnprocessableEntity},
		{KindStorageFailure, http.StatusInternalServerError},
		{KindUpstreamFailure, http.StatusBadGateway},
		{KindUpstreamUnavailable, http.StatusServiceUnavailable},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, HTTPStatusOf(NewAppError(tc.kind, "msg", nil)))
	}
	assert.Equal(t, http.StatusUnprocessableEntity, HTTPStatusOf(errors.New("unclassified")))
}

func TestAppErrorUnwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := NewAppError(KindUpstreamFailure, "upstream rejected request", cause)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "root cause")
}
