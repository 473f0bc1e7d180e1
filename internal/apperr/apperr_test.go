package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCodeOf(t *testing.T) {
	require.Equal(t, CodeNotFound, CodeOf(NotFound("studio not found")))
	require.Equal(t, CodePermissionDenied, CodeOf(PermissionDenied("nope")))

	// Wrapped taxonomy errors keep their code.
	wrapped := fmt.Errorf("while deleting: %w", AlreadyExists("taken"))
	require.Equal(t, CodeAlreadyExists, CodeOf(wrapped))

	// Anything else collapses to internal.
	require.Equal(t, CodeInternal, CodeOf(errors.New("pq: connection reset")))
}

func TestMessageOfHidesBackendErrors(t *testing.T) {
	err := Internal("failed to delete studio root", errors.New("pq: connection reset"))
	require.Equal(t, "failed to delete studio root", MessageOf(err))
	require.Equal(t, "internal error", MessageOf(errors.New("pq: connection reset")))
}

func TestHTTPStatus(t *testing.T) {
	require.Equal(t, http.StatusForbidden, HTTPStatus(CodePermissionDenied))
	require.Equal(t, http.StatusBadRequest, HTTPStatus(CodeInvalidArgument))
	require.Equal(t, http.StatusConflict, HTTPStatus(CodeAlreadyExists))
	require.Equal(t, http.StatusNotFound, HTTPStatus(CodeNotFound))
	require.Equal(t, http.StatusInternalServerError, HTTPStatus(CodeInternal))
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("disk full")
	err := Internal("seed failed", cause)
	require.ErrorIs(t, err, cause)
}
