package apperror

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusCodes(t *testing.T) {
	cases := []struct {
		err    *AppError
		status int
	}{
		{NewValidation("Dados inválidos", nil), http.StatusBadRequest},
		{NewBadRequest("Credenciais inválidas"), http.StatusBadRequest},
		{NewConflict("E-mail já cadastrado"), http.StatusBadRequest},
		{NewAuth("Refresh token inválido ou expirado"), http.StatusUnauthorized},
		{NewNotFound("Veículo não encontrado"), http.StatusNotFound},
		{NewDatabase("query failed", errors.New("boom")), http.StatusInternalServerError},
		{NewInternal("unexpected", errors.New("boom")), http.StatusInternalServerError},
		// Remote storage and mail failures stay opaque 500s.
		{NewExternal("Falha ao enviar imagem", errors.New("blob down")), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.status, tc.err.StatusCode(), "message %q", tc.err.Message)
	}
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewExternal("Falha ao enviar imagem", cause)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "connection refused")
}
