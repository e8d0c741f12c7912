package verification

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"communitychat/internal/chat/api"
	"communitychat/internal/common"
)

func newTestRouter(t *testing.T, h *Handler) (http.Handler, string) {
	tokens := common.NewTokenManager("test-secret")
	token, err := tokens.GenerateToken(alice.UserID, alice.Handle, alice.DisplayName)
	require.NoError(t, err)

	r := mux.NewRouter()
	authed := r.PathPrefix("/api/v1").Subrouter()
	authed.Use(common.HTTPAuth(tokens, api.WriteError))
	h.RegisterRoutes(r, authed)
	return r, token
}

func post(router http.Handler, token, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.RemoteAddr = addr
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHandler_RequestAndConfirm(t *testing.T) {
	f := newFixture(t)
	router, token := newTestRouter(t, NewHandler(f.svc))

	rec := post(router, token, "/api/v1/verification/request", `{"phone":"+79123456789"}`)
	assert.Equal(t, http.StatusAccepted, rec.Code)
	require.Len(t, f.sender.sent, 1)

	rec = post(router, token, "/api/v1/verification/confirm", `{"phone":"+79123456789","code":"123456"}`)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "+79123456789", f.repo.confirmed[alice.UserID])
}

func TestHandler_Errors(t *testing.T) {
	f := newFixture(t)
	router, token := newTestRouter(t, NewHandler(f.svc))

	tests := []struct {
		name     string
		token    string
		path     string
		body     string
		wantCode int
		wantErr  common.ErrorCode
	}{
		{"no token", "", "/api/v1/verification/request", `{"phone":"+79123456789"}`, http.StatusUnauthorized, common.CodeUnauthenticated},
		{"bad json", token, "/api/v1/verification/request", `{`, http.StatusBadRequest, common.CodeValidation},
		{"bad phone", token, "/api/v1/verification/request", `{"phone":"1"}`, http.StatusBadRequest, common.CodeValidation},
		{"wrong code", token, "/api/v1/verification/confirm", `{"phone":"+79123456789","code":"999999"}`, http.StatusBadRequest, common.CodeValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := post(router, tt.token, tt.path, tt.body)
			assert.Equal(t, tt.wantCode, rec.Code)

			err := api.ReadError(rec.Result())
			ce, ok := common.AsChatError(err)
			require.True(t, ok)
			assert.Equal(t, tt.wantErr, ce.Code)
		})
	}
}
