package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/koreasuan/rainmaker-api/models"
)

// fakeRoleStore answers GET_USER_ROLE lookups with a scripted result.
type fakeRoleStore struct {
	result models.MutationResult
	err    error
}

func (f *fakeRoleStore) SubmitMutation(ctx context.Context, kind models.MutationKind, payload any) (models.MutationResult, error) {
	if f.err != nil {
		return models.MutationResult{}, f.err
	}
	return f.result, nil
}

func loginRouter(store *fakeRoleStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := &AuthHandler{Sheets: store, JWTSecret: "test-secret", SessionTTL: time.Hour}
	r.POST("/auth/login", h.Login)
	return r
}

func postLogin(r *gin.Engine, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestLoginMintsTokenForRegisteredUser(t *testing.T) {
	store := &fakeRoleStore{result: models.MutationResult{
		Success: true,
		Data:    map[string]any{"role": models.RoleManager, "name": "김부장", "team": "영업1팀"},
	}}

	w := postLogin(loginRouter(store), `{"email": "kim@koreasuan.co.kr", "name": "Kim"}`)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp models.AuthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, models.RoleManager, resp.User.Role)
	// The sheet's registered name wins over whatever the client sent.
	assert.Equal(t, "김부장", resp.User.Name)
	assert.Equal(t, "영업1팀", resp.User.Team)
}

func TestLoginDefaultsRoleToSales(t *testing.T) {
	store := &fakeRoleStore{result: models.MutationResult{Success: true}}

	w := postLogin(loginRouter(store), `{"email": "park@koreasuan.co.kr", "name": "Park"}`)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp models.AuthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, models.RoleSales, resp.User.Role)
	assert.Equal(t, "Park", resp.User.Name)
}

func TestLoginRejectsUnregisteredUser(t *testing.T) {
	store := &fakeRoleStore{result: models.MutationResult{Success: false, Message: "not found"}}

	w := postLogin(loginRouter(store), `{"email": "stranger@example.com"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "등록된 사용자가 아닙니다")
}

func TestLoginReportsLookupTransportFailure(t *testing.T) {
	store := &fakeRoleStore{err: fmt.Errorf("connection refused")}

	w := postLogin(loginRouter(store), `{"email": "kim@koreasuan.co.kr"}`)
	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestLoginValidatesBody(t *testing.T) {
	store := &fakeRoleStore{result: models.MutationResult{Success: true}}

	w := postLogin(loginRouter(store), `{"name": "no email"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
