package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/planetcare/server/internal/auth"
	"github.com/planetcare/server/internal/domain/users"
	"github.com/stretchr/testify/require"
)

type stubUserRepo struct {
	getByEmailFn func(email string) (*users.User, error)
}

func (s stubUserRepo) Create(_ context.Context, _ users.CreateParams) (*users.User, error) {
	return nil, errors.New("not implemented")
}

func (s stubUserRepo) GetByEmail(_ context.Context, email string) (*users.User, error) {
	return s.getByEmailFn(email)
}

func (s stubUserRepo) List(_ context.Context) ([]users.User, error) {
	return nil, errors.New("not implemented")
}

func (s stubUserRepo) UpdateRole(_ context.Context, _, _ string) (*users.User, error) {
	return nil, errors.New("not implemented")
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequireAuthRejectsMissingHeader(t *testing.T) {
	manager := auth.NewJWTManager("secret", time.Hour, "test")
	h := RequireAuth(manager, "test")(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/users", nil)
	res := httptest.NewRecorder()

	h.ServeHTTP(res, req)
	require.Equal(t, http.StatusUnauthorized, res.Code)
}

func TestRequireAuthRejectsInvalidFormat(t *testing.T) {
	manager := auth.NewJWTManager("secret", time.Hour, "test")
	h := RequireAuth(manager, "test")(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/users", nil)
	req.Header.Set("Authorization", "Token abc")
	res := httptest.NewRecorder()

	h.ServeHTTP(res, req)
	require.Equal(t, http.StatusUnauthorized, res.Code)
}

func TestRequireAuthRejectsInvalidToken(t *testing.T) {
	manager := auth.NewJWTManager("secret", time.Hour, "test")
	h := RequireAuth(manager, "test")(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/users", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	res := httptest.NewRecorder()

	h.ServeHTTP(res, req)
	require.Equal(t, http.StatusUnauthorized, res.Code)
}

func TestRequireAuthRejectsExpiredToken(t *testing.T) {
	expired := auth.NewJWTManager("secret", -time.Minute, "test")
	token, err := expired.Generate("member@example.com", "")
	require.NoError(t, err)

	manager := auth.NewJWTManager("secret", time.Hour, "test")
	h := RequireAuth(manager, "test")(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/users", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	res := httptest.NewRecorder()

	h.ServeHTTP(res, req)
	require.Equal(t, http.StatusUnauthorized, res.Code)
}

func TestRequireAuthAttachesIdentity(t *testing.T) {
	manager := auth.NewJWTManager("secret", time.Hour, "test")
	token, err := manager.Generate("member@example.com", "Member")
	require.NoError(t, err)

	h := RequireAuth(manager, "test")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims := Identity(r)
		require.NotNil(t, claims)
		require.Equal(t, "member@example.com", claims.Email)
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/users", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	res := httptest.NewRecorder()

	h.ServeHTTP(res, req)
	require.Equal(t, http.StatusOK, res.Code)
}

func adminChain(t *testing.T, repo stubUserRepo) (http.Handler, string) {
	t.Helper()
	manager := auth.NewJWTManager("secret", time.Hour, "test")
	token, err := manager.Generate("someone@example.com", "")
	require.NoError(t, err)

	userService := users.NewService(repo)
	h := RequireAuth(manager, "test")(RequireAdmin(userService, "test")(okHandler()))
	return h, token
}

func TestRequireAdminGrantsExactAdminRole(t *testing.T) {
	h, token := adminChain(t, stubUserRepo{
		getByEmailFn: func(email string) (*users.User, error) {
			require.Equal(t, "someone@example.com", email)
			return &users.User{Email: email, Role: users.RoleAdmin}, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/users", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	res := httptest.NewRecorder()

	h.ServeHTTP(res, req)
	require.Equal(t, http.StatusOK, res.Code)
}

func TestRequireAdminForbidsMemberRole(t *testing.T) {
	h, token := adminChain(t, stubUserRepo{
		getByEmailFn: func(email string) (*users.User, error) {
			return &users.User{Email: email, Role: users.RoleMember}, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/users", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	res := httptest.NewRecorder()

	h.ServeHTTP(res, req)
	require.Equal(t, http.StatusForbidden, res.Code)
}

func TestRequireAdminForbidsMissingRecord(t *testing.T) {
	h, token := adminChain(t, stubUserRepo{
		getByEmailFn: func(string) (*users.User, error) {
			return nil, users.ErrNotFound
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/users", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	res := httptest.NewRecorder()

	h.ServeHTTP(res, req)
	require.Equal(t, http.StatusForbidden, res.Code)
}

func TestRequireAdminSurfacesStoreFailure(t *testing.T) {
	h, token := adminChain(t, stubUserRepo{
		getByEmailFn: func(string) (*users.User, error) {
			return nil, errors.New("store down")
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/users", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	res := httptest.NewRecorder()

	h.ServeHTTP(res, req)
	require.Equal(t, http.StatusInternalServerError, res.Code)
}

func TestRequireAdminWithoutAuthContext(t *testing.T) {
	userService := users.NewService(stubUserRepo{
		getByEmailFn: func(string) (*users.User, error) {
			t.Fatal("store must not be read without identity")
			return nil, nil
		},
	})
	h := RequireAdmin(userService, "test")(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/users", nil)
	res := httptest.NewRecorder()

	h.ServeHTTP(res, req)
	require.Equal(t, http.StatusUnauthorized, res.Code)
}
