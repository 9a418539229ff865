package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/slutstation/slutstation-web/internal/service"
)

func newAdminRouter(auth *service.AuthService) *gin.Engine {
	router := gin.New()
	router.POST("/admin", AdminJWT(auth), func(c *gin.Context) {
		if AdminFromContext(c) == nil {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.Status(http.StatusNoContent)
	})
	return router
}

func TestAdminJWT(t *testing.T) {
	gin.SetMode(gin.TestMode)
	auth := service.NewAuthService("secret", nil)
	token, _, err := auth.IssueAdminToken("ops", time.Hour)
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	router := newAdminRouter(auth)

	cases := map[string]struct {
		header string
		want   int
	}{
		"valid":      {header: "Bearer " + token, want: http.StatusNoContent},
		"lowercase":  {header: "bearer " + token, want: http.StatusNoContent},
		"missing":    {header: "", want: http.StatusUnauthorized},
		"basic auth": {header: "Basic dXNlcjpwYXNz", want: http.StatusUnauthorized},
		"garbage":    {header: "Bearer not-a-token", want: http.StatusUnauthorized},
	}
	for name, tc := range cases {
		recorder := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/admin", nil)
		if tc.header != "" {
			req.Header.Set("Authorization", tc.header)
		}
		router.ServeHTTP(recorder, req)
		if recorder.Code != tc.want {
			t.Fatalf("%s: unexpected status %d, want %d", name, recorder.Code, tc.want)
		}
	}
}

func TestAdminJWTDisabled(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := newAdminRouter(service.NewAuthService("", nil))

	recorder := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/admin", nil)
	req.Header.Set("Authorization", "Bearer anything")
	router.ServeHTTP(recorder, req)

	if recorder.Code != http.StatusServiceUnavailable {
		t.Fatalf("unexpected status: %d", recorder.Code)
	}
}
