package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/tutorlink/tutorlink-api/internal/models"
)

func rbacRouter(claims *models.JWTClaims, allowed ...models.RoleName) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(func(c *gin.Context) {
		if claims != nil {
			c.Set(ContextUserKey, claims)
		}
	})
	router.GET("/users/:id", RequireRoles(allowed...), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return router
}

func TestRBACAllowsMatchingRole(t *testing.T) {
	router := rbacRouter(&models.JWTClaims{UserID: "u1", Role: models.RoleAdmin}, models.RoleSuperAdmin, models.RoleAdmin)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/users/u2", nil))

	if rec.Code != http.StatusNoContent {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
}

func TestRBACRejectsMissingClaims(t *testing.T) {
	router := rbacRouter(nil, models.RoleAdmin)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/users/u2", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
}

func TestRBACRejectsWrongRole(t *testing.T) {
	router := rbacRouter(&models.JWTClaims{UserID: "u1", Role: models.RoleParent}, models.RoleAdmin)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/users/u2", nil))

	if rec.Code != http.StatusForbidden {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
}

func TestRBACSelfAccess(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set(ContextUserKey, &models.JWTClaims{UserID: "u1", Role: models.RoleParent})
	})
	router.GET("/users/:id", RBAC("ADMIN", "SELF"), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/users/u1", nil))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected self access, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/users/u9", nil))
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected forbidden for other user, got %d", rec.Code)
	}
}
