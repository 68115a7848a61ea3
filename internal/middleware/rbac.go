package middleware

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/stemsi/markbook/internal/model"
	"github.com/stemsi/markbook/internal/response"
)

// RequirePermission checks that the JWT grants the permission.
func RequirePermission(code model.Permission) gin.HandlerFunc {
	return RequireAnyPermission(code)
}

// RequireAnyPermission checks that the JWT grants at least one of codes.
func RequireAnyPermission(codes ...model.Permission) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetClaims(c)
		if claims == nil {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenRequired)
			return
		}

		for _, code := range codes {
			if claims.HasPermission(code) {
				c.Next()
				return
			}
		}

		response.AbortFail(c, http.StatusForbidden, response.ErrPermissionDenied)
	}
}

// RequireOwnStudent lets callers with reports:read_all through and restricts
// everyone else to the student record bound to their account, as named by
// the path parameter param.
func RequireOwnStudent(param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetClaims(c)
		if claims == nil {
			response.AbortFail(c, http.StatusUnauthorized, response.ErrTokenRequired)
			return
		}

		if claims.HasPermission(model.PermissionReportsReadAll) {
			c.Next()
			return
		}

		id, err := strconv.Atoi(c.Param(param))
		if err != nil {
			response.AbortFail(c, http.StatusBadRequest, response.ErrInvalidID)
			return
		}

		if !claims.HasPermission(model.PermissionReportsReadOwn) || claims.StudentID == nil || *claims.StudentID != id {
			response.AbortFail(c, http.StatusForbidden, response.ErrNotOwnRecord)
			return
		}

		c.Next()
	}
}
