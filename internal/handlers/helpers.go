package handlers

import (
	"github.com/gin-gonic/gin"

	"contactbook/internal/middleware"
	"contactbook/internal/models"
)

// currentUser returns the account resolved by the auth middleware.
func currentUser(c *gin.Context) (*models.User, bool) {
	v, ok := c.Get(middleware.CurrentUserKey)
	if !ok {
		return nil, false
	}
	u, ok := v.(*models.User)
	return u, ok
}
