package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"home-services-server/internal/utils"
)

type AuthHandler struct {
	jwt *utils.JWTUtil
}

func NewAuthHandler(jwt *utils.JWTUtil) *AuthHandler {
	return &AuthHandler{jwt: jwt}
}

// IssueToken signs an arbitrary identity payload into a credential. There
// is no user store to validate the payload against.
func (h *AuthHandler) IssueToken(c *gin.Context) {
	var payload map[string]interface{}
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondWithError(c, http.StatusBadRequest, "invalid payload")
		return
	}

	token, err := h.jwt.IssueToken(payload)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}

// Health is the unauthenticated liveness endpoint.
func (h *AuthHandler) Health(c *gin.Context) {
	c.String(http.StatusOK, "home services server is running")
}
