package core

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// respondError sends unified error payload {"error": {"code", "message"}}.
func respondError(c *gin.Context, status int, code, message string) {
	c.JSON(status, gin.H{"error": gin.H{"code": code, "message": message}})
}

// respondAccountError maps an AccountService failure onto HTTP status,
// code, and message. Registration/input failures are bad-request class,
// authentication failures unauthorized class; anything outside the
// taxonomy is a store fault and surfaces as a logged 500.
func respondAccountError(c *gin.Context, err error) {
	var accErr *AccountError
	if !errors.As(err, &accErr) {
		log.Printf("internal error on %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		respondError(c, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "internal server error")
		return
	}

	switch accErr.Kind {
	case ErrKindMissingParameter:
		respondError(c, http.StatusBadRequest, "MISSING_PARAMETER",
			fmt.Sprintf("The %s parameter is required.", accErr.Field))
	case ErrKindPasswordMismatch:
		respondError(c, http.StatusBadRequest, "PASSWORD_MISMATCH", "Passwords do not match.")
	case ErrKindDuplicateUsername:
		respondError(c, http.StatusBadRequest, "DUPLICATE_USERNAME", "Username is already taken.")
	case ErrKindDuplicateEmail:
		respondError(c, http.StatusBadRequest, "DUPLICATE_EMAIL", "Email is already taken.")
	case ErrKindInvalidCredentialEncoding:
		respondError(c, http.StatusBadRequest, "INVALID_PASSWORD_ENCODING", "Invalid password characters.")
	case ErrKindUserCreationFailed:
		respondError(c, http.StatusBadRequest, "USER_CREATION_FAILED", accErr.Detail)
	case ErrKindAuthenticationFailed:
		respondError(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid username or password.")
	case ErrKindUnauthenticated:
		respondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Please login.")
	default:
		respondError(c, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "internal server error")
	}
}
