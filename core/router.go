package core

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// NewRouter constructs the Gin engine with routes wired.
func NewRouter(cfg Config, accounts *AccountService, stats *StatsService) *gin.Engine {
	r := gin.Default()

	r.Use(OriginRefererMiddleware(cfg))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api/v1")
	{
		api.POST("/register", MaxBodyMiddleware(MaxRequestBody), func(c *gin.Context) {
			var req struct {
				Email     string `json:"email"`
				Username  string `json:"username"`
				Password1 string `json:"password1"`
				Password2 string `json:"password2"`
			}
			if err := c.ShouldBindJSON(&req); err != nil {
				if bodyTooLarge(err) {
					respondError(c, http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE", "request body is too large")
					return
				}
				respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid json")
				return
			}

			token, err := accounts.Register(c.Request.Context(), RegisterInput{
				Email:     req.Email,
				Username:  req.Username,
				Password1: req.Password1,
				Password2: req.Password2,
			})
			if err != nil {
				respondAccountError(c, err)
				return
			}

			setSessionCookie(c, cfg, accounts, token)
			c.JSON(http.StatusCreated, gin.H{"status": "created"})
		})

		// Idempotent probe: is the presented session cookie still live?
		api.GET("/login", func(c *gin.Context) {
			token, _ := c.Cookie(SessionCookieName)
			if _, err := accounts.ValidateSession(c.Request.Context(), token); err != nil {
				respondAccountError(c, err)
				return
			}
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		api.POST("/login", MaxBodyMiddleware(MaxRequestBody), func(c *gin.Context) {
			var req struct {
				Username string `json:"username"`
				Password string `json:"password"`
			}
			if err := c.ShouldBindJSON(&req); err != nil {
				if bodyTooLarge(err) {
					respondError(c, http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE", "request body is too large")
					return
				}
				respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid json")
				return
			}

			token, err := accounts.Login(c.Request.Context(), req.Username, req.Password)
			if err != nil {
				// Bad password bytes on login are an authentication
				// failure, not a validation one.
				if errors.Is(err, &AccountError{Kind: ErrKindInvalidCredentialEncoding}) {
					respondError(c, http.StatusUnauthorized, "INVALID_PASSWORD_ENCODING", "Invalid password characters.")
					return
				}
				respondAccountError(c, err)
				return
			}

			setSessionCookie(c, cfg, accounts, token)
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		api.GET("/stats", func(c *gin.Context) {
			token, _ := c.Cookie(SessionCookieName)
			if _, err := accounts.ValidateSession(c.Request.Context(), token); err != nil {
				respondAccountError(c, err)
				return
			}
			st, err := stats.Collect(c.Request.Context())
			if err != nil {
				respondError(c, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "failed to load stats")
				return
			}
			c.JSON(http.StatusOK, st)
		})
	}

	return r
}

// setSessionCookie issues the session cookie exactly as the flows
// promise it: the raw token as value, path /, MaxAge = session TTL.
func setSessionCookie(c *gin.Context, cfg Config, accounts *AccountService, token string) {
	c.SetCookie(SessionCookieName, token, int(accounts.SessionTTL().Seconds()), "/", "", cfg.CookieSecure, true)
}

// bodyTooLarge reports whether a bind failure came from the
// MaxBytesReader cap rather than malformed JSON.
func bodyTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr)
}
