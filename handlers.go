package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func setupRoutes(r *gin.Engine, refiner *refinerClient, limits *rateLimitRegistry) {
	r.POST("/auth/login", loginHandler)
	r.POST("/auth/logout", logoutHandler)
	r.POST("/auth/api-key/generate", generateIntegrationKeyHandler)
	r.DELETE("/auth/api-key/invalidate", invalidateKeyHandler)
	r.POST("/api/management/api-key/generate", generateManagementKeyHandler)
	r.POST("/api/management/rate-limit/configure", configureRateLimitHandler(limits))
	r.POST("/prompts/refine", rateLimitMiddleware(limits), refinePromptHandler(refiner))
}

// rateLimitMiddleware admits requests through the configured token buckets.
// Callers identify themselves with the X-User-ID header; requests with no
// matching rule pass through.
func rateLimitMiddleware(limits *rateLimitRegistry) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !limits.Allow(c.FullPath(), c.GetHeader("X-User-ID")) {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			c.Abort()
			return
		}
		c.Next()
	}
}

func loginHandler(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	res, err := LoginUser(req.Email, req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, res)
}

func logoutHandler(c *gin.Context) {
	var req struct {
		JWTToken string `json:"jwt_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	res, err := LogoutUser(req.JWTToken)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, res)
}

func generateManagementKeyHandler(c *gin.Context) {
	var req struct {
		UserID             string `json:"userId" binding:"required"`
		AuthorizationToken string `json:"authorizationToken" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	res, err := GenerateManagementAPIKey(req.UserID, req.AuthorizationToken)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, res)
}

func generateIntegrationKeyHandler(c *gin.Context) {
	var req struct {
		UserID string `json:"user_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	res, err := GenerateIntegrationAPIKey(req.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, res)
}

func invalidateKeyHandler(c *gin.Context) {
	var req struct {
		APIKey string `json:"api_key" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	res, err := InvalidateAPIKey(req.APIKey)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, res)
}

func configureRateLimitHandler(limits *rateLimitRegistry) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Endpoint *string `json:"endpoint"`
			UserID   *string `json:"userId"`
			Limit    int     `json:"limit" binding:"required,gt=0"`
			Period   int     `json:"period" binding:"required,gt=0"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, limits.Configure(req.Endpoint, req.UserID, req.Limit, req.Period))
	}
}

func refinePromptHandler(refiner *refinerClient) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Prompt string `json:"prompt" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		res, err := refiner.RefinePrompt(req.Prompt)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, res)
	}
}
