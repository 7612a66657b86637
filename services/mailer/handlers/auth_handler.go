package handlers

import (
	"net/http"

	"novamailer/services/mailer/models"
	"novamailer/services/mailer/usecase"
	"novamailer/shared/logger"
	"novamailer/shared/middleware"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
)

// AuthHandler handles HTTP requests for authentication
type AuthHandler struct {
	authUsecase usecase.AuthUsecase
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authUsecase usecase.AuthUsecase) *AuthHandler {
	return &AuthHandler{authUsecase: authUsecase}
}

// Register handles user registration requests
func (h *AuthHandler) Register(c *gin.Context) {
	requestID := requestid.Get(c)

	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	user, err := h.authUsecase.Register(&req)
	if err != nil {
		logger.WithFields(map[string]interface{}{
			"request_id": requestID,
			"email":      req.Email,
			"error":      err.Error(),
		}).Error("Failed to register user")
		respondError(c, err, "Failed to register user")
		return
	}

	logger.WithFields(map[string]interface{}{
		"request_id": requestID,
		"user_id":    user.ID,
		"email":      user.Email,
	}).Info("User registered")

	c.JSON(http.StatusCreated, gin.H{
		"message":               "Registration successful. Please check your email for verification code.",
		"user_id":               user.ID,
		"email":                 user.Email,
		"requires_verification": true,
		"request_id":            requestID,
	})
}

// VerifyEmail confirms an account with the registration OTP
func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	var req models.OTPVerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	if err := h.authUsecase.VerifyEmail(req.UserID, req.Code); err != nil {
		respondError(c, err, "Failed to verify email")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "Email verified successfully. You can now login.",
		"request_id": requestid.Get(c),
	})
}

// Login handles user login requests
func (h *AuthHandler) Login(c *gin.Context) {
	requestID := requestid.Get(c)

	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	result, err := h.authUsecase.Login(req.Email, req.Password)
	if err != nil {
		logger.WithFields(map[string]interface{}{
			"request_id": requestID,
			"email":      req.Email,
			"error":      err.Error(),
		}).Warn("Login failed")
		respondError(c, err, "Login failed")
		return
	}

	if result.RequiresOTP {
		c.JSON(http.StatusOK, gin.H{
			"message":      "OTP sent to your email",
			"requires_otp": true,
			"user_id":      result.UserID,
			"request_id":   requestID,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tokens":     result.Tokens,
		"user_id":    result.UserID,
		"request_id": requestID,
	})
}

// VerifyLogin exchanges a login OTP for tokens
func (h *AuthHandler) VerifyLogin(c *gin.Context) {
	var req models.OTPVerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	tokens, err := h.authUsecase.VerifyLogin(req.UserID, req.Code)
	if err != nil {
		respondError(c, err, "Failed to verify login")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tokens":     tokens,
		"request_id": requestid.Get(c),
	})
}

// ForgotPassword starts a password reset flow
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req models.ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	userID, err := h.authUsecase.ForgotPassword(req.Email)
	if err != nil {
		respondError(c, err, "Failed to process password reset")
		return
	}

	// Same response for known and unknown emails.
	response := gin.H{
		"message":    "If email exists, OTP has been sent",
		"request_id": requestid.Get(c),
	}
	if userID != 0 {
		response["user_id"] = userID
	}
	c.JSON(http.StatusOK, response)
}

// ResetPassword completes an OTP-gated password reset
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req models.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	if err := h.authUsecase.ResetPassword(req.UserID, req.Code, req.NewPassword); err != nil {
		respondError(c, err, "Failed to reset password")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "Password reset successfully",
		"request_id": requestid.Get(c),
	})
}

// Me returns the authenticated account
func (h *AuthHandler) Me(c *gin.Context) {
	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	user, err := h.authUsecase.GetUser(userID)
	if err != nil {
		respondError(c, err, "Failed to get user")
		return
	}

	c.JSON(http.StatusOK, user)
}
