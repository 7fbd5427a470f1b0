package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"cloudauth/internal/models"
	"cloudauth/internal/services"
)

type AuthHandler struct {
	service services.VerificationService
}

func NewAuthHandler(service services.VerificationService) *AuthHandler {
	return &AuthHandler{service: service}
}

// @Summary      Register a new user
// @Description  Creates an inactive account and emails a verification code
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        register  body      models.RegisterRequest  true  "Registration data"
// @Success      200       {object}  map[string]string
// @Failure      400       {object}  map[string]string
// @Failure      409       {object}  map[string]string
// @Failure      422       {object}  map[string]string
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.service.Register(req.Username, req.Email, req.Password)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"message": "Registration successful. A verification code has been sent to your email."})
	case errors.Is(err, services.ErrDuplicateIdentity):
		c.JSON(http.StatusConflict, gin.H{"error": "username or email already registered"})
	case errors.Is(err, services.ErrDeliveryFailed):
		// учётная запись создана, но письмо не ушло — пусть клиент сделает resend
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "registered, but the verification email could not be delivered; request a new code via /auth/send-verification"})
	default:
		log.Printf("[auth][register] service error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to register user"})
	}
}

// @Summary      Resend verification code
// @Description  Issues a fresh code for a not-yet-active account
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        body  body      models.SendVerificationRequest  true  "Target email"
// @Success      200   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /auth/send-verification [post]
func (h *AuthHandler) SendVerification(c *gin.Context) {
	var req models.SendVerificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.service.SendVerification(req.Email)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"message": "Verification code sent."})
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "no pending registration for this email"})
	case errors.Is(err, services.ErrAlreadyVerified):
		c.JSON(http.StatusConflict, gin.H{"error": "email already verified"})
	case errors.Is(err, services.ErrDeliveryFailed):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "verification email could not be delivered, try again later"})
	default:
		log.Printf("[auth][send-verification] service error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to send verification code"})
	}
}

// @Summary      Verify email address
// @Description  Consumes the code and activates the account
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        body  body      models.VerifyEmailRequest  true  "Email and code"
// @Success      200   {object}  map[string]string
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /auth/verify-email [post]
func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	var req models.VerifyEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.service.VerifyEmail(req.Email, req.VerificationCode)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"message": "Email verified successfully. You can now log in."})
	case errors.Is(err, services.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "no pending registration for this email"})
	case errors.Is(err, services.ErrCodeExpired):
		c.JSON(http.StatusBadRequest, gin.H{"error": "verification code expired, please request a new one"})
	case errors.Is(err, services.ErrCodeInvalid):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid verification code"})
	default:
		log.Printf("[auth][verify-email] service error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Verification failed"})
	}
}

// @Summary      Issue access token
// @Description  OAuth2 password flow: form-encoded username/password
// @Tags         Auth
// @Accept       x-www-form-urlencoded
// @Produce      json
// @Param        username  formData  string  true  "Username"
// @Param        password  formData  string  true  "Password"
// @Success      200  {object}  models.TokenResponse
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Router       /auth/token [post]
func (h *AuthHandler) Token(c *gin.Context) {
	username := strings.TrimSpace(c.PostForm("username"))
	password := c.PostForm("password")
	if username == "" || password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username and password are required"})
		return
	}
	log.Printf("[auth][token] attempt username=%q", username)

	token, err := h.service.Login(username, password)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, models.TokenResponse{AccessToken: token, TokenType: "bearer"})
	case errors.Is(err, services.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Incorrect username or password"})
	case errors.Is(err, services.ErrAccountNotActivated):
		c.JSON(http.StatusForbidden, gin.H{"error": "account not activated, verify your email first"})
	default:
		log.Printf("[auth][token] service error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to issue token"})
	}
}
