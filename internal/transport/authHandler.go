package transport

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// AuthConfig описывает учетную запись оператора и параметры токена
type AuthConfig struct {
	Username     string
	PasswordHash string
	Secret       []byte
	TTL          time.Duration
}

type AuthHandler struct {
	cfg AuthConfig
	now func() time.Time
}

func NewAuthHandler(cfg AuthConfig) *AuthHandler {
	return &AuthHandler{cfg: cfg, now: time.Now}
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Login выдает JWT оператору
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body: "+err.Error())
		return
	}

	if h.cfg.PasswordHash == "" || req.Username != h.cfg.Username ||
		bcrypt.CompareHashAndPassword([]byte(h.cfg.PasswordHash), []byte(req.Password)) != nil {
		logrus.WithField("username", req.Username).Warn("Failed operator login")
		c.JSON(http.StatusUnauthorized, ErrorResponse{Success: false, Error: "invalid username or password"})
		return
	}

	now := h.now()
	expiresAt := now.Add(h.cfg.TTL)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   req.Username,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	})

	signed, err := token.SignedString(h.cfg.Secret)
	if err != nil {
		logrus.Errorf("Failed to sign token: %v", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Success: false, Error: "failed to issue token"})
		return
	}

	respond(c, http.StatusOK, "Login successful", LoginResponse{Token: signed, ExpiresAt: expiresAt})
}
