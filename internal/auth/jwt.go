package auth

import (
	"time"

	"masapos-backend/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

// JWTCustomClaims: token, rol ve kullanıcı bilgisini taşır; istemci rolü
// öğrenmek için ayrıca sunucuya sormaz.
type JWTCustomClaims struct {
	UserID uint            `json:"user_id"`
	Name   string          `json:"name"`
	Email  string          `json:"email"`
	Role   models.UserRole `json:"role"`
	jwt.RegisteredClaims
}

func GenerateToken(secret string, user *models.User) (string, error) {
	claims := &JWTCustomClaims{
		UserID: user.ID,
		Name:   user.Name,
		Email:  user.Email,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)), // 1 gün
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}
