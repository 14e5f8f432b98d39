package auth

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt"
	"go.uber.org/zap"
)

// ownerKey is the gin context key carrying the authenticated owner id.
const ownerKey = "ownerId"

type JwtWrapper struct {
	SecretKey       string
	Issuer          string
	ExpirationHours int64
}

type jwtClaims struct {
	jwt.StandardClaims
	OwnerId string `json:"owner_id"`
}

// GenerateToken signs an HS256 token for the given owner.
func (w *JwtWrapper) GenerateToken(ownerID string) (string, error) {
	claims := &jwtClaims{
		OwnerId: ownerID,
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: time.Now().Add(time.Hour * time.Duration(w.ExpirationHours)).Unix(),
			Issuer:    w.Issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(w.SecretKey))
}

// ValidateToken parses and verifies a signed token, returning the owner id.
func (w *JwtWrapper) ValidateToken(signedToken string) (string, error) {
	token, err := jwt.ParseWithClaims(signedToken, &jwtClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(w.SecretKey), nil
	})
	if err != nil {
		return "", err
	}

	claims, ok := token.Claims.(*jwtClaims)
	if !ok || !token.Valid {
		return "", errors.New("could not parse claims")
	}
	if claims.ExpiresAt < time.Now().Unix() {
		return "", errors.New("token is expired")
	}
	return claims.OwnerId, nil
}

// Optional returns a middleware that attaches the owner id when a bearer
// token is presented and valid. Requests without a token pass through
// anonymously; a presented-but-invalid token is rejected. With an empty
// secret the service runs fully anonymous and every token is ignored.
func Optional(secretKey string, log *zap.SugaredLogger) gin.HandlerFunc {
	wrapper := &JwtWrapper{SecretKey: secretKey}

	return func(ctx *gin.Context) {
		if secretKey == "" {
			ctx.Next()
			return
		}

		header := ctx.GetHeader("Authorization")
		if header == "" {
			ctx.Next()
			return
		}

		tokenString := strings.TrimPrefix(header, "Bearer ")
		if tokenString == header {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "malformed authorization header"})
			return
		}

		ownerID, err := wrapper.ValidateToken(tokenString)
		if err != nil {
			log.Infow("rejected bearer token", "err", err)
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}
		ctx.Set(ownerKey, ownerID)
		ctx.Next()
	}
}

// OwnerID returns the authenticated owner id, empty for anonymous requests.
func OwnerID(ctx *gin.Context) string {
	return ctx.GetString(ownerKey)
}
