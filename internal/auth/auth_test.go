package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func newAuthRouter(secret string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(Optional(secret, zap.NewNop().Sugar()))
	router.GET("/whoami", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"owner": OwnerID(ctx)})
	})
	return router
}

func get(router *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestTokenRoundTrip(t *testing.T) {
	wrapper := &JwtWrapper{SecretKey: "test-secret", Issuer: "oracle-engine", ExpirationHours: 1}

	token, err := wrapper.GenerateToken("owner-42")
	assert.NoError(t, err)

	ownerID, err := wrapper.ValidateToken(token)
	assert.NoError(t, err)
	assert.Equal(t, "owner-42", ownerID)

	t.Run("wrong secret fails", func(t *testing.T) {
		other := &JwtWrapper{SecretKey: "different"}
		_, err := other.ValidateToken(token)
		assert.Error(t, err)
	})
}

func TestOptionalMiddleware(t *testing.T) {
	wrapper := &JwtWrapper{SecretKey: "test-secret", ExpirationHours: 1}
	token, err := wrapper.GenerateToken("owner-42")
	assert.NoError(t, err)

	t.Run("no header passes anonymously", func(t *testing.T) {
		w := get(newAuthRouter("test-secret"), "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"owner":""`)
	})

	t.Run("valid token attaches owner", func(t *testing.T) {
		w := get(newAuthRouter("test-secret"), "Bearer "+token)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"owner":"owner-42"`)
	})

	t.Run("garbage token rejected", func(t *testing.T) {
		w := get(newAuthRouter("test-secret"), "Bearer not-a-token")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("malformed header rejected", func(t *testing.T) {
		w := get(newAuthRouter("test-secret"), "Token abc")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("empty secret ignores tokens", func(t *testing.T) {
		w := get(newAuthRouter(""), "Bearer "+token)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"owner":""`)
	})
}
