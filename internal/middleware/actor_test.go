package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Cesarb72/waypoint-sub001/internal/logger"
	"github.com/Cesarb72/waypoint-sub001/internal/requestdata"
)

func actorProbe(m *ActorMiddleware, guard gin.HandlerFunc) (*gin.Engine, *uuid.UUID) {
	gin.SetMode(gin.TestMode)
	seen := new(uuid.UUID)
	r := gin.New()
	r.GET("/probe", guard, func(c *gin.Context) {
		*seen = requestdata.ActorID(c.Request.Context())
		c.Status(http.StatusOK)
	})
	return r, seen
}

func TestRequireActor_RejectsMissingHeader(t *testing.T) {
	m := NewActorMiddleware(logger.NewNop())
	r, _ := actorProbe(m, m.RequireActor())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/probe", nil))
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireActor_RejectsMalformedHeader(t *testing.T) {
	m := NewActorMiddleware(logger.NewNop())
	r, _ := actorProbe(m, m.RequireActor())

	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("X-Actor-ID", "not-a-uuid")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireActor_AttachesActorToContext(t *testing.T) {
	m := NewActorMiddleware(logger.NewNop())
	r, seen := actorProbe(m, m.RequireActor())

	me := uuid.New()
	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("X-Actor-ID", me.String())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, me, *seen)
}

func TestOptionalActor_LetsAnonymousThrough(t *testing.T) {
	m := NewActorMiddleware(logger.NewNop())
	r, seen := actorProbe(m, m.OptionalActor())

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/probe", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, uuid.Nil, *seen)
}
