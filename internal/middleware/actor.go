package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Cesarb72/waypoint-sub001/internal/logger"
	"github.com/Cesarb72/waypoint-sub001/internal/requestdata"
)

// ActorMiddleware reads the actor identity the upstream auth layer put on the
// request. Authentication itself lives outside this service.
type ActorMiddleware struct {
	log *logger.Logger
}

func NewActorMiddleware(log *logger.Logger) *ActorMiddleware {
	return &ActorMiddleware{log: log.With("middleware", "ActorMiddleware")}
}

// RequireActor rejects requests without a parseable X-Actor-ID header.
func (m *ActorMiddleware) RequireActor() gin.HandlerFunc {
	return func(c *gin.Context) {
		actorID, ok := parseActor(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": gin.H{"message": "missing or invalid actor identity", "code": "no_actor"}})
			return
		}
		attach(c, actorID)
		c.Next()
	}
}

// OptionalActor attaches the actor when present but lets anonymous requests
// through; aggregators fall back to global scope.
func (m *ActorMiddleware) OptionalActor() gin.HandlerFunc {
	return func(c *gin.Context) {
		if actorID, ok := parseActor(c); ok {
			attach(c, actorID)
		}
		c.Next()
	}
}

func parseActor(c *gin.Context) (uuid.UUID, bool) {
	raw := strings.TrimSpace(c.GetHeader("X-Actor-ID"))
	if raw == "" {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil || id == uuid.Nil {
		return uuid.Nil, false
	}
	return id, true
}

func attach(c *gin.Context, actorID uuid.UUID) {
	rd := &requestdata.RequestData{
		ActorID:   actorID,
		SessionID: strings.TrimSpace(c.GetHeader("X-Session-ID")),
	}
	c.Request = c.Request.WithContext(requestdata.WithRequestData(c.Request.Context(), rd))
}
