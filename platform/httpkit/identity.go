package httpkit

import "github.com/gin-gonic/gin"

// ContextActorKey is the gin context key for the authenticated token subject.
const ContextActorKey = "actor"

// Actor returns the subject of the verified access token, if the route was
// behind AuthRequired.
func Actor(c *gin.Context) (string, bool) {
	value, ok := c.Get(ContextActorKey)
	if !ok {
		return "", false
	}
	actor, ok := value.(string)
	return actor, ok && actor != ""
}

// ActorOrAnonymous is Actor with a fixed fallback for logging.
func ActorOrAnonymous(c *gin.Context) string {
	if actor, ok := Actor(c); ok {
		return actor
	}
	return "anonymous"
}
