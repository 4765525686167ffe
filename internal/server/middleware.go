package server

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Simon-Kral/Coderr/internal/authz"
	"github.com/Simon-Kral/Coderr/internal/shared/problems"
)

const actorContextKey = "coderr.actor"

// resolveActor turns an "Authorization: Token <token>" header into an Actor.
// Requests without a resolvable token proceed as anonymous; each endpoint's
// policy row decides whether that is enough.
func (s *Server) resolveActor() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := authz.Anonymous()
		if token, ok := bearerToken(c.GetHeader("Authorization")); ok {
			if view, err := s.identity.Authenticate(c.Request.Context(), token); err == nil {
				actor = &authz.Actor{Account: view.Account, Kind: view.Profile.Kind}
			}
		}
		c.Set(actorContextKey, actor)
		c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", false
	}
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Token") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func currentActor(c *gin.Context) *authz.Actor {
	if value, ok := c.Get(actorContextKey); ok {
		if actor, ok := value.(*authz.Actor); ok {
			return actor
		}
	}
	return authz.Anonymous()
}

// authorize evaluates the policy row and responds 403 on deny. Callers must
// return immediately when it reports false.
func (s *Server) authorize(c *gin.Context, resource authz.Resource, action authz.Action, target *authz.Target) bool {
	if authz.Can(currentActor(c), resource, action, target) {
		return true
	}
	s.responder.Respond(c, problems.ErrForbidden)
	return false
}

func parseIDParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		problems.DefaultResponder.Respond(c, problems.ErrBadRequest.WithDetail("invalid id parameter"))
		return 0, false
	}
	return id, true
}
