// Package httpkit provides HTTP utilities including identity abstraction.
package httpkit

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Identity represents the authenticated caller.
// Every quote and order is scoped to the OwnerID it carries.
type Identity interface {
	// OwnerID returns the authenticated user's ID.
	OwnerID() uuid.UUID
	// IsAuthenticated returns true if a verified token was presented.
	IsAuthenticated() bool
}

type identity struct {
	ownerID       uuid.UUID
	authenticated bool
}

func (i *identity) OwnerID() uuid.UUID {
	return i.ownerID
}

func (i *identity) IsAuthenticated() bool {
	return i.authenticated
}

// GetIdentity extracts the Identity from a Gin context.
// Returns an unauthenticated identity if no owner is present.
func GetIdentity(c *gin.Context) Identity {
	raw, ok := c.Get(ContextOwnerIDKey)
	if !ok {
		return &identity{}
	}

	ownerID, ok := raw.(uuid.UUID)
	if !ok || ownerID == uuid.Nil {
		return &identity{}
	}

	return &identity{ownerID: ownerID, authenticated: true}
}

// MustGetIdentity extracts the Identity from a Gin context.
// If the caller is not authenticated, it aborts with 401 and returns nil.
func MustGetIdentity(c *gin.Context) Identity {
	id := GetIdentity(c)
	if !id.IsAuthenticated() {
		c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return nil
	}
	return id
}
