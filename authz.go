package main

import (
	"userapi/models"

	"github.com/gin-gonic/gin"
)

// Action is a capability applied to a resource type or instance.
type Action int

const (
	Create Action = iota
	Read
	Update
	Delete
	List
	// Manage implies every other action on the resource.
	Manage
)

// Predicate gates a rule on the concrete record once loaded. A nil predicate
// grants the action on every instance of the resource type.
type Predicate func(principal *models.User, record any) bool

type rule struct {
	action   Action
	resource string
	pred     Predicate
}

// owned is implemented by records tied to an account.
type owned interface {
	OwnerID() int
}

func isSelf(principal *models.User, record any) bool {
	u, ok := record.(*models.User)
	return ok && u.ID == principal.ID
}

func isOwner(principal *models.User, record any) bool {
	o, ok := record.(owned)
	return ok && o.OwnerID() == principal.ID
}

// grants is the capability table for regular principals, the anonymous
// principal included. No matching rule means deny.
var grants = []rule{
	{Create, "User", nil},
	{Read, "User", isSelf},
	{Update, "User", isSelf},
	{Read, "Profile", isOwner},
	{Read, "Wallet", isOwner},
	{Read, "SMS", isOwner},
	{List, "SMS", isOwner},
}

// superDenies lists actions excluded even for superusers: an explicit deny
// outranks the blanket manage grant.
var superDenies = []rule{
	{Create, "SMS", nil},
}

// can is the type-level check, run before any instance is loaded.
func can(principal *models.User, action Action, resource string) bool {
	if principal.IsSuper() {
		for _, d := range superDenies {
			if d.action == action && d.resource == resource {
				return false
			}
		}
		return true
	}
	for _, r := range grants {
		if r.resource != resource {
			continue
		}
		if r.action == action || r.action == Manage {
			return true
		}
	}
	return false
}

// ensure is the instance-level check, run once the record has been fetched.
func ensure(principal *models.User, action Action, resource string, record any) bool {
	if principal.IsSuper() {
		for _, d := range superDenies {
			if d.action == action && d.resource == resource {
				return false
			}
		}
		return true
	}
	for _, r := range grants {
		if r.resource != resource {
			continue
		}
		if r.action != action && r.action != Manage {
			continue
		}
		if r.pred == nil || r.pred(principal, record) {
			return true
		}
	}
	return false
}

// requires rejects the request before the handler runs when the principal
// lacks the action on the resource type.
func requires(action Action, resource string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !can(currentUser(c), action, resource) {
			abortWith(c, forbidden())
			return
		}
		c.Next()
	}
}
