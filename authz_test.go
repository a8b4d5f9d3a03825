package main

import (
	"testing"

	"userapi/models"

	"github.com/stretchr/testify/assert"
)

func TestRegularUserCapabilities(t *testing.T) {
	alice := &models.User{ID: 1}
	bob := &models.User{ID: 2}

	// anyone may create users (registration is open)
	assert.True(t, can(alice, Create, "User"))
	assert.True(t, can(&models.User{ID: models.AnonymousID}, Create, "User"))

	// read/update exist at the type level, but only pass on the caller's
	// own record
	assert.True(t, can(alice, Read, "User"))
	assert.True(t, ensure(alice, Read, "User", alice))
	assert.False(t, ensure(alice, Read, "User", bob))
	assert.True(t, ensure(alice, Update, "User", alice))
	assert.False(t, ensure(alice, Update, "User", bob))

	// no rule means deny
	assert.False(t, can(alice, Delete, "User"))
	assert.False(t, can(alice, List, "User"))
	assert.False(t, can(alice, Read, "Telco"))
}

func TestOwnershipPredicates(t *testing.T) {
	alice := &models.User{ID: 1}

	mine := &models.Wallet{AccountID: 1}
	theirs := &models.Wallet{AccountID: 2}
	assert.True(t, ensure(alice, Read, "Wallet", mine))
	assert.False(t, ensure(alice, Read, "Wallet", theirs))

	assert.True(t, ensure(alice, List, "SMS", &models.SMS{AccountID: 1}))
	assert.False(t, ensure(alice, List, "SMS", &models.SMS{AccountID: 2}))
}

func TestSuperuserManageAll(t *testing.T) {
	super := &models.User{ID: 1, Force: true}
	bob := &models.User{ID: 2}

	assert.True(t, can(super, Read, "User"))
	assert.True(t, can(super, Delete, "User"))
	assert.True(t, can(super, List, "User"))
	assert.True(t, ensure(super, Update, "User", bob))
	assert.True(t, ensure(super, Read, "Wallet", &models.Wallet{AccountID: 2}))
}

func TestSuperuserExplicitDenyOutranksManage(t *testing.T) {
	super := &models.User{ID: 1, Force: true}

	assert.False(t, can(super, Create, "SMS"))
	assert.False(t, ensure(super, Create, "SMS", &models.SMS{AccountID: 1}))

	// the deny is scoped to that one action
	assert.True(t, can(super, Read, "SMS"))
	assert.True(t, can(super, Delete, "SMS"))
}
