package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSelfAssignable(t *testing.T) {
	assert.True(t, SelfAssignable(RoleVendor))
	assert.True(t, SelfAssignable(RoleStaff))

	// Admin is granted, never requested; customer is the signup default.
	assert.False(t, SelfAssignable(RoleAdmin))
	assert.False(t, SelfAssignable(RoleCustomer))
	assert.False(t, SelfAssignable(""))
	assert.False(t, SelfAssignable("superuser"))
}

func TestHasRole(t *testing.T) {
	u := User{Roles: []string{RoleCustomer, RoleVendor}}
	assert.True(t, u.HasRole(RoleVendor))
	assert.False(t, u.HasRole(RoleAdmin))
}
