package auth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/smartwms/wms-api/internal/application/auth"
	"github.com/smartwms/wms-api/internal/domain/entity"
	"github.com/smartwms/wms-api/internal/domain/intent"
)

func TestPermitted_Table(t *testing.T) {
	cases := []struct {
		role    entity.Role
		action  intent.Action
		allowed bool
	}{
		{entity.RoleAdmin, intent.ActionInbound, true},
		{entity.RoleAdmin, intent.ActionOutbound, true},
		{entity.RoleAdmin, intent.ActionQueryOutboundHistory, true},

		{entity.RoleInboundManager, intent.ActionInbound, true},
		{entity.RoleInboundManager, intent.ActionOutbound, false},
		{entity.RoleInboundManager, intent.ActionQueryOutboundHistory, false},
		{entity.RoleInboundManager, intent.ActionQueryStock, true},

		{entity.RoleOutboundManager, intent.ActionOutbound, true},
		{entity.RoleOutboundManager, intent.ActionInbound, false},
		{entity.RoleOutboundManager, intent.ActionQueryInboundHistory, false},

		{entity.RoleInventoryManager, intent.ActionInbound, false},
		{entity.RoleInventoryManager, intent.ActionOutbound, false},
		{entity.RoleInventoryManager, intent.ActionQueryInboundHistory, true},
		{entity.RoleInventoryManager, intent.ActionQueryOutboundHistory, true},

		{entity.RoleAllManager, intent.ActionInbound, true},
		{entity.RoleAllManager, intent.ActionOutbound, true},

		{entity.RoleDefault, intent.ActionQueryStock, false},
		{entity.RoleDefault, intent.ActionUnknown, true},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.allowed, auth.Permitted(tc.role, tc.action),
			"role %s action %s", tc.role, tc.action)
	}
}

func TestPermitted_UnrecognizedRoleGetsDefaultSet(t *testing.T) {
	// A typo in the users table must never widen access.
	ghost := entity.Role("warehouse_overlord")
	assert.False(t, auth.Permitted(ghost, intent.ActionInbound))
	assert.False(t, auth.Permitted(ghost, intent.ActionQueryStock))
	assert.True(t, auth.Permitted(ghost, intent.ActionUnknown))
}

func TestParseRole_ClosesTheSet(t *testing.T) {
	assert.Equal(t, entity.RoleAdmin, entity.ParseRole("admin"))
	assert.Equal(t, entity.RoleAllManager, entity.ParseRole("all_manager"))
	assert.Equal(t, entity.RoleDefault, entity.ParseRole("Admin"))
	assert.Equal(t, entity.RoleDefault, entity.ParseRole(""))
	assert.Equal(t, entity.RoleDefault, entity.ParseRole("superuser"))
}
