package auth

import (
	"github.com/smartwms/wms-api/internal/domain/entity"
	"github.com/smartwms/wms-api/internal/domain/intent"
)

// permissions is the static role → permitted-actions table. Closed on both
// axes: roles and actions are enums, so a typo cannot silently widen access.
// The unknown action is permitted everywhere because it only ever produces
// the fallback reply, never a ledger mutation.
var permissions = map[entity.Role][]intent.Action{
	entity.RoleAdmin: {
		intent.ActionQueryStock, intent.ActionQueryLocationItems,
		intent.ActionInbound, intent.ActionOutbound,
		intent.ActionQueryInboundHistory, intent.ActionQueryOutboundHistory,
		intent.ActionUnknown,
	},
	entity.RoleInboundManager: {
		intent.ActionInbound, intent.ActionQueryStock, intent.ActionQueryLocationItems,
		intent.ActionQueryInboundHistory, intent.ActionUnknown,
	},
	entity.RoleOutboundManager: {
		intent.ActionOutbound, intent.ActionQueryStock, intent.ActionQueryLocationItems,
		intent.ActionQueryOutboundHistory, intent.ActionUnknown,
	},
	entity.RoleInventoryManager: {
		intent.ActionQueryStock, intent.ActionQueryLocationItems,
		intent.ActionQueryInboundHistory, intent.ActionQueryOutboundHistory,
		intent.ActionUnknown,
	},
	entity.RoleAllManager: {
		intent.ActionInbound, intent.ActionOutbound,
		intent.ActionQueryStock, intent.ActionQueryLocationItems,
		intent.ActionQueryInboundHistory, intent.ActionQueryOutboundHistory,
		intent.ActionUnknown,
	},
	entity.RoleDefault: {
		intent.ActionUnknown,
	},
}

// Permitted reports whether the role may execute the action. Unrecognized
// roles fall back to the default set (unknown only).
func Permitted(role entity.Role, action intent.Action) bool {
	allowed, ok := permissions[role]
	if !ok {
		allowed = permissions[entity.RoleDefault]
	}
	for _, a := range allowed {
		if a == action {
			return true
		}
	}
	return false
}
