package intent

// Action is the closed set of commands the interpreter can dispatch.
type Action string

const (
	ActionQueryStock           Action = "query_stock"
	ActionQueryLocationItems   Action = "query_location_items"
	ActionInbound              Action = "inbound"
	ActionOutbound             Action = "outbound"
	ActionQueryInboundHistory  Action = "query_inbound_history"
	ActionQueryOutboundHistory Action = "query_outbound_history"
	ActionUnknown              Action = "unknown"
)

// ParseAction maps a raw action string from the completion engine onto the
// closed enum; anything else degrades to ActionUnknown.
func ParseAction(s string) Action {
	switch Action(s) {
	case ActionQueryStock, ActionQueryLocationItems, ActionInbound, ActionOutbound,
		ActionQueryInboundHistory, ActionQueryOutboundHistory:
		return Action(s)
	default:
		return ActionUnknown
	}
}

// Entities are the optional typed slots extracted from an utterance.
// Quantity and Limit use pointers to distinguish "absent" from zero.
type Entities struct {
	ProductName  string
	Quantity     *int
	LocationCode string
	AllStock     bool
	Limit        *int
}

// Intent is the action/entity structure the correction rules operate on.
// Rules treat it as an immutable value: each rule returns a new Intent.
type Intent struct {
	Action   Action
	Entities Entities
}

// Unknown is the fallback intent for unparsable model output.
func Unknown() Intent {
	return Intent{Action: ActionUnknown}
}

// IntPtr is a small helper for building Entities literals.
func IntPtr(v int) *int { return &v }
