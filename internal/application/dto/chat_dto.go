package dto

// ChatRequest is a free-text operator utterance.
type ChatRequest struct {
	Message string `json:"message"`
}

// ChatResponse is the natural-language reply.
type ChatResponse struct {
	Response string `json:"response"`
}

// InboundRequest is the structured form submission for an inbound.
type InboundRequest struct {
	ProductID  int `json:"product_id"`
	Quantity   int `json:"quantity"`
	LocationID int `json:"location_id"`
}

// OutboundRequest is the structured form submission for an outbound.
type OutboundRequest struct {
	ProductID int `json:"product_id"`
	Quantity  int `json:"quantity"`
}

// CommandResponse is the structured result of a form submission.
type CommandResponse struct {
	Status              string   `json:"status"`
	Message             string   `json:"message"`
	PickingInstructions []string `json:"picking_instructions,omitempty"`
}
