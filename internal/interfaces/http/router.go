package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/smartwms/wms-api/internal/application/auth"
	"github.com/smartwms/wms-api/internal/application/chat"
	"github.com/smartwms/wms-api/internal/application/warehouse"
	"github.com/smartwms/wms-api/internal/domain/entity"
)

// RouterDeps dependencies for the router.
type RouterDeps struct {
	AuthUC     *auth.AuthUseCase
	Dispatcher *chat.Dispatcher
	Ledger     *warehouse.Ledger
	JWTSecret  string
}

// Router registers the API routes. The per-route role sets mirror the
// permission matrix of the conversational channel.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (public)
	authHandler := NewAuthHandler(deps.AuthUC)
	api.Post("/auth/login", authHandler.Login)

	// Everything else requires a Bearer token.
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Conversational channel: any authenticated user; the dispatcher
	// applies the per-action permission gate itself.
	chatHandler := NewChatHandler(deps.Dispatcher)
	protected.Post("/chat", chatHandler.Chat)

	wh := NewWarehouseHandler(deps.Dispatcher, deps.Ledger)

	canInbound := RequireRole(entity.RoleAdmin, entity.RoleInboundManager, entity.RoleAllManager)
	canOutbound := RequireRole(entity.RoleAdmin, entity.RoleOutboundManager, entity.RoleAllManager)
	canQuery := RequireRole(entity.RoleAdmin, entity.RoleInboundManager, entity.RoleOutboundManager,
		entity.RoleInventoryManager, entity.RoleAllManager)
	canInboundHistory := RequireRole(entity.RoleAdmin, entity.RoleInboundManager,
		entity.RoleInventoryManager, entity.RoleAllManager)
	canOutboundHistory := RequireRole(entity.RoleAdmin, entity.RoleOutboundManager,
		entity.RoleInventoryManager, entity.RoleAllManager)

	protected.Post("/inbound", canInbound, wh.Inbound)
	protected.Post("/outbound", canOutbound, wh.Outbound)

	protected.Get("/stock", canQuery, wh.Stock)
	protected.Get("/locations/:code/items", canQuery, wh.LocationItems)
	protected.Get("/inbound/history", canInboundHistory, wh.InboundHistory)
	protected.Get("/outbound/history", canOutboundHistory, wh.OutboundHistory)
	protected.Get("/products", canQuery, wh.Products)
	protected.Get("/locations", canQuery, wh.Locations)
}
