package handler

import (
	"errors"

	geoports "shipping-quoter/internal/features/geocode/ports"
	"shipping-quoter/internal/features/quote/domain"
	"shipping-quoter/internal/features/quote/ports"
	"shipping-quoter/internal/features/quote/service"

	"github.com/gofiber/fiber/v2"
)

// QuoteHandler handles HTTP requests for shipping quotes.
type QuoteHandler struct {
	orchestrator *service.Orchestrator
	resolver     ports.AddressResolver
}

// NewQuoteHandler creates a new QuoteHandler. The resolver backs the
// geocoding debug endpoint and may be nil when geocoding is not configured.
func NewQuoteHandler(orchestrator *service.Orchestrator, resolver ports.AddressResolver) *QuoteHandler {
	return &QuoteHandler{
		orchestrator: orchestrator,
		resolver:     resolver,
	}
}

// ErrorResponse represents an error response with Ray ID.
type ErrorResponse struct {
	// Message is the error description.
	Message string `json:"message"`
	// RayID is the unique request identifier for tracing.
	RayID string `json:"ray_id,omitempty"`
}

// RegisterRoutes mounts the quote endpoints on the application.
func (h *QuoteHandler) RegisterRoutes(app *fiber.App) {
	app.Post("/quote", h.CreateQuote)
	app.Get("/geocode", h.Geocode)
	app.Get("/healthz", h.Health)
}

// CreateQuote godoc
// @Summary Quote shipping options for a destination
// @Description Evaluates local delivery tiers and carrier services for the given address and package, returning the assembled offer list
// @Tags quote
// @Accept json
// @Produce json
// @Param request body domain.Request true "Destination address and package"
// @Success 200 {object} domain.Quote
// @Failure 400 {object} ErrorResponse
// @Router /quote [post]
func (h *QuoteHandler) CreateQuote(c *fiber.Ctx) error {
	var req domain.Request
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Message: "invalid request body",
			RayID:   c.Locals("requestid").(string),
		})
	}

	if req.Address.PostalCode == "" && req.Address.SingleLine() == "" && req.Coordinates == nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Message: "destination address is required",
			RayID:   c.Locals("requestid").(string),
		})
	}

	return c.JSON(h.orchestrator.Quote(c.UserContext(), req))
}

// Geocode godoc
// @Summary Resolve an address to coordinates
// @Description Geocodes a free-form address through the configured provider, honoring the shared cache and circuit breaker
// @Tags geocode
// @Produce json
// @Param address query string true "Free-form address"
// @Success 200 {object} geodomain.GeocodeResult
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /geocode [get]
func (h *QuoteHandler) Geocode(c *fiber.Ctx) error {
	address := c.Query("address")
	if address == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Message: "address query parameter is required",
			RayID:   c.Locals("requestid").(string),
		})
	}

	if h.resolver == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(ErrorResponse{
			Message: "geocoding is not configured",
			RayID:   c.Locals("requestid").(string),
		})
	}

	result, err := h.resolver.Resolve(c.UserContext(), address)
	if err != nil {
		status := fiber.StatusServiceUnavailable
		switch {
		case errors.Is(err, geoports.ErrInvalidAddress):
			status = fiber.StatusBadRequest
		case errors.Is(err, geoports.ErrNoResult):
			status = fiber.StatusNotFound
		case errors.Is(err, geoports.ErrNotConfigured):
			status = fiber.StatusServiceUnavailable
		}
		return c.Status(status).JSON(ErrorResponse{
			Message: err.Error(),
			RayID:   c.Locals("requestid").(string),
		})
	}

	return c.JSON(result)
}

// Health godoc
// @Summary Liveness probe
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /healthz [get]
func (h *QuoteHandler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}
