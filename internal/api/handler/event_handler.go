package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/bankcore/cards-api/internal/core/domain"
	"github.com/bankcore/cards-api/internal/core/ports"
)

// EventHandler exposes a broker probe endpoint for operators.
type EventHandler struct {
	emitter ports.EventEmitter
}

func NewEventHandler(emitter ports.EventEmitter) *EventHandler {
	return &EventHandler{emitter: emitter}
}

type probeRequest struct {
	Message string `json:"message"`
}

// Probe handles POST /test (ADMIN): publishes a probe event through the full
// dispatch pipeline so operators can verify broker connectivity end to end.
func (h *EventHandler) Probe(c echo.Context) error {
	var req probeRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	h.emitter.Emit(domain.CardEvent{
		Type:       domain.CardEventType("probe"),
		CardNumber: req.Message,
		OccurredAt: time.Now().UTC(),
	})
	return c.JSON(http.StatusOK, statusResponse{Message: "probe event accepted"})
}
