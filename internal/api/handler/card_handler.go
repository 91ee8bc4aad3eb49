package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/bankcore/cards-api/internal/core/domain"
	"github.com/bankcore/cards-api/internal/core/ports"
)

// DedupChecker abstracts the idempotency store (Redis) used to suppress
// replays of money operations carrying an Idempotency-Key header.
type DedupChecker interface {
	IsDuplicate(ctx context.Context, userID, key string) (bool, error)
	Mark(ctx context.Context, userID, key string) error
}

// CardHandler handles HTTP requests for card operations.
type CardHandler struct {
	service ports.CardService
	dedup   DedupChecker // nil when idempotency is disabled
	log     zerolog.Logger
}

func NewCardHandler(service ports.CardService, dedup DedupChecker, log zerolog.Logger) *CardHandler {
	return &CardHandler{service: service, dedup: dedup, log: log}
}

// Create handles POST /cards (ADMIN).
//
// @Summary      Issue a card bound to a user
// @Tags         cards
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createCardRequest  true  "Card details"
// @Success      200   {object}  ports.CardDto
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /cards [post]
func (h *CardHandler) Create(c echo.Context) error {
	var req createCardRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	card, err := h.service.CreateCard(c.Request().Context(), req.CardNum, req.UserID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, card)
}

// FindByID handles GET /cards/:id (ADMIN).
func (h *CardHandler) FindByID(c echo.Context) error {
	card, err := h.service.FindByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, card)
}

// Delete handles DELETE /cards/:id (ADMIN).
func (h *CardHandler) Delete(c echo.Context) error {
	if err := h.service.DeleteCard(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, statusResponse{Message: "the card has been deleted"})
}

// ListOwn handles GET /cards: the caller's cards, paginated, numbers masked.
func (h *CardHandler) ListOwn(c echo.Context) error {
	callerID, err := ctxCaller(c)
	if err != nil {
		return err
	}

	page, size := pageParams(c)
	cards, err := h.service.ListByUser(c.Request().Context(), callerID, page, size)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cards)
}

// ListAll handles GET /cards/all (ADMIN).
func (h *CardHandler) ListAll(c echo.Context) error {
	page, size := pageParams(c)
	cards, err := h.service.ListAll(c.Request().Context(), page, size)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cards)
}

// Deposit handles POST /cards/deposit.
//
// @Summary      Deposit money onto the caller's own card
// @Tags         cards
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        Idempotency-Key  header    string               false  "Idempotency key to prevent duplicate submissions"
// @Param        body             body      depositMoneyRequest  true   "Deposit details"
// @Success      200              {object}  statusResponse
// @Failure      400              {object}  errorResponse
// @Failure      404              {object}  errorResponse
// @Router       /cards/deposit [post]
func (h *CardHandler) Deposit(c echo.Context) error {
	callerID, err := ctxCaller(c)
	if err != nil {
		return err
	}

	var req depositMoneyRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	replay, idemKey := h.checkIdempotency(c, callerID)
	if replay {
		return c.JSON(http.StatusOK, statusResponse{Message: "the money has been successfully deposited onto the card"})
	}

	if err := h.service.Deposit(c.Request().Context(), callerID, req.CardNum, req.Amount); err != nil {
		return err
	}
	h.markIdempotency(c, callerID, idemKey)

	return c.JSON(http.StatusOK, statusResponse{Message: "the money has been successfully deposited onto the card"})
}

// Transfer handles POST /cards/transfer.
//
// @Summary      Transfer money between cards
// @Tags         cards
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        Idempotency-Key  header    string                false  "Idempotency key to prevent duplicate submissions"
// @Param        body             body      transferMoneyRequest  true   "Transfer details"
// @Success      200              {object}  statusResponse
// @Failure      400              {object}  errorResponse
// @Failure      404              {object}  errorResponse
// @Router       /cards/transfer [post]
func (h *CardHandler) Transfer(c echo.Context) error {
	callerID, err := ctxCaller(c)
	if err != nil {
		return err
	}

	var req transferMoneyRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	replay, idemKey := h.checkIdempotency(c, callerID)
	if replay {
		return c.JSON(http.StatusOK, statusResponse{Message: "money transfer successfully completed"})
	}

	if err := h.service.Transfer(c.Request().Context(), callerID, req.FromCardNum, req.ToCardNum, req.Amount); err != nil {
		return err
	}
	h.markIdempotency(c, callerID, idemKey)

	return c.JSON(http.StatusOK, statusResponse{Message: "money transfer successfully completed"})
}

// Block handles POST /cards/block: the caller blocks their own ACTIVE card.
func (h *CardHandler) Block(c echo.Context) error {
	callerID, err := ctxCaller(c)
	if err != nil {
		return err
	}

	var req blockCardRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := h.service.BlockCard(c.Request().Context(), callerID, req.CardID); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, statusResponse{Message: "the card has been successfully blocked"})
}

// ChangeStatus handles POST /cards/changeStatus (ADMIN): unconditional
// overwrite of a card's status.
func (h *CardHandler) ChangeStatus(c echo.Context) error {
	var req changeCardStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	card, err := h.service.ChangeStatus(c.Request().Context(), req.CardID, domain.CardStatus(req.CardStatus))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, statusResponse{
		Message: "the status of card " + card.CardNum + " has been changed to " + card.Status,
	})
}

// Balance handles GET /cards/balance?cardNum=...
func (h *CardHandler) Balance(c echo.Context) error {
	callerID, err := ctxCaller(c)
	if err != nil {
		return err
	}

	balance, err := h.service.GetBalance(c.Request().Context(), callerID, c.QueryParam("cardNum"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, balance.StringFixed(2))
}

// checkIdempotency reports whether the request is a replay of an already
// processed mutation. A dedup store outage degrades to processing the request.
func (h *CardHandler) checkIdempotency(c echo.Context, userID string) (replay bool, key string) {
	key = c.Request().Header.Get("Idempotency-Key")
	if key == "" || h.dedup == nil {
		return false, key
	}

	dup, err := h.dedup.IsDuplicate(c.Request().Context(), userID, key)
	if err != nil {
		h.log.Warn().Err(err).Msg("idempotency check failed, processing anyway")
		return false, key
	}
	return dup, key
}

func (h *CardHandler) markIdempotency(c echo.Context, userID, key string) {
	if key == "" || h.dedup == nil {
		return
	}
	if err := h.dedup.Mark(c.Request().Context(), userID, key); err != nil {
		h.log.Warn().Err(err).Msg("failed to set idempotency key")
	}
}
