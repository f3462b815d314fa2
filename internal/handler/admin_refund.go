package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Chintaro05/Cinebook-sub000/internal/model"
	"github.com/Chintaro05/Cinebook-sub000/internal/repository"
	"github.com/Chintaro05/Cinebook-sub000/internal/service"
)

// AdminRefundHandler is the back-office surface of the refund state
// machine: the work queue, single and bulk transitions, and the status
// timeline.
type AdminRefundHandler struct {
	Payments *service.PaymentService
	Bookings *repository.BookingRepo
}

func NewAdminRefundHandler(payments *service.PaymentService, bookings *repository.BookingRepo) *AdminRefundHandler {
	if payments == nil || bookings == nil {
		panic("nil dependency passed to NewAdminRefundHandler")
	}
	return &AdminRefundHandler{Payments: payments, Bookings: bookings}
}

type transitionReq struct {
	Notes *string `json:"notes"`
}

type bulkReq struct {
	PaymentIDs []uint64 `json:"payment_ids"`
	Target     string   `json:"target_status"`
	Notes      *string  `json:"notes"`
}

// transitionFn matches the single-payment transition methods on
// PaymentService.
type transitionFn func(ctx context.Context, paymentID uint64, changedBy *uint64, notes *string) (*model.Payment, error)

// ListRefunds handles GET /v1/admin/refunds?status=.  Without a filter
// it returns the actionable queue (REFUND_PENDING).
func (h *AdminRefundHandler) ListRefunds(c echo.Context) error {
	status := strings.ToUpper(strings.TrimSpace(c.QueryParam("status")))
	if status == "" {
		status = model.PaymentRefundPending
	}
	if !model.ValidPaymentStatus(status) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown status filter"})
	}
	payments, err := h.Payments.ListByStatus(c.Request().Context(), status)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load refund queue"})
	}
	items := make([]paymentResp, 0, len(payments))
	for i := range payments {
		items = append(items, toPaymentResp(&payments[i]))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": items})
}

// GetPayment handles GET /v1/admin/payments/:id.
func (h *AdminRefundHandler) GetPayment(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid payment id"})
	}
	p, err := h.Payments.GetByID(c.Request().Context(), id)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"item": toPaymentResp(p)})
}

// ProcessRefund handles POST /v1/admin/payments/:id/process, moving
// REFUND_PENDING to REFUND_PROCESSING.
func (h *AdminRefundHandler) ProcessRefund(c echo.Context) error {
	return h.transition(c, h.Payments.StartProcessing)
}

// CompleteRefund handles POST /v1/admin/payments/:id/refund, moving
// REFUND_PROCESSING to the terminal REFUNDED.
func (h *AdminRefundHandler) CompleteRefund(c echo.Context) error {
	return h.transition(c, h.Payments.CompleteRefund)
}

func (h *AdminRefundHandler) transition(c echo.Context, fn transitionFn) error {
	actorID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid payment id"})
	}
	var req transitionReq
	_ = c.Bind(&req) // notes are optional, an empty body is fine

	p, err := fn(c.Request().Context(), id, &actorID, req.Notes)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"item": toPaymentResp(p)})
}

// BulkTransition handles POST /v1/admin/payments/bulk.  Failures on
// individual payments never abort the batch; the response reports how
// many actually moved.
func (h *AdminRefundHandler) BulkTransition(c echo.Context) error {
	actorID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req bulkReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if len(req.PaymentIDs) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "payment_ids is required"})
	}
	target := strings.ToUpper(strings.TrimSpace(req.Target))

	res, err := h.Payments.BulkTransition(c.Request().Context(), req.PaymentIDs, target, &actorID, req.Notes)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

// Timeline handles GET /v1/admin/payments/:id/timeline.  The response
// always starts at the synthetic capture event, so even a payment with
// no transitions yields a one-event history.
func (h *AdminRefundHandler) Timeline(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid payment id"})
	}
	events, err := h.Payments.Timeline(c.Request().Context(), id)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"payment_id": id, "events": events})
}
