package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/seyifunmi/clinicshop/internal/checkout/app"
	"github.com/seyifunmi/clinicshop/internal/checkout/domain"
	"github.com/seyifunmi/clinicshop/internal/session"
)

type Handler struct {
	svc      *app.Service
	sessions session.Store
	log      *slog.Logger
}

func NewHandler(svc *app.Service, sessions session.Store, log *slog.Logger) *Handler {
	return &Handler{svc: svc, sessions: sessions, log: log}
}

func (h *Handler) Register(r gin.IRouter) {
	authed := r.Group("/", session.RequireUser(h.sessions))
	authed.GET("/checkout", h.checkout)
	authed.POST("/checkout", h.saveCustomerInfo)
	authed.GET("/verify-payment", h.verifyPayment)
}

func (h *Handler) checkout(c *gin.Context) {
	ctx := c.Request.Context()
	sid := session.ID(c)

	view, err := h.svc.Checkout(ctx, sid)
	if errors.Is(err, app.ErrEmptyCart) {
		if len(view.Dropped) > 0 {
			h.flash(c, session.FlashError, droppedMessage(view.Dropped))
			c.Redirect(http.StatusFound, "/cart")
			return
		}
		h.flash(c, session.FlashError, "Your cart is empty.")
		c.Redirect(http.StatusFound, "/drugs")
		return
	}
	if err != nil {
		h.log.Error("checkout view failed", slog.Any("err", err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load checkout"})
		return
	}

	if len(view.Dropped) > 0 {
		h.flash(c, session.FlashError, droppedMessage(view.Dropped))
		c.Redirect(http.StatusFound, "/cart")
		return
	}

	flashes, err := h.sessions.Flashes(ctx, sid)
	if err != nil {
		h.log.Warn("flash drain failed", slog.Any("err", err))
	}

	items := make([]gin.H, 0, len(view.Items))
	for _, it := range view.Items {
		items = append(items, gin.H{
			"drug_id":    it.Drug.ID,
			"name":       it.Drug.Name,
			"quantity":   it.Quantity,
			"unit_price": it.UnitPrice.StringFixed(2),
			"line_total": it.LineTotal.StringFixed(2),
		})
	}

	resp := gin.H{
		"items":       items,
		"total":       view.Total.StringFixed(2),
		"amount_kobo": view.AmountKobo,
		"messages":    flashes,
	}
	if view.HasInfo {
		resp["customer_info"] = view.CustomerInfo
	}
	c.JSON(http.StatusOK, resp)
}

type customerInfoForm struct {
	Name    string `form:"name" binding:"required"`
	Email   string `form:"email" binding:"required,email"`
	Phone   string `form:"phone" binding:"required"`
	Address string `form:"address" binding:"required"`
}

func (h *Handler) saveCustomerInfo(c *gin.Context) {
	var form customerInfoForm
	if err := c.ShouldBind(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "please fill in all customer fields"})
		return
	}

	err := h.svc.SaveCustomerInfo(c.Request.Context(), session.ID(c), domain.CustomerInfo{
		Name:    form.Name,
		Email:   form.Email,
		Phone:   form.Phone,
		Address: form.Address,
	})
	if errors.Is(err, app.ErrInvalidInput) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "please fix the errors below"})
		return
	}
	if err != nil {
		h.log.Error("save customer info failed", slog.Any("err", err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not save customer info"})
		return
	}

	h.flash(c, session.FlashSuccess, "Customer info saved!")
	c.Redirect(http.StatusFound, "/checkout")
}

func (h *Handler) verifyPayment(c *gin.Context) {
	ctx := c.Request.Context()
	sid := session.ID(c)

	reference := c.Query("reference")
	if strings.TrimSpace(reference) == "" {
		h.flash(c, session.FlashError, "No payment reference found.")
		c.Redirect(http.StatusFound, "/checkout")
		return
	}

	receipt, err := h.svc.Settle(ctx, sid, session.UserID(c), reference)
	switch {
	case errors.Is(err, app.ErrEmptyCart):
		h.flash(c, session.FlashWarning, "Your cart is empty.")
		c.Redirect(http.StatusFound, "/drugs")
		return
	case errors.Is(err, app.ErrMissingCustomerInfo):
		h.flash(c, session.FlashError, "Customer information is missing.")
		c.Redirect(http.StatusFound, "/checkout")
		return
	case errors.Is(err, app.ErrGatewayUnavailable):
		h.flash(c, session.FlashError, "Error verifying payment. Please try again.")
		c.Redirect(http.StatusFound, "/checkout")
		return
	case errors.Is(err, app.ErrPaymentFailed):
		h.flash(c, session.FlashError, "Payment verification failed. Please contact support.")
		c.Redirect(http.StatusFound, "/checkout")
		return
	case errors.Is(err, app.ErrEmailMismatch):
		h.flash(c, session.FlashError, "Payment email does not match order.")
		c.Redirect(http.StatusFound, "/checkout")
		return
	case errors.Is(err, app.ErrStockChanged):
		h.flash(c, session.FlashError, "Some items are no longer available and were removed from your cart.")
		c.Redirect(http.StatusFound, "/cart")
		return
	case err != nil:
		h.log.Error("settlement failed", slog.Any("err", err), slog.String("reference", reference))
		h.flash(c, session.FlashError, "An unexpected error occurred.")
		c.Redirect(http.StatusFound, "/checkout")
		return
	}

	if receipt.AlreadySettled {
		h.log.Info("duplicate settlement swallowed", slog.String("reference", receipt.Reference))
	} else {
		h.log.Info("order settled",
			slog.String("order_id", receipt.OrderID),
			slog.String("reference", receipt.Reference),
			slog.String("total", receipt.Total.StringFixed(2)))
	}

	h.flash(c, session.FlashSuccess, "Payment successful! Order confirmed.")
	c.Redirect(http.StatusFound, "/order-history")
}

func (h *Handler) flash(c *gin.Context, level, msg string) {
	if err := h.sessions.Flash(c.Request.Context(), session.ID(c), level, msg); err != nil {
		h.log.Warn("flash write failed", slog.Any("err", err))
	}
}

func droppedMessage(names []string) string {
	return "The following items are no longer available: " + strings.Join(names, ", ") +
		". They have been removed from your cart."
}
