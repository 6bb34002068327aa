package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/seyifunmi/clinicshop/internal/order/app"
	"github.com/seyifunmi/clinicshop/internal/order/domain"
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
	authed.GET("/order-history", h.history)
}

func (h *Handler) history(c *gin.Context) {
	ctx := c.Request.Context()

	orders, err := h.svc.History(ctx, session.UserID(c))
	if err != nil {
		h.log.Error("order history failed", slog.Any("err", err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load order history"})
		return
	}

	flashes, err := h.sessions.Flashes(ctx, session.ID(c))
	if err != nil {
		h.log.Warn("flash drain failed", slog.Any("err", err))
	}

	out := make([]gin.H, 0, len(orders))
	for _, o := range orders {
		out = append(out, orderView(o))
	}
	c.JSON(http.StatusOK, gin.H{"orders": out, "messages": flashes})
}

func orderView(o domain.Order) gin.H {
	items := make([]gin.H, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, gin.H{
			"drug_id":    it.DrugID,
			"name":       it.DrugName,
			"quantity":   it.Quantity,
			"unit_price": it.UnitPrice.StringFixed(2),
		})
	}
	return gin.H{
		"id":           o.ID,
		"reference":    o.Reference,
		"total_amount": o.TotalAmount.StringFixed(2),
		"status":       string(o.Status),
		"created_at":   o.CreatedAt,
		"items":        items,
	}
}
