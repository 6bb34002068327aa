package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/seyifunmi/clinicshop/internal/cart/app"
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
	r.POST("/cart/add/:drug_id", h.add)
	r.GET("/cart", h.detail)
	r.POST("/cart/remove/:drug_id", h.remove)
}

func (h *Handler) add(c *gin.Context) {
	ctx := c.Request.Context()
	sid := session.ID(c)
	drugID := c.Param("drug_id")

	quantity := 1
	if q := c.PostForm("quantity"); q != "" {
		n, err := strconv.Atoi(q)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid quantity"})
			return
		}
		quantity = n
	}
	override := c.PostForm("override") == "true"

	cart, err := h.svc.Add(ctx, sid, drugID, quantity, override)
	switch {
	case errors.Is(err, app.ErrInvalidQuantity):
		c.JSON(http.StatusBadRequest, gin.H{"error": "quantity must be positive"})
		return
	case errors.Is(err, app.ErrDrugNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "drug not found"})
		return
	case errors.Is(err, app.ErrStockExceeded):
		h.flash(c, session.FlashError, "Cannot add more of this drug, not enough stock.")
		c.Redirect(http.StatusFound, "/drugs")
		return
	case err != nil:
		h.log.Error("cart add failed", slog.Any("err", err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update cart"})
		return
	}

	h.flash(c, session.FlashSuccess, "Added to cart.")
	h.log.Debug("cart updated", slog.String("drug_id", drugID), slog.Int("units", cart.Len()))
	c.Redirect(http.StatusFound, "/drugs")
}

func (h *Handler) detail(c *gin.Context) {
	ctx := c.Request.Context()
	sid := session.ID(c)

	// Self-heal stale lines before rendering.
	_, dropped, err := h.svc.Reconcile(ctx, sid)
	if err != nil {
		h.log.Error("cart reconcile failed", slog.Any("err", err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load cart"})
		return
	}
	if len(dropped) > 0 {
		h.flash(c, session.FlashWarning,
			"Some items were removed from your cart due to low stock: "+strings.Join(dropped, ", "))
	}

	items, err := h.svc.Items(ctx, sid)
	if err != nil {
		h.log.Error("cart items failed", slog.Any("err", err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load cart"})
		return
	}

	cart, err := h.svc.Get(ctx, sid)
	if err != nil {
		h.log.Error("cart load failed", slog.Any("err", err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load cart"})
		return
	}

	flashes, err := h.sessions.Flashes(ctx, sid)
	if err != nil {
		h.log.Warn("flash drain failed", slog.Any("err", err))
	}

	out := make([]gin.H, 0, len(items))
	for _, it := range items {
		out = append(out, gin.H{
			"drug_id":    it.Drug.ID,
			"name":       it.Drug.Name,
			"quantity":   it.Quantity,
			"unit_price": it.UnitPrice.StringFixed(2),
			"line_total": it.LineTotal.StringFixed(2),
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"items":    out,
		"total":    cart.Total().StringFixed(2),
		"units":    cart.Len(),
		"messages": flashes,
	})
}

func (h *Handler) remove(c *gin.Context) {
	if err := h.svc.Remove(c.Request.Context(), session.ID(c), c.Param("drug_id")); err != nil {
		h.log.Error("cart remove failed", slog.Any("err", err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update cart"})
		return
	}
	c.Redirect(http.StatusFound, "/cart")
}

func (h *Handler) flash(c *gin.Context, level, msg string) {
	if err := h.sessions.Flash(c.Request.Context(), session.ID(c), level, msg); err != nil {
		h.log.Warn("flash write failed", slog.Any("err", err))
	}
}
