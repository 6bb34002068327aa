package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/seyifunmi/clinicshop/internal/catalog/app"
	"github.com/seyifunmi/clinicshop/internal/catalog/domain"
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
	r.GET("/", h.home)
	r.GET("/drugs", h.listDrugs)
	r.GET("/drugs/:id", h.drugDetail)
	r.GET("/drug-categories", h.listCategories)
}

var healthyTips = []string{
	"Drink at least 8 glasses of water daily.",
	"Eat a balanced diet rich in fruits and vegetables.",
	"Exercise for at least 30 minutes most days of the week.",
	"Get 7-9 hours of sleep every night.",
	"Avoid self-medication, consult a pharmacist or doctor.",
	"Wash hands frequently to prevent infections.",
	"Schedule regular health check-ups.",
}

func (h *Handler) home(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"healthy_tips": healthyTips})
}

func (h *Handler) listDrugs(c *gin.Context) {
	drugs, err := h.svc.ListDrugs(c.Request.Context(), c.Query("category"))
	if err != nil {
		h.log.Error("list drugs failed", slog.Any("err", err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load drugs"})
		return
	}

	flashes, err := h.sessions.Flashes(c.Request.Context(), session.ID(c))
	if err != nil {
		h.log.Warn("flash drain failed", slog.Any("err", err))
	}

	out := make([]gin.H, 0, len(drugs))
	for _, d := range drugs {
		out = append(out, drugView(d))
	}
	c.JSON(http.StatusOK, gin.H{"drugs": out, "messages": flashes})
}

func (h *Handler) drugDetail(c *gin.Context) {
	drug, err := h.svc.GetDrug(c.Request.Context(), c.Param("id"))
	switch {
	case errors.Is(err, app.ErrNotFound), errors.Is(err, app.ErrInvalidInput):
		c.JSON(http.StatusNotFound, gin.H{"error": "drug not found"})
		return
	case err != nil:
		h.log.Error("get drug failed", slog.Any("err", err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load drug"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"drug": drugView(drug)})
}

func (h *Handler) listCategories(c *gin.Context) {
	categories, err := h.svc.ListCategories(c.Request.Context())
	if err != nil {
		h.log.Error("list categories failed", slog.Any("err", err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load categories"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

func drugView(d domain.Drug) gin.H {
	return gin.H{
		"id":              d.ID,
		"name":            d.Name,
		"category":        d.Category,
		"price":           d.Price.StringFixed(2),
		"formatted_price": "₦" + d.Price.StringFixed(2),
		"stock":           d.Stock,
		"image_path":      d.ImagePath,
	}
}
