package http

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/seyifunmi/clinicshop/internal/booking/app"
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
	r.GET("/book", h.form)
	r.POST("/book", h.book)
}

func (h *Handler) form(c *gin.Context) {
	ctx := c.Request.Context()

	categories, err := h.svc.Categories(ctx)
	if err != nil {
		h.log.Error("list injection categories failed", slog.Any("err", err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load booking form"})
		return
	}

	flashes, err := h.sessions.Flashes(ctx, session.ID(c))
	if err != nil {
		h.log.Warn("flash drain failed", slog.Any("err", err))
	}

	c.JSON(http.StatusOK, gin.H{
		"categories": categories,
		"slots":      h.svc.Slots(),
		"min_date":   time.Now().Format("2006-01-02"),
		"messages":   flashes,
	})
}

type bookForm struct {
	CategoryID  string `form:"injection_category" binding:"required"`
	PatientName string `form:"patient_name" binding:"required"`
	Phone       string `form:"phone" binding:"required"`
	Date        string `form:"date" binding:"required"`
	StartTime   string `form:"start_time" binding:"required"`
}

func (h *Handler) book(c *gin.Context) {
	var form bookForm
	if err := c.ShouldBind(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "please fix the errors below"})
		return
	}

	date, err := time.Parse("2006-01-02", form.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date"})
		return
	}

	booking, err := h.svc.Book(c.Request.Context(), app.BookRequest{
		CategoryID:  form.CategoryID,
		PatientName: form.PatientName,
		Phone:       form.Phone,
		Date:        date,
		StartTime:   form.StartTime,
	})
	switch {
	case errors.Is(err, app.ErrInvalidSlot):
		c.JSON(http.StatusBadRequest, gin.H{"error": "booking time must be between 08:00 and 20:00"})
		return
	case errors.Is(err, app.ErrPastDate):
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot book for past dates"})
		return
	case errors.Is(err, app.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": "please fix the errors below"})
		return
	case errors.Is(err, app.ErrSlotTaken):
		// Conflict, not validation: the UI offers "choose another slot".
		h.flash(c, session.FlashError, "This time slot is already booked. Please choose another.")
		c.Redirect(http.StatusFound, "/book")
		return
	case err != nil:
		h.log.Error("booking failed", slog.Any("err", err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not save booking"})
		return
	}

	h.log.Info("booking confirmed",
		slog.String("booking_id", booking.ID),
		slog.String("slot", booking.Date.Format("2006-01-02")+" "+booking.StartTime))
	h.flash(c, session.FlashSuccess, "Booking confirmed!")
	c.Redirect(http.StatusFound, "/book")
}

func (h *Handler) flash(c *gin.Context, level, msg string) {
	if err := h.sessions.Flash(c.Request.Context(), session.ID(c), level, msg); err != nil {
		h.log.Warn("flash write failed", slog.Any("err", err))
	}
}
