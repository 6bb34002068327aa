package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/seyifunmi/clinicshop/internal/identity/app"
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
	r.GET("/register", h.form)
	r.POST("/register", h.register)
	r.GET("/login", h.form)
	r.POST("/login", h.login)
	r.POST("/logout", h.logout)
	r.GET("/password-reset", h.form)
	r.POST("/password-reset", h.requestReset)
	r.GET("/password-reset-confirm/:token", h.form)
	r.POST("/password-reset-confirm/:token", h.confirmReset)
}

// form serves the pending flash messages for the account pages; the pages
// themselves are rendered client side.
func (h *Handler) form(c *gin.Context) {
	flashes, err := h.sessions.Flashes(c.Request.Context(), session.ID(c))
	if err != nil {
		h.log.Warn("flash drain failed", slog.Any("err", err))
	}
	c.JSON(http.StatusOK, gin.H{"messages": flashes})
}

type registerForm struct {
	FirstName string `form:"first_name" binding:"required"`
	LastName  string `form:"last_name"`
	Email     string `form:"email" binding:"required,email"`
	Password  string `form:"password1" binding:"required"`
	Confirm   string `form:"password2" binding:"required"`
}

func (h *Handler) register(c *gin.Context) {
	var form registerForm
	if err := c.ShouldBind(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "please fill in all fields"})
		return
	}

	user, err := h.svc.Register(c.Request.Context(), app.RegisterRequest{
		FirstName: form.FirstName,
		LastName:  form.LastName,
		Email:     form.Email,
		Password:  form.Password,
		Confirm:   form.Confirm,
	})
	switch {
	case errors.Is(err, app.ErrEmailTaken):
		h.flash(c, session.FlashError, "An account with this email already exists.")
		c.Redirect(http.StatusFound, "/register")
		return
	case errors.Is(err, app.ErrWeakPassword):
		h.flash(c, session.FlashError, "Password must be at least 8 characters.")
		c.Redirect(http.StatusFound, "/register")
		return
	case errors.Is(err, app.ErrPasswordMismatch):
		h.flash(c, session.FlashError, "Passwords do not match.")
		c.Redirect(http.StatusFound, "/register")
		return
	case errors.Is(err, app.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": "please fix the errors below"})
		return
	case err != nil:
		h.log.Error("register failed", slog.Any("err", err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create account"})
		return
	}

	// Log the new account straight in, as the signup flow expects.
	if err := h.sessions.Set(c.Request.Context(), session.ID(c), session.FieldUserID, user.ID); err != nil {
		h.log.Error("session write failed after register", slog.Any("err", err))
	}

	h.flash(c, session.FlashSuccess, "Welcome, "+user.FirstName+"! Your account is ready.")
	c.Redirect(http.StatusFound, "/drugs")
}

type loginForm struct {
	Email    string `form:"email" binding:"required"`
	Password string `form:"password" binding:"required"`
}

func (h *Handler) login(c *gin.Context) {
	var form loginForm
	if err := c.ShouldBind(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email and password are required"})
		return
	}

	user, err := h.svc.Login(c.Request.Context(), form.Email, form.Password)
	if errors.Is(err, app.ErrInvalidCredentials) {
		h.flash(c, session.FlashError, "Invalid email or password.")
		c.Redirect(http.StatusFound, "/login")
		return
	}
	if err != nil {
		h.log.Error("login failed", slog.Any("err", err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not log in"})
		return
	}

	if err := h.sessions.Set(c.Request.Context(), session.ID(c), session.FieldUserID, user.ID); err != nil {
		h.log.Error("session write failed after login", slog.Any("err", err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not log in"})
		return
	}

	next := c.Query("next")
	if next == "" || next[0] != '/' {
		next = "/drugs"
	}
	c.Redirect(http.StatusFound, next)
}

func (h *Handler) logout(c *gin.Context) {
	if err := h.sessions.Delete(c.Request.Context(), session.ID(c), session.FieldUserID); err != nil {
		h.log.Warn("session delete failed on logout", slog.Any("err", err))
	}
	h.flash(c, session.FlashSuccess, "You have been logged out.")
	c.Redirect(http.StatusFound, "/drugs")
}

func (h *Handler) requestReset(c *gin.Context) {
	email := c.PostForm("email")

	err := h.svc.RequestPasswordReset(c.Request.Context(), email)
	if errors.Is(err, app.ErrInvalidInput) {
		h.flash(c, session.FlashError, "Please enter a valid email address.")
		c.Redirect(http.StatusFound, "/password-reset")
		return
	}
	if err != nil {
		h.log.Error("password reset request failed", slog.Any("err", err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not process request"})
		return
	}

	// Same message whether or not the address has an account.
	h.flash(c, session.FlashSuccess, "If an account exists for that email, a reset link is on its way.")
	c.Redirect(http.StatusFound, "/login")
}

type resetForm struct {
	Password string `form:"password1" binding:"required"`
	Confirm  string `form:"password2" binding:"required"`
}

func (h *Handler) confirmReset(c *gin.Context) {
	var form resetForm
	if err := c.ShouldBind(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "both password fields are required"})
		return
	}

	token := c.Param("token")
	err := h.svc.ResetPassword(c.Request.Context(), token, form.Password, form.Confirm)
	switch {
	case errors.Is(err, app.ErrTokenInvalid):
		h.flash(c, session.FlashError, "This reset link is invalid or has expired.")
		c.Redirect(http.StatusFound, "/password-reset")
		return
	case errors.Is(err, app.ErrWeakPassword):
		h.flash(c, session.FlashError, "Password must be at least 8 characters.")
		c.Redirect(http.StatusFound, "/password-reset-confirm/"+token)
		return
	case errors.Is(err, app.ErrPasswordMismatch):
		h.flash(c, session.FlashError, "Passwords do not match.")
		c.Redirect(http.StatusFound, "/password-reset-confirm/"+token)
		return
	case err != nil:
		h.log.Error("password reset failed", slog.Any("err", err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not reset password"})
		return
	}

	h.flash(c, session.FlashSuccess, "Your password has been reset. Please log in.")
	c.Redirect(http.StatusFound, "/login")
}

func (h *Handler) flash(c *gin.Context, level, msg string) {
	if err := h.sessions.Flash(c.Request.Context(), session.ID(c), level, msg); err != nil {
		h.log.Warn("flash write failed", slog.Any("err", err))
	}
}
