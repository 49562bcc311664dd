package v1

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/duynhne/workshop-console/internal/client"
	"github.com/duynhne/workshop-console/internal/core/domain"
	logicv1 "github.com/duynhne/workshop-console/internal/logic/v1"
	"github.com/duynhne/workshop-console/internal/logger"
	"github.com/duynhne/workshop-console/middleware"
)

// Handler serves the console views.
// Dependencies are injected via the constructor, there is no global state.
type Handler struct {
	auth    *logicv1.AuthService
	session *logicv1.SessionState
	api     *client.Client
	now     func() time.Time
}

// NewHandler creates a new Handler.
func NewHandler(auth *logicv1.AuthService, session *logicv1.SessionState, api *client.Client) *Handler {
	return &Handler{auth: auth, session: session, api: api, now: time.Now}
}

// RegisterRoutes registers the console routes and their guards on r.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	guest := RequireGuard(h.session, logicv1.GuestOnly)
	member := RequireGuard(h.session, logicv1.AuthRequired)
	admin := RequireGuard(h.session, logicv1.AdminRequired)

	r.GET("/", func(c *gin.Context) { c.Redirect(http.StatusFound, logicv1.LandingPath) })
	r.NoRoute(func(c *gin.Context) { c.Redirect(http.StatusFound, logicv1.LandingPath) })

	r.GET(logicv1.LoginPath, guest, h.LoginView)
	r.POST(logicv1.LoginPath, guest, h.Login)
	r.POST("/register", guest, h.Register)
	r.POST("/logout", h.Logout)

	m := r.Group("", member)
	{
		m.GET("/dashboard", h.Dashboard)

		m.GET("/customers", h.Customers)
		m.POST("/customers", h.CreateCustomer)
		m.GET("/customers/:id", h.Customer)
		m.GET("/customers/:id/vehicles", h.CustomerVehicles)

		m.GET("/vehicles", h.Vehicles)
		m.GET("/vehicles/:id", h.Vehicle)

		m.GET("/work-orders", h.WorkOrders)
		m.GET("/work-orders/:id", h.WorkOrder)
		m.POST("/work-orders/:id/status", h.UpdateWorkOrderStatus)

		m.GET("/invoices", h.Invoices)
		m.GET("/invoices/:id", h.Invoice)
		m.POST("/invoices/:id/send", h.SendInvoice)
		m.POST("/invoices/:id/payment", h.RecordPayment)

		m.GET("/session", h.Session)
		m.GET("/session/events", h.SessionEvents)
	}

	r.GET("/services", admin, h.Services)
}

// LoginView describes the login screen.
func (h *Handler) LoginView(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"view":      "login",
		"returnUrl": logicv1.SafeReturnURL(c.Query(logicv1.ReturnURLParam)),
	})
}

// Login handles the login form. JSON and form bodies are both accepted.
func (h *Handler) Login(c *gin.Context) {
	ctx, span := startRequestSpan(c)
	defer span.End()

	log := logger.FromContext(ctx)

	var req domain.LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		span.SetAttributes(attribute.Bool("request.valid", false))
		span.RecordError(err)
		log.Warn().Err(err).Msg("Invalid login request")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	span.SetAttributes(attribute.Bool("request.valid", true))

	resp, err := h.auth.Login(ctx, req)
	if err != nil {
		span.RecordError(err)
		log.Warn().Err(err).Str("username", req.Username).Msg("Login failed")
		h.writeError(c, err)
		return
	}

	target := logicv1.SafeReturnURL(returnURL(c))
	log.Info().Int64("user_id", resp.ID).Str("return_url", target).Msg("Login successful")
	c.Redirect(http.StatusSeeOther, target)
}

// Register creates an account and signs it in.
func (h *Handler) Register(c *gin.Context) {
	ctx, span := startRequestSpan(c)
	defer span.End()

	log := logger.FromContext(ctx)

	var req domain.RegisterRequest
	if err := c.ShouldBind(&req); err != nil {
		span.SetAttributes(attribute.Bool("request.valid", false))
		span.RecordError(err)
		log.Warn().Err(err).Msg("Invalid register request")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	span.SetAttributes(attribute.Bool("request.valid", true))

	resp, err := h.auth.Register(ctx, req)
	if err != nil {
		span.RecordError(err)
		log.Warn().
			Err(err).
			Str("username", req.Username).
			Msg("Registration failed")
		h.writeError(c, err)
		return
	}

	log.Info().Int64("user_id", resp.ID).Msg("Registration successful")
	c.Redirect(http.StatusSeeOther, logicv1.LandingPath)
}

// Logout always ends on the login view, even when the store could not be
// cleared.
func (h *Handler) Logout(c *gin.Context) {
	ctx, span := startRequestSpan(c)
	defer span.End()

	if err := h.auth.Logout(ctx); err != nil {
		span.RecordError(err)
		logger.FromContext(ctx).Error().Err(err).Msg("Logout did not clear the credential store")
	}
	c.Redirect(http.StatusSeeOther, logicv1.LoginPath)
}

// writeError maps a logic or upstream error onto a response. Upstream
// statuses, 401 included, are passed to the caller as they are.
func (h *Handler) writeError(c *gin.Context, err error) {
	var apiErr *client.APIError
	switch {
	case errors.As(err, &apiErr):
		msg := apiErr.Message
		if msg == "" {
			msg = http.StatusText(apiErr.StatusCode)
		}
		c.JSON(apiErr.StatusCode, gin.H{"error": msg})
	case errors.Is(err, logicv1.ErrEmptyToken):
		c.JSON(http.StatusBadGateway, gin.H{"error": "Workshop API returned no token"})
	case errors.Is(err, logicv1.ErrPersistence):
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Session could not be saved"})
	case errors.Is(err, context.DeadlineExceeded):
		c.JSON(http.StatusGatewayTimeout, gin.H{"error": "Workshop API timed out"})
	default:
		c.JSON(http.StatusBadGateway, gin.H{"error": "Workshop API unavailable"})
	}
}

func returnURL(c *gin.Context) string {
	if v := c.Query(logicv1.ReturnURLParam); v != "" {
		return v
	}
	return c.PostForm(logicv1.ReturnURLParam)
}

func startRequestSpan(c *gin.Context) (context.Context, trace.Span) {
	return middleware.StartSpan(c.Request.Context(), "http.request", trace.WithAttributes(
		attribute.String("layer", "web"),
		attribute.String("method", c.Request.Method),
		attribute.String("path", c.Request.URL.Path),
	))
}
