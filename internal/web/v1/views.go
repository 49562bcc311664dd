package v1

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/duynhne/workshop-console/internal/core/domain"
	"github.com/duynhne/workshop-console/internal/logger"
)

const defaultPageSize = 10

var workOrderStatuses = map[string]bool{
	domain.WorkOrderPending:         true,
	domain.WorkOrderScheduled:       true,
	domain.WorkOrderInProgress:      true,
	domain.WorkOrderWaitingForParts: true,
	domain.WorkOrderCompleted:       true,
	domain.WorkOrderCancelled:       true,
}

func (h *Handler) Dashboard(c *gin.Context) {
	ctx, span := startRequestSpan(c)
	defer span.End()

	stats, err := h.api.Dashboard(ctx)
	if err != nil {
		span.RecordError(err)
		logger.FromContext(ctx).Warn().Err(err).Msg("Dashboard fetch failed")
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"view": "dashboard", "user": h.session.CurrentUser(), "dashboard": stats})
}

// Customers lists customers. Supports page, size and search.
func (h *Handler) Customers(c *gin.Context) {
	ctx, span := startRequestSpan(c)
	defer span.End()

	page, err := h.api.Customers(ctx, pageQuery(c, "search"))
	if err != nil {
		span.RecordError(err)
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"view": "customers", "page": page})
}

func (h *Handler) Customer(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	ctx, span := startRequestSpan(c)
	defer span.End()

	customer, err := h.api.Customer(ctx, id)
	if err != nil {
		span.RecordError(err)
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"view": "customer", "customer": customer})
}

func (h *Handler) CreateCustomer(c *gin.Context) {
	ctx, span := startRequestSpan(c)
	defer span.End()

	var in domain.Customer
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if in.FirstName == "" || in.LastName == "" || in.Phone == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "firstName, lastName and phone are required"})
		return
	}

	created, err := h.api.CreateCustomer(ctx, in)
	if err != nil {
		span.RecordError(err)
		h.writeError(c, err)
		return
	}
	logger.FromContext(ctx).Info().Int64("customer_id", created.ID).Msg("Customer created")
	c.JSON(http.StatusCreated, created)
}

func (h *Handler) CustomerVehicles(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	ctx, span := startRequestSpan(c)
	defer span.End()

	vehicles, err := h.api.VehiclesByCustomer(ctx, id)
	if err != nil {
		span.RecordError(err)
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"view": "customer-vehicles", "customerId": id, "vehicles": vehicles})
}

// Vehicles lists vehicles. Supports page, size and search.
func (h *Handler) Vehicles(c *gin.Context) {
	ctx, span := startRequestSpan(c)
	defer span.End()

	page, err := h.api.Vehicles(ctx, pageQuery(c, "search"))
	if err != nil {
		span.RecordError(err)
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"view": "vehicles", "page": page})
}

func (h *Handler) Vehicle(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	ctx, span := startRequestSpan(c)
	defer span.End()

	vehicle, err := h.api.Vehicle(ctx, id)
	if err != nil {
		span.RecordError(err)
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"view": "vehicle", "vehicle": vehicle})
}

// Services shows the service catalog. Admin only.
func (h *Handler) Services(c *gin.Context) {
	ctx, span := startRequestSpan(c)
	defer span.End()

	items, err := h.api.Services(ctx)
	if err != nil {
		span.RecordError(err)
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"view": "services", "services": items})
}

// WorkOrders lists work orders. Supports page, size and status.
func (h *Handler) WorkOrders(c *gin.Context) {
	ctx, span := startRequestSpan(c)
	defer span.End()

	page, err := h.api.WorkOrders(ctx, pageQuery(c, "status"))
	if err != nil {
		span.RecordError(err)
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"view": "work-orders", "page": page})
}

func (h *Handler) WorkOrder(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	ctx, span := startRequestSpan(c)
	defer span.End()

	wo, err := h.api.WorkOrder(ctx, id)
	if err != nil {
		span.RecordError(err)
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"view": "work-order", "workOrder": wo})
}

func (h *Handler) UpdateWorkOrderStatus(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	ctx, span := startRequestSpan(c)
	defer span.End()

	var body struct {
		Status string `json:"status" form:"status" binding:"required"`
	}
	if err := c.ShouldBind(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !workOrderStatuses[body.Status] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown work order status " + strconv.Quote(body.Status)})
		return
	}

	wo, err := h.api.UpdateWorkOrderStatus(ctx, id, body.Status)
	if err != nil {
		span.RecordError(err)
		h.writeError(c, err)
		return
	}
	logger.FromContext(ctx).Info().Int64("work_order_id", id).Str("status", body.Status).Msg("Work order status changed")
	c.JSON(http.StatusOK, wo)
}

// Invoices lists invoices. Supports page, size and status.
func (h *Handler) Invoices(c *gin.Context) {
	ctx, span := startRequestSpan(c)
	defer span.End()

	page, err := h.api.Invoices(ctx, pageQuery(c, "status"))
	if err != nil {
		span.RecordError(err)
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"view": "invoices", "page": page})
}

func (h *Handler) Invoice(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	ctx, span := startRequestSpan(c)
	defer span.End()

	inv, err := h.api.Invoice(ctx, id)
	if err != nil {
		span.RecordError(err)
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"view": "invoice", "invoice": inv})
}

func (h *Handler) SendInvoice(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	ctx, span := startRequestSpan(c)
	defer span.End()

	inv, err := h.api.SendInvoice(ctx, id)
	if err != nil {
		span.RecordError(err)
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, inv)
}

func (h *Handler) RecordPayment(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	ctx, span := startRequestSpan(c)
	defer span.End()

	var body struct {
		Amount float64 `json:"amount" form:"amount" binding:"required,gt=0"`
	}
	if err := c.ShouldBind(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	inv, err := h.api.RecordPayment(ctx, id, body.Amount)
	if err != nil {
		span.RecordError(err)
		h.writeError(c, err)
		return
	}
	logger.FromContext(ctx).Info().Int64("invoice_id", id).Float64("amount", body.Amount).Msg("Payment recorded")
	c.JSON(http.StatusOK, inv)
}

// pageQuery reads page, size and the list's filter parameter. Bad numbers
// fall back to the first page of the default size.
func pageQuery(c *gin.Context, filterParam string) domain.PageQuery {
	q := domain.PageQuery{Size: defaultPageSize, Filter: c.Query(filterParam)}
	if v, err := strconv.Atoi(c.Query("page")); err == nil && v >= 0 {
		q.Page = v
	}
	if v, err := strconv.Atoi(c.Query("size")); err == nil && v > 0 {
		q.Size = v
	}
	return q
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}
