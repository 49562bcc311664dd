package domain

// The DTOs below are consumed by the console views and passed through from
// the workshop API. The session core never inspects them.

type Customer struct {
	ID           int64  `json:"id,omitempty"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	Email        string `json:"email,omitempty"`
	Phone        string `json:"phone"`
	Address      string `json:"address,omitempty"`
	City         string `json:"city,omitempty"`
	State        string `json:"state,omitempty"`
	ZipCode      string `json:"zipCode,omitempty"`
	Notes        string `json:"notes,omitempty"`
	VehicleCount int    `json:"vehicleCount,omitempty"`
}

type Vehicle struct {
	ID           int64  `json:"id,omitempty"`
	VIN          string `json:"vin,omitempty"`
	Make         string `json:"make"`
	Model        string `json:"model"`
	Year         int    `json:"year"`
	Color        string `json:"color,omitempty"`
	LicensePlate string `json:"licensePlate,omitempty"`
	Mileage      int    `json:"mileage,omitempty"`
	Notes        string `json:"notes,omitempty"`
	CustomerID   int64  `json:"customerId"`
	CustomerName string `json:"customerName,omitempty"`
}

type ServiceItem struct {
	ID               int64   `json:"id,omitempty"`
	Name             string  `json:"name"`
	Description      string  `json:"description,omitempty"`
	BasePrice        float64 `json:"basePrice"`
	EstimatedMinutes int     `json:"estimatedMinutes,omitempty"`
	Category         string  `json:"category,omitempty"`
	Active           *bool   `json:"active,omitempty"`
}

// Work order states.
const (
	WorkOrderPending         = "PENDING"
	WorkOrderScheduled       = "SCHEDULED"
	WorkOrderInProgress      = "IN_PROGRESS"
	WorkOrderWaitingForParts = "WAITING_FOR_PARTS"
	WorkOrderCompleted       = "COMPLETED"
	WorkOrderCancelled       = "CANCELLED"
)

type WorkOrderService struct {
	ID            int64   `json:"id,omitempty"`
	ServiceItemID int64   `json:"serviceItemId"`
	ServiceName   string  `json:"serviceName,omitempty"`
	Price         float64 `json:"price"`
	Quantity      int     `json:"quantity,omitempty"`
	Notes         string  `json:"notes,omitempty"`
	Completed     bool    `json:"completed,omitempty"`
}

type WorkOrder struct {
	ID                   int64              `json:"id,omitempty"`
	OrderNumber          string             `json:"orderNumber,omitempty"`
	VehicleID            int64              `json:"vehicleId"`
	VehicleInfo          string             `json:"vehicleInfo,omitempty"`
	CustomerID           int64              `json:"customerId,omitempty"`
	CustomerName         string             `json:"customerName,omitempty"`
	AssignedMechanicID   int64              `json:"assignedMechanicId,omitempty"`
	AssignedMechanicName string             `json:"assignedMechanicName,omitempty"`
	Status               string             `json:"status,omitempty"`
	Description          string             `json:"description,omitempty"`
	CustomerConcerns     string             `json:"customerConcerns,omitempty"`
	Diagnosis            string             `json:"diagnosis,omitempty"`
	WorkPerformed        string             `json:"workPerformed,omitempty"`
	ScheduledDate        string             `json:"scheduledDate,omitempty"`
	StartedAt            string             `json:"startedAt,omitempty"`
	CompletedAt          string             `json:"completedAt,omitempty"`
	EstimatedMinutes     int                `json:"estimatedMinutes,omitempty"`
	LaborCost            float64            `json:"laborCost,omitempty"`
	PartsCost            float64            `json:"partsCost,omitempty"`
	TotalCost            float64            `json:"totalCost,omitempty"`
	Services             []WorkOrderService `json:"services,omitempty"`
	CreatedAt            string             `json:"createdAt,omitempty"`
}

// Invoice states.
const (
	InvoiceDraft         = "DRAFT"
	InvoiceSent          = "SENT"
	InvoicePaid          = "PAID"
	InvoicePartiallyPaid = "PARTIALLY_PAID"
	InvoiceOverdue       = "OVERDUE"
	InvoiceCancelled     = "CANCELLED"
)

type Invoice struct {
	ID              int64   `json:"id,omitempty"`
	InvoiceNumber   string  `json:"invoiceNumber,omitempty"`
	WorkOrderID     int64   `json:"workOrderId"`
	WorkOrderNumber string  `json:"workOrderNumber,omitempty"`
	CustomerName    string  `json:"customerName,omitempty"`
	VehicleInfo     string  `json:"vehicleInfo,omitempty"`
	Subtotal        float64 `json:"subtotal,omitempty"`
	TaxRate         float64 `json:"taxRate,omitempty"`
	TaxAmount       float64 `json:"taxAmount,omitempty"`
	TotalAmount     float64 `json:"totalAmount,omitempty"`
	PaidAmount      float64 `json:"paidAmount,omitempty"`
	BalanceDue      float64 `json:"balanceDue,omitempty"`
	Status          string  `json:"status,omitempty"`
	IssueDate       string  `json:"issueDate,omitempty"`
	DueDate         string  `json:"dueDate,omitempty"`
	PaidDate        string  `json:"paidDate,omitempty"`
	Notes           string  `json:"notes,omitempty"`
}

type Dashboard struct {
	TotalCustomers           int64       `json:"totalCustomers"`
	TotalVehicles            int64       `json:"totalVehicles"`
	PendingWorkOrders        int64       `json:"pendingWorkOrders"`
	InProgressWorkOrders     int64       `json:"inProgressWorkOrders"`
	CompletedWorkOrdersToday int64       `json:"completedWorkOrdersToday"`
	PendingInvoices          int64       `json:"pendingInvoices"`
	MonthlyRevenue           float64     `json:"monthlyRevenue"`
	OutstandingBalance       float64     `json:"outstandingBalance"`
	RecentWorkOrders         []WorkOrder `json:"recentWorkOrders"`
	UpcomingAppointments     []WorkOrder `json:"upcomingAppointments"`
}

// Page is the paginated envelope returned by list endpoints.
type Page[T any] struct {
	Content       []T   `json:"content"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
	Size          int   `json:"size"`
	Number        int   `json:"number"`
	First         bool  `json:"first"`
	Last          bool  `json:"last"`
}

// PageQuery carries the list parameters shared by the paginated endpoints.
// Filter is sent as `search` for customers and vehicles, and as `status` for
// work orders and invoices.
type PageQuery struct {
	Page   int
	Size   int
	Filter string
}
