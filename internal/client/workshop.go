package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/duynhne/workshop-console/internal/core/domain"
)

func (c *Client) Dashboard(ctx context.Context) (*domain.Dashboard, error) {
	var out domain.Dashboard
	if err := c.do(ctx, http.MethodGet, "/dashboard", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Customers

func (c *Client) Customers(ctx context.Context, q domain.PageQuery) (*domain.Page[domain.Customer], error) {
	var out domain.Page[domain.Customer]
	if err := c.do(ctx, http.MethodGet, "/customers", pageValues(q, "search"), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Customer(ctx context.Context, id int64) (*domain.Customer, error) {
	var out domain.Customer
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/customers/%d", id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateCustomer(ctx context.Context, in domain.Customer) (*domain.Customer, error) {
	var out domain.Customer
	if err := c.do(ctx, http.MethodPost, "/customers", nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateCustomer(ctx context.Context, id int64, in domain.Customer) (*domain.Customer, error) {
	var out domain.Customer
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/customers/%d", id), nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteCustomer(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/customers/%d", id), nil, nil, nil)
}

// Vehicles

func (c *Client) Vehicles(ctx context.Context, q domain.PageQuery) (*domain.Page[domain.Vehicle], error) {
	var out domain.Page[domain.Vehicle]
	if err := c.do(ctx, http.MethodGet, "/vehicles", pageValues(q, "search"), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Vehicle(ctx context.Context, id int64) (*domain.Vehicle, error) {
	var out domain.Vehicle
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/vehicles/%d", id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) VehiclesByCustomer(ctx context.Context, customerID int64) ([]domain.Vehicle, error) {
	var out []domain.Vehicle
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/vehicles/customer/%d", customerID), nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateVehicle(ctx context.Context, in domain.Vehicle) (*domain.Vehicle, error) {
	var out domain.Vehicle
	if err := c.do(ctx, http.MethodPost, "/vehicles", nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateVehicle(ctx context.Context, id int64, in domain.Vehicle) (*domain.Vehicle, error) {
	var out domain.Vehicle
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/vehicles/%d", id), nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteVehicle(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/vehicles/%d", id), nil, nil, nil)
}

// Service catalog

func (c *Client) Services(ctx context.Context) ([]domain.ServiceItem, error) {
	var out []domain.ServiceItem
	if err := c.do(ctx, http.MethodGet, "/services", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateService(ctx context.Context, in domain.ServiceItem) (*domain.ServiceItem, error) {
	var out domain.ServiceItem
	if err := c.do(ctx, http.MethodPost, "/services", nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateService(ctx context.Context, id int64, in domain.ServiceItem) (*domain.ServiceItem, error) {
	var out domain.ServiceItem
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/services/%d", id), nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Work orders

func (c *Client) WorkOrders(ctx context.Context, q domain.PageQuery) (*domain.Page[domain.WorkOrder], error) {
	var out domain.Page[domain.WorkOrder]
	if err := c.do(ctx, http.MethodGet, "/workorders", pageValues(q, "status"), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) WorkOrder(ctx context.Context, id int64) (*domain.WorkOrder, error) {
	var out domain.WorkOrder
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/workorders/%d", id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) RecentWorkOrders(ctx context.Context, limit int) ([]domain.WorkOrder, error) {
	if limit <= 0 {
		limit = 10
	}
	var out []domain.WorkOrder
	q := url.Values{"limit": {strconv.Itoa(limit)}}
	if err := c.do(ctx, http.MethodGet, "/workorders/recent", q, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateWorkOrder(ctx context.Context, in domain.WorkOrder) (*domain.WorkOrder, error) {
	var out domain.WorkOrder
	if err := c.do(ctx, http.MethodPost, "/workorders", nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateWorkOrderStatus(ctx context.Context, id int64, status string) (*domain.WorkOrder, error) {
	var out domain.WorkOrder
	body := map[string]string{"status": status}
	if err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/workorders/%d/status", id), nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) AddServiceToWorkOrder(ctx context.Context, workOrderID int64, svc domain.WorkOrderService) (*domain.WorkOrder, error) {
	var out domain.WorkOrder
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/workorders/%d/services", workOrderID), nil, svc, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Invoices

func (c *Client) Invoices(ctx context.Context, q domain.PageQuery) (*domain.Page[domain.Invoice], error) {
	var out domain.Page[domain.Invoice]
	if err := c.do(ctx, http.MethodGet, "/invoices", pageValues(q, "status"), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Invoice(ctx context.Context, id int64) (*domain.Invoice, error) {
	var out domain.Invoice
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/invoices/%d", id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateInvoice(ctx context.Context, workOrderID int64) (*domain.Invoice, error) {
	var out domain.Invoice
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/invoices/workorder/%d", workOrderID), nil, struct{}{}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) SendInvoice(ctx context.Context, id int64) (*domain.Invoice, error) {
	var out domain.Invoice
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/invoices/%d/send", id), nil, struct{}{}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) RecordPayment(ctx context.Context, id int64, amount float64) (*domain.Invoice, error) {
	var out domain.Invoice
	body := map[string]float64{"amount": amount}
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/invoices/%d/payment", id), nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
