package admin

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/agrisphere/agrisphere-backend/internal/orders"
	"github.com/agrisphere/agrisphere-backend/internal/users"
	"github.com/agrisphere/agrisphere-backend/pkg/db/models"
	"github.com/agrisphere/agrisphere-backend/pkg/enums"
)

// UserListFilter narrows the admin user listing.
type UserListFilter struct {
	Query string `json:"q,omitempty"`
	Role  string `json:"role,omitempty"`
	Limit int    `json:"limit,omitempty"`
}

// SetRoleRequest reassigns a user's role.
type SetRoleRequest struct {
	Role string `json:"role" validate:"required"`
}

// ToggleRequest flips a boolean flag on a record.
type ToggleRequest struct {
	Value bool `json:"value"`
}

// ProductListFilter narrows the admin product listing.
type ProductListFilter struct {
	Query    string `json:"q,omitempty"`
	Category string `json:"category,omitempty"`
	Active   *bool  `json:"active,omitempty"`
	Limit    int    `json:"limit,omitempty"`
}

// RenameCategoryRequest bulk-renames a category across products.
type RenameCategoryRequest struct {
	OldName string `json:"old_name" validate:"required"`
	NewName string `json:"new_name" validate:"required"`
}

// OrderListFilter narrows the admin order listing.
type OrderListFilter struct {
	Status     string `json:"status,omitempty"`
	BuyerEmail string `json:"buyer_email,omitempty"`
	Limit      int    `json:"limit,omitempty"`
}

// SetOrderStatusRequest moves an order to any valid status.
type SetOrderStatusRequest struct {
	Status         string  `json:"status" validate:"required"`
	TrackingNumber *string `json:"tracking_number,omitempty"`
}

// ConsultantSummary is one row of the admin consultant listing. Users without
// a shadow record yet appear with HasShadow false.
type ConsultantSummary struct {
	ConsultantID *uuid.UUID      `json:"consultant_id,omitempty"`
	UserID       uuid.UUID       `json:"user_id"`
	Name         string          `json:"name"`
	Email        string          `json:"email"`
	Fee          decimal.Decimal `json:"fee"`
	IsVerified   bool            `json:"is_verified"`
	IsActive     bool            `json:"is_active"`
	HasShadow    bool            `json:"has_shadow"`
}

// DailySaleDTO is one day's order count and revenue.
type DailySaleDTO struct {
	Day   string          `json:"day"`
	Count int64           `json:"count"`
	Total decimal.Decimal `json:"total"`
}

// DashboardStats is the admin landing-page aggregate.
type DashboardStats struct {
	TotalUsers         int64             `json:"total_users"`
	TotalProducts      int64             `json:"total_products"`
	TotalOrders        int64             `json:"total_orders"`
	TotalConsultants   int64             `json:"total_consultants"`
	TotalConsultations int64             `json:"total_consultations"`
	TotalSales         decimal.Decimal   `json:"total_sales"`
	RecentUsers        []users.UserDTO   `json:"recent_users"`
	RecentOrders       []orders.OrderDTO `json:"recent_orders"`
	DailySales         []DailySaleDTO    `json:"daily_sales"`
	GeneratedAt        time.Time         `json:"generated_at"`
}

func summaryFromShadow(c *models.Consultant) ConsultantSummary {
	id := c.ID
	return ConsultantSummary{
		ConsultantID: &id,
		UserID:       c.UserID,
		Name:         c.Name,
		Email:        c.Email,
		Fee:          c.ConsultationFee,
		IsVerified:   c.IsVerified,
		IsActive:     c.IsActive,
		HasShadow:    true,
	}
}

func summaryFromUser(u *models.User) ConsultantSummary {
	out := ConsultantSummary{
		UserID:     u.ID,
		Name:       u.Name,
		Email:      u.Email,
		IsVerified: u.IsVerified,
		IsActive:   u.IsActive,
	}
	if u.ConsultationFee != nil {
		out.Fee = *u.ConsultationFee
	}
	return out
}

func parseRole(value string) (enums.Role, error) {
	return enums.ParseRole(value)
}
