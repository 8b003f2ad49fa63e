package user

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/milluces/milluces-backend/internal/customer"
)

type Role string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleEditor  Role = "editor"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleEditor:
		return true
	}
	return false
}

// Area is a slice of the admin API guarded as one unit.
type Area string

const (
	AreaCatalog   Area = "catalog"
	AreaOrders    Area = "orders"
	AreaCustomers Area = "customers"
	AreaContent   Area = "content"
	AreaSEO       Area = "seo"
	AreaUploads   Area = "uploads"
	AreaSettings  Area = "settings"
	AreaUsers     Area = "users"
)

// Allows reports whether role may use area. Admin may use everything.
func (r Role) Allows(a Area) bool {
	switch r {
	case RoleAdmin:
		return true
	case RoleManager:
		switch a {
		case AreaCatalog, AreaOrders, AreaCustomers, AreaContent, AreaUploads:
			return true
		}
	case RoleEditor:
		switch a {
		case AreaContent, AreaSEO, AreaUploads:
			return true
		}
	}
	return false
}

// Profile is a back-office account. Password is write-only; PasswordHash never leaves the server.
type Profile struct {
	ID              string            `json:"id"`
	FullName        string            `json:"full_name"`
	Email           string            `json:"email"`
	Password        string            `json:"password,omitempty"`
	PasswordHash    string            `json:"-"`
	Role            Role              `json:"role"`
	UserType        customer.UserType `json:"user_type"`
	CompanyName     string            `json:"company_name"`
	VatID           string            `json:"vat_id"`
	DiscountPercent decimal.Decimal   `json:"discount_percent"`
	CreatedAt       time.Time         `json:"created_at"`
}

type ValidationError map[string]string

func (v ValidationError) Error() string {
	msgs := make([]string, 0, len(v))
	for k, m := range v {
		msgs = append(msgs, k+": "+m)
	}
	return strings.Join(msgs, "; ")
}

var hundred = decimal.NewFromInt(100)

func Validate(p Profile) error {
	errs := ValidationError{}
	if p.Email == "" || !strings.Contains(p.Email, "@") {
		errs["email"] = "email is required"
	}
	if !p.Role.Valid() {
		errs["role"] = "role must be admin, manager or editor"
	}
	if !p.UserType.Valid() {
		errs["user_type"] = "user_type must be persona or profesional"
	}
	if p.UserType == customer.TypeProfesional && p.CompanyName == "" {
		errs["company_name"] = "company_name is required for profesional profiles"
	}
	if p.DiscountPercent.IsNegative() || p.DiscountPercent.GreaterThan(hundred) {
		errs["discount_percent"] = "discount_percent must be between 0 and 100"
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

func sanitize(p Profile) Profile {
	p.Password = ""
	p.PasswordHash = ""
	return p
}
