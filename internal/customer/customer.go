package customer

import (
	"strings"
	"time"
)

type UserType string

const (
	TypePersona     UserType = "persona"
	TypeProfesional UserType = "profesional"
)

func (t UserType) Valid() bool {
	switch t {
	case TypePersona, TypeProfesional:
		return true
	}
	return false
}

// ParseUserType accepts any casing; empty means persona.
func ParseUserType(s string) (UserType, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return TypePersona, true
	}
	t := UserType(s)
	return t, t.Valid()
}

// Customer is a buyer record kept independently of login profiles.
type Customer struct {
	ID          string    `json:"id"`
	FullName    string    `json:"full_name"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	Address     string    `json:"address"`
	UserType    UserType  `json:"user_type"`
	CompanyName string    `json:"company_name"`
	VatID       string    `json:"vat_id"`
	CreatedAt   time.Time `json:"created_at"`
}

type ValidationError map[string]string

func (v ValidationError) Error() string {
	msgs := make([]string, 0, len(v))
	for k, m := range v {
		msgs = append(msgs, k+": "+m)
	}
	return strings.Join(msgs, "; ")
}

// Validate checks a customer after normalisation.
func Validate(c Customer) error {
	errs := ValidationError{}
	if strings.TrimSpace(c.FullName) == "" {
		errs["full_name"] = "full_name is required"
	}
	if c.Email != "" && !strings.Contains(c.Email, "@") {
		errs["email"] = "email is not valid"
	}
	if !c.UserType.Valid() {
		errs["user_type"] = "user_type must be persona or profesional"
	}
	if c.UserType == TypeProfesional && strings.TrimSpace(c.CompanyName) == "" {
		errs["company_name"] = "company_name is required for profesional customers"
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}
