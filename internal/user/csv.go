package user

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/milluces/milluces-backend/internal/csvio"
	"github.com/milluces/milluces-backend/internal/customer"
)

var Columns = []string{"ID", "Nombre", "Email", "Rol", "Tipo", "Empresa", "CIF/NIF", "Descuento"}

func (s *Service) Export(ctx context.Context, w io.Writer) error {
	list, err := s.repo.List(ctx)
	if err != nil {
		return err
	}
	rows := make([][]string, 0, len(list))
	for _, p := range list {
		rows = append(rows, []string{
			p.ID, p.FullName, p.Email, string(p.Role), string(p.UserType),
			p.CompanyName, p.VatID, p.DiscountPercent.StringFixed(2),
		})
	}
	return csvio.Write(w, Columns, rows)
}

// Import applies a profile CSV. Imported rows carry no password, so new
// profiles cannot sign in until an admin sets one.
func (s *Service) Import(ctx context.Context, r io.Reader) (csvio.Report, error) {
	return csvio.Import(ctx, r, Columns, s.log, s.importRow)
}

func (s *Service) importRow(ctx context.Context, rec csvio.Record) (csvio.Outcome, error) {
	var p Profile
	id := rec.Get("ID")
	if id != "" {
		existing, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return 0, fmt.Errorf("profile %s: %w", id, err)
		}
		p = existing
	}

	set := func(dst *string, column string) {
		if v := rec.Get(column); v != "" {
			*dst = v
		}
	}
	set(&p.FullName, "Nombre")
	set(&p.Email, "Email")
	set(&p.CompanyName, "Empresa")
	set(&p.VatID, "CIF/NIF")
	if v := rec.Get("Rol"); v != "" {
		p.Role = Role(strings.ToLower(v))
	}
	if v := rec.Get("Tipo"); v != "" {
		t, ok := customer.ParseUserType(v)
		if !ok {
			return 0, fmt.Errorf("unknown Tipo %q", v)
		}
		p.UserType = t
	}
	if v := rec.Get("Descuento"); v != "" {
		d, err := decimal.NewFromString(strings.Replace(strings.TrimSuffix(v, "%"), ",", ".", 1))
		if err != nil {
			return 0, fmt.Errorf("invalid Descuento %q", v)
		}
		p.DiscountPercent = d
	}

	if id != "" {
		if _, err := s.Update(ctx, id, p); err != nil {
			return 0, err
		}
		return csvio.Updated, nil
	}
	if _, err := s.Create(ctx, p); err != nil {
		return 0, err
	}
	return csvio.Inserted, nil
}
