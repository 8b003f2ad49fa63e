package customer

import (
	"context"
	"fmt"
	"io"

	"github.com/milluces/milluces-backend/internal/csvio"
)

// Columns is the fixed header of the customer CSV.
var Columns = []string{"ID", "Nombre", "Email", "Teléfono", "Dirección", "Tipo", "Empresa", "CIF/NIF"}

func (s *Service) Export(ctx context.Context, w io.Writer) error {
	list, err := s.repo.List(ctx)
	if err != nil {
		return err
	}
	rows := make([][]string, 0, len(list))
	for _, c := range list {
		rows = append(rows, []string{c.ID, c.FullName, c.Email, c.Phone, c.Address, string(c.UserType), c.CompanyName, c.VatID})
	}
	return csvio.Write(w, Columns, rows)
}

// Import applies a CSV: rows with an ID update the non-empty cells of that
// customer, rows without one are inserted.
func (s *Service) Import(ctx context.Context, r io.Reader) (csvio.Report, error) {
	return csvio.Import(ctx, r, Columns, s.log, s.importRow)
}

func (s *Service) importRow(ctx context.Context, rec csvio.Record) (csvio.Outcome, error) {
	var c Customer
	id := rec.Get("ID")
	if id != "" {
		existing, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return 0, fmt.Errorf("customer %s: %w", id, err)
		}
		c = existing
	}

	set := func(dst *string, column string) {
		if v := rec.Get(column); v != "" {
			*dst = v
		}
	}
	set(&c.FullName, "Nombre")
	set(&c.Email, "Email")
	set(&c.Phone, "Teléfono")
	set(&c.Address, "Dirección")
	set(&c.CompanyName, "Empresa")
	set(&c.VatID, "CIF/NIF")
	if v := rec.Get("Tipo"); v != "" {
		t, ok := ParseUserType(v)
		if !ok {
			return 0, fmt.Errorf("unknown Tipo %q", v)
		}
		c.UserType = t
	}

	if id != "" {
		if _, err := s.Update(ctx, id, c); err != nil {
			return 0, err
		}
		return csvio.Updated, nil
	}
	if _, err := s.Create(ctx, c); err != nil {
		return 0, err
	}
	return csvio.Inserted, nil
}
