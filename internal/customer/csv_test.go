package customer

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedCustomers() []Customer {
	return []Customer{
		{ID: "c1", FullName: "Ana García", Email: "ana@example.es", Phone: "600111222", UserType: TypePersona, CreatedAt: time.Now()},
		{ID: "c2", FullName: "Luz, S.L.", Email: "info@luz.es", UserType: TypeProfesional, CompanyName: "Luz S.L.", VatID: "B12345678", CreatedAt: time.Now().Add(-time.Hour)},
	}
}

func TestExport_FixedColumns(t *testing.T) {
	svc := NewService(NewInMemoryRepository(seedCustomers()), nil)

	var buf bytes.Buffer
	require.NoError(t, svc.Export(context.Background(), &buf))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "ID,Nombre,Email,Teléfono,Dirección,Tipo,Empresa,CIF/NIF", lines[0])
	assert.Equal(t, "c1,Ana García,ana@example.es,600111222,,persona,,", lines[1])
	assert.Equal(t, `c2,"Luz, S.L.",info@luz.es,,,profesional,Luz S.L.,B12345678`, lines[2])
}

func TestImport_PartialUpdateInsertAndRowErrors(t *testing.T) {
	repo := NewInMemoryRepository(seedCustomers())
	svc := NewService(repo, nil)

	in := "id,nombre,email,teléfono,dirección,tipo,empresa,cif/nif\n" +
		"c1,,,699000000,,,,\n" +
		",Pedro Ruiz,pedro@example.es,,Calle Mayor 1,,,\n" +
		",Sin Empresa,x@example.es,,,profesional,,\n" +
		"zz,Nadie,,,,,,\n" +
		",Rara,r@example.es,,,empresa,,\n"

	rep, err := svc.Import(context.Background(), strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, 1, rep.Updated)
	assert.Equal(t, 1, rep.Inserted)
	assert.Equal(t, 3, rep.Failed)
	require.Len(t, rep.Errors, 3)
	assert.Equal(t, 4, rep.Errors[0].Row)
	assert.Equal(t, 5, rep.Errors[1].Row)
	assert.Equal(t, 6, rep.Errors[2].Row)

	c1, err := repo.GetByID(context.Background(), "c1")
	require.NoError(t, err)
	assert.Equal(t, "699000000", c1.Phone)
	assert.Equal(t, "Ana García", c1.FullName, "empty cells keep existing values")

	all, _ := repo.List(context.Background())
	assert.Len(t, all, 3)
}

func TestImportHandler_MissingColumnIs400(t *testing.T) {
	app := fiber.New()
	NewHandler(NewService(NewInMemoryRepository(nil), nil)).RegisterAdminRoutes(app)

	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	part, _ := w.CreateFormFile("file", "clientes.csv")
	_, _ = part.Write([]byte("ID,Nombre\n1,a\n"))
	_ = w.Close()

	req := httptest.NewRequest("POST", "/customers/import", body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	res, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, res.StatusCode)
}

func TestCreate_ProfesionalNeedsCompany(t *testing.T) {
	svc := NewService(NewInMemoryRepository(nil), nil)
	_, err := svc.Create(context.Background(), Customer{FullName: "Taller", UserType: TypeProfesional})
	var ve ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve, "company_name")
}
