package banner

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milluces/milluces-backend/internal/storage"
)

func multipartSlider(t *testing.T, data string, withImage bool) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	require.NoError(t, w.WriteField("data", data))
	if withImage {
		part, err := w.CreateFormFile("image", "hero.jpg")
		require.NoError(t, err)
		_, _ = part.Write([]byte("jpeg"))
	}
	require.NoError(t, w.Close())
	return body, w.FormDataContentType()
}

func TestCreateSlider_UploadsImage(t *testing.T) {
	fs := afero.NewMemMapFs()
	repo := NewInMemoryRepository(nil)
	app := fiber.New()
	NewHandler(NewService(repo), storage.NewBucketFs(fs, "/uploads", nil)).RegisterAdminRoutes(app)

	body, ct := multipartSlider(t, `{"title":"Rebajas","order_index":1}`, true)
	req := httptest.NewRequest("POST", "/sliders", body)
	req.Header.Set("Content-Type", ct)
	res, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, res.StatusCode)

	var s Slider
	b, _ := io.ReadAll(res.Body)
	require.NoError(t, json.Unmarshal(b, &s))
	assert.True(t, strings.HasPrefix(s.ImageURL, "/uploads/sliders/"))
	assert.True(t, s.Active, "new sliders default to active")

	exists, _ := afero.Exists(fs, strings.TrimPrefix(s.ImageURL, "/uploads/"))
	assert.True(t, exists)
}

func TestCreateSlider_WithoutImageIs400(t *testing.T) {
	fs := afero.NewMemMapFs()
	app := fiber.New()
	NewHandler(NewService(NewInMemoryRepository(nil)), storage.NewBucketFs(fs, "/uploads", nil)).RegisterAdminRoutes(app)

	req := httptest.NewRequest("POST", "/sliders", strings.NewReader(`{"title":"Sin imagen"}`))
	req.Header.Set("Content-Type", "application/json")
	res, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, res.StatusCode)
}

func TestCreateSlider_BadLinkDropsUploadedImage(t *testing.T) {
	fs := afero.NewMemMapFs()
	app := fiber.New()
	NewHandler(NewService(NewInMemoryRepository(nil)), storage.NewBucketFs(fs, "/uploads", nil)).RegisterAdminRoutes(app)

	body, ct := multipartSlider(t, `{"title":"x","link_url":"javascript:alert(1)"}`, true)
	req := httptest.NewRequest("POST", "/sliders", body)
	req.Header.Set("Content-Type", ct)
	res, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, res.StatusCode)

	files, _ := afero.ReadDir(fs, "sliders")
	assert.Empty(t, files)
}

func TestList_ActiveOnlyOrderedWithLimit(t *testing.T) {
	repo := NewInMemoryRepository([]Slider{
		{ID: "a", ImageURL: "/a.jpg", OrderIndex: 3, Active: true},
		{ID: "b", ImageURL: "/b.jpg", OrderIndex: 1, Active: false},
		{ID: "c", ImageURL: "/c.jpg", OrderIndex: 2, Active: true},
		{ID: "d", ImageURL: "/d.jpg", OrderIndex: 4, Active: true},
	})
	svc := NewService(repo)

	list, err := svc.List(context.Background(), ListOptions{ActiveOnly: true, Limit: 2})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "c", list[0].ID)
	assert.Equal(t, "a", list[1].ID)
}

func TestDeleteSlider_RemovesOwnedImage(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "sliders/old.jpg", []byte("x"), 0o644))
	repo := NewInMemoryRepository([]Slider{{ID: "s1", ImageURL: "/uploads/sliders/old.jpg", Active: true}})
	app := fiber.New()
	NewHandler(NewService(repo), storage.NewBucketFs(fs, "/uploads", nil)).RegisterAdminRoutes(app)

	res, err := app.Test(httptest.NewRequest("DELETE", "/sliders/s1", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, res.StatusCode)

	exists, _ := afero.Exists(fs, "sliders/old.jpg")
	assert.False(t, exists)
}
