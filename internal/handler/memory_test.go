package handler_test

import (
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/memories/internal/handler"
	"github.com/sakif/memories/internal/model"
)

func TestMemories_JSONFlow(t *testing.T) {
	api := newTestAPI(t)

	// 1. Upload the image on its own, like the browser does.
	rr := api.form(t, http.MethodPost, "/api/upload", nil, map[string]string{"file": "beach.jpg"})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	uploaded := decode[handler.UploadResponse](t, rr).URL
	require.True(t, api.blobs.hasURL(uploaded))

	// 2. Create the memory pointing at it.
	rr = api.do(t, http.MethodPost, "/api/memories", map[string]any{
		"title":       "beach day",
		"description": "sunburnt",
		"date":        "2023-06-01T10:00:00.000Z",
		"latitude":    15.2993,
		"longitude":   74.1240,
		"imageUrl":    uploaded,
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	mem := decode[model.Memory](t, rr)
	assert.Equal(t, uploaded, mem.ImageURL)

	fetched := decode[model.Memory](t, api.do(t, http.MethodGet, "/api/memories/"+mem.ID, nil))
	assert.Equal(t, mem, fetched)

	// 3. Upload a replacement and repoint.
	replacement := decode[handler.UploadResponse](t, api.form(t, http.MethodPost, "/api/upload", nil, map[string]string{"file": "beach2.png"})).URL
	rr = api.do(t, http.MethodPut, "/api/memories/"+mem.ID, map[string]any{"imageUrl": replacement})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, replacement, decode[model.Memory](t, rr).ImageURL)

	assert.False(t, api.blobs.hasURL(uploaded), "old image should be released")
	assert.True(t, api.blobs.hasURL(replacement))

	// 4. Delete removes the row and the blob; a second delete still succeeds.
	require.Equal(t, http.StatusOK, api.do(t, http.MethodDelete, "/api/memories/"+mem.ID, nil).Code)
	assert.False(t, api.blobs.hasURL(replacement))
	assert.Equal(t, http.StatusNotFound, api.do(t, http.MethodGet, "/api/memories/"+mem.ID, nil).Code)
	assert.Equal(t, http.StatusOK, api.do(t, http.MethodDelete, "/api/memories/"+mem.ID, nil).Code)
}

func TestMemories_MultipartFlow(t *testing.T) {
	api := newTestAPI(t)

	rr := api.form(t, http.MethodPost, "/api/memories",
		map[string]string{"title": "first date", "date": "2022-10-16", "latitude": "28.61", "longitude": "77.20"},
		map[string]string{"image": "coffee.jpg"},
	)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	mem := decode[model.Memory](t, rr)
	assert.Equal(t, "first date", mem.Title)
	assert.Equal(t, 28.61, mem.Latitude)
	assert.True(t, strings.HasPrefix(mem.ImageURL, testBase+"/"))
	assert.True(t, api.blobs.hasURL(mem.ImageURL))

	rr = api.form(t, http.MethodPut, "/api/memories/"+mem.ID,
		map[string]string{"description": "coffee turned into dinner"},
		map[string]string{"image": "dinner.jpg"},
	)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	updated := decode[model.Memory](t, rr)
	assert.Equal(t, "first date", updated.Title, "unsent fields are kept")
	assert.Equal(t, "coffee turned into dinner", updated.Description)
	assert.NotEqual(t, mem.ImageURL, updated.ImageURL)
	assert.False(t, api.blobs.hasURL(mem.ImageURL))
	assert.True(t, api.blobs.hasURL(updated.ImageURL))
	assert.Equal(t, 1, api.blobs.count())
}

func TestMemories_ListByDate(t *testing.T) {
	api := newTestAPI(t)
	for _, date := range []string{"2024-01-01", "2022-10-16", "2023-05-05"} {
		rr := api.do(t, http.MethodPost, "/api/memories", map[string]any{"title": date, "date": date, "imageUrl": "https://elsewhere.example/" + date + ".jpg"})
		require.Equal(t, http.StatusCreated, rr.Code)
	}

	memories := decode[[]model.Memory](t, api.do(t, http.MethodGet, "/api/memories", nil))
	require.Len(t, memories, 3)
	assert.Equal(t, "2022-10-16", memories[0].Date)
	assert.Equal(t, "2024-01-01", memories[2].Date)
}

func TestMemories_Errors(t *testing.T) {
	api := newTestAPI(t)

	t.Run("no image", func(t *testing.T) {
		rr := api.do(t, http.MethodPost, "/api/memories", map[string]any{"title": "x"})
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("bad latitude in form", func(t *testing.T) {
		rr := api.form(t, http.MethodPost, "/api/memories",
			map[string]string{"latitude": "north"}, map[string]string{"image": "a.jpg"})
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, 0, api.blobs.count(), "nothing uploaded for a rejected form")
	})

	t.Run("latitude out of range", func(t *testing.T) {
		rr := api.form(t, http.MethodPost, "/api/memories",
			map[string]string{"latitude": "95"}, map[string]string{"image": "a.jpg"})
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, 0, api.blobs.count())
	})

	t.Run("update unknown id", func(t *testing.T) {
		rr := api.do(t, http.MethodPut, "/api/memories/nope", map[string]any{"title": "x"})
		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("unknown field", func(t *testing.T) {
		rr := api.do(t, http.MethodPut, "/api/memories/nope", map[string]any{"image_url": "x"})
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("blob store down", func(t *testing.T) {
		api.blobs.putErr = errors.New("bucket unreachable")
		defer func() { api.blobs.putErr = nil }()

		rr := api.form(t, http.MethodPost, "/api/memories", map[string]string{"title": "x"}, map[string]string{"image": "a.jpg"})
		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		assert.Contains(t, decode[handler.ErrorResponse](t, rr).Error, "bucket unreachable")

		memories := decode[[]model.Memory](t, api.do(t, http.MethodGet, "/api/memories", nil))
		assert.Empty(t, memories)
	})
}

func TestMemories_BodyTooLarge(t *testing.T) {
	api := newTestAPI(t)

	huge := `{"title":"` + strings.Repeat("a", testMaxBytes) + `","imageUrl":"x"}`
	rr := api.do(t, http.MethodPost, "/api/memories", huge)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rr.Code)
}
