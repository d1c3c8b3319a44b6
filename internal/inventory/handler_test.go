package inventory

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMux(t *testing.T) (*http.ServeMux, *Service) {
	t.Helper()
	svc := newTestService(t)
	h := &Handler{Service: svc, Logger: discardLogger()}
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/sweets", h.List)
	mux.HandleFunc("GET /api/sweets/search", h.Search)
	mux.HandleFunc("GET /api/sweets/{id}", h.Get)
	mux.HandleFunc("POST /api/sweets", h.Create)
	mux.HandleFunc("PUT /api/sweets/{id}", h.Update)
	mux.HandleFunc("DELETE /api/sweets/{id}", h.Delete)
	mux.HandleFunc("POST /api/sweets/{id}/purchase", h.Purchase)
	mux.HandleFunc("POST /api/sweets/{id}/restock", h.Restock)
	return mux, svc
}

func do(mux http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var r *http.Request
	if body != "" {
		r = httptest.NewRequest(method, target, strings.NewReader(body))
	} else {
		r = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, r)
	return rec
}

func decodeSweet(t *testing.T, rec *httptest.ResponseRecorder) Sweet {
	t.Helper()
	var sw Sweet
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sw))
	return sw
}

func TestHandler_CreateGetList(t *testing.T) {
	mux, _ := newTestMux(t)

	rec := do(mux, http.MethodPost, "/api/sweets", `{"name":"Gulab Jamun","category":"Indian","price":50,"quantity":100}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decodeSweet(t, rec)
	assert.NotZero(t, created.ID)

	rec = do(mux, http.MethodGet, "/api/sweets/1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Gulab Jamun", decodeSweet(t, rec).Name)

	rec = do(mux, http.MethodGet, "/api/sweets", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list []Sweet
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Len(t, list, 1)
}

func TestHandler_CreateRejectsBadInput(t *testing.T) {
	mux, _ := newTestMux(t)

	assert.Equal(t, http.StatusBadRequest, do(mux, http.MethodPost, "/api/sweets", `{"name":`).Code)
	assert.Equal(t, http.StatusBadRequest, do(mux, http.MethodPost, "/api/sweets", `{"name":""}`).Code)
	assert.Equal(t, http.StatusBadRequest, do(mux, http.MethodPost, "/api/sweets", `{"name":"x","price":-2}`).Code)
}

func TestHandler_PurchaseAndRestock(t *testing.T) {
	mux, svc := newTestMux(t)
	seed(t, svc)

	rec := do(mux, http.MethodPost, "/api/sweets/1/purchase?qty=20", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, 80, decodeSweet(t, rec).Quantity)

	rec = do(mux, http.MethodPost, "/api/sweets/1/purchase?qty=200", "")
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.JSONEq(t, `{"error":"not enough stock available"}`, rec.Body.String())

	rec = do(mux, http.MethodPost, "/api/sweets/1/restock?qty=5", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 85, decodeSweet(t, rec).Quantity)

	assert.Equal(t, http.StatusBadRequest, do(mux, http.MethodPost, "/api/sweets/1/purchase", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(mux, http.MethodPost, "/api/sweets/1/purchase?qty=0", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(mux, http.MethodPost, "/api/sweets/abc/purchase?qty=1", "").Code)
	assert.Equal(t, http.StatusNotFound, do(mux, http.MethodPost, "/api/sweets/99/purchase?qty=1", "").Code)
}

func TestHandler_Search(t *testing.T) {
	mux, svc := newTestMux(t)
	seed(t, svc)

	count := func(rec *httptest.ResponseRecorder) int {
		var list []Sweet
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
		return len(list)
	}

	rec := do(mux, http.MethodGet, "/api/sweets/search?name=ras", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, count(rec))

	rec = do(mux, http.MethodGet, "/api/sweets/search?category=indian", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2, count(rec))

	rec = do(mux, http.MethodGet, "/api/sweets/search?minPrice=45&maxPrice=100", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2, count(rec))

	assert.Equal(t, http.StatusBadRequest, do(mux, http.MethodGet, "/api/sweets/search", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(mux, http.MethodGet, "/api/sweets/search?minPrice=1", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(mux, http.MethodGet, "/api/sweets/search?minPrice=a&maxPrice=2", "").Code)
}

func TestHandler_UpdateDelete(t *testing.T) {
	mux, svc := newTestMux(t)
	seed(t, svc)

	rec := do(mux, http.MethodPut, "/api/sweets/2", `{"name":"Rasmalai","category":"Indian","price":60,"quantity":5}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Rasmalai", decodeSweet(t, rec).Name)

	assert.Equal(t, http.StatusNotFound, do(mux, http.MethodPut, "/api/sweets/99", `{"name":"x"}`).Code)

	assert.Equal(t, http.StatusNoContent, do(mux, http.MethodDelete, "/api/sweets/2", "").Code)
	assert.Equal(t, http.StatusNotFound, do(mux, http.MethodDelete, "/api/sweets/2", "").Code)
}
