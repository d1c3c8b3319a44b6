package inventory

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"sweetshop/internal/httpx"
)

// Handler serves the /api/sweets endpoints. Access control is applied by
// the router.
type Handler struct {
	Service *Service
	Logger  *slog.Logger
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	sweets, err := h.Service.List(r.Context())
	if err != nil {
		h.fail(w, "list sweets", err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, sweets)
}

// Search picks the first criterion present: name, then category, then a
// complete price range.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var (
		sweets []Sweet
		err    error
	)
	switch {
	case q.Get("name") != "":
		sweets, err = h.Service.SearchByName(r.Context(), q.Get("name"))
	case q.Get("category") != "":
		sweets, err = h.Service.SearchByCategory(r.Context(), q.Get("category"))
	case q.Get("minPrice") != "" && q.Get("maxPrice") != "":
		lo, errMin := strconv.ParseFloat(q.Get("minPrice"), 64)
		hi, errMax := strconv.ParseFloat(q.Get("maxPrice"), 64)
		if errMin != nil || errMax != nil {
			httpx.WriteError(w, http.StatusBadRequest, "invalid price range")
			return
		}
		sweets, err = h.Service.SearchByPriceRange(r.Context(), lo, hi)
	default:
		httpx.WriteError(w, http.StatusBadRequest, "name, category or minPrice and maxPrice required")
		return
	}
	if err != nil {
		h.fail(w, "search sweets", err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, sweets)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	sw, err := h.Service.Get(r.Context(), id)
	if err != nil {
		h.fail(w, "get sweet", err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, sw)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var in Sweet
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	sw, err := h.Service.Add(r.Context(), in)
	if err != nil {
		h.fail(w, "add sweet", err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, sw)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var in Sweet
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	sw, err := h.Service.Update(r.Context(), id, in)
	if err != nil {
		h.fail(w, "update sweet", err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, sw)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.Service.Delete(r.Context(), id); err != nil {
		h.fail(w, "delete sweet", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Purchase(w http.ResponseWriter, r *http.Request) {
	h.adjust(w, r, "purchase sweet", h.Service.Purchase)
}

func (h *Handler) Restock(w http.ResponseWriter, r *http.Request) {
	h.adjust(w, r, "restock sweet", h.Service.Restock)
}

func (h *Handler) adjust(w http.ResponseWriter, r *http.Request, op string,
	fn func(ctx context.Context, id int64, qty int) (*Sweet, error)) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	qty, err := strconv.Atoi(r.URL.Query().Get("qty"))
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "qty must be an integer")
		return
	}
	sw, err := fn(r.Context(), id, qty)
	if err != nil {
		h.fail(w, op, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, sw)
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		httpx.WriteError(w, http.StatusBadRequest, "invalid sweet id")
		return 0, false
	}
	return id, true
}

func (h *Handler) fail(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		httpx.WriteError(w, http.StatusNotFound, ErrNotFound.Error())
	case errors.Is(err, ErrInsufficientStock):
		httpx.WriteError(w, http.StatusConflict, ErrInsufficientStock.Error())
	case errors.Is(err, ErrInvalidQuantity), errors.Is(err, ErrInvalidSweet):
		httpx.WriteError(w, http.StatusBadRequest, err.Error())
	default:
		h.Logger.Error(op, "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "internal error")
	}
}
