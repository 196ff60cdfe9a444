package handlers

import (
	"errors"
	"net/http"

	"github.com/MrSnakeDoc/folio/internal/httpserver/deps"
	"github.com/MrSnakeDoc/folio/internal/logger"
	"github.com/MrSnakeDoc/folio/internal/proxy"
)

type itemsResponse struct {
	Items []proxy.Item `json:"items"`
	Count int          `json:"count"`
}

type productNotFoundResponse struct {
	Error  string `json:"error"`
	Reason string `json:"reason"`
	Handle string `json:"handle"`
}

// Metadata extracts title, preview image and site name from a page.
func Metadata(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		target := r.URL.Query().Get("url")
		if target == "" {
			writeError(w, http.StatusBadRequest, "URL is required")
			return
		}

		md, err := d.Metadata.Fetch(r.Context(), target)
		if err != nil {
			d.Logger.Warn("metadata fetch failed",
				logger.String("url", target),
				logger.Error(err))
			status := http.StatusInternalServerError
			if errors.Is(err, proxy.ErrInvalidURL) || errors.Is(err, proxy.ErrPrivateAddress) {
				status = http.StatusBadRequest
			}
			writeError(w, status, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, md)
	}
}

// Apps returns the raw App Store lookup for an app id.
func Apps(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.URL.Query().Get("id")
		if id == "" {
			writeError(w, http.StatusBadRequest, "ID is required")
			return
		}

		raw, err := d.Apps.Lookup(r.Context(), id)
		if errors.Is(err, proxy.ErrInvalidAppID) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		if err != nil {
			d.Logger.Warn("app lookup failed",
				logger.String("id", id),
				logger.Error(err))
			writeError(w, http.StatusInternalServerError, "Internal Server Error")
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(raw)
	}
}

// BaseItems lists the visible shop items.
func BaseItems(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := d.Base.Items(r.Context())
		if err != nil {
			code := proxy.CodeOf(err)
			d.Logger.Warn("shop items fetch failed",
				logger.String("code", code),
				logger.Error(err))
			writeJSON(w, baseStatus(code, err), errorResponse{Error: err.Error(), Code: code})
			return
		}
		writeJSON(w, http.StatusOK, itemsResponse{Items: items, Count: len(items)})
	}
}

// baseStatus keeps the upstream status for auth failures, like the token
// exchange reported it.
func baseStatus(code string, err error) int {
	if code == proxy.CodeAuthFailed {
		if s := proxy.StatusOf(err); s >= 400 {
			return s
		}
		return http.StatusUnauthorized
	}
	return http.StatusInternalServerError
}

// SketchMark serves the merged shop and Instagram gallery. Never fails: a
// broken source simply contributes nothing.
func SketchMark(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "public, max-age=300")
		writeJSON(w, http.StatusOK, d.SketchMark.Gallery(r.Context()))
	}
}

// ShopifyProduct looks up a storefront product by handle.
func ShopifyProduct(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		handle := r.URL.Query().Get("handle")
		if handle == "" {
			writeError(w, http.StatusBadRequest, "Handle is required")
			return
		}

		product, err := d.Storefront.Product(r.Context(), handle)
		switch {
		case errors.Is(err, proxy.ErrProductNotFound):
			writeJSON(w, http.StatusNotFound, productNotFoundResponse{
				Error:  "Product not found",
				Reason: proxy.ProductNotFoundReason,
				Handle: handle,
			})
		case err != nil:
			d.Logger.Warn("storefront product fetch failed",
				logger.String("handle", handle),
				logger.Error(err))
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Internal Server Error", Details: err.Error()})
		default:
			writeJSON(w, http.StatusOK, product)
		}
	}
}
