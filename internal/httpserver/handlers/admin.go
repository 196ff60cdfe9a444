package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/MrSnakeDoc/folio/internal/content"
	"github.com/MrSnakeDoc/folio/internal/drafts"
	"github.com/MrSnakeDoc/folio/internal/httpserver/deps"
	"github.com/MrSnakeDoc/folio/internal/logger"
	"github.com/MrSnakeDoc/folio/internal/pipeline"
)

type adminContentResponse struct {
	Source   pipeline.Source   `json:"source"`
	Revision string            `json:"revision,omitempty"`
	Applied  []string          `json:"applied,omitempty"`
	Content  *content.Document `json:"content"`
}

type draftResponse struct {
	Success bool `json:"success"`
	Reduced bool `json:"reduced"`
}

type activityResponse struct {
	Entries []pipeline.Activity `json:"entries"`
	Count   int                 `json:"count"`
}

// AdminContent returns the document the editor should open: the saved draft
// when there is one, the published copy otherwise. Always migrated.
func AdminContent(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		loaded, err := d.Loader.Load(r.Context())
		if err != nil {
			d.Logger.Error("failed to load content", logger.Error(err))
			writeJSON(w, http.StatusBadGateway, errorResponse{Error: "Failed to read data", Details: err.Error()})
			return
		}
		w.Header().Set("Cache-Control", "no-store")
		writeJSON(w, http.StatusOK, adminContentResponse{
			Source:   loaded.Source,
			Revision: loaded.Revision,
			Applied:  loaded.Applied,
			Content:  loaded.Document,
		})
	}
}

// SaveDraft stores the editor state without publishing it.
func SaveDraft(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doc, ok := readDocument(w, r)
		if !ok {
			return
		}

		outcome, err := d.Publisher.SaveDraft(r.Context(), doc)
		if err != nil {
			status := http.StatusInternalServerError
			if errors.Is(err, drafts.ErrQuotaExceeded) {
				status = http.StatusRequestEntityTooLarge
			}
			writeJSON(w, status, errorResponse{Error: "Failed to save data", Details: err.Error()})
			return
		}
		writeJSON(w, http.StatusOK, draftResponse{Success: true, Reduced: outcome == pipeline.DraftReduced})
	}
}

// DiscardDraft drops the saved draft so the next load reads the published copy.
func DiscardDraft(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := d.Drafts.Delete(r.Context()); err != nil {
			d.Logger.Error("failed to delete draft", logger.Error(err))
			writeError(w, http.StatusInternalServerError, "Failed to delete draft")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// Activity lists the publish pipeline log, oldest first.
func Activity(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entries := d.Publisher.Activity().Entries()
		w.Header().Set("Cache-Control", "no-store")
		writeJSON(w, http.StatusOK, activityResponse{Entries: entries, Count: len(entries)})
	}
}

// readDocument decodes a whole document from the request body and writes a
// 400 on failure.
func readDocument(w http.ResponseWriter, r *http.Request) (*content.Document, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxDocumentBytes))
	if err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, "Request body too large")
		return nil, false
	}
	doc, err := content.Decode(body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid content", Details: err.Error()})
		return nil, false
	}
	return doc, true
}
