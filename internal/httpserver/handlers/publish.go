package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/MrSnakeDoc/folio/internal/content"
	"github.com/MrSnakeDoc/folio/internal/httpserver/deps"
	"github.com/MrSnakeDoc/folio/internal/pipeline"
	"github.com/MrSnakeDoc/folio/internal/remote"
)

type publishRequest struct {
	Content json.RawMessage `json:"content"`
	Message string          `json:"message"`
}

type publishResponse struct {
	Success  bool                  `json:"success"`
	Message  string                `json:"message"`
	Revision string                `json:"revision,omitempty"`
	Draft    pipeline.DraftOutcome `json:"draft"`
}

// Publish runs the two-phase publish. Only a remote failure is reported as an
// error; a failed local save is visible in the draft field and the activity log.
func Publish(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req publishRequest
		dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxDocumentBytes))
		if err := dec.Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid request body", Details: err.Error()})
			return
		}
		if len(req.Content) == 0 {
			writeError(w, http.StatusBadRequest, "Content is required")
			return
		}
		doc, err := content.Decode(req.Content)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid content", Details: err.Error()})
			return
		}

		res, err := d.Publisher.Publish(r.Context(), doc, req.Message)
		if err != nil {
			status := http.StatusInternalServerError
			if errors.Is(err, remote.ErrStaleRevision) {
				status = http.StatusConflict
			}
			writeJSON(w, status, errorResponse{Error: "Publish failed", Details: err.Error()})
			return
		}

		writeJSON(w, http.StatusOK, publishResponse{
			Success:  true,
			Message:  "Successfully updated content.json on " + d.Remote.Name(),
			Revision: res.Revision,
			Draft:    res.Draft,
		})
	}
}
