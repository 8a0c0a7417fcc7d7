package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nerrad567/handlerhub/internal/factory"
	"github.com/nerrad567/handlerhub/internal/registry"
	"github.com/nerrad567/handlerhub/internal/thing"
)

// handleListThings returns the registered handlers sorted by UID.
func (s *Server) handleListThings(w http.ResponseWriter, _ *http.Request) {
	things := s.registry.Snapshot()
	writeJSON(w, http.StatusOK, map[string]any{
		"things": things,
		"count":  len(things),
	})
}

// handleAddThing builds and registers a handler, replacing any handler
// already registered under the same UID.
//
//	POST /api/v1/things {"uid","type","label","bridge","config"}
func (s *Server) handleAddThing(w http.ResponseWriter, r *http.Request) {
	var params thing.Params
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	ctx := thing.WithOrigin(r.Context(), thing.OriginAPI)
	uid, err := s.lifecycle.OnDeviceAdded(ctx, params)
	if err != nil {
		s.writeAddError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"uid": uid})
}

func (s *Server) writeAddError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, thing.ErrInvalidUID), errors.Is(err, thing.ErrInvalidTypeUID):
		writeError(w, http.StatusBadRequest, ErrCodeValidation, err.Error())
	case errors.Is(err, factory.ErrUnsupportedType):
		writeError(w, http.StatusUnprocessableEntity, ErrCodeUnsupported, err.Error())
	case errors.Is(err, factory.ErrConstructFailed):
		writeError(w, http.StatusUnprocessableEntity, ErrCodeValidation, err.Error())
	case errors.Is(err, registry.ErrClosed):
		writeError(w, http.StatusServiceUnavailable, ErrCodeUnavailable, err.Error())
	default:
		s.logger.Error("adding thing failed", "error", err)
		writeInternalError(w, "failed to add thing")
	}
}

// handleRemoveThing unregisters a handler. Removing an unknown UID is not
// an error, so the response is 204 either way.
func (s *Server) handleRemoveThing(w http.ResponseWriter, r *http.Request) {
	uid, err := thing.ParseUID(chi.URLParam(r, "uid"))
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrCodeValidation, err.Error())
		return
	}

	s.lifecycle.OnDeviceRemoved(thing.WithOrigin(r.Context(), thing.OriginAPI), uid)
	w.WriteHeader(http.StatusNoContent)
}
