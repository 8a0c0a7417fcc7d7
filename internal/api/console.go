package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nerrad567/handlerhub/internal/console"
	"github.com/nerrad567/handlerhub/internal/thing"
)

// DispatchRequest is the body of POST /api/v1/console/{ext}.
type DispatchRequest struct {
	UID     string   `json:"uid"`
	Command string   `json:"command"`
	Args    []string `json:"args,omitempty"`
}

// ExtensionInfo describes one console extension.
type ExtensionInfo struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Usages      []string `json:"usages"`
}

// dispatchStatus maps console failure codes to HTTP status codes.
var dispatchStatus = map[console.Code]int{
	console.CodeInvalidID:          http.StatusBadRequest,
	console.CodeBadArguments:       http.StatusBadRequest,
	console.CodeUnknownDevice:      http.StatusNotFound,
	console.CodeUnsupportedCommand: http.StatusUnprocessableEntity,
	console.CodeHandlerFailed:      http.StatusBadGateway,
}

// handleListExtensions lists the console extensions and their usages.
func (s *Server) handleListExtensions(w http.ResponseWriter, _ *http.Request) {
	names := s.console.Names()
	out := make([]ExtensionInfo, 0, len(names))
	for _, name := range names {
		ext, ok := s.console.Get(name)
		if !ok {
			continue
		}
		out = append(out, ExtensionInfo{
			Name:        ext.Name(),
			Description: ext.Description(),
			Usages:      ext.Usages(),
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"extensions": out})
}

// handleDispatch runs one console command.
//
//	POST /api/v1/console/lgwebos {"uid":"lgwebos:WebOSTV:living","command":"channels"}
//	200 {"lines":["1 - BBC One"]}
func (s *Server) handleDispatch(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "ext")
	ext, ok := s.console.Get(name)
	if !ok {
		writeNotFound(w, fmt.Sprintf("no console extension %q", name))
		return
	}

	var req DispatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	ctx, cancel := context.WithTimeout(thing.WithOrigin(r.Context(), thing.OriginAPI), s.dispatchTimeout)
	defer cancel()

	res, err := ext.Dispatch(ctx, req.UID, req.Command, req.Args)
	if err != nil {
		writeDispatchError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func writeDispatchError(w http.ResponseWriter, err error) {
	var derr *console.Error
	if !errors.As(err, &derr) {
		writeInternalError(w, err.Error())
		return
	}
	status, ok := dispatchStatus[derr.Code]
	if !ok {
		status = http.StatusInternalServerError
	}
	writeJSON(w, status, Error{
		Status:  status,
		Code:    string(derr.Code),
		Reason:  string(derr.Reason),
		Message: derr.Error(),
	})
}
