package mqttbridge

import (
	"errors"

	"github.com/nerrad567/handlerhub/internal/bindings/lgwebos"
	"github.com/nerrad567/handlerhub/internal/console"
	"github.com/nerrad567/handlerhub/internal/thing"
)

// ConsoleRequest is received on handlerhub/console/{ext}/request.
type ConsoleRequest struct {
	RequestID string   `json:"request_id"`
	UID       string   `json:"uid"`
	Command   string   `json:"command"`
	Args      []string `json:"args,omitempty"`
}

// ConsoleResponse is published on handlerhub/console/{ext}/response/{request_id}.
type ConsoleResponse struct {
	RequestID string     `json:"request_id"`
	OK        bool       `json:"ok"`
	Lines     []string   `json:"lines,omitempty"`
	Error     *ErrorBody `json:"error,omitempty"`
}

// ErrorBody describes a failed dispatch.
type ErrorBody struct {
	Code    string `json:"code"`
	Reason  string `json:"reason,omitempty"`
	Message string `json:"message"`
}

// ThingRemove is received on handlerhub/things/remove.
type ThingRemove struct {
	UID thing.UID `json:"uid"`
}

// TVState is received on handlerhub/state/lgwebos/{uid}. Absent lists
// leave the handler's current value unchanged; an empty key is ignored.
type TVState struct {
	Applications []lgwebos.Application `json:"applications,omitempty"`
	Channels     []lgwebos.Channel     `json:"channels,omitempty"`
	Key          string                `json:"key,omitempty"`
}

// errorBody converts a dispatch error into its wire form.
func errorBody(err error) *ErrorBody {
	var derr *console.Error
	if errors.As(err, &derr) {
		return &ErrorBody{
			Code:    string(derr.Code),
			Reason:  string(derr.Reason),
			Message: derr.Error(),
		}
	}
	return &ErrorBody{Code: string(console.CodeHandlerFailed), Message: err.Error()}
}
