// Package lgwebos is the LG webOS TV binding.
//
// The hub does not speak the webOS protocol itself. A TV's application and
// channel lists arrive from configuration and from state messages published
// by an external webOS gateway; the handler keeps the latest copy and
// reports it to the console.
package lgwebos

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/nerrad567/handlerhub/internal/thing"
)

// ErrClosed is returned by a handler after Teardown.
var ErrClosed = errors.New("lgwebos: handler torn down")

// Application is an app installed on the TV.
type Application struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Channel is a tunable TV channel.
type Channel struct {
	Number string `json:"number"`
	Name   string `json:"name"`
}

// State is a TV state update. Nil lists leave the current value unchanged.
type State struct {
	Applications []Application `json:"applications,omitempty"`
	Channels     []Channel     `json:"channels,omitempty"`
}

// Session is the connection to one TV.
type Session interface {
	Close() error
}

// SessionOpener opens the session for a newly built handler.
type SessionOpener func(params thing.Params) (Session, error)

// NopSessions opens sessions that do nothing.
func NopSessions(thing.Params) (Session, error) { return nopSession{}, nil }

type nopSession struct{}

func (nopSession) Close() error { return nil }

// TVHandler handles one webOS TV.
type TVHandler struct {
	uid     thing.UID
	key     string
	session Session

	mu     sync.RWMutex
	apps   []Application
	chans  []Channel
	closed bool

	closeOnce sync.Once
	closeErr  error
}

var tvCapabilities = thing.NewCapabilitySet(thing.Reportable, thing.KeyHolder)

var (
	_ thing.Reporter = (*TVHandler)(nil)
	_ thing.Keyed    = (*TVHandler)(nil)
)

// NewTVHandler builds a handler from params. Config keys:
//
//	key           pairing key shown by the accesskey command
//	applications  list of "id=name"
//	channels      list of "number=name"
func NewTVHandler(params thing.Params, session Session) *TVHandler {
	h := &TVHandler{
		uid:     params.UID,
		key:     params.String("key", ""),
		session: session,
	}
	for _, s := range params.Strings("applications") {
		id, name := splitPair(s)
		h.apps = append(h.apps, Application{ID: id, Name: name})
	}
	for _, s := range params.Strings("channels") {
		number, name := splitPair(s)
		h.chans = append(h.chans, Channel{Number: number, Name: name})
	}
	return h
}

func splitPair(s string) (string, string) {
	k, v, ok := strings.Cut(s, "=")
	if !ok {
		return s, s
	}
	return strings.TrimSpace(k), strings.TrimSpace(v)
}

func (h *TVHandler) UID() thing.UID                    { return h.uid }
func (h *TVHandler) Kind() thing.Kind                  { return KindTV }
func (h *TVHandler) Capabilities() thing.CapabilitySet { return tvCapabilities }

// Key returns the pairing key.
func (h *TVHandler) Key() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.key
}

// SetKey stores a pairing key received from the TV.
func (h *TVHandler) SetKey(key string) {
	h.mu.Lock()
	h.key = key
	h.mu.Unlock()
}

// UpdateState replaces the lists present in st.
func (h *TVHandler) UpdateState(st State) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return ErrClosed
	}
	if st.Applications != nil {
		h.apps = append([]Application(nil), st.Applications...)
	}
	if st.Channels != nil {
		h.chans = append([]Channel(nil), st.Channels...)
	}
	return nil
}

// Report lists "applications" or "channels".
func (h *TVHandler) Report(_ context.Context, subject string) ([]string, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.closed {
		return nil, ErrClosed
	}

	switch subject {
	case SubjectApplications:
		lines := make([]string, len(h.apps))
		for i, a := range h.apps {
			lines[i] = fmt.Sprintf("%s - %s", a.ID, a.Name)
		}
		return lines, nil
	case SubjectChannels:
		lines := make([]string, len(h.chans))
		for i, c := range h.chans {
			lines[i] = fmt.Sprintf("%s - %s", c.Number, c.Name)
		}
		return lines, nil
	}
	return nil, fmt.Errorf("%w: %s", thing.ErrUnknownSubject, subject)
}

// Teardown closes the TV session. Calls after the first return the same result.
func (h *TVHandler) Teardown() error {
	h.closeOnce.Do(func() {
		h.mu.Lock()
		h.closed = true
		h.mu.Unlock()
		if h.session != nil {
			h.closeErr = h.session.Close()
		}
	})
	return h.closeErr
}
