package lgwebos

import (
	"context"
	"fmt"

	"github.com/nerrad567/handlerhub/internal/console"
	"github.com/nerrad567/handlerhub/internal/factory"
	"github.com/nerrad567/handlerhub/internal/thing"
)

// BindingID is the binding part of every lgwebos thing type.
const BindingID = "lgwebos"

// ThingTypeWebOSTV is the only thing type of the binding.
const ThingTypeWebOSTV thing.TypeUID = "lgwebos:WebOSTV"

// KindTV is the handler kind of TVHandler.
const KindTV thing.Kind = "lgwebos.tv"

// Report subjects.
const (
	SubjectApplications = "applications"
	SubjectChannels     = "channels"
)

// SupportedTypes lists the thing types this binding builds.
var SupportedTypes = []thing.TypeUID{ThingTypeWebOSTV}

// Register adds the binding's constructor to f. A nil opener uses NopSessions.
func Register(f *factory.Factory, sessions SessionOpener) {
	if sessions == nil {
		sessions = NopSessions
	}
	f.RegisterTypes(BindingID, SupportedTypes, func(params thing.Params) (thing.Handler, error) {
		session, err := sessions(params)
		if err != nil {
			return nil, fmt.Errorf("opening session for %s: %w", params.UID, err)
		}
		return NewTVHandler(params, session), nil
	})
}

// NewExtension returns the "lgwebos" console extension.
func NewExtension(reg console.Lookuper) *console.Extension {
	return console.New(console.Options{
		Name:        BindingID,
		Description: "Interact with the LG webOS binding.",
		Label:       "LG webOS",
		Kinds:       []thing.Kind{KindTV},
	}, reg,
		console.Command{
			Name:        SubjectApplications,
			Requires:    thing.Reportable,
			Description: "list applications",
			Run:         console.Report(SubjectApplications),
		},
		console.Command{
			Name:        SubjectChannels,
			Requires:    thing.Reportable,
			Description: "list channels",
			Run:         console.Report(SubjectChannels),
		},
		console.Command{
			Name:        "accesskey",
			Requires:    thing.KeyHolder,
			Description: "show the access key",
			Run:         accessKey,
		},
	)
}

func accessKey(_ context.Context, h thing.Handler, _ []string) ([]string, error) {
	k, ok := h.(thing.Keyed)
	if !ok {
		return nil, fmt.Errorf("%s does not hold a key", h.Kind())
	}
	return []string{"Your access key is " + k.Key()}, nil
}
