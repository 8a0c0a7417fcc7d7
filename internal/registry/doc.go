// Package registry is the authoritative store of live thing handlers,
// keyed by thing UID.
//
// The registry owns every handler it holds. Lookups hand out reference
// counted Handles; a handler that is replaced or unregistered while a
// caller still holds a Handle stays usable until the last Handle is
// released, and only then is its Teardown invoked. Teardown runs exactly
// once per handler.
//
//	reg := registry.New()
//	reg.SetLogger(log)
//	reg.Register(tv)
//
//	h, err := reg.LookupAs(uid, thing.KeyHolder)
//	if err != nil {
//	    // errors.Is(err, registry.ErrNotFound) or registry.ErrUnsupported
//	}
//	defer h.Release()
//
// All methods are safe for concurrent use.
package registry
