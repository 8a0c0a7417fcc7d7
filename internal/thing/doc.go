// Package thing defines the core vocabulary shared by every binding in
// handlerhub: thing identifiers, thing-type descriptors, capabilities and
// the Handler contract that protocol-specific handlers implement.
//
// # Key Types
//
//   - UID: opaque identifier of one physical or logical device ("lgwebos:WebOSTV:living")
//   - TypeUID: binding-qualified thing type used only at construction time ("openwebnet:bus_dimmer")
//   - Capability / CapabilitySet: what a handler variant can do, fixed per Kind
//   - Handler: the live object owning all interaction with one device
//   - Params: construction parameters handed to a handler constructor
//
// # Capability Interfaces
//
// A handler whose CapabilitySet names a capability also implements the
// matching interface:
//
//	Reportable  -> Reporter
//	Commandable -> Commander
//	KeyHolder   -> KeyHolder
//
// Callers check membership through the CapabilitySet first and only then
// narrow with a type assertion, so the set stays the single source of truth.
package thing
