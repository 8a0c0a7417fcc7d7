// Package console routes administrative commands to thing handlers.
//
// Each binding contributes an Extension: a name ("lgwebos"), a static
// command table and the handler kinds it serves. Dispatch validates a
// request in a fixed order and reports the first precondition that failed:
//
//  1. the thing UID is syntactically valid          (CodeInvalidID)
//  2. a handler is registered for it                (CodeUnknownDevice)
//  3. the handler serves the command                (CodeUnsupportedCommand)
//  4. the arguments fit the command's shape         (CodeBadArguments)
//
// Only then is the command run, with a registry Handle held so a concurrent
// unregister cannot tear the handler down mid-call. Failures are returned as
// *Error values; nothing in this package panics or aborts on bad input.
//
// Usage text is generated from the command table:
//
//	lgwebos <thingUID> channels - list channels
package console
