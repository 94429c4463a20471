// Package controller contains HTTP middlewares and helper handlers shared by
// the API server.
//
// Provided middlewares:
//   - WithCORS: Adds CORS headers for the allowed origins and answers OPTIONS preflight.
//   - WithLogger: Attaches a request-scoped logger and request ID to the context and logs access info.
//   - WithRecover: Turns handler panics into a logged 500 response.
//
// Provided helpers:
//   - MountPprof: Registers net/http/pprof handlers under a prefix.
//   - RequestID, GetClientIP: Request introspection.
package controller
