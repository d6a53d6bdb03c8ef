// Package errs defines the error shapes the API returns to clients.
//
// Handlers, services and repositories return *HTTPError (or plain errors
// which the global error handler turns into a generic 500), so every
// response carries the same JSON body:
//
//	{ "code": "PRODUCT_NOT_FOUND", "message": "...", "status": 404, "errors": [...] }
//
// Driver-level database errors are translated by package sqlerr.
package errs
