// Package handler is the HTTP layer of the API.
//
// Handlers bind and validate the request through the validation package,
// take the request's database session from the session middleware and call
// the service layer. They never open or close sessions themselves.
package handler
