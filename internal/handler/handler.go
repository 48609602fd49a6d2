// Package handler is the HTTP layer that sits right after the router.
//
// It binds request payloads, validates them through the validation
// package and calls the matching service method. Errors are returned
// to the global error handler untouched.
package handler
