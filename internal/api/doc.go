// Package api implements the HTTP handlers for the Planky REST API:
// authentication, users, bookmarks, tags, and URL metadata. Handlers decode
// and validate request payloads, call stores and services, and translate
// errors to sanitized responses through HandleAPIError. Response and
// request DTOs live in models.go; the shared subpackage carries the
// response/trace plumbing and the middleware subpackage the JWT auth and
// trace middleware.
package api
