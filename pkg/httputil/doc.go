// Package httputil provides the request and response helpers of the HTTP API.
//
// Errors are written as JSON bodies of the form
//
//	{"code": "INVALID_GRAPH", "message": "self-loop on node 2", "request_id": "..."}
//
// with the status taken from the error's code (see errors.HTTPStatus).
// Request bodies carrying graph documents are decoded according to their
// Content-Type: JSON by default, YAML for application/yaml and a plain edge
// list for text/plain.
package httputil
