// Package connection talks to an awareness-server over HTTP.
//
// HTTPClient performs the JSON requests; Client wraps it with one method
// per session endpoint. Error bodies of the form {"error", "code"} are
// returned as *APIError.
package connection
