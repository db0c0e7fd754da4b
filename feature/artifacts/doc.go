// Package artifacts exposes a pipeline namespace over HTTP.
//
// Every route accepts an optional namespace query parameter selecting a child
// namespace of the configured root. Children are created on first use.
//
// # Components
//
//   - Service: Resolves namespaces and materializes find results.
//   - Handler: Maps requests to the service and storage errors to status codes.
//   - Loader: Registers the feature with the application.
//
// # HTTP Endpoints
//
//   - GET /artifacts/find : Pattern search with named groups (filter.<group>=<regex>).
//   - GET /artifacts/object/* : Download an artifact (binary=true, encoding=...).
//   - PUT /artifacts/object/* : Upload an artifact (best-effort).
//   - HEAD /artifacts/object/* : Existence check.
//   - DELETE /artifacts/object/* : Delete an artifact.
//   - DELETE /artifacts : Clear a namespace.
//   - GET /artifacts/keys : Not implemented by any backend.
package artifacts
