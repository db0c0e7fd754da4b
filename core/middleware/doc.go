// Package middleware groups the Fiber middleware placed in front of the
// artifacts API.
//
//   - rayid: tags every request with a UUID (X-Ray-ID header, "ray_id" local)
//     so logger.WithRayID can correlate the log lines of one upload or find.
//   - auth: checks the X-API-Key header against server.api_key. An empty key
//     disables the check, which suits local pipelines.
//
// The start command installs rayid first, then request logging, then auth;
// the swagger UI is mounted before auth and stays public.
package middleware
