// Package utils provides small conversion helpers shared by the HTTP handlers
// and the CLI: lenient int/bool parsing of query values and parsing of
// "field=pattern" field filters.
package utils
