// Package pipeline implements namespaced artifact storage for data pipelines.
//
// A Namespace is a view over a Backend rooted at a prefix. Keys are relative
// to that root; Resolve and Unresolve translate between keys and the physical
// addresses the backend stores. Child namespaces share the backend, logger and
// default encoding of the namespace they were created from.
//
// # Discovery
//
// Find lists a namespace once and matches every address against a regular
// expression applied from the start of the key. Named capture groups are
// returned with each key and can be narrowed with per-group field filters.
//
//	seq, err := ns.Find(ctx, regexp.MustCompile(`runs/(?P<year>\d{4})/(?P<name>\w+)\.csv`), pipeline.FindOptions{
//	    FieldFilter: map[string]string{"year": "2021"},
//	})
//	for key, groups := range seq {
//	    fmt.Println(key, groups["name"])
//	}
//
// # Errors
//
// Get and Set are best-effort: failures are logged and reported through the
// ok flag or WriteResult. Has, Delete, Clear and Find fail fast with errors
// wrapping ErrStorageUnavailable.
package pipeline
