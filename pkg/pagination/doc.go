// Package pagination implements page windows, client-side pagination, and
// exhaustive walking of paginated backend listings.
//
// Paginate slices an in-memory collection and synthesizes metadata in the
// same shape the backend produces natively:
//
//	page, meta := pagination.Paginate(items, pagination.Window{Page: 2, PageSize: 12})
//
// FetchAll walks a paginated listing until its last page:
//
//	res, err := pagination.FetchAll(ctx, pagination.DefaultConfig(), fetchPage)
//
// The walker:
//   - Fetches the first page to learn last_page
//   - Fetches the remaining pages with a bounded worker pool
//   - Reassembles items in page order
//   - Stops at MaxPages and reports Truncated instead of dropping records silently
//   - Fails the whole walk on the first page error (no partial data)
package pagination
