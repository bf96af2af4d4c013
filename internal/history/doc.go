// Package history records per-track outcomes in a local SQLite database.
//
// Each terminal result of a run becomes one Entry row keyed by the job ID.
// The store is optional and only opened when a history path is configured.
//
//	store, err := history.Open("~/.config/spotify-dl/history.sqlite3")
//	defer store.Close()
//	err = store.Record(ctx, locator, result)
//	entries, err := store.Recent(ctx, 20)
package history
