// Package download orchestrates a run: metadata lookup, then a match, fetch
// and tag chain per track.
//
// # Manager
//
// The Manager works in two phases so a caller can ask for the output folder
// between them:
//
//  1. Initialize classifies the locator and fetches the track list
//  2. StartDownloads runs every track through the pipeline into a folder
//  3. Optionally, a cover image and a playlist file are written
//
// Process runs both phases.
//
// # Basic Usage
//
//	events := make(chan download.ProgressEvent)
//	go func() {
//	    for e := range events {
//	        fmt.Println(e.Message)
//	    }
//	}()
//
//	deps, err := download.NewDeps(ctx, settings, creds)
//	manager := download.NewManager(settings, deps, events)
//
//	if err := manager.Initialize(ctx, "https://open.spotify.com/playlist/..."); err != nil {
//	    log.Fatal(err)
//	}
//	summary, err := manager.StartDownloads(ctx, "/music")
//
// # Concurrency
//
// Tracks are processed by an errgroup limited to
// settings.MaxConcurrentTracks (3 by default). Within one track the stages
// run strictly in order. Completion order across tracks is not defined.
//
// # Errors
//
// Invalid locators, metadata failures and a missing folder are returned.
// A track without a match, a failed download or a failed tag write only
// ends that track's chain; it is reported as an event and counted in the
// model.Summary. Nothing is retried.
//
// # Progress Tracking
//
// Status is sent on a channel owned by the caller:
//
//	type ProgressEvent struct {
//	    JobID   string
//	    Message string
//	    Level   ProgressLevel // Info, Verbose, Warning, Error, Success
//	}
package download
