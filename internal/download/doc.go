// Package download fetches catalog tracks into the cache in the background.
//
// # Coordinator
//
// The Coordinator owns the download queue:
//
//  1. Seed queues every track that is not Ready, first-needed track first
//  2. Run pops the first track whose retry delay has elapsed
//  3. The track is fetched, tagged and written atomically into the cache
//  4. Failures are requeued at the back with a growing delay
//
// Playback never waits on the coordinator. It asks for a track with Expedite
// and polls the cache until the track turns Ready.
//
// # Basic Usage
//
//	coord := download.New(store, catalog.Default(), http.NewClient(timeout),
//	    download.WithLogger(logger),
//	    download.WithProgress(func(event download.ProgressEvent) {
//	        fmt.Println(event.Message)
//	    }),
//	)
//	coord.Seed(catalog.Default().IDs(), firstTrackID)
//
//	go coord.Run(ctx)
//	coord.Expedite(wantedID)
//
// # Concurrency
//
// Downloads are sequential by default. WithWorkers raises the number of
// concurrent fetches; a track is always either queued or in flight, never
// both, so retries of one track stay ordered.
//
// # Retry Logic
//
// Failed downloads are retried without limit. The delay before the n-th retry
// is taken from a schedule table (2s, 4s, 8s, 16s, 32s, then 60s for every
// later attempt by default), see BackoffSchedule.
package download
