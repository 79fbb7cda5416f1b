// Package http provides the download capability used by the background
// downloader: fetch a URL into memory, reporting progress, and classify
// failures so the caller can decide how to retry.
//
// # Basic Usage
//
//	client := http.NewClient(60 * time.Second)
//
//	data, err := client.Fetch(ctx, trackURL, func(written, total int64) {
//	    fmt.Printf("%d / %d bytes\n", written, total)
//	})
//	switch {
//	case errors.Is(err, http.ErrNotFound):
//	    // the file is gone upstream
//	case errors.Is(err, http.ErrTimeout), errors.Is(err, http.ErrNetwork):
//	    // transient, retry later
//	}
//
// # Progress Tracking
//
// The ProgressWriter type can be used to wrap any io.Writer for progress tracking:
//
//	pw := &http.ProgressWriter{
//	    Writer:   &buf,
//	    Total:    contentLength,
//	    OnUpdate: func(written, total int64) { /* update UI */ },
//	}
package http
