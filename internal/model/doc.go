// Package model defines the immutable catalog data structures shared by
// every fomu package.
//
// # Track
//
// Track is a single downloadable piece of music. Tracks are built once,
// when the catalog is assembled, and never mutated afterwards:
//
//	track := model.NewTrack("petrichor", "Petrichor", "Scott Buckley", url, model.PoolCalmFocus)
//	fmt.Println(track.FileName) // petrichor.mp3
//
// # Pools and Presets
//
// A Pool is a tag grouping tracks with a similar mood. A Preset is a named,
// weighted list of pools the user selects to decide what may play:
//
//	preset := model.Preset{
//	    Name:  "relax",
//	    Pools: []model.PoolWeight{{Pool: model.PoolCalmFocus, Weight: 1}},
//	}
package model
