package catalog

import "github.com/handiism/fomu/internal/model"

const (
	artist  = "Scott Buckley"
	baseURL = "https://www.scottbuckley.com.au/library/wp-content/uploads/"
)

func defaultTracks() []*model.Track {
	return []*model.Track{
		model.NewTrack("permafrost", "Permafrost", artist, baseURL+"2022/08/Permafrost.mp3", model.PoolCalmFocus),
		model.NewTrack("petrichor", "Petrichor", artist, baseURL+"2019/05/sb_petrichor.mp3", model.PoolCalmFocus),
		model.NewTrack("borealis", "Borealis", artist, baseURL+"2019/09/sb_borealis.mp3", model.PoolCalmFocus),
		model.NewTrack("she-moved-mountains", "She Moved Mountains", artist, baseURL+"2014/07/sb_shemovedmountains.mp3", model.PoolCalmFocus),
		model.NewTrack("reverie", "Reverie", artist, baseURL+"2020/03/sb_reverie.mp3", model.PoolCalmFocus),
		model.NewTrack("cobalt", "Cobalt", artist, baseURL+"2017/11/sb_cobalt.mp3", model.PoolCalmFocus),
		model.NewTrack("life-is", "Life Is", artist, baseURL+"2017/10/sb_lifeis.mp3", model.PoolCalmFocus),

		model.NewTrack("shadows-and-dust", "Shadows and Dust", artist, baseURL+"2023/11/ShadowsAndDust.mp3", model.PoolAtmospheric),
		model.NewTrack("decoherence", "Decoherence", artist, baseURL+"2022/03/sb_decoherence.mp3", model.PoolAtmospheric),
		model.NewTrack("aurora", "Aurora", artist, baseURL+"2021/10/Aurora.mp3", model.PoolAtmospheric),
		model.NewTrack("hymn-to-the-dawn", "Hymn to the Dawn", artist, baseURL+"2022/11/HymnToTheDawn.mp3", model.PoolAtmospheric),
		model.NewTrack("cirrus", "Cirrus", artist, baseURL+"2023/03/Cirrus.mp3", model.PoolAtmospheric),
		model.NewTrack("meanwhile", "Meanwhile", artist, baseURL+"2025/01/Meanwhile.mp3", model.PoolAtmospheric),

		model.NewTrack("cicadas", "Cicadas", artist, baseURL+"2023/12/Cicadas.mp3", model.PoolGentleMovement),
		model.NewTrack("effervescence", "Effervescence", artist, baseURL+"2023/07/Effervescence.mp3", model.PoolGentleMovement),
		model.NewTrack("golden-hour", "Golden Hour", artist, baseURL+"2023/02/GoldenHour.mp3", model.PoolGentleMovement),
		model.NewTrack("castles-in-the-sky", "Castles in the Sky", artist, baseURL+"2021/11/sb_castlesinthesky.mp3", model.PoolGentleMovement),
		model.NewTrack("first-snow", "First Snow", artist, baseURL+"2022/12/FirstSnow.mp3", model.PoolGentleMovement),
		model.NewTrack("snowfall", "Snowfall", artist, baseURL+"2018/12/sb_snowfall.mp3", model.PoolGentleMovement),
	}
}

// The dominant pool of a preset is listed first and weighs twice as much.
func weighted(primary model.Pool, rest ...model.Pool) []model.PoolWeight {
	out := []model.PoolWeight{{Pool: primary, Weight: 2}}
	for _, p := range rest {
		out = append(out, model.PoolWeight{Pool: p, Weight: 1})
	}
	return out
}

func defaultPresets() []model.Preset {
	return []model.Preset{
		{Name: "focus", Description: "Coding, writing", HzMin: 14, HzMax: 16,
			Pools: weighted(model.PoolAtmospheric, model.PoolCalmFocus)},
		{Name: "deep", Description: "Reading, research", HzMin: 12, HzMax: 14,
			Pools: weighted(model.PoolCalmFocus, model.PoolAtmospheric)},
		{Name: "creative", Description: "Brainstorming", HzMin: 10, HzMax: 12,
			Pools: weighted(model.PoolAtmospheric, model.PoolGentleMovement)},
		{Name: "flow", Description: "Creative work", HzMin: 8, HzMax: 10,
			Pools: weighted(model.PoolCalmFocus, model.PoolAtmospheric)},
		{Name: "relax", Description: "Unwinding", HzMin: 6, HzMax: 8,
			Pools: weighted(model.PoolCalmFocus)},
		{Name: "morning", Description: "Waking up", HzMin: 16, HzMax: 20,
			Pools: weighted(model.PoolGentleMovement, model.PoolAtmospheric)},
	}
}
