package notation

const (
	defaultBeats    = 4
	defaultBeatType = 4

	// beatSortWeight orders events within a bar by beat*1000+tick. This
	// assumes fewer than 1000 ticks per beat; a grid with ppq >= 1000 can
	// interleave ticks of adjacent beats.
	beatSortWeight = 1000
)

// Options tunes validation and rendering
type Options struct {
	// StrictInstruments rejects events whose instrument is not in the
	// instrument map instead of silently dropping them at render time.
	StrictInstruments bool
}
