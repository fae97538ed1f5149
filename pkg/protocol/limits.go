package protocol

// Size limits applied when decoding frames.
const (
	// MaxFrameSize is the largest accepted encoded frame.
	MaxFrameSize = 1 << 20

	// MaxHrefLength is the longest accepted location href.
	MaxHrefLength = 8 << 10
)
