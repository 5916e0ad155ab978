package ir

// Version constants mixed into persisted identities.
const (
	// LayoutVersion changes whenever layout output for identical input may
	// change. It is part of every memo key, so bumping it orphans old
	// cache rows instead of serving stale frames.
	LayoutVersion = "3"

	// EngineVersion is the scribe engine version.
	EngineVersion = "0.2.0"
)
