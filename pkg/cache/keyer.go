package cache

// Keyer derives cache keys. Keys are stable across runs and processes.
type Keyer interface {
	// TranscriptKey identifies the engine output for a program and query.
	TranscriptKey(programHash, query string, opts TranscriptKeyOpts) string

	// ArtifactKey identifies a rendered output for a layout document.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// TranscriptKeyOpts are the engine settings that change the transcript.
type TranscriptKeyOpts struct {
	QueryFunction  string `json:"query_function"`
	ResultVariable string `json:"result_variable"`
}

// ArtifactKeyOpts are the render settings that change an artifact.
type ArtifactKeyOpts struct {
	Format   string  `json:"format"`
	Style    string  `json:"style"` // Canonical form of the drawing style
	PNGScale float64 `json:"png_scale,omitempty"`
}

// DefaultKeyer hashes all key components with SHA-256.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// TranscriptKey returns "transcript:<sha256>".
func (DefaultKeyer) TranscriptKey(programHash, query string, opts TranscriptKeyOpts) string {
	return hashKey("transcript", programHash, query, opts)
}

// ArtifactKey returns "artifact:<sha256>".
func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}
