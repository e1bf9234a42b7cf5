package analysis

import (
	"strings"
	"time"

	"github.com/stemwave/analysis/waveform"
)

// Analysis version tags distinguish extraction provenance. Multiple versions
// may coexist for one (file, stem) pair; unpinned lookups return the most
// recent by creation time.
const (
	// VersionServer marks records computed by this engine
	VersionServer = "server-1"
	// VersionClient marks records ingested from a trusted client computation
	VersionClient = "client-1"
	// VersionSandbox marks records produced by the sandbox extraction variant
	VersionSandbox = "sandbox-1"
)

// Record is the cached analysis artifact: one per successful extraction,
// never mutated in place. Re-analysis creates a new record; deletion happens
// only through administrative deletion of the owning file or analysis.
type Record struct {
	ID              string `bson:"_id,omitempty" json:"id"`
	FileReference   string `bson:"fileReference" json:"fileReference"`
	OwnerReference  string `bson:"ownerReference" json:"ownerReference"`
	StemLabel       string `bson:"stemLabel" json:"stemLabel"`
	AnalysisVersion string `bson:"analysisVersion" json:"analysisVersion"`

	SampleRate      int     `bson:"sampleRate" json:"sampleRate"`
	DurationSeconds float64 `bson:"durationSeconds" json:"durationSeconds"`
	FrameSize       int     `bson:"frameSize" json:"frameSize"`

	FeatureSeries map[string][]float64 `bson:"featureSeries" json:"featureSeries"`
	Waveform      *waveform.Waveform   `bson:"waveform" json:"waveform"`

	// ExtractedFeatureNames duplicates the series keys so consumers can
	// inspect what was computed without decoding the full series
	ExtractedFeatureNames []string `bson:"extractedFeatureNames" json:"extractedFeatureNames"`

	AnalysisDurationMs int64     `bson:"analysisDurationMs" json:"analysisDurationMs"`
	CreatedAt          time.Time `bson:"createdAt" json:"createdAt"`
}

// guestOwnerPrefix marks transient identities. Guest work is ephemeral and
// client-local, so guest owners never have persisted records and cache
// lookups for them short-circuit.
const guestOwnerPrefix = "guest"

// IsGuestOwner reports whether the owner reference is a transient/guest
// identity
func IsGuestOwner(ownerReference string) bool {
	return strings.HasPrefix(ownerReference, guestOwnerPrefix)
}
