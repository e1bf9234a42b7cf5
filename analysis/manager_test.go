package analysis

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stemwave/analysis/extract"
)

// passthroughDecoder treats the input buffer as already-decoded PCM
type passthroughDecoder struct{}

func (passthroughDecoder) DecodeToPCM(ctx context.Context, raw []byte) ([]byte, error) {
	return raw, nil
}

// failingDecoder simulates an undecodable input
type failingDecoder struct{}

func (failingDecoder) DecodeToPCM(ctx context.Context, raw []byte) ([]byte, error) {
	return nil, errors.New("corrupt stream")
}

func makeWAV(t *testing.T, sampleRate int, samples []int16) []byte {
	t.Helper()

	data := new(bytes.Buffer)
	require.NoError(t, binary.Write(data, binary.LittleEndian, samples))

	buf := new(bytes.Buffer)
	buf.WriteString("RIFF")
	binary.Write(buf, binary.LittleEndian, uint32(36+data.Len()))
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	binary.Write(buf, binary.LittleEndian, uint32(16))
	binary.Write(buf, binary.LittleEndian, uint16(1))
	binary.Write(buf, binary.LittleEndian, uint16(1))
	binary.Write(buf, binary.LittleEndian, uint32(sampleRate))
	binary.Write(buf, binary.LittleEndian, uint32(sampleRate*2))
	binary.Write(buf, binary.LittleEndian, uint16(2))
	binary.Write(buf, binary.LittleEndian, uint16(16))

	buf.WriteString("data")
	binary.Write(buf, binary.LittleEndian, uint32(data.Len()))
	buf.Write(data.Bytes())

	return buf.Bytes()
}

func silenceWAV(t *testing.T, seconds int) []byte {
	t.Helper()
	return makeWAV(t, extract.SampleRate, make([]int16, seconds*extract.SampleRate))
}

func TestAnalyzeAndCacheSilence(t *testing.T) {
	store := NewMemoryStore()
	m := NewManager(passthroughDecoder{}, store)

	rec, err := m.AnalyzeAndCache(context.Background(), "file-1", "user-1", "master", silenceWAV(t, 2))
	require.NoError(t, err)
	require.NotNil(t, rec)

	assert.NotEmpty(t, rec.ID)
	assert.Equal(t, "file-1", rec.FileReference)
	assert.Equal(t, "user-1", rec.OwnerReference)
	assert.Equal(t, "master", rec.StemLabel)
	assert.Equal(t, VersionServer, rec.AnalysisVersion)
	assert.Equal(t, extract.SampleRate, rec.SampleRate)
	assert.Equal(t, extract.HopLength, rec.FrameSize)
	assert.InDelta(t, 2.0, rec.DurationSeconds, 1e-9)
	assert.False(t, rec.CreatedAt.IsZero())
	assert.GreaterOrEqual(t, rec.AnalysisDurationMs, int64(0))

	require.Len(t, rec.ExtractedFeatureNames, len(extract.FeatureNames()))
	assert.Equal(t, extract.FeatureNames(), rec.ExtractedFeatureNames)

	// Silence carries zero energy end to end
	for _, v := range rec.FeatureSeries["rms"] {
		assert.Zero(t, v)
	}
	require.NotNil(t, rec.Waveform)
	assert.False(t, rec.Waveform.Synthetic)
	for _, p := range rec.Waveform.Points {
		assert.Zero(t, p)
	}

	// The record landed in the store
	got, err := store.Latest(context.Background(), Query{FileReference: "file-1"})
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, rec.ID, got.ID)
}

func TestAnalyzeAndCacheDecodeFailure(t *testing.T) {
	store := NewMemoryStore()
	m := NewManager(failingDecoder{}, store)

	rec, err := m.AnalyzeAndCache(context.Background(), "file-1", "user-1", "master", []byte{1, 2, 3})
	require.Error(t, err)
	assert.Nil(t, rec)

	// Nothing persisted on failure
	got, err := store.Latest(context.Background(), Query{FileReference: "file-1"})
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestGetCachedGuestOwner(t *testing.T) {
	store := NewMemoryStore()
	m := NewManager(passthroughDecoder{}, store)

	require.NoError(t, store.Insert(context.Background(), &Record{
		FileReference:  "file-1",
		OwnerReference: "guest-abc",
		StemLabel:      "master",
		CreatedAt:      time.Now(),
	}))

	rec, err := m.GetCached(context.Background(), "file-1", "guest-abc", "master")
	require.NoError(t, err)
	assert.Nil(t, rec)

	batch, err := m.GetBatchCached(context.Background(), []string{"file-1"}, "guest-abc", "master")
	require.NoError(t, err)
	require.NotNil(t, batch)
	assert.Empty(t, batch)
}

func TestGetCachedMostRecentWins(t *testing.T) {
	store := NewMemoryStore()
	m := NewManager(passthroughDecoder{}, store)
	ctx := context.Background()

	older := &Record{
		FileReference:  "file-1",
		OwnerReference: "user-1",
		StemLabel:      "master",
		CreatedAt:      time.Now().Add(-time.Hour),
	}
	newer := &Record{
		FileReference:  "file-1",
		OwnerReference: "user-1",
		StemLabel:      "master",
		CreatedAt:      time.Now(),
	}
	require.NoError(t, store.Insert(ctx, older))
	require.NoError(t, store.Insert(ctx, newer))

	got, err := m.GetCached(ctx, "file-1", "user-1", "master")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, newer.ID, got.ID)
}

func TestGetBatchCachedSkipsMissing(t *testing.T) {
	store := NewMemoryStore()
	m := NewManager(passthroughDecoder{}, store)
	ctx := context.Background()

	require.NoError(t, store.Insert(ctx, &Record{
		FileReference:  "file-b",
		OwnerReference: "user-1",
		StemLabel:      "master",
		CreatedAt:      time.Now(),
	}))

	batch, err := m.GetBatchCached(ctx, []string{"file-a", "file-b", "file-c"}, "user-1", "master")
	require.NoError(t, err)
	require.Len(t, batch, 1)
	assert.Equal(t, "file-b", batch[0].FileReference)
}

func TestEnsureAnalyzedComputesOnce(t *testing.T) {
	store := NewMemoryStore()
	m := NewManager(passthroughDecoder{}, store)
	ctx := context.Background()
	audio := silenceWAV(t, 1)

	first, computed, err := m.EnsureAnalyzed(ctx, "file-1", "user-1", "master", VersionServer, audio)
	require.NoError(t, err)
	require.NotNil(t, first)
	assert.True(t, computed)

	second, computed, err := m.EnsureAnalyzed(ctx, "file-1", "user-2", "master", VersionServer, audio)
	require.NoError(t, err)
	require.NotNil(t, second)
	assert.False(t, computed)
	assert.Equal(t, first.ID, second.ID)
}

func TestIsGuestOwner(t *testing.T) {
	assert.True(t, IsGuestOwner("guest"))
	assert.True(t, IsGuestOwner("guest-12345"))
	assert.False(t, IsGuestOwner("user-guest"))
	assert.False(t, IsGuestOwner(""))
}

func TestQueryMatches(t *testing.T) {
	rec := &Record{
		FileReference:   "file-1",
		OwnerReference:  "user-1",
		StemLabel:       "vocals",
		AnalysisVersion: VersionServer,
	}

	assert.True(t, Query{}.Matches(rec))
	assert.True(t, Query{FileReference: "file-1", StemLabel: "vocals"}.Matches(rec))
	assert.False(t, Query{FileReference: "file-2"}.Matches(rec))
	assert.False(t, Query{AnalysisVersion: VersionClient}.Matches(rec))
}
