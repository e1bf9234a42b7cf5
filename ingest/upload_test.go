package ingest

import (
	"bytes"
	"context"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stemwave/analysis/analysis"
	"github.com/stemwave/analysis/extract"
)

func silenceWAV(t *testing.T) []byte {
	t.Helper()

	samples := make([]int16, extract.SampleRate/2)
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
	binary.Write(buf, binary.LittleEndian, uint32(extract.SampleRate))
	binary.Write(buf, binary.LittleEndian, uint32(extract.SampleRate*2))
	binary.Write(buf, binary.LittleEndian, uint16(2))
	binary.Write(buf, binary.LittleEndian, uint16(16))
	buf.WriteString("data")
	binary.Write(buf, binary.LittleEndian, uint32(data.Len()))
	buf.Write(data.Bytes())

	return buf.Bytes()
}

func TestProcessUploadComputesOnce(t *testing.T) {
	manager, store := newTestManager()
	s := NewUploadService(manager)
	ctx := context.Background()
	audio := silenceWAV(t)

	first, err := s.ProcessUpload(ctx, "file-1", "user-1", "master", audio)
	require.NoError(t, err)
	require.NotNil(t, first)
	assert.Equal(t, analysis.VersionServer, first.AnalysisVersion)

	second, err := s.ProcessUpload(ctx, "file-1", "user-2", "master", audio)
	require.NoError(t, err)
	require.NotNil(t, second)
	assert.Equal(t, first.ID, second.ID)

	// A different stem of the same file is analyzed separately
	other, err := s.ProcessUpload(ctx, "file-1", "user-1", "vocals", audio)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, other.ID)

	batch, err := store.LatestBatch(ctx, []string{"file-1"}, analysis.Query{StemLabel: "master"})
	require.NoError(t, err)
	require.Len(t, batch, 1)
}
