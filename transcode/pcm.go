package transcode

import (
	"encoding/binary"
	"fmt"
)

// Format describes the declared format chunk of a PCM container
type Format struct {
	AudioFormat   uint16
	Channels      uint16
	SampleRate    uint32
	BitsPerSample uint16
}

// Container is a parsed PCM (RIFF/WAVE) container: the declared format chunk
// plus the concatenated payload of every data chunk.
type Container struct {
	Format Format
	Data   []byte
}

const pcmFormatTag = 1 // linear PCM; anything else inside the container is a hard failure

// ParseContainer walks the RIFF chunk list incrementally: it reads the format
// chunk, then streams data chunks into one contiguous byte sequence. Unknown
// chunks are skipped. The stream is treated as a flat sequence of 16-bit
// words regardless of interleaving; true stereo decoding is out of scope.
func ParseContainer(pcm []byte) (*Container, error) {
	if len(pcm) < 12 {
		return nil, &DecodeError{Stage: "parse", Err: fmt.Errorf("buffer too short for RIFF header: %d bytes", len(pcm))}
	}

	if string(pcm[0:4]) != "RIFF" || string(pcm[8:12]) != "WAVE" {
		return nil, &DecodeError{Stage: "parse", Err: fmt.Errorf("not a RIFF/WAVE container")}
	}

	var (
		format    Format
		hasFormat bool
		data      []byte
	)

	offset := 12
	for offset+8 <= len(pcm) {
		chunkID := string(pcm[offset : offset+4])
		chunkSize := int(binary.LittleEndian.Uint32(pcm[offset+4 : offset+8]))
		body := offset + 8

		if chunkSize < 0 || body > len(pcm) {
			break
		}
		end := body + chunkSize
		if end > len(pcm) {
			// Truncated final chunk; take what is there
			end = len(pcm)
		}

		switch chunkID {
		case "fmt ":
			if end-body < 16 {
				return nil, &DecodeError{Stage: "parse", Err: fmt.Errorf("format chunk too short: %d bytes", end-body)}
			}
			format.AudioFormat = binary.LittleEndian.Uint16(pcm[body : body+2])
			format.Channels = binary.LittleEndian.Uint16(pcm[body+2 : body+4])
			format.SampleRate = binary.LittleEndian.Uint32(pcm[body+4 : body+8])
			format.BitsPerSample = binary.LittleEndian.Uint16(pcm[body+14 : body+16])
			if format.AudioFormat != pcmFormatTag {
				return nil, &DecodeError{Stage: "parse", Err: fmt.Errorf("unsupported codec tag in PCM container: %d", format.AudioFormat)}
			}
			hasFormat = true
		case "data":
			data = append(data, pcm[body:end]...)
		}

		// Chunks are word-aligned
		offset = body + chunkSize
		if chunkSize%2 == 1 {
			offset++
		}
	}

	if !hasFormat {
		return nil, &DecodeError{Stage: "parse", Err: fmt.Errorf("format chunk missing")}
	}
	if len(data) == 0 {
		return nil, &DecodeError{Stage: "parse", Err: fmt.Errorf("no data chunks in PCM container")}
	}

	return &Container{Format: format, Data: data}, nil
}

// Samples materializes the data payload as 16-bit signed little-endian
// samples. A trailing odd byte is dropped.
func (c *Container) Samples() []int16 {
	count := len(c.Data) / 2
	samples := make([]int16, count)
	for i := range count {
		samples[i] = int16(binary.LittleEndian.Uint16(c.Data[i*2 : i*2+2]))
	}
	return samples
}

// ReadPCMSamples parses a PCM container buffer and returns its typed sample
// sequence.
func ReadPCMSamples(pcm []byte) ([]int16, error) {
	container, err := ParseContainer(pcm)
	if err != nil {
		return nil, err
	}
	return container.Samples(), nil
}
