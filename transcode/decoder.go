package transcode

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"time"

	"github.com/stemwave/analysis/logging"
)

// DecodeError reports a transcoding or PCM-parsing failure. Callers must not
// retry automatically; the failure propagates to the job or record as failed.
type DecodeError struct {
	Stage string // "transcode" or "parse"
	Err   error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode failed at %s: %v", e.Stage, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// DecoderConfig holds decoder configuration
type DecoderConfig struct {
	TargetSampleRate int           `json:"target_sample_rate"`
	TargetChannels   int           `json:"target_channels"`
	FFmpegPath       string        `json:"ffmpeg_path"`
	Timeout          time.Duration `json:"timeout"`
}

// DefaultDecoderConfig returns default decoder configuration: 44.1kHz mono
// signed 16-bit PCM in a WAV container, which is what the feature extractor
// and waveform summarizer consume.
func DefaultDecoderConfig() *DecoderConfig {
	return &DecoderConfig{
		TargetSampleRate: 44100,
		TargetChannels:   1,
		FFmpegPath:       "ffmpeg",
		Timeout:          30 * time.Second,
	}
}

// Decoder converts arbitrary compressed/container audio buffers into a
// canonical PCM container using FFmpeg as a black-box transcoder.
type Decoder struct {
	config *DecoderConfig
}

// NewDecoder creates a new audio decoder
func NewDecoder(config *DecoderConfig) *Decoder {
	if config == nil {
		config = DefaultDecoderConfig()
	}
	return &Decoder{config: config}
}

// DecodeToPCM pipes the raw buffer through FFmpeg and returns a WAV-contained
// PCM buffer. Any transcoder failure, timeout included, surfaces as a
// DecodeError and no partial result is returned.
func (d *Decoder) DecodeToPCM(ctx context.Context, raw []byte) ([]byte, error) {
	logger := logging.WithFields(logging.Fields{
		"component": "pcm_decoder",
		"function":  "DecodeToPCM",
		"data_size": len(raw),
	})

	if len(raw) == 0 {
		return nil, &DecodeError{Stage: "transcode", Err: fmt.Errorf("empty audio buffer")}
	}

	if d.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.config.Timeout)
		defer cancel()
	}

	args := []string{
		"-v", "error",
		"-i", "pipe:0",
		"-vn",
		"-f", "wav",
		"-acodec", "pcm_s16le",
		"-ac", strconv.Itoa(d.config.TargetChannels),
		"-ar", strconv.Itoa(d.config.TargetSampleRate),
		"pipe:1",
	}

	cmd := exec.CommandContext(ctx, d.config.FFmpegPath, args...)
	cmd.Stdin = bytes.NewReader(raw)

	startTime := time.Now()
	output, err := cmd.Output()
	if err != nil {
		if exitError, ok := err.(*exec.ExitError); ok {
			logger.Error(err, "FFmpeg transcode failed", logging.Fields{
				"stderr": string(exitError.Stderr),
			})
			return nil, &DecodeError{
				Stage: "transcode",
				Err:   fmt.Errorf("ffmpeg: %w, stderr: %s", err, string(exitError.Stderr)),
			}
		}
		return nil, &DecodeError{Stage: "transcode", Err: fmt.Errorf("ffmpeg: %w", err)}
	}

	if len(output) == 0 {
		return nil, &DecodeError{Stage: "transcode", Err: fmt.Errorf("no PCM output produced")}
	}

	logger.Debug("FFmpeg transcode completed", logging.Fields{
		"output_bytes": len(output),
		"decode_time":  time.Since(startTime).Seconds(),
	})

	return output, nil
}

// SampleRate returns the decoder's configured output sample rate
func (d *Decoder) SampleRate() int {
	return d.config.TargetSampleRate
}

// ValidateConfig validates the decoder configuration and checks that the
// ffmpeg binary is reachable.
func (d *Decoder) ValidateConfig() error {
	if d.config.TargetSampleRate <= 0 {
		return fmt.Errorf("target sample rate must be positive: %d", d.config.TargetSampleRate)
	}

	if d.config.TargetChannels <= 0 || d.config.TargetChannels > 8 {
		return fmt.Errorf("target channels must be between 1 and 8: %d", d.config.TargetChannels)
	}

	if d.config.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive: %v", d.config.Timeout)
	}

	cmd := exec.Command(d.config.FFmpegPath, "-version")
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("ffmpeg not found at %s: %w", d.config.FFmpegPath, err)
	}

	return nil
}
