package audio

import (
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"time"
)

// DecodeError reports a transport payload that could not be interpreted as
// audio. It wraps the underlying cause when one exists.
type DecodeError struct {
	Reason string
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("audio decode failed: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("audio decode failed: %s", e.Reason)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// EncodeTransport converts a raw byte buffer into the text-safe encoding used
// on the live session wire. Round-trips exactly with [DecodeTransport].
func EncodeTransport(data []byte) string {
	return base64.StdEncoding.EncodeToString(data)
}

// DecodeTransport is the inverse of [EncodeTransport].
func DecodeTransport(data string) ([]byte, error) {
	decoded, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return nil, &DecodeError{Reason: "malformed transport encoding", Err: err}
	}
	return decoded, nil
}

// Buffer is a decoded, playable chunk of audio. Samples are interleaved by
// channel and normalized to [-1, 1].
type Buffer struct {
	Samples    []float32
	SampleRate int
	Channels   int
}

// Duration is the playback length of the buffer at its sample rate.
func (b *Buffer) Duration() time.Duration {
	if b == nil || b.SampleRate <= 0 || b.Channels <= 0 {
		return 0
	}

	frames := len(b.Samples) / b.Channels
	return time.Duration(frames) * time.Second / time.Duration(b.SampleRate)
}

// DecodeAudioData interprets raw little-endian 16-bit PCM as normalized
// floating-point audio at the given sample rate and channel count. A sample
// value s maps to s / 32768.0.
func DecodeAudioData(data []byte, sampleRate int, channels int) (*Buffer, error) {
	if sampleRate <= 0 {
		return nil, &DecodeError{Reason: fmt.Sprintf("invalid sample rate %d", sampleRate)}
	}
	if channels <= 0 {
		return nil, &DecodeError{Reason: fmt.Sprintf("invalid channel count %d", channels)}
	}

	sampleWidth := EncodingLinear16.ByteSize() * channels
	if len(data)%sampleWidth != 0 {
		return nil, &DecodeError{
			Reason: fmt.Sprintf("payload length %d is not a multiple of the %d-byte frame width", len(data), sampleWidth),
		}
	}

	samples := make([]float32, len(data)/EncodingLinear16.ByteSize())
	for i := range samples {
		sample := int16(binary.LittleEndian.Uint16(data[i*2:]))
		samples[i] = float32(sample) / 32768.0
	}

	return &Buffer{Samples: samples, SampleRate: sampleRate, Channels: channels}, nil
}

// PCM16FromFloat32 scales normalized samples by 32768 and packs the truncated
// 16-bit values little-endian. No dithering; out-of-range values saturate at
// the int16 bounds, so 1.0 lands on 32767.
func PCM16FromFloat32(samples []float32) []byte {
	data := make([]byte, len(samples)*2)
	for i, sample := range samples {
		scaled := sample * 32768.0
		value := int16(scaled)
		if scaled >= 32767.0 {
			value = 32767
		} else if scaled < -32768.0 {
			value = -32768
		}
		binary.LittleEndian.PutUint16(data[i*2:], uint16(value))
	}
	return data
}

// SampleCount is the number of s16 samples held in a raw byte buffer.
func SampleCount(pcm []byte) int {
	return len(pcm) / EncodingLinear16.ByteSize()
}

// PCMDuration is the playback length of raw s16 mono audio at the given rate.
func PCMDuration(pcm []byte, encoding EncodingInfo) time.Duration {
	if encoding.IsZero() {
		return 0
	}

	frames := len(pcm) / encoding.Format.ByteSize()
	return time.Duration(frames) * time.Second / time.Duration(encoding.SampleRate)
}
