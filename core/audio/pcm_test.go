package audio

import (
	"bytes"
	"errors"
	"math"
	"testing"
	"time"
)

func TestTransportEncodingRoundTrips(t *testing.T) {
	testCases := []struct {
		name string
		data []byte
	}{
		{name: "empty", data: []byte{}},
		{name: "single byte", data: []byte{0x7f}},
		{name: "pcm frame", data: []byte{0x00, 0x80, 0xff, 0x7f, 0x01, 0x00}},
		{name: "all byte values", data: func() []byte {
			data := make([]byte, 256)
			for i := range data {
				data[i] = byte(i)
			}
			return data
		}()},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			decoded, err := DecodeTransport(EncodeTransport(testCase.data))
			if err != nil {
				t.Fatalf("expected round trip to succeed, got %v", err)
			}
			if !bytes.Equal(decoded, testCase.data) {
				t.Fatalf("expected round trip to preserve bytes, got %v want %v", decoded, testCase.data)
			}
		})
	}
}

func TestDecodeTransportRejectsMalformedInput(t *testing.T) {
	_, err := DecodeTransport("not base64!!!")
	if err == nil {
		t.Fatalf("expected malformed transport input to fail decoding")
	}

	var decodeErr *DecodeError
	if !errors.As(err, &decodeErr) {
		t.Fatalf("expected a DecodeError, got %T: %v", err, err)
	}
}

func TestDecodeAudioDataNormalizesSamples(t *testing.T) {
	// -32768, 0, 16384, 32767 little-endian.
	data := []byte{0x00, 0x80, 0x00, 0x00, 0x00, 0x40, 0xff, 0x7f}

	buffer, err := DecodeAudioData(data, OutputSampleRate, 1)
	if err != nil {
		t.Fatalf("expected decode to succeed, got %v", err)
	}

	expected := []float32{-1.0, 0.0, 0.5, 32767.0 / 32768.0}
	if len(buffer.Samples) != len(expected) {
		t.Fatalf("expected %d samples, got %d", len(expected), len(buffer.Samples))
	}
	for i, sample := range buffer.Samples {
		if math.Abs(float64(sample-expected[i])) > 1e-6 {
			t.Fatalf("expected sample %d to be %f, got %f", i, expected[i], sample)
		}
	}
}

func TestDecodeAudioDataRejectsOddLengthPayloads(t *testing.T) {
	_, err := DecodeAudioData([]byte{0x00, 0x01, 0x02}, OutputSampleRate, 1)
	if err == nil {
		t.Fatalf("expected odd-length payload to fail decoding")
	}

	var decodeErr *DecodeError
	if !errors.As(err, &decodeErr) {
		t.Fatalf("expected a DecodeError, got %T: %v", err, err)
	}
}

func TestDecodeAudioDataRejectsPartialFrames(t *testing.T) {
	// Six bytes is three mono samples but only one and a half stereo frames.
	if _, err := DecodeAudioData(make([]byte, 6), OutputSampleRate, 2); err == nil {
		t.Fatalf("expected partial stereo frame to fail decoding")
	}
}

func TestBufferDuration(t *testing.T) {
	buffer := &Buffer{Samples: make([]float32, OutputSampleRate/2), SampleRate: OutputSampleRate, Channels: 1}
	if got := buffer.Duration(); got != 500*time.Millisecond {
		t.Fatalf("expected half a second of audio, got %v", got)
	}
}

func TestPCM16FromFloat32FullScaleTruncation(t *testing.T) {
	data := PCM16FromFloat32([]float32{1.0})
	if got := int16(uint16(data[0]) | uint16(data[1])<<8); got != 32767 {
		t.Fatalf("expected full-scale sample to encode to 32767, got %d", got)
	}
}

func TestPCM16FromFloat32RoundTripsThroughDecode(t *testing.T) {
	samples := []float32{-1.0, -0.5, 0.0, 0.25, 0.5}

	buffer, err := DecodeAudioData(PCM16FromFloat32(samples), InputSampleRate, 1)
	if err != nil {
		t.Fatalf("expected decode to succeed, got %v", err)
	}

	for i, sample := range buffer.Samples {
		if math.Abs(float64(sample-samples[i])) > 1e-4 {
			t.Fatalf("expected sample %d near %f, got %f", i, samples[i], sample)
		}
	}
}

func TestPCMDuration(t *testing.T) {
	pcm := make([]byte, OutputSampleRate*2) // one second of s16 mono
	if got := PCMDuration(pcm, GetOutputEncodingInfo()); got != time.Second {
		t.Fatalf("expected one second of audio, got %v", got)
	}

	if got := PCMDuration(pcm, EncodingInfo{}); got != 0 {
		t.Fatalf("expected zero duration for zero encoding, got %v", got)
	}
}
