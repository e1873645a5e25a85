package audio

const (
	// InputSampleRate is the microphone capture rate expected by the live API.
	InputSampleRate = 16000
	// OutputSampleRate is the rate of synthesized speech returned by the live API.
	OutputSampleRate = 24000

	// CaptureFrameSamples is the number of mono samples per submitted capture frame.
	CaptureFrameSamples = 4096

	DefaultFormat = "linear16"
)

// InputMIMEType is the MIME type attached to every realtime input frame.
const InputMIMEType = "audio/pcm;rate=16000"

func GetInputEncodingInfo() EncodingInfo {
	return EncodingInfo{SampleRate: InputSampleRate, Format: encodingFormat(DefaultFormat)}
}

func GetOutputEncodingInfo() EncodingInfo {
	return EncodingInfo{SampleRate: OutputSampleRate, Format: encodingFormat(DefaultFormat)}
}

type EncodingInfo struct {
	SampleRate int
	Format     encodingFormat
}

func (e EncodingInfo) IsZero() bool {
	return e.SampleRate == 0 || e.Format.Name() == ""
}

func (e EncodingInfo) SilenceValue() byte {
	switch e.Format {
	case EncodingALaw:
		return 0x55
	case EncodingMulaw:
		return 0xFF
	case EncodingLinear16:
		return 0
	}

	return 0
}

type encodingFormat string

func (e encodingFormat) Name() string {
	return string(e)
}

func (e encodingFormat) ByteSize() int {
	switch e {
	case EncodingMulaw, EncodingALaw:
		return 1
	case EncodingLinear16:
		return 2
	}
	return -1
}

const (
	EncodingMulaw    encodingFormat = "mulaw"
	EncodingALaw     encodingFormat = "alaw"
	EncodingLinear16 encodingFormat = "linear16"
)
