package gemini

import (
	"encoding/json"
	"strings"

	"github.com/invopop/jsonschema"
	"github.com/koscakluka/vela-core/core/live"
)

// Client → server messages. Exactly one top-level field is set per frame.

type clientMessage struct {
	Setup         *setupMessage        `json:"setup,omitempty"`
	RealtimeInput *realtimeInput       `json:"realtimeInput,omitempty"`
	ToolResponse  *toolResponseMessage `json:"toolResponse,omitempty"`
}

type setupMessage struct {
	Model                    string            `json:"model"`
	GenerationConfig         *generationConfig `json:"generationConfig,omitempty"`
	SystemInstruction        *content          `json:"systemInstruction,omitempty"`
	Tools                    []wireTool        `json:"tools,omitempty"`
	InputAudioTranscription  *struct{}         `json:"inputAudioTranscription,omitempty"`
	OutputAudioTranscription *struct{}         `json:"outputAudioTranscription,omitempty"`
}

type generationConfig struct {
	ResponseModalities []string      `json:"responseModalities,omitempty"`
	SpeechConfig       *speechConfig `json:"speechConfig,omitempty"`
}

type speechConfig struct {
	VoiceConfig *voiceConfig `json:"voiceConfig,omitempty"`
}

type voiceConfig struct {
	PrebuiltVoiceConfig *prebuiltVoiceConfig `json:"prebuiltVoiceConfig,omitempty"`
}

type prebuiltVoiceConfig struct {
	VoiceName string `json:"voiceName"`
}

type content struct {
	Parts []part `json:"parts,omitempty"`
	Role  string `json:"role,omitempty"`
}

type part struct {
	Text       string `json:"text,omitempty"`
	InlineData *blob  `json:"inlineData,omitempty"`
}

type blob struct {
	MIMEType string `json:"mimeType"`
	Data     string `json:"data"`
}

type realtimeInput struct {
	MediaChunks []blob `json:"mediaChunks"`
}

type wireTool struct {
	FunctionDeclarations []functionDeclaration `json:"functionDeclarations"`
}

type functionDeclaration struct {
	Name        string             `json:"name"`
	Description string             `json:"description,omitempty"`
	Parameters  *jsonschema.Schema `json:"parameters,omitempty"`
}

type toolResponseMessage struct {
	FunctionResponses []functionResponse `json:"functionResponses"`
}

type functionResponse struct {
	ID       string `json:"id,omitempty"`
	Name     string `json:"name"`
	Response any    `json:"response,omitempty"`
}

// Server → client messages.

type serverMessage struct {
	SetupComplete *struct{}       `json:"setupComplete,omitempty"`
	ServerContent *serverContent  `json:"serverContent,omitempty"`
	ToolCall      *toolCall       `json:"toolCall,omitempty"`
	GoAway        *goAway         `json:"goAway,omitempty"`
	UsageMetadata json.RawMessage `json:"usageMetadata,omitempty"`
}

type serverContent struct {
	ModelTurn           *content       `json:"modelTurn,omitempty"`
	TurnComplete        bool           `json:"turnComplete,omitempty"`
	Interrupted         bool           `json:"interrupted,omitempty"`
	InputTranscription  *transcription `json:"inputTranscription,omitempty"`
	OutputTranscription *transcription `json:"outputTranscription,omitempty"`
}

type transcription struct {
	Text string `json:"text"`
}

type toolCall struct {
	FunctionCalls []wireFunctionCall `json:"functionCalls"`
}

type wireFunctionCall struct {
	ID   string          `json:"id,omitempty"`
	Name string          `json:"name"`
	Args json.RawMessage `json:"args,omitempty"`
}

type goAway struct {
	TimeLeft string `json:"timeLeft,omitempty"`
}

// toServerMessage translates wire server content into the transport-agnostic
// shape consumed by the orchestration core.
func (m *serverContent) toServerMessage() live.ServerMessage {
	message := live.ServerMessage{
		TurnComplete: m.TurnComplete,
		Interrupted:  m.Interrupted,
	}

	if m.InputTranscription != nil {
		message.InputTranscription = &live.Transcription{Text: m.InputTranscription.Text}
	}
	if m.OutputTranscription != nil {
		message.OutputTranscription = &live.Transcription{Text: m.OutputTranscription.Text}
	}
	if m.ModelTurn != nil {
		turn := &live.ModelTurn{}
		for _, wirePart := range m.ModelTurn.Parts {
			if wirePart.InlineData == nil {
				continue
			}
			turn.Parts = append(turn.Parts, live.Part{
				InlineData: &live.Blob{
					MIMEType: wirePart.InlineData.MIMEType,
					Data:     wirePart.InlineData.Data,
				},
			})
		}
		message.ModelTurn = turn
	}

	return message
}

func (c *toolCall) toFunctionCalls() []live.FunctionCall {
	calls := make([]live.FunctionCall, 0, len(c.FunctionCalls))
	for _, call := range c.FunctionCalls {
		calls = append(calls, live.FunctionCall{ID: call.ID, Name: call.Name, Args: call.Args})
	}
	return calls
}

// toWireTools derives function declarations, reflecting parameter schemas out
// of the declared parameter structs.
func toWireTools(tools []live.Tool) []wireTool {
	if len(tools) == 0 {
		return nil
	}

	reflector := jsonschema.Reflector{DoNotReference: true}
	declarations := make([]functionDeclaration, 0, len(tools))
	for _, tool := range tools {
		declaration := functionDeclaration{
			Name:        tool.Name,
			Description: tool.Description,
		}
		if tool.Parameters != nil {
			schema := reflector.Reflect(tool.Parameters)
			schema.Version = ""
			declaration.Parameters = schema
		}
		declarations = append(declarations, declaration)
	}

	return []wireTool{{FunctionDeclarations: declarations}}
}

// qualifiedModel normalizes bare model names to the wire's models/ prefix.
func qualifiedModel(model string) string {
	if strings.HasPrefix(model, "models/") {
		return model
	}
	return "models/" + model
}
