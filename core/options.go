package orchestration

import (
	"github.com/koscakluka/vela-core/core/events"
	"github.com/koscakluka/vela-core/core/live"
)

type OrchestratorOption func(*Orchestrator)

// WithLiveClient sets the client used to open live dialog sessions. Without
// one the orchestrator fails to start.
func WithLiveClient(client live.Client) OrchestratorOption {
	return func(o *Orchestrator) {
		o.liveClient = client
	}
}

// WithAudioInput sets the capture device client.
func WithAudioInput(client AudioInput) OrchestratorOption {
	return func(o *Orchestrator) { o.audioInput.Set(client) }
}

// WithAudioOutput sets the playback device client.
func WithAudioOutput(client AudioOutput) OrchestratorOption {
	return func(o *Orchestrator) {
		o.audioOutput = newAudioOutput(client)
		o.speechPlayer = newSpeechPlayer(o.audioOutput, o.audioOutput.Elapsed, o.onPayloadEnded)
	}
}

// WithModel overrides the live service model identifier.
func WithModel(model string) OrchestratorOption {
	return func(o *Orchestrator) { o.sessionConfig.Model = model }
}

// WithSystemInstruction sets the fixed system instruction for the session.
func WithSystemInstruction(instruction string) OrchestratorOption {
	return func(o *Orchestrator) { o.sessionConfig.SystemInstruction = instruction }
}

// WithVoice sets the prebuilt voice used for synthesized speech.
func WithVoice(voice string) OrchestratorOption {
	return func(o *Orchestrator) { o.sessionConfig.Voice = voice }
}

// WithTools declares functions the service may ask the client to execute.
func WithTools(tools ...live.Tool) OrchestratorOption {
	return func(o *Orchestrator) { o.sessionConfig.Tools = tools }
}

// OnStatusChange is called whenever the orchestrator status transitions.
func OnStatusChange(callback func(status Status)) OrchestratorOption {
	return func(o *Orchestrator) {
		if callback != nil {
			o.callbacks.onStatusChange = callback
		}
	}
}

// OnMessage is called once per message appended to the conversation log.
func OnMessage(callback func(message Message)) OrchestratorOption {
	return func(o *Orchestrator) {
		if callback != nil {
			o.callbacks.onMessage = callback
		}
	}
}

// OnError is called with a user-facing description when the session enters
// the error status.
func OnError(callback func(message string)) OrchestratorOption {
	return func(o *Orchestrator) {
		if callback != nil {
			o.callbacks.onError = callback
		}
	}
}

// OnToolCall is called when the service requests execution of a declared
// tool. Respond through [Orchestrator.SendToolResponses].
func OnToolCall(callback func(call events.ToolCallRequested)) OrchestratorOption {
	return func(o *Orchestrator) {
		if callback != nil {
			o.callbacks.onToolCall = callback
		}
	}
}

type orchestratorCallbacks struct {
	onStatusChange func(status Status)
	onMessage      func(message Message)
	onError        func(message string)
	onToolCall     func(call events.ToolCallRequested)
}

func defaultCallbacks() orchestratorCallbacks {
	return orchestratorCallbacks{
		onStatusChange: func(Status) {},
		onMessage:      func(Message) {},
		onError:        func(string) {},
		onToolCall:     func(events.ToolCallRequested) {},
	}
}
