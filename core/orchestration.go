// Package orchestration drives a voice conversation against a hosted live
// dialog service: it streams microphone frames into the session, schedules
// synthesized speech for gapless playback, and folds streamed transcription
// fragments into a turn-based conversation log.
package orchestration

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/koscakluka/vela-core/core/audio"
	"github.com/koscakluka/vela-core/core/events"
	"github.com/koscakluka/vela-core/core/live"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type Orchestrator struct {
	// lifecycleMu serializes Start against resource release, so a release
	// spawned for an older session can never interleave with a newer
	// session's startup.
	lifecycleMu sync.Mutex

	mu sync.Mutex
	// session and runtime are non-nil exactly while a session is active.
	// Teardown nulls them under mu before awaiting their completion.
	session live.Session
	runtime *conversationRuntime
	// generation increments on every Start. The capture device and playback
	// pipeline are shared across sessions; only the generation that still
	// owns them may release them.
	generation uint64

	statusMu  sync.RWMutex
	status    Status
	lastError string

	liveClient live.Client

	conversation *activeConversation
	// audioInput is the input facade used to normalize capture behavior.
	audioInput *audioInput
	// audioOutput is the facade that normalizes output audio delivery.
	audioOutput *audioOutput
	// speechPlayer schedules assistant audio and tracks active payloads.
	speechPlayer *speechPlayer

	sessionConfig live.SessionConfig
	callbacks     orchestratorCallbacks
	baseContext   context.Context
}

func NewOrchestrator(opts ...OrchestratorOption) *Orchestrator {
	o := &Orchestrator{
		status:       StatusIdle,
		conversation: newConversation(),
		callbacks:    defaultCallbacks(),
		baseContext:  context.Background(),
	}

	o.audioInput = newAudioInput(nil, o.submitFrame)
	o.audioOutput = newAudioOutput(nil)
	o.speechPlayer = newSpeechPlayer(o.audioOutput, o.audioOutput.Elapsed, o.onPayloadEnded)

	for _, opt := range opts {
		opt(o)
	}

	return o
}

// Start establishes a live session: it acquires the microphone, resets the
// playback pipeline, and opens the session with the configured model, system
// instruction, and voice. Streaming begins once the session reports open.
// No-op when a session is already active.
func (o *Orchestrator) Start(ctx context.Context) error {
	o.lifecycleMu.Lock()
	defer o.lifecycleMu.Unlock()

	o.mu.Lock()
	if o.runtime != nil {
		o.mu.Unlock()
		return nil
	}

	o.clearError()
	o.setStatus(StatusThinking)
	o.baseContext = ctx
	o.generation++

	var runtime *conversationRuntime
	runtime = newConversationRuntime(ctx, func(event events.Event) {
		o.processEvent(runtime, event)
	})
	o.runtime = runtime
	runtime.start()
	o.mu.Unlock()

	// Cursor back to zero before any payload of the new session arrives.
	o.speechPlayer.Interrupt()

	if err := o.audioInput.StartCapture(); err != nil {
		failErr := fmt.Errorf("failed to acquire microphone: %w", err)
		o.fail("Microphone access was denied or the device is unavailable.", failErr)
		return failErr
	}

	if o.liveClient == nil {
		failErr := fmt.Errorf("no live client configured")
		o.fail("No conversation service is configured.", failErr)
		return failErr
	}

	session, err := o.liveClient.Connect(ctx, o.sessionConfig, live.Callbacks{
		OnOpen:    func() { runtime.enqueue(events.NewSessionOpened()) },
		OnMessage: func(message live.ServerMessage) { o.enqueueServerMessage(runtime, message) },
		OnError:   func(err error) { runtime.enqueue(events.NewSessionFault(err)) },
		OnClose:   func(err error) { runtime.enqueue(events.NewSessionClosed(err)) },
	})
	if err != nil {
		failErr := fmt.Errorf("failed to open live session: %w", err)
		o.fail("Could not reach the conversation service.", failErr)
		return failErr
	}

	o.mu.Lock()
	if o.runtime != runtime {
		// Torn down while the handshake was in flight.
		o.mu.Unlock()
		_ = session.Close()
		return nil
	}
	o.session = session
	o.mu.Unlock()

	return nil
}

// Stop ends the active session and releases every resource. Idempotent:
// safe to call repeatedly, and with no session ever started.
func (o *Orchestrator) Stop() {
	o.setStatus(StatusIdle)
	o.teardown()
}

// Toggle is the single external control surface: it starts a session from
// idle or error, and stops it otherwise.
func (o *Orchestrator) Toggle(ctx context.Context) {
	switch o.Status() {
	case StatusIdle, StatusError:
		if err := o.Start(ctx); err != nil {
			span := trace.SpanFromContext(o.baseContext)
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
	default:
		o.Stop()
	}
}

// teardown detaches the active session and runtime and releases every
// resource they held.
func (o *Orchestrator) teardown() {
	generation, session, runtime := o.detach()
	o.release(generation, session, runtime)
}

// detach takes ownership of the active session and runtime. Handles are
// nulled under mu before their close is awaited so a deferred completion
// arriving mid-teardown cannot touch a half-released resource.
func (o *Orchestrator) detach() (generation uint64, session live.Session, runtime *conversationRuntime) {
	o.mu.Lock()
	defer o.mu.Unlock()

	session = o.session
	o.session = nil
	runtime = o.runtime
	o.runtime = nil
	return o.generation, session, runtime
}

// release ends a detached runtime and closes its session. The shared capture
// and playback facades are only released while their generation is still the
// current one: a release that lost the race to a newer Start must not stop
// the new session's microphone stream or reset its playback cursor.
func (o *Orchestrator) release(generation uint64, session live.Session, runtime *conversationRuntime) {
	o.lifecycleMu.Lock()
	defer o.lifecycleMu.Unlock()

	if runtime != nil {
		runtime.end()
	}

	if o.currentGeneration() == generation {
		if err := o.audioInput.StopCapture(); err != nil {
			recordedErr := fmt.Errorf("failed to stop audio capture: %w", err)
			span := trace.SpanFromContext(o.baseContext)
			span.RecordError(recordedErr)
			span.SetStatus(codes.Error, recordedErr.Error())
		}

		o.speechPlayer.Interrupt()
	}

	if session != nil {
		if err := session.Close(); err != nil {
			recordedErr := fmt.Errorf("failed to close live session: %w", err)
			span := trace.SpanFromContext(o.baseContext)
			span.RecordError(recordedErr)
			span.SetStatus(codes.Error, recordedErr.Error())
		}
	}

	if runtime != nil {
		runtime.waitUntilEnded()
	}
}

// fail records a user-facing error, enters the error status, and tears the
// session down. The failing session is detached immediately so a subsequent
// Start can proceed; its resources are released off the calling goroutine
// because fail is reachable from the runtime consumer itself.
func (o *Orchestrator) fail(userMessage string, err error) {
	span := trace.SpanFromContext(o.baseContext)
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())

	// Detach before the error status is visible, so a restart prompted by
	// observing the error always finds the failed session already gone.
	generation, session, runtime := o.detach()

	o.statusMu.Lock()
	o.lastError = userMessage
	o.statusMu.Unlock()

	o.setStatus(StatusError)
	o.callbacks.onError(userMessage)

	go o.release(generation, session, runtime)
}

func (o *Orchestrator) clearError() {
	o.statusMu.Lock()
	o.lastError = ""
	o.statusMu.Unlock()
}

// Status returns the current assistant status.
func (o *Orchestrator) Status() Status {
	o.statusMu.RLock()
	defer o.statusMu.RUnlock()
	return o.status
}

// LastError returns the user-facing message for the most recent failure, or
// an empty string.
func (o *Orchestrator) LastError() string {
	o.statusMu.RLock()
	defer o.statusMu.RUnlock()
	return o.lastError
}

// Messages returns a point-in-time copy of the conversation log.
func (o *Orchestrator) Messages() []Message {
	return o.conversation.Messages()
}

// PendingTranscripts returns the in-flight transcription accumulators for
// interim display.
func (o *Orchestrator) PendingTranscripts() (user, assistant string) {
	return o.conversation.PendingTranscripts()
}

// SendToolResponses returns tool results to the service for a previously
// requested call.
func (o *Orchestrator) SendToolResponses(responses ...live.FunctionResponse) error {
	session := o.currentSession()
	if session == nil {
		return fmt.Errorf("no active live session")
	}
	return session.SendToolResponse(responses...)
}

func (o *Orchestrator) setStatus(status Status) {
	o.statusMu.Lock()
	changed := o.status != status
	o.status = status
	o.statusMu.Unlock()

	if changed {
		o.callbacks.onStatusChange(status)
	}
}

func (o *Orchestrator) currentSession() live.Session {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.session
}

func (o *Orchestrator) currentRuntime() *conversationRuntime {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.runtime
}

func (o *Orchestrator) currentGeneration() uint64 {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.generation
}

// submitFrame forwards one complete capture frame to the session.
// Fire-and-forget: a failed frame is logged, never retried, and never blocks
// the frames behind it. Frames produced before the session opens are dropped.
func (o *Orchestrator) submitFrame(frame []byte) {
	session := o.currentSession()
	if session == nil {
		return
	}

	if err := session.SendRealtimeAudio(audio.InputMIMEType, frame); err != nil {
		logger.Warn("Failed to submit capture frame", "error", err)
	}
}

// onPayloadEnded runs on the playback device callback; it reposts the
// completion onto the runtime so state changes stay on the consumer.
func (o *Orchestrator) onPayloadEnded(handleID string) {
	if runtime := o.currentRuntime(); runtime != nil {
		runtime.enqueue(events.NewAssistantPlaybackEnded(handleID))
	}
}

// enqueueServerMessage translates one wire message into runtime events.
// A single message may carry several aspects; they are posted in pipeline
// order with turn completion last.
func (o *Orchestrator) enqueueServerMessage(runtime *conversationRuntime, message live.ServerMessage) {
	if message.InputTranscription != nil {
		runtime.enqueue(events.NewUserTranscriptFragment(message.InputTranscription.Text))
	}
	if message.OutputTranscription != nil {
		runtime.enqueue(events.NewAssistantTranscriptFragment(message.OutputTranscription.Text))
	}
	if message.ToolCall != nil {
		for _, call := range message.ToolCall.FunctionCalls {
			runtime.enqueue(events.NewToolCallRequested(call.ID, call.Name, string(call.Args)))
		}
	}
	if message.ModelTurn != nil {
		for _, turnPart := range message.ModelTurn.Parts {
			inlineData := turnPart.InlineData
			if inlineData == nil || !strings.HasPrefix(inlineData.MIMEType, "audio/pcm") {
				continue
			}

			pcm, err := audio.DecodeTransport(inlineData.Data)
			if err != nil {
				// Logged drop: one corrupt payload must not end the session.
				logger.Warn("Dropping undecodable audio payload", "error", err)
				continue
			}
			runtime.enqueue(events.NewAssistantAudioPayload(pcm))
		}
	}
	if message.Interrupted {
		runtime.enqueue(events.NewInterrupted())
	}
	if message.TurnComplete {
		runtime.enqueue(events.NewTurnCompleted())
	}
}

// processEvent is the single consumer for all session and device events.
// Events queued on a runtime that has since been detached are dropped: a
// fault or closure left over from an ended session must not disturb its
// successor.
func (o *Orchestrator) processEvent(runtime *conversationRuntime, event events.Event) {
	if o.currentRuntime() != runtime {
		return
	}

	switch event := event.(type) {
	case events.SessionOpened:
		o.setStatus(StatusListening)

	case events.UserTranscriptFragment:
		o.conversation.AppendUserFragment(event.Text)

	case events.AssistantTranscriptFragment:
		o.conversation.AppendAssistantFragment(event.Text)

	case events.AssistantAudioPayload:
		if _, err := o.speechPlayer.Schedule(event.Audio); err != nil {
			// Logged drop, same policy as transport decoding.
			logger.Warn("Dropping unschedulable audio payload", "error", err)
			return
		}
		o.setStatus(StatusSpeaking)

	case events.AssistantPlaybackEnded:
		if o.speechPlayer.PayloadEnded(event.HandleID) && o.Status() == StatusSpeaking {
			o.setStatus(StatusListening)
		}

	case events.TurnCompleted:
		for _, message := range o.conversation.CompleteTurn() {
			o.callbacks.onMessage(message)
		}
		if status := o.Status(); status != StatusIdle && status != StatusError {
			o.setStatus(StatusListening)
		}

	case events.Interrupted:
		o.speechPlayer.Interrupt()
		o.setStatus(StatusListening)

	case events.ToolCallRequested:
		o.callbacks.onToolCall(event)

	case events.SessionFault:
		o.fail("The conversation service reported an error.", fmt.Errorf("live session fault: %w", event.Err))

	case events.SessionClosed:
		if status := o.Status(); status != StatusIdle && status != StatusError {
			err := event.Err
			if err == nil {
				err = fmt.Errorf("connection ended")
			}
			o.fail("The conversation ended unexpectedly.", fmt.Errorf("live session closed: %w", err))
		}
	}
}
