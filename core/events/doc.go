// Package events defines the typed orchestration event contract.
//
// Every callback from the live session or an audio device is converted into
// one of these events and drained by a single consumer, so event order is
// the only ordering the orchestration core relies on.
//
// Event kinds are grouped by receiver-facing namespaces:
//
//   - session.*
//   - user_input.*
//   - assistant_response.*
//   - assistant_speech.*
//   - assistant_playback.*
//   - turn_state.*
//   - tool_call.*
//
// Semantics used across the package:
//
//   - Fragment: incremental transcription text appended in arrival order.
//   - Payload: binary audio chunk delivered by the live session.
//   - Ended/Completed: lifecycle boundary signaled by the service or a device.
//
// session events
//
//   - SessionOpened (session.opened): the live session finished its handshake.
//   - SessionFault (session.fault): the live session reported an error or
//     closed unexpectedly.
//   - SessionClosed (session.closed): the live session connection ended.
//
// user_input events
//
//   - UserTranscriptFragment (user_input.transcript_fragment): incremental
//     transcription of captured microphone audio.
//
// assistant_response events
//
//   - AssistantTranscriptFragment (assistant_response.transcript_fragment):
//     incremental transcription of synthesized assistant speech.
//
// assistant_speech events
//
//   - AssistantAudioPayload (assistant_speech.audio_payload): raw synthesized
//     speech audio to schedule for playback.
//
// assistant_playback events
//
//   - AssistantPlaybackEnded (assistant_playback.ended): one scheduled
//     playback handle finished rendering.
//
// turn_state events
//
//   - TurnCompleted (turn_state.completed): the service marked the current
//     exchange complete; accumulated transcripts flush to the log.
//   - Interrupted (turn_state.interrupted): the user spoke over the
//     assistant; all scheduled playback must stop immediately.
//
// tool_call events
//
//   - ToolCallRequested (tool_call.requested): the service asked the client
//     to execute a declared function.
package events
