// Command vela is a terminal voice chat client: press space to start
// talking, watch the transcript scroll, press space again to hang up.
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	orchestration "github.com/koscakluka/vela-core/core"
	"github.com/koscakluka/vela-core/core/audio/miniaudio"
	"github.com/koscakluka/vela-core/core/live/gemini"
)

const systemInstruction = "You are Vela, a friendly voice assistant. " +
	"Keep answers short and conversational; you are being spoken to, not read."

func main() {
	liveClient, err := gemini.NewClient()
	if err != nil {
		fmt.Fprintln(os.Stderr, "vela:", err)
		os.Exit(1)
	}

	audioClient, err := miniaudio.NewClient()
	if err != nil {
		fmt.Fprintln(os.Stderr, "vela: failed to open audio devices:", err)
		os.Exit(1)
	}
	defer audioClient.Close()

	var program *tea.Program

	orchestrator := orchestration.NewOrchestrator(
		orchestration.WithLiveClient(liveClient),
		orchestration.WithAudioInput(audioClient),
		orchestration.WithAudioOutput(audioClient),
		orchestration.WithSystemInstruction(systemInstruction),
		orchestration.WithVoice("Puck"),
		orchestration.OnStatusChange(func(status orchestration.Status) {
			if program != nil {
				program.Send(statusChangedMsg{status: status})
			}
		}),
		orchestration.OnMessage(func(message orchestration.Message) {
			if program != nil {
				program.Send(messageLoggedMsg{message: message})
			}
		}),
		orchestration.OnError(func(message string) {
			if program != nil {
				program.Send(sessionErrorMsg{message: message})
			}
		}),
	)
	defer orchestrator.Stop()

	program = tea.NewProgram(newModel(context.Background(), orchestrator), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		log.Fatalf("vela: %v", err)
	}
}
