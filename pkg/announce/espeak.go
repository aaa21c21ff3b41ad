package announce

import (
	"context"
	"fmt"
	"os/exec"
)

// CommandSpeaker speaks by invoking an external TTS binary such as
// espeak. Playback time is the process lifetime.
type CommandSpeaker struct {
	command string
	args    []string
}

// NewCommandSpeaker builds a speaker around command. Extra args are
// passed before the text.
func NewCommandSpeaker(command string, args ...string) *CommandSpeaker {
	return &CommandSpeaker{command: command, args: args}
}

// Speak runs the command with text as its final argument and waits for
// it to exit.
func (s *CommandSpeaker) Speak(ctx context.Context, text string) error {
	args := append(append([]string{}, s.args...), text)
	cmd := exec.CommandContext(ctx, s.command, args...)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s: %w", s.command, err)
	}
	return nil
}

// Close is a no-op; each Speak runs a fresh process.
func (s *CommandSpeaker) Close() error { return nil }
