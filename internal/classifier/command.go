package classifier

import (
	"context"
	"errors"
	"fmt"

	"accent-check-go/internal/subprocess"
)

// Command runs an external classifier program once per request:
//
//	<argv...> <audio.wav>
//
// The program prints the same JSON document the model server returns.
type Command struct {
	argv   []string
	model  string
	runner subprocess.Runner
}

// NewCommand builds a Command classifier. A nil runner uses the host.
func NewCommand(argv []string, modelID string, runner subprocess.Runner) (*Command, error) {
	if len(argv) == 0 || argv[0] == "" {
		return nil, errors.New("classifier command required")
	}
	if runner == nil {
		runner = subprocess.Exec{}
	}
	return &Command{argv: append([]string(nil), argv...), model: modelID, runner: runner}, nil
}

func (c *Command) ModelID() string { return c.model }

// Classify runs the program; it is killed if ctx ends first.
func (c *Command) Classify(ctx context.Context, audioPath string) (Classification, error) {
	args := append(append([]string(nil), c.argv[1:]...), audioPath)
	out, err := c.runner.Run(ctx, c.argv[0], args...)
	if err != nil {
		return Classification{}, fmt.Errorf("classifier command: %w", err)
	}
	return decodeWire(out)
}
