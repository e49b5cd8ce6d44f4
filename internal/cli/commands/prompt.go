package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/cockroachdb/errors"
)

// confirm asks a yes or no question. Only an explicit yes counts.
func confirm(prompt string, in io.ReadCloser, out io.Writer) (bool, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          prompt,
		Stdin:           in,
		Stdout:          out,
		InterruptPrompt: "^C",
		EOFPrompt:       "\n",
	})
	if err != nil {
		return false, fmt.Errorf("failed to initialize prompt: %w", err)
	}
	defer func() { _ = rl.Close() }()

	line, err := rl.Readline()
	if errors.Is(err, readline.ErrInterrupt) || errors.Is(err, io.EOF) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return isYes(line), nil
}

func isYes(answer string) bool {
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	}
	return false
}
