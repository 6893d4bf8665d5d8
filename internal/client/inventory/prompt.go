package inventory

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/x/term"
)

// PromptSecret writes "label: " to out and reads one secret from in. Echo is
// disabled when in is a terminal; otherwise a single line is read.
func PromptSecret(in *os.File, out io.Writer, label string) (string, error) {
	fmt.Fprintf(out, "%s: ", label)

	if term.IsTerminal(in.Fd()) {
		b, err := term.ReadPassword(in.Fd())
		fmt.Fprintln(out)
		if err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		return string(b), nil
	}

	scanner := bufio.NewScanner(in)
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return "", err
		}
		return "", errors.New("no input for secret")
	}
	return scanner.Text(), nil
}

// TerminalPrompter prompts on stdin and writes labels to stderr so stdout
// stays reserved for the listing.
func TerminalPrompter() Prompter {
	return func(label string) (string, error) {
		return PromptSecret(os.Stdin, os.Stderr, label)
	}
}
