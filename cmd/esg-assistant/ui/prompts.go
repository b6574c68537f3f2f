package ui

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// LineReader reads user input lines in the background so a blocked read can
// be abandoned when ctx is cancelled.
type LineReader struct {
	lines chan string
	errs  chan error
}

// NewLineReader starts reading lines from r.
func NewLineReader(r io.Reader) *LineReader {
	lr := &LineReader{
		lines: make(chan string),
		errs:  make(chan error, 1),
	}
	go func() {
		scanner := bufio.NewScanner(r)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for scanner.Scan() {
			lr.lines <- scanner.Text()
		}
		err := scanner.Err()
		if err == nil {
			err = io.EOF
		}
		lr.errs <- err
	}()
	return lr
}

// ReadLine blocks for the next line. It returns io.EOF at end of input and
// ctx.Err() when ctx is cancelled first.
func (lr *LineReader) ReadLine(ctx context.Context) (string, error) {
	select {
	case line := <-lr.lines:
		return line, nil
	case err := <-lr.errs:
		lr.errs <- err
		return "", err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// Prompt prints message and reads one trimmed line.
func (lr *LineReader) Prompt(ctx context.Context, message string) (string, error) {
	fmt.Fprintf(stdout, "%s: ", message)
	line, err := lr.ReadLine(ctx)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// Confirm asks for a yes/no answer.
func (lr *LineReader) Confirm(ctx context.Context, message string, defaultValue bool) (bool, error) {
	defaultStr := "y/N"
	if defaultValue {
		defaultStr = "Y/n"
	}

	input, err := lr.Prompt(ctx, fmt.Sprintf("%s [%s]", message, defaultStr))
	if err != nil {
		return false, err
	}

	switch strings.ToLower(input) {
	case "":
		return defaultValue, nil
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

// PromptFloat asks for a number, re-prompting until one parses.
func (lr *LineReader) PromptFloat(ctx context.Context, message string, defaultValue float64) (float64, error) {
	for {
		input, err := lr.Prompt(ctx, fmt.Sprintf("%s [%s]", message, strconv.FormatFloat(defaultValue, 'f', -1, 64)))
		if err != nil {
			return 0, err
		}
		if input == "" {
			return defaultValue, nil
		}
		v, err := strconv.ParseFloat(input, 64)
		if err == nil {
			return v, nil
		}
		Warning("Please enter a number")
	}
}

// PromptChoice asks the user to pick one of choices by number or name.
func (lr *LineReader) PromptChoice(ctx context.Context, message string, choices []string) (string, error) {
	fmt.Fprintln(stdout, message)
	for i, choice := range choices {
		fmt.Fprintf(stdout, "  %d) %s\n", i+1, choice)
	}

	for {
		input, err := lr.Prompt(ctx, "Choice")
		if err != nil {
			return "", err
		}
		if n, err := strconv.Atoi(input); err == nil && n >= 1 && n <= len(choices) {
			return choices[n-1], nil
		}
		for _, choice := range choices {
			if strings.EqualFold(choice, input) {
				return choice, nil
			}
		}
		Warning("Please enter a number between 1 and %d", len(choices))
	}
}
