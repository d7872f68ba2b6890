package tmdb

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/mmcdole/reel/internal/domain"
	"golang.org/x/term"
)

const maxKeyAttempts = 3

// AuthFlow prompts for a TMDB API key on the terminal and verifies it
// against the API before it is saved
type AuthFlow struct {
	opts   Options
	logger *slog.Logger
	out    io.Writer

	// readSecret reads one line without echo
	readSecret func() (string, error)
}

// NewAuthFlow creates a flow that talks to the catalog described by opts
func NewAuthFlow(opts Options, logger *slog.Logger) *AuthFlow {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthFlow{
		opts:       opts,
		logger:     logger,
		out:        os.Stdout,
		readSecret: readHiddenLine,
	}
}

// Run asks for the API key until a valid one is entered or the attempts
// run out. Network failures end the flow immediately.
func (f *AuthFlow) Run(ctx context.Context) (string, error) {
	fmt.Fprintln(f.out)
	fmt.Fprintln(f.out, "TMDB API Key")
	fmt.Fprintln(f.out, "━━━━━━━━━━━━")
	fmt.Fprintln(f.out, "Create a free key at https://www.themoviedb.org/settings/api")
	fmt.Fprintln(f.out)

	for attempt := 1; attempt <= maxKeyAttempts; attempt++ {
		fmt.Fprint(f.out, "API key: ")
		key, err := f.readSecret()
		fmt.Fprintln(f.out) // Add newline after hidden input
		if err != nil {
			return "", fmt.Errorf("failed to read API key: %w", err)
		}
		key = strings.TrimSpace(key)
		if key == "" {
			fmt.Fprintln(f.out, "API key cannot be empty. Please try again.")
			continue
		}

		fmt.Fprintln(f.out, "Verifying...")
		err = f.Validate(ctx, key)
		switch {
		case err == nil:
			fmt.Fprintln(f.out, "✓ API key accepted")
			return key, nil
		case errors.Is(err, domain.ErrAuthFailed):
			f.logger.Warn("api key rejected", "attempt", attempt)
			fmt.Fprintln(f.out, "✗ TMDB rejected that key. Please check it and try again.")
		default:
			return "", fmt.Errorf("could not reach TMDB: %w", err)
		}
	}
	return "", domain.ErrAuthFailed
}

// Validate makes one cheap authenticated request with key
func (f *AuthFlow) Validate(ctx context.Context, key string) error {
	opts := f.opts
	opts.APIKey = key
	_, err := NewClient(opts, f.logger).FetchGenres(ctx)
	return err
}

// readHiddenLine reads from the terminal without echo, or a plain line
// when stdin is not a terminal
func readHiddenLine() (string, error) {
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		b, err := term.ReadPassword(fd)
		return string(b), err
	}
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return line, nil
}
