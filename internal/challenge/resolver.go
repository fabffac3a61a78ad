// Package challenge handles anti-automation checks. The crawler cannot
// solve them; it either pauses for an operator or carries on and lets
// extraction fail naturally.
package challenge

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/rcostache/pricescout/internal/types"
)

// Stage names the fixed points in the per-query flow where a challenge
// may need resolving.
type Stage string

const (
	StageSearch    Stage = "search"
	StageCandidate Stage = "candidate"
)

// Resolver is asked to resolve a possible challenge on a freshly
// rendered page before the crawler reads it.
type Resolver interface {
	Resolve(ctx context.Context, stage Stage, page *types.RenderedPage) error
}

// NopResolver never pauses. It is the default for automated runs.
type NopResolver struct{}

func (NopResolver) Resolve(context.Context, Stage, *types.RenderedPage) error { return nil }

// PromptResolver blocks on a textual prompt until the operator confirms
// the challenge is cleared in the browser window. It pauses at every
// stage, whether or not a challenge was detected; detection only
// annotates the prompt. There is no timeout on the wait.
type PromptResolver struct {
	in       *bufio.Reader
	out      io.Writer
	detector *Detector
	logger   *slog.Logger
}

// NewPromptResolver creates an operator-driven resolver reading
// acknowledgments from in and printing prompts to out.
func NewPromptResolver(in io.Reader, out io.Writer, logger *slog.Logger) *PromptResolver {
	return &PromptResolver{
		in:       bufio.NewReader(in),
		out:      out,
		detector: NewDetector(),
		logger:   logger.With("component", "challenge_resolver"),
	}
}

// Resolve implements Resolver.
func (r *PromptResolver) Resolve(ctx context.Context, stage Stage, page *types.RenderedPage) error {
	if suspected, reason := r.detector.Detect(page.Text()); suspected {
		r.logger.Warn("challenge suspected", "stage", stage, "url", page.URL, "reason", reason)
		fmt.Fprintf(r.out, "[!] Possible challenge on %s (%s)\n", page.URL, reason)
	}

	switch stage {
	case StageSearch:
		fmt.Fprint(r.out, "If the search engine asks for login or verification, resolve it in the browser window, then press ENTER... ")
	case StageCandidate:
		fmt.Fprint(r.out, "If the site shows a bot check or captcha, resolve it in the browser window, then press ENTER... ")
	}

	done := make(chan error, 1)
	go func() {
		_, err := r.in.ReadString('\n')
		done <- err
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-done:
		if err != nil && err != io.EOF {
			return fmt.Errorf("read operator acknowledgment: %w", err)
		}
		return nil
	}
}
