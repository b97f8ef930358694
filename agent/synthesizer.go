package agent

import (
	"context"
	"fmt"
	"time"

	"github.com/cloudwego/eino/schema"

	"slidesmith/deck"
)

// SynthesisError is fatal to the current generation attempt. The caller's
// previous deck, if any, is left untouched.
type SynthesisError struct {
	Stage string // "request" or "parse"
	Err   error
}

func (e *SynthesisError) Error() string {
	return fmt.Sprintf("deck synthesis failed (%s): %v", e.Stage, e.Err)
}

func (e *SynthesisError) Unwrap() error { return e.Err }

// Synthesizer turns raw facilitator text into a validated slide list via a
// single structured model call. It holds no mutable state and has no side
// effects besides the outbound request.
type Synthesizer struct {
	llm    TextGenerator
	logger func(string)
}

// NewSynthesizer creates a synthesizer over the given text generator.
func NewSynthesizer(llm TextGenerator, logger func(string)) *Synthesizer {
	return &Synthesizer{llm: llm, logger: logger}
}

func (s *Synthesizer) log(msg string) {
	if s.logger != nil {
		s.logger(msg)
	}
}

// Synthesize produces the full slide array for one generation run. The
// returned slides carry final ids derived from the run timestamp; callers
// also receive that timestamp for the export metadata envelope.
func (s *Synthesizer) Synthesize(ctx context.Context, rawText string, level DetailLevel) ([]deck.Slide, time.Time, error) {
	system, user := BuildSynthesisPrompt(rawText, level)
	s.log(fmt.Sprintf("[SYNTH] requesting deck, detail=%s, input=%d chars", level, len(rawText)))

	resp, err := s.llm.Generate(ctx, []*schema.Message{
		{Role: schema.System, Content: system},
		{Role: schema.User, Content: user},
	})
	if err != nil {
		return nil, time.Time{}, &SynthesisError{Stage: "request", Err: err}
	}

	generatedAt := time.Now()
	slides, err := ParseSlides(resp.Content, generatedAt)
	if err != nil {
		return nil, time.Time{}, &SynthesisError{Stage: "parse", Err: err}
	}
	s.log(fmt.Sprintf("[SYNTH] parsed %d slides", len(slides)))
	return slides, generatedAt, nil
}
