package main

import "github.com/sigil-lang/sigilc/internal/diag"

const envelopeFormatVersion = 1

// Envelope is the stable JSON contract fixed for every
// sigilc subcommand: exactly one of these is written to stdout.
type Envelope struct {
	FormatVersion int             `json:"formatVersion"`
	Command       string          `json:"command"`
	OK            bool            `json:"ok"`
	Phase         string          `json:"phase,omitempty"`
	Data          interface{}     `json:"data,omitempty"`
	Error         *ErrorEnvelope  `json:"error,omitempty"`
	Summary       *Summary        `json:"summary,omitempty"`
	Results       []TestResult    `json:"results,omitempty"`
}

// ErrorEnvelope mirrors diag.Diagnostic's fields under the JSON names
// the envelope contract fixes.
type ErrorEnvelope struct {
	Code        string                 `json:"code"`
	Phase       string                 `json:"phase"`
	Message     string                 `json:"message"`
	Location    *diag.Span             `json:"location,omitempty"`
	Found       *string                `json:"found,omitempty"`
	Expected    *string                `json:"expected,omitempty"`
	Details     map[string]interface{} `json:"details,omitempty"`
	Fixits      []diag.Fixit           `json:"fixits,omitempty"`
	Suggestions []diag.Suggestion      `json:"suggestions,omitempty"`
}

func errorEnvelope(d *diag.Diagnostic) *ErrorEnvelope {
	if d == nil {
		return nil
	}
	return &ErrorEnvelope{
		Code: d.Code, Phase: string(d.Phase), Message: d.Message,
		Location: d.Span, Found: d.Found, Expected: d.Expected,
		Details: d.Details, Fixits: d.Fixits, Suggestions: d.Suggestions,
	}
}

// Summary accompanies a `test` run's Results.
type Summary struct {
	Files      int   `json:"files"`
	Discovered int   `json:"discovered"`
	Selected   int   `json:"selected"`
	Passed     int   `json:"passed"`
	Failed     int   `json:"failed"`
	Errored    int   `json:"errored"`
	Skipped    int   `json:"skipped"`
	DurationMs int64 `json:"durationMs"`
}

// TestResult is one `__sigil_tests` entry's outcome.
type TestResult struct {
	ID              string          `json:"id"`
	File            string          `json:"file"`
	Name            string          `json:"name"`
	Status          string          `json:"status"` // pass | fail | error
	DurationMs      int64           `json:"durationMs"`
	Location        diag.Span       `json:"location"`
	DeclaredEffects []string        `json:"declaredEffects"`
	Assertion       *Assertion      `json:"assertion,omitempty"`
	Failure         *TestFailure    `json:"failure,omitempty"`
}

type Assertion struct {
	Kind     string `json:"kind"` // "comparison" | "boolean"
	Operator string `json:"operator,omitempty"`
}

type TestFailure struct {
	Kind     string      `json:"kind"` // assert_false | comparison_mismatch | exception
	Operator string      `json:"operator,omitempty"`
	Actual   string      `json:"actual,omitempty"`
	Expected string      `json:"expected,omitempty"`
	DiffHint interface{} `json:"diffHint,omitempty"`
	Message  string      `json:"message,omitempty"`
}

func ok(command string, data interface{}) Envelope {
	return Envelope{FormatVersion: envelopeFormatVersion, Command: command, OK: true, Data: data}
}

func failed(command string, d *diag.Diagnostic) Envelope {
	return Envelope{
		FormatVersion: envelopeFormatVersion, Command: command, OK: false,
		Phase: string(d.Phase), Error: errorEnvelope(d),
	}
}
