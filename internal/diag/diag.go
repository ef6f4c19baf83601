package diag

// Phase identifies which pipeline stage produced a Diagnostic. Mirrors
// the `phase` field of the diagnostic envelope.
type Phase string

const (
	PhaseSurface    Phase = "surface"
	PhaseLexer      Phase = "lexer"
	PhaseParser     Phase = "parser"
	PhaseCanonical  Phase = "canonical"
	PhaseTypechecker Phase = "typechecker"
	PhaseLinker     Phase = "linker"
	PhaseCodegen    Phase = "codegen"
	PhaseGraph      Phase = "graph"
)

// Fixit is an exact, mechanical text edit that would resolve (or help
// resolve) a Diagnostic. Fixits never change program semantics, only
// its textual shape (reordering, renaming, whitespace).
type Fixit struct {
	Span        Span   `json:"span"`
	Replacement string `json:"replacement"`
}

// Suggestion is a semantic recovery hint, tagged with a stable Kind so
// tooling can act on it without parsing Message.
type Suggestion struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
	Span    *Span  `json:"span,omitempty"`
}

// Diagnostic is the sole structured error value a stage may produce.
// Every field besides Code/Phase/Message is optional.
type Diagnostic struct {
	Code    string `json:"code"`
	Phase   Phase  `json:"phase"`
	Message string `json:"message"`

	Span *Span `json:"location,omitempty"`

	Found    *string `json:"found,omitempty"`
	Expected *string `json:"expected,omitempty"`

	Details     map[string]interface{} `json:"details,omitempty"`
	Fixits      []Fixit                `json:"fixits,omitempty"`
	Suggestions []Suggestion           `json:"suggestions,omitempty"`
}

func (d *Diagnostic) Error() string {
	if d == nil {
		return ""
	}
	return string(d.Phase) + ": " + d.Code + ": " + d.Message
}

// New builds a minimal Diagnostic; chain the With* helpers to add detail.
func New(phase Phase, code, message string) *Diagnostic {
	return &Diagnostic{Phase: phase, Code: code, Message: message}
}

func (d *Diagnostic) At(span Span) *Diagnostic {
	d.Span = &span
	return d
}

func (d *Diagnostic) WithFoundExpected(found, expected string) *Diagnostic {
	d.Found = &found
	d.Expected = &expected
	return d
}

func (d *Diagnostic) WithDetail(key string, value interface{}) *Diagnostic {
	if d.Details == nil {
		d.Details = make(map[string]interface{})
	}
	d.Details[key] = value
	return d
}

func (d *Diagnostic) WithFixit(f Fixit) *Diagnostic {
	d.Fixits = append(d.Fixits, f)
	return d
}

func (d *Diagnostic) WithSuggestion(s Suggestion) *Diagnostic {
	d.Suggestions = append(d.Suggestions, s)
	return d
}
