// Package prompt renders the grounding prompt handed to the generation
// model. Template loading (I/O) happens once at construction; rendering
// is a pure function of the question and the retrieved chunks.
package prompt

import (
	"fmt"
	"os"
	"strings"
	"text/template"

	"github.com/jdfortress/benchrag/internal/core"
)

// NoContextMarker is rendered in place of retrieved chunks when nothing
// cleared the similarity threshold, so the model is told explicitly that
// no grounding context was found.
const NoContextMarker = "No relevant context was found for this question."

// TemplateError reports a malformed template or one missing a required
// placeholder. This is a fatal configuration error, not recoverable
// per query.
type TemplateError struct {
	Name string
	Err  error
}

func (e *TemplateError) Error() string {
	return fmt.Sprintf("prompt template %q: %v", e.Name, e.Err)
}

func (e *TemplateError) Unwrap() error { return e.Err }

// Augmenter renders augmented prompts from a template loaded once at
// construction. Immutable afterwards for the process lifetime.
type Augmenter struct {
	name string
	tmpl *template.Template
}

type templateData struct {
	Question string
	Context  string
}

// NewAugmenter loads and validates the template file at path.
func NewAugmenter(path string) (*Augmenter, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, &TemplateError{Name: path, Err: err}
	}
	return NewAugmenterFromString(path, string(raw))
}

// NewAugmenterFromString builds an augmenter from template text. The
// template must reference both the question and the context.
func NewAugmenterFromString(name, text string) (*Augmenter, error) {
	tmpl, err := template.New(name).Option("missingkey=error").Parse(text)
	if err != nil {
		return nil, &TemplateError{Name: name, Err: err}
	}

	a := &Augmenter{name: name, tmpl: tmpl}

	// Probe-render once so a template that ignores the question or the
	// context is rejected at construction, not per query.
	const qProbe = "\x00question-probe\x00"
	const cProbe = "\x00context-probe\x00"
	var probe strings.Builder
	if err := tmpl.Execute(&probe, templateData{Question: qProbe, Context: cProbe}); err != nil {
		return nil, &TemplateError{Name: name, Err: err}
	}
	if !strings.Contains(probe.String(), qProbe) {
		return nil, &TemplateError{Name: name, Err: fmt.Errorf("missing {{.Question}} placeholder")}
	}
	if !strings.Contains(probe.String(), cProbe) {
		return nil, &TemplateError{Name: name, Err: fmt.Errorf("missing {{.Context}} placeholder")}
	}

	return a, nil
}

// Augment renders the prompt for a question and its ranked chunks. With
// zero chunks the prompt still renders validly, carrying NoContextMarker.
func (a *Augmenter) Augment(question string, chunks []core.ScoredChunk) (string, error) {
	var out strings.Builder
	if err := a.tmpl.Execute(&out, templateData{
		Question: question,
		Context:  formatChunks(chunks),
	}); err != nil {
		return "", &TemplateError{Name: a.name, Err: err}
	}
	return out.String(), nil
}

// formatChunks serializes the retained chunks, keeping each chunk's
// source identity visible for traceability.
func formatChunks(chunks []core.ScoredChunk) string {
	if len(chunks) == 0 {
		return NoContextMarker
	}

	var b strings.Builder
	for i, sc := range chunks {
		if i > 0 {
			b.WriteString("\n---\n")
		}
		b.WriteString(fmt.Sprintf("[%s", sc.Chunk.ID))
		if sc.Chunk.Source != "" {
			b.WriteString(" | " + sc.Chunk.Source)
		}
		b.WriteString("]\n")
		b.WriteString(sc.Chunk.Text)
	}
	return b.String()
}
