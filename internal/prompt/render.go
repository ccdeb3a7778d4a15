package prompt

import (
	"bytes"
	_ "embed"
	"strings"
	"text/template"

	"rednote-trends/internal/model"
)

//go:embed prompt.tmpl
var promptTpl string

var compiled = template.Must(template.New("prompt").Funcs(template.FuncMap{
	"join": strings.Join,
	"tone": toneLine,
}).Parse(promptTpl))

// Render produces the natural-language prompt for one generation request.
func Render(req model.GenerationRequest) (string, error) {
	var buf bytes.Buffer
	if err := compiled.Execute(&buf, req); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// toneLine spells out a tone hint for the completion backend.
func toneLine(t model.Tone) string {
	switch t {
	case model.ToneUpbeat:
		return "热情安利，真诚种草，带一点兴奋感"
	case model.ToneEmpathetic:
		return "细腻共情，语气真挚，不煽情过度"
	default:
		return "客观中肯，以信息和观点为主"
	}
}
