package prompts

import (
	"errors"
	"fmt"
	"strings"
	"text/template"

	"github.com/yungbote/flightsim-backend/internal/platform/promptstyle"
)

// Spec declares a prompt. System and User are text/template sources over Input.
type Spec struct {
	Name       PromptName
	Version    int
	Mode       string // promptstyle output mode
	System     string
	User       string
	Validators []Validator
}

// Template is a compiled Spec.
type Template struct {
	spec   Spec
	system *template.Template
	user   *template.Template
}

// MakeTemplate compiles a Spec. Input is a struct, so a template that names an
// unknown field fails here rather than at render time.
func MakeTemplate(s Spec) (Template, error) {
	if strings.TrimSpace(string(s.Name)) == "" {
		return Template{}, errors.New("prompt spec has no name")
	}
	if s.Version <= 0 {
		return Template{}, fmt.Errorf("%s: version must be positive", s.Name)
	}
	t := Template{spec: s}
	var err error
	if t.system, err = template.New(string(s.Name) + ".system").Parse(s.System); err != nil {
		return Template{}, fmt.Errorf("%s: %w", s.Name, err)
	}
	if t.user, err = template.New(string(s.Name) + ".user").Parse(s.User); err != nil {
		return Template{}, fmt.Errorf("%s: %w", s.Name, err)
	}
	if _, err := t.Render(Input{}, false); err != nil {
		return Template{}, err
	}
	return t, nil
}

func (t Template) Name() PromptName { return t.spec.Name }

// Render validates in (when validate is set) and executes both halves. The
// output-format rules for Spec.Mode are appended to the system half.
func (t Template) Render(in Input, validate bool) (Prompt, error) {
	if validate {
		for _, v := range t.spec.Validators {
			if err := v(in); err != nil {
				return Prompt{}, fmt.Errorf("%s: %w", t.spec.Name, err)
			}
		}
	}
	system, err := execute(t.system, in)
	if err != nil {
		return Prompt{}, err
	}
	user, err := execute(t.user, in)
	if err != nil {
		return Prompt{}, err
	}
	return Prompt{
		Name:    string(t.spec.Name),
		Version: t.spec.Version,
		Mode:    t.spec.Mode,
		System:  promptstyle.ApplySystem(system, t.spec.Mode),
		User:    user,
	}, nil
}

func execute(tpl *template.Template, in Input) (string, error) {
	var b strings.Builder
	if err := tpl.Execute(&b, in); err != nil {
		return "", fmt.Errorf("render %s: %w", tpl.Name(), err)
	}
	return strings.TrimSpace(b.String()), nil
}
