// Package template renders list rows from user supplied text/template
// strings with a small set of formatting functions.
package template

import (
	"bytes"
	"fmt"
	"strings"
	"sync"
	"text/template"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
)

// Engine provides template execution with row formatting functions
type Engine struct {
	funcMap   template.FuncMap
	templates map[string]*template.Template
	mu        sync.RWMutex
	now       func() time.Time
}

// NewEngine creates a new template engine
func NewEngine() *Engine {
	e := &Engine{
		templates: make(map[string]*template.Template),
		now:       time.Now,
	}
	e.registerBuiltinFuncs()
	return e
}

// registerBuiltinFuncs adds all custom functions to the engine
func (e *Engine) registerBuiltinFuncs() {
	e.funcMap = template.FuncMap{
		// Styling
		"color":  colorFunc,
		"bold":   func(s string) string { return lipgloss.NewStyle().Bold(true).Render(s) },
		"italic": func(s string) string { return lipgloss.NewStyle().Italic(true).Render(s) },
		"faint":  func(s string) string { return lipgloss.NewStyle().Faint(true).Render(s) },

		// Strings
		"upper":     strings.ToUpper,
		"lower":     strings.ToLower,
		"pad":       padFunc,
		"truncate":  truncateFunc,
		"contains":  strings.Contains,
		"hasPrefix": strings.HasPrefix,
		"default":   defaultFunc,
		"choose":    chooseFunc,

		// Units and time
		"mhz":       mhzFunc,
		"ago":       e.agoFunc,
		"timestamp": timestampFunc,
	}
}

// Execute parses (once) and runs a template with the given data
func (e *Engine) Execute(tmplStr string, data any) (string, error) {
	tmpl, err := e.getOrParseTemplate(tmplStr)
	if err != nil {
		return "", fmt.Errorf("template parse error: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("template execution error: %w", err)
	}
	return buf.String(), nil
}

func (e *Engine) getOrParseTemplate(tmplStr string) (*template.Template, error) {
	e.mu.RLock()
	tmpl, ok := e.templates[tmplStr]
	e.mu.RUnlock()
	if ok {
		return tmpl, nil
	}

	tmpl, err := template.New("").Funcs(e.funcMap).Option("missingkey=error").Parse(tmplStr)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	e.templates[tmplStr] = tmpl
	e.mu.Unlock()
	return tmpl, nil
}

// Validate checks if a template parses
func (e *Engine) Validate(tmplStr string) error {
	_, err := template.New("validate").Funcs(e.funcMap).Parse(tmplStr)
	return err
}

// LoadTemplate parses and stores a named template
func (e *Engine) LoadTemplate(name, tmplStr string) error {
	tmpl, err := template.New(name).Funcs(e.funcMap).Option("missingkey=error").Parse(tmplStr)
	if err != nil {
		return err
	}

	e.mu.Lock()
	e.templates[name] = tmpl
	e.mu.Unlock()
	return nil
}

// ExecuteNamed executes a template stored with LoadTemplate
func (e *Engine) ExecuteNamed(name string, data any) (string, error) {
	e.mu.RLock()
	tmpl, ok := e.templates[name]
	e.mu.RUnlock()

	if !ok {
		return "", fmt.Errorf("template %s not found", name)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func colorFunc(color, text string) string {
	if text == "" {
		return ""
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render(text)
}

// padFunc left-aligns text in width cells; a negative width right-aligns
func padFunc(width int, text string) string {
	if width < 0 {
		return fmt.Sprintf("%*s", -width, text)
	}
	return fmt.Sprintf("%-*s", width, text)
}

func truncateFunc(width int, text string) string {
	return truncate.StringWithTail(text, uint(max(width, 0)), "…")
}

func defaultFunc(fallback, val any) any {
	switch v := val.(type) {
	case nil:
		return fallback
	case string:
		if v == "" {
			return fallback
		}
	case int:
		if v == 0 {
			return fallback
		}
	}
	return val
}

func chooseFunc(cond bool, a, b any) any {
	if cond {
		return a
	}
	return b
}

// mhzFunc formats a frequency in kHz as MHz
func mhzFunc(khz any) string {
	switch v := khz.(type) {
	case int:
		return fmt.Sprintf("%.3f", float64(v)/1000)
	case int64:
		return fmt.Sprintf("%.3f", float64(v)/1000)
	case float64:
		return fmt.Sprintf("%.3f", v/1000)
	default:
		return fmt.Sprint(khz)
	}
}

func (e *Engine) agoFunc(t time.Time) string {
	d := e.now().Sub(t)
	switch {
	case d < 0:
		return "now"
	case d < time.Minute:
		return fmt.Sprintf("%ds", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd", int(d.Hours()/24))
	}
}

func timestampFunc(t time.Time) string {
	return t.UTC().Format("2006-01-02 15:04")
}
