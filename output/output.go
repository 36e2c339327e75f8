// Package output renders Lob resources for the command line as console
// tables, JSON or YAML.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/s0up4200/lobster/batch"
)

// Format selects a renderer
type Format string

const (
	FormatConsole Format = "console"
	FormatJSON    Format = "json"
	FormatYAML    Format = "yaml"
)

// ParseFormat validates a user supplied format name
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatConsole, FormatJSON, FormatYAML:
		return f, nil
	case "":
		return FormatConsole, nil
	default:
		return "", fmt.Errorf("unknown output format %q (must be console, json or yaml)", s)
	}
}

// Renderer writes values to out in a fixed format
type Renderer struct {
	format Format
	out    io.Writer
}

// New creates a Renderer
func New(format Format, out io.Writer) *Renderer {
	return &Renderer{format: format, out: out}
}

// Format returns the renderer's format
func (r *Renderer) Format() Format {
	return r.format
}

// Render writes v. Values the console renderer has no table for are written
// as indented JSON.
func (r *Renderer) Render(v any) error {
	v = normalize(v)

	switch r.format {
	case FormatJSON:
		return r.json(v)
	case FormatYAML:
		return r.yaml(v)
	default:
		if ok, err := renderConsole(r.out, v); ok {
			return err
		}
		return r.json(v)
	}
}

// Messagef prints an informational line in console mode only, keeping JSON
// and YAML output machine-readable.
func (r *Renderer) Messagef(format string, args ...any) {
	if r.format != FormatConsole {
		return
	}
	fmt.Fprintf(r.out, format+"\n", args...)
}

func (r *Renderer) json(v any) error {
	enc := json.NewEncoder(r.out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("render json: %w", err)
	}
	return nil
}

// yaml goes through JSON first so the wire names and codecs of the lob
// types are kept.
func (r *Renderer) yaml(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("render yaml: %w", err)
	}
	var generic any
	if err := json.Unmarshal(data, &generic); err != nil {
		return fmt.Errorf("render yaml: %w", err)
	}

	enc := yaml.NewEncoder(r.out)
	enc.SetIndent(2)
	if err := enc.Encode(generic); err != nil {
		return fmt.Errorf("render yaml: %w", err)
	}
	return enc.Close()
}

// VerifyRow is the serializable form of a batch.VerifyResult
type VerifyRow struct {
	Index          int    `json:"index"`
	Input          any    `json:"input"`
	ID             string `json:"id,omitempty"`
	Deliverability string `json:"deliverability,omitempty"`
	PrimaryLine    string `json:"primary_line,omitempty"`
	LastLine       string `json:"last_line,omitempty"`
	Error          string `json:"error,omitempty"`
}

// CancelReport is the serializable form of a batch.CancelResult
type CancelReport struct {
	Requested  int               `json:"requested"`
	Successful []string          `json:"successful"`
	Failed     map[string]string `json:"failed,omitempty"`
}

// Preset is a named filter expression from filter.presets
type Preset struct {
	Name       string `json:"name"`
	Expression string `json:"expression"`
}

// FilterCounts is how many of the fetched records each preset matched
type FilterCounts struct {
	Resource string         `json:"resource"`
	Records  int            `json:"records"`
	Matches  map[string]int `json:"matches"`
}

// normalize replaces values holding error interfaces, which encode as {}.
func normalize(v any) any {
	switch t := v.(type) {
	case []batch.VerifyResult:
		rows := make([]VerifyRow, len(t))
		for i, res := range t {
			row := VerifyRow{Index: res.Index, Input: res.Input}
			if res.Err != nil {
				row.Error = res.Err.Error()
			}
			if res.Verification != nil {
				row.ID = res.Verification.ID
				row.Deliverability = string(res.Verification.Deliverability)
				row.PrimaryLine = res.Verification.PrimaryLine
				row.LastLine = res.Verification.LastLine
			}
			rows[i] = row
		}
		return rows
	case batch.CancelResult:
		report := CancelReport{Requested: t.Requested, Successful: t.Successful}
		if report.Successful == nil {
			report.Successful = []string{}
		}
		if len(t.Failed) > 0 {
			report.Failed = make(map[string]string, len(t.Failed))
			for _, f := range t.Failed {
				report.Failed[f.ID] = f.Err.Error()
			}
		}
		return report
	case *batch.CancelResult:
		return normalize(*t)
	}
	return v
}
