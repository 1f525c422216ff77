package main

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"sync"
	"text/tabwriter"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"
)

const (
	formatTable = "table"
	formatJSON  = "json"
	formatYAML  = "yaml"
)

// printer renders command results on stdout and status lines on stderr.
type printer struct {
	format  string
	stdout  io.Writer
	stderr  io.Writer
	heading *color.Color
	info    *color.Color
	warn    *color.Color
	err     *color.Color
	mu      sync.Mutex
}

func newPrinter(stdout, stderr io.Writer, format string) *printer {
	return &printer{
		format:  format,
		stdout:  stdout,
		stderr:  stderr,
		heading: color.New(color.FgCyan, color.Bold),
		info:    color.New(color.FgCyan),
		warn:    color.New(color.FgYellow),
		err:     color.New(color.FgRed, color.Bold),
	}
}

// emit writes v as JSON or YAML, or calls table for the table format.
func (p *printer) emit(v any, table func(tw *tabwriter.Writer)) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch p.format {
	case formatJSON:
		enc := json.NewEncoder(p.stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case formatYAML:
		enc := yaml.NewEncoder(p.stdout)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		tw := tabwriter.NewWriter(p.stdout, 0, 0, 2, ' ', 0)
		table(tw)
		return tw.Flush()
	}
}

// section prints a coloured heading; only in table format.
func (p *printer) section(tw *tabwriter.Writer, title string) {
	_ = tw.Flush()
	_, _ = p.heading.Fprintln(p.stdout, title)
}

func (p *printer) infof(format string, args ...any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, _ = p.info.Fprintf(p.stderr, format+"\n", args...)
}

func (p *printer) warnf(format string, args ...any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, _ = p.warn.Fprintf(p.stderr, format+"\n", args...)
}

func (p *printer) errorf(format string, args ...any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, _ = p.err.Fprintf(p.stderr, "Error: "+format+"\n", args...)
}

// num maps NaN and infinities to nil so they encode as JSON null.
func num(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

func cell(v float64) string {
	if math.IsNaN(v) {
		return "-"
	}
	return fmt.Sprintf("%.2f", v)
}
