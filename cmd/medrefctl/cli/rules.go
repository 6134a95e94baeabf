package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/medref/medref/internal/policy"
)

// RulesOptions defines available flags for the rules command.
type RulesOptions struct {
	Kind       string
	JSONOutput bool
	Stdout     io.Writer
	Stderr     io.Writer
}

// RuleRow is the JSON form of one clause.
type RuleRow struct {
	Kind      string `json:"kind"`
	Action    string `json:"action"`
	Clause    int    `json:"clause"`
	Roles     string `json:"roles"`
	Predicate string `json:"predicate"`
	Statuses  string `json:"statuses"`
}

// RulesCommand prints the rule tables, optionally filtered to one resource
// kind.
func RulesCommand(engine *policy.Engine, opts RulesOptions) int {
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	kind := policy.Kind(strings.ToLower(strings.TrimSpace(opts.Kind)))
	if kind != "" && engine.Actions(kind) == nil {
		_, _ = fmt.Fprintf(opts.Stderr, "rules: unknown resource kind %q\n", opts.Kind)
		return 1
	}

	rows := make([]RuleRow, 0)
	for _, r := range engine.Describe() {
		if kind != "" && r.Kind != kind {
			continue
		}
		rows = append(rows, RuleRow{
			Kind:      string(r.Kind),
			Action:    string(r.Action),
			Clause:    r.Index,
			Roles:     r.Roles,
			Predicate: r.Predicate,
			Statuses:  r.Statuses,
		})
	}

	if opts.JSONOutput {
		if err := json.NewEncoder(opts.Stdout).Encode(rows); err != nil {
			_, _ = fmt.Fprintf(opts.Stderr, "rules: encode json: %v\n", err)
			return 1
		}
		return 0
	}
	tw := tabwriter.NewWriter(opts.Stdout, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "KIND\tACTION\t#\tROLES\tPREDICATE\tSTATUSES")
	for _, r := range rows {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\t%s\n", r.Kind, r.Action, r.Clause, r.Roles, r.Predicate, r.Statuses)
	}
	_ = tw.Flush()
	return 0
}
