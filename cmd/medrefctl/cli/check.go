package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/medref/medref/internal/authz"
	"github.com/medref/medref/internal/policy"
)

// Exit codes of the check command besides 0 (Allow) and 1 (bad input).
const (
	// ExitMisconfigured reports an action or resource the rule tables do
	// not declare.
	ExitMisconfigured = 3
	// ExitDenied reports a Deny decision.
	ExitDenied = 10
)

// CheckOptions defines available flags for the check command.
type CheckOptions struct {
	Stdin      io.Reader
	JSONOutput bool
	Stdout     io.Writer
	Stderr     io.Writer
}

// CheckSummary is the JSON output of the check command.
type CheckSummary struct {
	Allowed bool   `json:"allowed"`
	Outcome string `json:"outcome"`
	Kind    string `json:"kind"`
	Action  string `json:"action"`
	Clause  int    `json:"clause"`
}

// CheckCommand evaluates one authorization request read from stdin. The
// request has the same shape as the body of POST /authz/check. It exits 0
// on Allow, ExitDenied on Deny and ExitMisconfigured when the rule tables
// have no entry for the request.
func CheckCommand(engine *policy.Engine, opts CheckOptions) int {
	if opts.Stdin == nil {
		opts.Stdin = os.Stdin
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}

	var req authz.CheckRequest
	dec := json.NewDecoder(opts.Stdin)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		_, _ = fmt.Fprintf(opts.Stderr, "check: decode request: %v\n", err)
		return 1
	}
	if err := req.Validate(authz.NewValidator()); err != nil {
		_, _ = fmt.Fprintf(opts.Stderr, "check: invalid request: %v\n", err)
		return 1
	}
	resource, err := req.Resource.ResourceValue()
	if err != nil {
		_, _ = fmt.Fprintf(opts.Stderr, "check: %v\n", err)
		return 1
	}

	d := engine.Decide(req.Actor.ActorValue(), policy.Action(req.Action), resource)
	summary := CheckSummary{
		Allowed: d.Allowed,
		Outcome: string(d.Outcome),
		Kind:    string(d.Kind),
		Action:  string(d.Action),
		Clause:  d.Clause,
	}
	if opts.JSONOutput {
		if err := json.NewEncoder(opts.Stdout).Encode(summary); err != nil {
			_, _ = fmt.Fprintf(opts.Stderr, "check: encode json: %v\n", err)
			return 1
		}
	} else {
		line := fmt.Sprintf("%s %s/%s", summary.Outcome, summary.Kind, summary.Action)
		if d.Allowed {
			line += fmt.Sprintf(" (clause %d)", d.Clause)
		}
		_, _ = fmt.Fprintln(opts.Stdout, line)
	}
	if d.Outcome == policy.OutcomeMisconfigured {
		_, _ = fmt.Fprintf(opts.Stderr, "check: %v\n", d.Err)
		return ExitMisconfigured
	}
	if !d.Allowed {
		return ExitDenied
	}
	return 0
}
