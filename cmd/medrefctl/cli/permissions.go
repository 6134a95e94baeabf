package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/medref/medref/internal/rbac"
)

// PermissionsOptions defines available flags for the permissions command.
type PermissionsOptions struct {
	Role       string
	JSONOutput bool
	Stdout     io.Writer
	Stderr     io.Writer
}

// PermissionsSummary is the JSON output of the permissions command.
type PermissionsSummary struct {
	Source      string   `json:"source"`
	Role        string   `json:"role"`
	Known       bool     `json:"known"`
	Permissions []string `json:"permissions"`
}

// PermissionsCommand loads and validates the role table from source and
// prints the permission set of one role. Unknown roles print an empty set.
func PermissionsCommand(ctx context.Context, source rbac.Source, opts PermissionsOptions) int {
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	role := strings.ToLower(strings.TrimSpace(opts.Role))
	if role == "" {
		_, _ = fmt.Fprintln(opts.Stderr, "permissions: role is required")
		return 1
	}
	table, err := LoadTable(ctx, source)
	if err != nil {
		_, _ = fmt.Fprintf(opts.Stderr, "permissions: %v\n", err)
		return 1
	}
	_, known := table.Role(role)
	summary := PermissionsSummary{
		Source:      table.Source(),
		Role:        role,
		Known:       known,
		Permissions: table.PermissionsFor(role),
	}
	if opts.JSONOutput {
		if err := json.NewEncoder(opts.Stdout).Encode(summary); err != nil {
			_, _ = fmt.Fprintf(opts.Stderr, "permissions: encode json: %v\n", err)
			return 1
		}
		return 0
	}
	if !known {
		_, _ = fmt.Fprintf(opts.Stdout, "%s: unknown role, no permissions\n", role)
		return 0
	}
	for _, p := range summary.Permissions {
		_, _ = fmt.Fprintln(opts.Stdout, p)
	}
	return 0
}

// ValidateOptions defines available flags for the validate command.
type ValidateOptions struct {
	Stdout io.Writer
	Stderr io.Writer
}

// ValidateCommand loads the role table from source and reports whether it
// would be accepted by a running instance.
func ValidateCommand(ctx context.Context, source rbac.Source, opts ValidateOptions) int {
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	table, err := LoadTable(ctx, source)
	if err != nil {
		_, _ = fmt.Fprintf(opts.Stderr, "validate: %v\n", err)
		return 1
	}
	_, _ = fmt.Fprintf(opts.Stdout, "%s: %d roles ok\n", table.Source(), len(table.Roles()))
	return 0
}

// LoadTable reads roles from source and builds a validated table.
func LoadTable(ctx context.Context, source rbac.Source) (*rbac.Table, error) {
	roles, err := source.LoadRoles(ctx)
	if err != nil {
		return nil, fmt.Errorf("load roles from %s: %w", source.Name(), err)
	}
	return rbac.NewTable(source.Name(), roles)
}
