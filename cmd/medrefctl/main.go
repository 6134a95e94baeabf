// medrefctl inspects the authorization rules and role tables and triggers
// role reloads.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/medref/medref/cmd/medrefctl/cli"
	"github.com/medref/medref/internal/app"
	"github.com/medref/medref/internal/platform/db"
	"github.com/medref/medref/internal/policy"
	"github.com/medref/medref/internal/rbac"
	"github.com/medref/medref/internal/roles"
)

const usage = `usage: medrefctl <command> [flags]

commands:
  rules        print the rule tables
  permissions  print the permission set of a role
  validate     load and validate a role table
  check        evaluate an authorization request read from stdin
  reload       enqueue a role table reload
  queue        show job queue statistics
`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) == 0 || args[0] == "-h" || args[0] == "--help" || args[0] == "help" {
		_, _ = fmt.Fprint(stderr, usage)
		if len(args) == 0 {
			return 2
		}
		return 0
	}
	name, rest := args[0], args[1:]
	switch name {
	case "rules":
		return runRules(rest, stdout, stderr)
	case "permissions":
		return runPermissions(ctx, rest, stdout, stderr)
	case "validate":
		return runValidate(ctx, rest, stdout, stderr)
	case "check":
		return runCheck(rest, stdin, stdout, stderr)
	case "reload":
		return runReload(ctx, rest, stdout, stderr)
	case "queue":
		return runQueue(ctx, rest, stdout, stderr)
	}
	_, _ = fmt.Fprintf(stderr, "medrefctl: unknown command %q\n\n%s", name, usage)
	return 2
}

func newFlagSet(name string, stderr io.Writer) *pflag.FlagSet {
	fs := pflag.NewFlagSet("medrefctl "+name, pflag.ContinueOnError)
	fs.SetOutput(stderr)
	return fs
}

func parse(fs *pflag.FlagSet, args []string) (int, bool) {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0, false
		}
		return 2, false
	}
	return 0, true
}

type sourceFlags struct {
	kind string
	file string
	dsn  string
}

func (s *sourceFlags) add(fs *pflag.FlagSet) {
	fs.StringVar(&s.kind, "source", envOr("RBAC_SOURCE", app.RBACSourceDefaults), "role table source: defaults, file or postgres")
	fs.StringVar(&s.file, "file", os.Getenv("RBAC_ROLES_FILE"), "YAML role file for --source=file")
	fs.StringVar(&s.dsn, "dsn", os.Getenv("PG_DSN"), "PostgreSQL DSN for --source=postgres")
}

// open returns the selected source and a release func.
func (s *sourceFlags) open(ctx context.Context) (rbac.Source, func(), error) {
	cfg := &app.Config{RBACSource: s.kind, RBACRolesFile: s.file, PGDSN: s.dsn}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	if !cfg.NeedsPostgres() {
		src, err := app.RoleSource(cfg, nil)
		return src, func() {}, err
	}
	pool, err := db.New(ctx, cfg.PGDSN, 2)
	if err != nil {
		return nil, nil, err
	}
	return roles.NewRepository(pool), pool.Close, nil
}

func runRules(args []string, stdout, stderr io.Writer) int {
	fs := newFlagSet("rules", stderr)
	opts := cli.RulesOptions{Stdout: stdout, Stderr: stderr}
	fs.StringVar(&opts.Kind, "kind", "", "only print the table for this resource kind")
	fs.BoolVar(&opts.JSONOutput, "json", false, "print JSON")
	if code, ok := parse(fs, args); !ok {
		return code
	}
	return cli.RulesCommand(policy.NewEngine(), opts)
}

func runPermissions(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := newFlagSet("permissions", stderr)
	var src sourceFlags
	src.add(fs)
	opts := cli.PermissionsOptions{Stdout: stdout, Stderr: stderr}
	fs.BoolVar(&opts.JSONOutput, "json", false, "print JSON")
	if code, ok := parse(fs, args); !ok {
		return code
	}
	if fs.NArg() != 1 {
		_, _ = fmt.Fprintln(stderr, "usage: medrefctl permissions <role> [flags]")
		return 2
	}
	opts.Role = fs.Arg(0)
	source, release, err := src.open(ctx)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "permissions: %v\n", err)
		return 1
	}
	defer release()
	return cli.PermissionsCommand(ctx, source, opts)
}

func runValidate(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := newFlagSet("validate", stderr)
	var src sourceFlags
	src.add(fs)
	if code, ok := parse(fs, args); !ok {
		return code
	}
	source, release, err := src.open(ctx)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "validate: %v\n", err)
		return 1
	}
	defer release()
	return cli.ValidateCommand(ctx, source, cli.ValidateOptions{Stdout: stdout, Stderr: stderr})
}

func runCheck(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := newFlagSet("check", stderr)
	opts := cli.CheckOptions{Stdin: stdin, Stdout: stdout, Stderr: stderr}
	fs.BoolVar(&opts.JSONOutput, "json", false, "print JSON")
	if code, ok := parse(fs, args); !ok {
		return code
	}
	return cli.CheckCommand(policy.NewEngine(), opts)
}

func runReload(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := newFlagSet("reload", stderr)
	redisAddr := fs.String("redis", envOr("REDIS_ADDR", "127.0.0.1:6379"), "Redis address of the job queue")
	requestedBy := fs.String("by", os.Getenv("USER"), "operator recorded on the task")
	if code, ok := parse(fs, args); !ok {
		return code
	}
	jobsCLI, err := cli.NewJobsCLI(*redisAddr)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "reload: %v\n", err)
		return 1
	}
	defer func() { _ = jobsCLI.Close() }()

	info, dup, err := jobsCLI.TriggerReload(ctx, *requestedBy)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "reload: %v\n", err)
		return 1
	}
	if dup {
		_, _ = fmt.Fprintln(stdout, "reload already queued")
		return 0
	}
	_, _ = fmt.Fprintf(stdout, "enqueued %s id=%s queue=%s\n", info.Type, info.ID, info.Queue)
	return 0
}

func runQueue(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := newFlagSet("queue", stderr)
	redisAddr := fs.String("redis", envOr("REDIS_ADDR", "127.0.0.1:6379"), "Redis address of the job queue")
	if code, ok := parse(fs, args); !ok {
		return code
	}
	jobsCLI, err := cli.NewJobsCLI(*redisAddr)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "queue: %v\n", err)
		return 1
	}
	defer func() { _ = jobsCLI.Close() }()

	stats, err := jobsCLI.InspectQueue(ctx)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "queue: %v\n", err)
		return 1
	}
	_, _ = fmt.Fprintf(stdout, "queue=%s pending=%d active=%d scheduled=%d retry=%d\n",
		stats.Queue, stats.Pending, stats.Active, stats.Scheduled, stats.Retry)
	return 0
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
