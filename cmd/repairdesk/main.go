// repairdesk is the front-desk client for the repair shop backend: it lists,
// shows, creates and updates service tickets from the terminal.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/pflag"

	"repairdesk/internal/apiclient"
	"repairdesk/internal/config"
	"repairdesk/internal/desk"
	"repairdesk/internal/domain"
	"repairdesk/internal/telemetry"
	"repairdesk/internal/view"
)

const (
	exitFailure = 1
	exitUsage   = 2
)

// usageError marks a problem with the command line itself.
type usageError struct {
	msg string
}

func (e usageError) Error() string {
	return e.msg
}

func usagef(format string, args ...any) error {
	return usageError{msg: fmt.Sprintf(format, args...)}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

type app struct {
	client   *apiclient.Client
	desk     *desk.Desk
	renderer view.Renderer
	printer  *view.Printer
	stdout   io.Writer
	stderr   io.Writer
}

func run(ctx context.Context, args []string, stdout io.Writer, stderr io.Writer) int {
	cfg := config.LoadClient()

	var baseURL, token string
	var verbose bool
	flagSet := pflag.NewFlagSet("repairdesk", pflag.ContinueOnError)
	flagSet.SetOutput(stderr)
	flagSet.SetInterspersed(false)
	flagSet.StringVar(&baseURL, "base-url", "", "backend base URL (default: $API_BASE_URL)")
	flagSet.StringVar(&token, "token", "", "bearer token (default: $API_TOKEN)")
	flagSet.BoolVarP(&verbose, "verbose", "v", false, "log request failures in detail")
	flagSet.Usage = func() { printUsage(stderr, flagSet) }

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		return exitUsage
	}
	if baseURL != "" {
		cfg.BaseURL = strings.TrimRight(baseURL, "/")
	}
	if token != "" {
		cfg.Token = token
	}
	if !verbose {
		log.SetOutput(io.Discard)
		defer log.SetOutput(os.Stderr)
	}

	rest := flagSet.Args()
	if len(rest) == 0 {
		printUsage(stderr, flagSet)
		return exitUsage
	}

	shutdownTracing := telemetry.Setup(ctx, "repairdesk-cli")
	defer func() {
		_ = shutdownTracing(context.Background())
	}()

	client := apiclient.New(cfg)
	printer := view.NewPrinter(stdout, stderr, view.DefaultTheme)
	a := &app{
		client:   client,
		desk:     desk.New(client, printer, printer, cfg.Lookup),
		renderer: view.NewRenderer(view.DefaultTheme),
		printer:  printer,
		stdout:   stdout,
		stderr:   stderr,
	}

	var err error
	switch rest[0] {
	case "list":
		err = a.list(ctx, rest[1:])
	case "show":
		err = a.show(ctx, rest[1:])
	case "create":
		err = a.create(ctx, rest[1:])
	case "update":
		err = a.update(ctx, rest[1:])
	case "login":
		err = a.login(ctx, rest[1:])
	case "help":
		printUsage(stdout, flagSet)
		return 0
	default:
		err = usagef("unknown command %q", rest[0])
	}
	return a.exitCode(err)
}

func (a *app) exitCode(err error) int {
	if err == nil {
		return 0
	}
	if errors.Is(err, pflag.ErrHelp) {
		return 0
	}

	var usage usageError
	if errors.As(err, &usage) {
		fmt.Fprintf(a.stderr, "error: %s\n", usage.msg)
		return exitUsage
	}

	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		fmt.Fprintln(a.stderr, "The form has errors:")
		fmt.Fprintln(a.stderr, a.renderer.RenderValidation(verr))
		return exitUsage
	}
	if errors.Is(err, domain.ErrValidation) {
		fmt.Fprintf(a.stderr, "error: %v\n", err)
		return exitUsage
	}

	// Request failures have already been reported by the desk.
	return exitFailure
}

func printUsage(w io.Writer, flagSet *pflag.FlagSet) {
	fmt.Fprint(w, `repairdesk manages repair service tickets.

Usage:
  repairdesk [global flags] <command> [flags]

Commands:
  list [--status pending|completed-paid|completed-unpaid]
  show <id>
  create -f form.yaml
  update <id> [-f patch.yaml] [--paid|--unpaid] [--manual-total N] [--clear-manual-total]
  login -u <username> -p <password>

Global flags:
`)
	flagSet.SetOutput(w)
	flagSet.PrintDefaults()
}
