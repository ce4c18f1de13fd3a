package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"repairdesk/internal/domain"
)

func (a *app) newFlagSet(name string) *pflag.FlagSet {
	flagSet := pflag.NewFlagSet(name, pflag.ContinueOnError)
	flagSet.SetOutput(a.stderr)
	return flagSet
}

// parseFlags turns pflag failures other than --help into usage errors.
func parseFlags(flagSet *pflag.FlagSet, args []string) error {
	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return err
		}
		return usageError{msg: err.Error()}
	}
	return nil
}

func (a *app) list(ctx context.Context, args []string) error {
	var status string
	flagSet := a.newFlagSet("list")
	flagSet.StringVar(&status, "status", "", "only show tickets with this status")
	if err := parseFlags(flagSet, args); err != nil {
		return err
	}
	if flagSet.NArg() > 0 {
		return usagef("unexpected argument: %s", flagSet.Arg(0))
	}

	var filter domain.TicketFilter
	if strings.TrimSpace(status) != "" {
		parsed, err := domain.ParseStatus(status)
		if err != nil {
			return usagef("%v", err)
		}
		filter.Status = &parsed
	}

	tickets, err := a.desk.List(ctx, filter)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.stdout, a.renderer.RenderList(tickets))
	return nil
}

func (a *app) show(ctx context.Context, args []string) error {
	flagSet := a.newFlagSet("show")
	if err := parseFlags(flagSet, args); err != nil {
		return err
	}
	if flagSet.NArg() != 1 {
		return usagef("show takes exactly one ticket id")
	}

	detail, err := a.desk.Open(ctx, flagSet.Arg(0))
	if err != nil {
		return err
	}
	fmt.Fprintln(a.stdout, a.renderer.RenderDetail(detail))
	return nil
}

func (a *app) create(ctx context.Context, args []string) error {
	var file string
	flagSet := a.newFlagSet("create")
	flagSet.StringVarP(&file, "file", "f", "", "YAML file with the ticket form")
	if err := parseFlags(flagSet, args); err != nil {
		return err
	}
	if file == "" {
		return usagef("create needs a form file (-f form.yaml)")
	}

	var form domain.TicketForm
	if err := readForm(file, &form); err != nil {
		return err
	}

	created, err := a.desk.Create(ctx, form)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "Service id: %s\n", created.ID)
	return nil
}

func (a *app) update(ctx context.Context, args []string) error {
	var (
		file             string
		paid             bool
		unpaid           bool
		manualTotal      string
		clearManualTotal bool
	)
	flagSet := a.newFlagSet("update")
	flagSet.StringVarP(&file, "file", "f", "", "YAML patch applied over the current ticket")
	flagSet.BoolVar(&paid, "paid", false, "mark the ticket completed and paid")
	flagSet.BoolVar(&unpaid, "unpaid", false, "mark the ticket completed and unpaid")
	flagSet.StringVar(&manualTotal, "manual-total", "", "amount billed instead of the calculated total")
	flagSet.BoolVar(&clearManualTotal, "clear-manual-total", false, "bill the calculated total")
	if err := parseFlags(flagSet, args); err != nil {
		return err
	}
	if flagSet.NArg() != 1 {
		return usagef("update takes exactly one ticket id")
	}
	if paid && unpaid {
		return usagef("--paid and --unpaid cannot be combined")
	}
	if manualTotal != "" && clearManualTotal {
		return usagef("--manual-total and --clear-manual-total cannot be combined")
	}

	var manual *domain.Amount
	if manualTotal != "" {
		parsed, err := domain.ParseAmount(manualTotal)
		if err != nil {
			return usagef("invalid --manual-total: %v", err)
		}
		manual = &parsed
	}

	detail, err := a.desk.Open(ctx, flagSet.Arg(0))
	if err != nil {
		return err
	}

	form := domain.FormFromTicket(detail.Ticket)
	if file != "" {
		if err := readForm(file, &form); err != nil {
			return err
		}
	}
	switch {
	case paid:
		form.PaymentStatus = string(domain.PaymentPaid)
	case unpaid:
		form.PaymentStatus = string(domain.PaymentUnpaid)
	}
	switch {
	case manual != nil:
		form.ManualTotal = manual
	case clearManualTotal:
		form.ManualTotal = nil
	}

	updated, err := a.desk.Update(ctx, detail, form)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "Status: %s  Amount: %s\n", updated.Status, updated.Amount())
	return nil
}

func (a *app) login(ctx context.Context, args []string) error {
	var username, password string
	flagSet := a.newFlagSet("login")
	flagSet.StringVarP(&username, "username", "u", "", "staff username")
	flagSet.StringVarP(&password, "password", "p", "", "staff password")
	if err := parseFlags(flagSet, args); err != nil {
		return err
	}
	if strings.TrimSpace(username) == "" || password == "" {
		return usagef("login needs -u <username> and -p <password>")
	}

	resp, err := a.client.Login(ctx, username, password)
	if err != nil {
		a.printer.Error("Login failed")
		return err
	}
	a.printer.Success(fmt.Sprintf("Logged in as %s (%s), token expires %s", strings.TrimSpace(username), resp.Role, resp.ExpiresAt))
	fmt.Fprintf(a.stdout, "export API_TOKEN=%s\n", resp.AccessToken)
	return nil
}

// readForm decodes a YAML form file into form. Fields missing from the file
// keep their current values, which is how update applies a patch.
func readForm(path string, form *domain.TicketForm) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return usagef("read form file: %v", err)
	}
	if err := yaml.Unmarshal(data, form); err != nil {
		return usagef("parse form file %s: %v", path, err)
	}
	return nil
}
