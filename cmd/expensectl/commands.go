package main

import (
	"bufio"
	"bytes"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"expensetracker/internal/client"
	"expensetracker/internal/export"
	"expensetracker/internal/report"
	"expensetracker/internal/tracker"
)

type exporter interface {
	Export(ctx context.Context, year int, month time.Month, format string) (client.Download, error)
}

type cli struct {
	tracker *tracker.Tracker
	gateway exporter
	stdin   io.Reader
	stdout  io.Writer
	stderr  io.Writer
}

func (c *cli) run(ctx context.Context, args []string) int {
	if len(args) < 1 {
		c.printUsage()
		return exitUsage
	}

	var err error
	switch cmd, rest := args[0], args[1:]; cmd {
	case "signup":
		err = c.signup(ctx, rest)
	case "login":
		err = c.login(ctx, rest)
	case "logout":
		err = c.logout()
	case "list":
		err = c.list(ctx)
	case "add":
		err = c.add(ctx, rest)
	case "delete":
		err = c.delete(ctx, rest)
	case "reset":
		err = c.reset(ctx, rest)
	case "share":
		err = c.share(ctx)
	case "summary":
		err = c.summary(ctx)
	case "month":
		err = c.month(ctx, rest)
	case "export":
		err = c.export(ctx, rest)
	case "help", "-h", "--help":
		c.printUsage()
		return exitOK
	default:
		fmt.Fprintf(c.stderr, "Unknown command: %s\n\n", cmd)
		c.printUsage()
		return exitUsage
	}
	return exitCode(c.stderr, err)
}

func (c *cli) printUsage() {
	fmt.Fprint(c.stderr, `Expense Tracker CLI

Usage:
  expensectl <command> [options]

Commands:
  signup  -name NAME -email EMAIL [-password PASS]   Create an account
  login   -email EMAIL [-password PASS]              Sign in
  logout                                             Forget the saved session
  list                                               Show all transactions
  add     <expense|income|additional> <amount> <category> <text...>
  delete  <id>                                       Delete one transaction
  reset   -yes                                       Delete every transaction
  share                                              Print the history as plain text
  summary                                            All-time totals and categories
  month   [YYYY-MM]                                  Totals and expenses for a month
  export  [-format csv|xlsx] [-out FILE] [-local] [YYYY-MM]

Categories: Food, Rent, Salary, Transport, Entertainment, Medical, Utilities, Shopping, Other
`)
}

func (c *cli) newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	return fs
}

func (c *cli) parse(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	return nil
}

func (c *cli) signup(ctx context.Context, args []string) error {
	fs := c.newFlagSet("signup")
	name := fs.String("name", "", "Display name")
	email := fs.String("email", "", "Email address")
	password := fs.String("password", "", "Password (prompted when empty)")
	if err := c.parse(fs, args); err != nil {
		return err
	}
	if *name == "" || *email == "" {
		fmt.Fprintln(c.stderr, "Usage: expensectl signup -name NAME -email EMAIL [-password PASS]")
		return errUsage
	}

	pass, err := c.password(*password)
	if err != nil {
		return err
	}
	if err := c.tracker.Signup(ctx, *name, *email, pass); err != nil {
		return err
	}
	fmt.Fprintln(c.stdout, "Signup successfully. You can now log in.")
	return nil
}

func (c *cli) login(ctx context.Context, args []string) error {
	fs := c.newFlagSet("login")
	email := fs.String("email", "", "Email address")
	password := fs.String("password", "", "Password (prompted when empty)")
	if err := c.parse(fs, args); err != nil {
		return err
	}
	if *email == "" {
		fmt.Fprintln(c.stderr, "Usage: expensectl login -email EMAIL [-password PASS]")
		return errUsage
	}

	pass, err := c.password(*password)
	if err != nil {
		return err
	}
	sess, err := c.tracker.Login(ctx, *email, pass)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.stdout, "Welcome, %s\n", sess.Name)
	return nil
}

// password returns the flag value or reads one line from stdin.
func (c *cli) password(flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	if env := os.Getenv("EXPENSES_PASSWORD"); env != "" {
		return env, nil
	}
	fmt.Fprint(c.stderr, "Password: ")
	line, err := bufio.NewReader(c.stdin).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("reading password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (c *cli) logout() error {
	if err := c.tracker.Logout(); err != nil {
		return err
	}
	fmt.Fprintln(c.stdout, "Logged out.")
	return nil
}

func (c *cli) list(ctx context.Context) error {
	if err := c.tracker.Refresh(ctx); err != nil {
		return err
	}
	txs := c.tracker.Transactions()
	if len(txs) == 0 {
		fmt.Fprintln(c.stdout, "No transactions yet.")
		return nil
	}
	renderTransactions(c.stdout, txs, c.tracker.Location())
	return nil
}

func (c *cli) add(ctx context.Context, args []string) error {
	if len(args) < 4 {
		fmt.Fprintln(c.stderr, "Usage: expensectl add <expense|income|additional> <amount> <category> <text...>")
		return errUsage
	}

	in, err := client.NewInput(client.Kind(strings.ToLower(args[0])), strings.Join(args[3:], " "), args[1], args[2])
	if err != nil {
		return err
	}
	if err := c.tracker.Add(ctx, in); err != nil {
		return err
	}
	fmt.Fprintln(c.stdout, "Expense added successfully")
	renderTotals(c.stdout, c.tracker.Summary().Totals)
	return nil
}

func (c *cli) delete(ctx context.Context, args []string) error {
	if len(args) != 1 {
		fmt.Fprintln(c.stderr, "Usage: expensectl delete <id>")
		return errUsage
	}
	if err := c.tracker.Delete(ctx, args[0]); err != nil {
		return err
	}
	fmt.Fprintln(c.stdout, "Expense Deleted successfully")
	renderTotals(c.stdout, c.tracker.Summary().Totals)
	return nil
}

func (c *cli) reset(ctx context.Context, args []string) error {
	fs := c.newFlagSet("reset")
	yes := fs.Bool("yes", false, "Confirm deleting every transaction")
	if err := c.parse(fs, args); err != nil {
		return err
	}
	if !*yes {
		fmt.Fprintln(c.stderr, "This deletes all of your transactions. Re-run with -yes to confirm.")
		return errUsage
	}
	if err := c.tracker.Reset(ctx); err != nil {
		return err
	}
	fmt.Fprintln(c.stdout, "All transactions deleted successfully")
	return nil
}

func (c *cli) share(ctx context.Context) error {
	if err := c.tracker.Refresh(ctx); err != nil {
		return err
	}
	txs := c.tracker.Transactions()
	if len(txs) == 0 {
		fmt.Fprintln(c.stdout, "No transactions yet.")
		return nil
	}
	renderShare(c.stdout, txs)
	return nil
}

func (c *cli) summary(ctx context.Context) error {
	if err := c.tracker.Refresh(ctx); err != nil {
		return err
	}
	renderSummary(c.stdout, c.tracker.Summary())
	return nil
}

func (c *cli) month(ctx context.Context, args []string) error {
	year, month, err := c.monthArg(args)
	if err != nil {
		return err
	}
	if err := c.tracker.Refresh(ctx); err != nil {
		return err
	}
	r, err := c.tracker.Month(year, month)
	if err != nil {
		return err
	}
	renderMonth(c.stdout, r, c.tracker.Location())
	return nil
}

func (c *cli) export(ctx context.Context, args []string) error {
	fs := c.newFlagSet("export")
	formatFlag := fs.String("format", "csv", "File format: csv or xlsx")
	out := fs.String("out", "", "Output file (defaults to the server's file name)")
	local := fs.Bool("local", false, "Build the file from the local snapshot instead of the server")
	if err := c.parse(fs, args); err != nil {
		return err
	}

	format, err := export.ParseFormat(*formatFlag)
	if err != nil {
		return &client.ValidationError{Message: err.Error()}
	}
	year, month, err := c.monthArg(fs.Args())
	if err != nil {
		return err
	}

	var d client.Download
	if *local {
		d, err = c.localExport(ctx, year, month, format)
	} else {
		d, err = c.gateway.Export(ctx, year, month, string(format))
		if client.Classify(err) == client.OutcomeAuthExpired {
			_ = c.tracker.Logout()
		}
	}
	if err != nil {
		return err
	}

	path := *out
	if path == "" {
		path = d.FileName
	}
	if err := os.WriteFile(path, d.Body, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	fmt.Fprintf(c.stdout, "Saved %s\n", path)
	return nil
}

func (c *cli) localExport(ctx context.Context, year int, month time.Month, format export.Format) (client.Download, error) {
	if err := c.tracker.Refresh(ctx); err != nil {
		return client.Download{}, err
	}
	r, err := c.tracker.Month(year, month)
	if err != nil {
		return client.Download{}, err
	}
	if len(r.Transactions) == 0 {
		return client.Download{}, &client.OperationError{Op: "exporting month", Message: "No transactions found for the selected month"}
	}

	var buf bytes.Buffer
	if err := export.Write(&buf, format, r.Transactions, c.tracker.Location()); err != nil {
		return client.Download{}, err
	}
	return client.Download{
		FileName:    export.FileName(year, month, format),
		ContentType: format.ContentType(),
		Body:        buf.Bytes(),
	}, nil
}

// monthArg parses an optional YYYY-MM argument, defaulting to the current month.
func (c *cli) monthArg(args []string) (int, time.Month, error) {
	switch len(args) {
	case 0:
		y, m := c.tracker.CurrentMonth()
		return y, m, nil
	case 1:
		y, m, err := report.ParseMonth(args[0])
		if err != nil {
			return 0, 0, &client.ValidationError{Message: err.Error()}
		}
		return y, m, nil
	default:
		fmt.Fprintln(c.stderr, "Expected at most one YYYY-MM argument")
		return 0, 0, errUsage
	}
}
