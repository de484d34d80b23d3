package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"expensetracker/internal/client"
	"expensetracker/internal/config"
	"expensetracker/internal/logger"
	"expensetracker/internal/session"
	"expensetracker/internal/tracker"
)

const (
	exitOK      = 0
	exitFailed  = 1
	exitUsage   = 2
	exitExpired = 3
)

var errUsage = errors.New("usage")

func main() {
	cfg, err := config.LoadClient()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(exitFailed)
	}

	logger.Init(os.Getenv("ENV"), cfg.LogLevel)
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sessions := session.NewFileStore(cfg.SessionFile)
	gw := client.NewClient(cfg.APIURL, &http.Client{Timeout: cfg.RequestTimeout}, func() string {
		return session.Token(sessions)
	})
	loc, err := config.LoadLocation(os.Getenv("REPORT_TZ"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid REPORT_TZ: %v\n", err)
		os.Exit(exitFailed)
	}

	app := &cli{
		tracker: tracker.New(gw, sessions, loc),
		gateway: gw,
		stdin:   os.Stdin,
		stdout:  os.Stdout,
		stderr:  os.Stderr,
	}
	code := app.run(ctx, os.Args[1:])
	logger.Sync()
	os.Exit(code)
}

// exitCode prints err the way a user should see it and maps it to a status.
func exitCode(w io.Writer, err error) int {
	if err == nil {
		return exitOK
	}
	if errors.Is(err, errUsage) {
		return exitUsage
	}

	switch client.Classify(err) {
	case client.OutcomeAuthExpired:
		fmt.Fprintln(w, "Your session has expired. Run 'expensectl login' to sign in again.")
		return exitExpired
	case client.OutcomeInvalid:
		fmt.Fprintln(w, client.UserMessage(err))
		return exitUsage
	}

	var opErr *client.OperationError
	if errors.As(err, &opErr) {
		logger.Get().Debugw("Request failed", "op", opErr.Op, "status", opErr.StatusCode, "error", err)
		fmt.Fprintln(w, opErr.UserMessage())
		return exitFailed
	}
	fmt.Fprintf(w, "Error: %v\n", err)
	return exitFailed
}
