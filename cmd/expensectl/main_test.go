package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"expensetracker/internal/client"
	"expensetracker/internal/models"
	"expensetracker/internal/session"
	"expensetracker/internal/tracker"
)

type testCLI struct {
	*cli
	stdout   *bytes.Buffer
	stderr   *bytes.Buffer
	sessions *session.MemoryStore
}

func newTestCLI(t *testing.T, handler http.HandlerFunc) *testCLI {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	sessions := session.NewMemoryStore()
	if err := sessions.Save(session.Session{Token: "jwt", Name: "Ana"}); err != nil {
		t.Fatalf("save session: %v", err)
	}
	gw := client.NewClient(server.URL, server.Client(), func() string { return session.Token(sessions) })

	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	return &testCLI{
		cli: &cli{
			tracker: tracker.New(gw, sessions, time.UTC),
			gateway: gw,
			stdin:   strings.NewReader(""),
			stdout:  stdout,
			stderr:  stderr,
		},
		stdout:   stdout,
		stderr:   stderr,
		sessions: sessions,
	}
}

func listHandler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"message": "Fetched Expenses successfully",
			"data": []map[string]any{
				{"id": "tx-1", "text": "Pay", "amount": 500, "category": "Salary", "created_at": "2024-05-01T09:00:00Z"},
				{"id": "tx-2", "text": "Vet", "amount": -40, "category": "Pets", "created_at": "2024-05-02T09:00:00Z"},
			},
		})
	}
}

func TestRun_List(t *testing.T) {
	app := newTestCLI(t, listHandler(t))

	if code := app.run(context.Background(), []string{"list"}); code != exitOK {
		t.Fatalf("expected exit 0, got %d: %s", code, app.stderr)
	}
	out := app.stdout.String()
	for _, want := range []string{"tx-1", "Pay", "500.00", "Pets", "-40.00", "❓"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRun_Share(t *testing.T) {
	app := newTestCLI(t, listHandler(t))

	if code := app.run(context.Background(), []string{"share"}); code != exitOK {
		t.Fatalf("expected exit 0, got %d: %s", code, app.stderr)
	}
	if got, want := app.stdout.String(), "Pay: 500 (Salary)\nVet: -40 (Pets)\n"; got != want {
		t.Errorf("share output = %q, want %q", got, want)
	}
}

func TestRun_ShareEmpty(t *testing.T) {
	app := newTestCLI(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"message":"Fetched Expenses successfully","data":[]}`))
	})

	if code := app.run(context.Background(), []string{"share"}); code != exitOK {
		t.Fatalf("expected exit 0, got %d: %s", code, app.stderr)
	}
	if !strings.Contains(app.stdout.String(), "No transactions yet.") {
		t.Errorf("unexpected output %q", app.stdout.String())
	}
}

func TestRun_Summary(t *testing.T) {
	app := newTestCLI(t, listHandler(t))

	if code := app.run(context.Background(), []string{"summary"}); code != exitOK {
		t.Fatalf("expected exit 0, got %d: %s", code, app.stderr)
	}
	out := app.stdout.String()
	for _, want := range []string{"Income", "500.00", "Balance", "460.00", "Monthly income:    500.00"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRun_Month(t *testing.T) {
	app := newTestCLI(t, listHandler(t))

	if code := app.run(context.Background(), []string{"month", "2024-05"}); code != exitOK {
		t.Fatalf("expected exit 0, got %d: %s", code, app.stderr)
	}
	if out := app.stdout.String(); !strings.Contains(out, "May 2024") || !strings.Contains(out, "40.00") {
		t.Errorf("unexpected output:\n%s", out)
	}

	app.stdout.Reset()
	if code := app.run(context.Background(), []string{"month", "2024-13"}); code != exitUsage {
		t.Errorf("expected usage exit for a bad month, got %d", code)
	}
}

func TestRun_SessionExpired(t *testing.T) {
	app := newTestCLI(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})

	if code := app.run(context.Background(), []string{"list"}); code != exitExpired {
		t.Fatalf("expected exit %d, got %d", exitExpired, code)
	}
	if !strings.Contains(app.stderr.String(), "expensectl login") {
		t.Errorf("expected re-login notice, got %q", app.stderr.String())
	}
	if _, err := app.sessions.Load(); err == nil {
		t.Error("session should be cleared")
	}
}

func TestRun_AddValidation(t *testing.T) {
	called := false
	app := newTestCLI(t, func(w http.ResponseWriter, _ *http.Request) { called = true })

	code := app.run(context.Background(), []string{"add", "expense", "abc", "Food", "Lunch"})
	if code != exitUsage {
		t.Fatalf("expected usage exit, got %d", code)
	}
	if !strings.Contains(app.stderr.String(), "Please enter a valid amount") {
		t.Errorf("unexpected stderr %q", app.stderr.String())
	}
	if called {
		t.Error("invalid input must not reach the server")
	}
}

func TestRun_AddSendsNegativeExpense(t *testing.T) {
	app := newTestCLI(t, func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Text     string          `json:"text"`
			Amount   json.RawMessage `json:"amount"`
			Category string          `json:"category"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body.Text != "Team lunch" || body.Category != "Food" || strings.Trim(string(body.Amount), `"`) != "-12.5" {
			t.Errorf("unexpected body %+v (%s)", body, body.Amount)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"message": "Expense added successfully", "data": []any{}})
	})

	code := app.run(context.Background(), []string{"add", "expense", "12.5", "Food", "Team", "lunch"})
	if code != exitOK {
		t.Fatalf("expected exit 0, got %d: %s", code, app.stderr)
	}
}

func TestRun_ResetNeedsConfirmation(t *testing.T) {
	called := false
	app := newTestCLI(t, func(w http.ResponseWriter, _ *http.Request) { called = true })

	if code := app.run(context.Background(), []string{"reset"}); code != exitUsage {
		t.Fatalf("expected usage exit, got %d", code)
	}
	if called {
		t.Error("reset without -yes must not reach the server")
	}
}

func TestRun_ServerMessageShown(t *testing.T) {
	app := newTestCLI(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"Transaction not found","success":false}`))
	})

	if code := app.run(context.Background(), []string{"delete", "nope"}); code != exitFailed {
		t.Fatalf("expected exit %d, got %d", exitFailed, code)
	}
	if !strings.Contains(app.stderr.String(), "Transaction not found") {
		t.Errorf("unexpected stderr %q", app.stderr.String())
	}
}

func TestRun_LocalExport(t *testing.T) {
	app := newTestCLI(t, listHandler(t))
	out := filepath.Join(t.TempDir(), "may.csv")

	code := app.run(context.Background(), []string{"export", "-local", "-out", out, "2024-05"})
	if code != exitOK {
		t.Fatalf("expected exit 0, got %d: %s", code, app.stderr)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	if !strings.HasPrefix(string(data), "Date,Text,Amount,Category\n") || !strings.Contains(string(data), "Vet,-40.00,Pets") {
		t.Errorf("unexpected export:\n%s", data)
	}
}

func TestRun_UnknownCommand(t *testing.T) {
	app := newTestCLI(t, listHandler(t))
	if code := app.run(context.Background(), []string{"frobnicate"}); code != exitUsage {
		t.Errorf("expected usage exit, got %d", code)
	}
}

func TestCategoryIcon(t *testing.T) {
	if got := categoryIcon(models.CategoryFood); got != "🍴" {
		t.Errorf("Food icon = %q", got)
	}
	for _, c := range []models.Category{"Pets", "", models.CategoryOther} {
		if got := categoryIcon(c); got != "❓" {
			t.Errorf("%q icon = %q, want unknown", c, got)
		}
	}
}
