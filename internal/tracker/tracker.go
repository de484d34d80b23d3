// Package tracker ties the API gateway, the transaction snapshot and the
// report engine together for a signed-in user.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"expensetracker/internal/client"
	"expensetracker/internal/logger"
	"expensetracker/internal/models"
	"expensetracker/internal/report"
	"expensetracker/internal/session"
	"expensetracker/internal/store"
)

// Gateway is the remote side of the tracker. *client.Client implements it.
type Gateway interface {
	List(ctx context.Context) ([]models.Transaction, error)
	Create(ctx context.Context, in client.ExpenseInput) ([]models.Transaction, error)
	DeleteOne(ctx context.Context, id string) ([]models.Transaction, error)
	DeleteAll(ctx context.Context) error
	Signup(ctx context.Context, name, email, password string) error
	Login(ctx context.Context, email, password string) (client.LoginResult, error)
}

// Tracker replaces its snapshot only with what the server returned after a
// successful call. A failed call leaves the snapshot as it was.
type Tracker struct {
	gateway  Gateway
	store    *store.Store
	sessions session.Store
	loc      *time.Location
	now      func() time.Time
}

// New creates a tracker with an empty snapshot. Month boundaries are
// evaluated in loc; nil means time.Local.
func New(gateway Gateway, sessions session.Store, loc *time.Location) *Tracker {
	if loc == nil {
		loc = time.Local
	}
	return &Tracker{
		gateway:  gateway,
		store:    store.New(),
		sessions: sessions,
		loc:      loc,
		now:      time.Now,
	}
}

// Refresh reloads the snapshot from the server.
func (t *Tracker) Refresh(ctx context.Context) error {
	txs, err := t.gateway.List(ctx)
	if err != nil {
		return t.fail("refresh", err)
	}
	t.store.Replace(txs)
	return nil
}

// Add validates and creates a transaction.
func (t *Tracker) Add(ctx context.Context, in client.ExpenseInput) error {
	if err := in.Validate(); err != nil {
		return err
	}
	txs, err := t.gateway.Create(ctx, in)
	if err != nil {
		return t.fail("add", err)
	}
	t.store.Replace(txs)
	return nil
}

// Delete removes one transaction by id.
func (t *Tracker) Delete(ctx context.Context, id string) error {
	txs, err := t.gateway.DeleteOne(ctx, id)
	if err != nil {
		return t.fail("delete", err)
	}
	t.store.Replace(txs)
	return nil
}

// Reset removes every transaction and empties the snapshot.
func (t *Tracker) Reset(ctx context.Context) error {
	if err := t.gateway.DeleteAll(ctx); err != nil {
		return t.fail("reset", err)
	}
	t.store.Replace(nil)
	return nil
}

// Transactions returns the current snapshot in server order.
func (t *Tracker) Transactions() []models.Transaction {
	return t.store.Snapshot()
}

// Summary computes the all-time report from the current snapshot.
func (t *Tracker) Summary() report.Summary {
	return report.Summarize(t.store.Snapshot())
}

// Month computes the report for one calendar month of the current snapshot.
func (t *Tracker) Month(year int, month time.Month) (report.MonthReport, error) {
	return report.ForMonth(t.store.Snapshot(), year, month, t.loc)
}

// CurrentMonth returns the month the tracker treats as "now".
func (t *Tracker) CurrentMonth() (int, time.Month) {
	return report.CurrentMonth(t.now(), t.loc)
}

// Location returns the zone month boundaries are evaluated in.
func (t *Tracker) Location() *time.Location {
	return t.loc
}

// Signup registers a new account without signing in.
func (t *Tracker) Signup(ctx context.Context, name, email, password string) error {
	return t.gateway.Signup(ctx, name, email, password)
}

// Login signs in and persists the session.
func (t *Tracker) Login(ctx context.Context, email, password string) (session.Session, error) {
	res, err := t.gateway.Login(ctx, email, password)
	if err != nil {
		return session.Session{}, err
	}
	sess := session.Session{Token: res.Token, Name: res.Name, Email: res.Email}
	if err := t.sessions.Save(sess); err != nil {
		return session.Session{}, fmt.Errorf("saving session: %w", err)
	}
	return sess, nil
}

// Logout forgets the session and the snapshot.
func (t *Tracker) Logout() error {
	t.store.Replace(nil)
	return t.sessions.Clear()
}

// Session returns the stored session, if any.
func (t *Tracker) Session() (session.Session, bool) {
	sess, err := t.sessions.Load()
	if err != nil {
		return session.Session{}, false
	}
	return sess, true
}

func (t *Tracker) fail(op string, err error) error {
	if errors.Is(err, client.ErrSessionExpired) {
		logger.Get().Infow("Session expired, clearing local session", "op", op)
		if clearErr := t.sessions.Clear(); clearErr != nil {
			logger.Get().Warnw("Failed to clear session", "op", op, "error", clearErr)
		}
		return err
	}
	logger.Get().Debugw("Tracker operation failed", "op", op, "error", err)
	return err
}
