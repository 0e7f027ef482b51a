package banktransfer

import (
	"errors"
	"sync"

	"github.com/fritzpay/banktransferd/pkg/crowdfunding/currency"
	"github.com/fritzpay/banktransferd/pkg/crowdfunding/payout"
	"github.com/fritzpay/banktransferd/pkg/crowdfunding/project"
	"github.com/fritzpay/banktransferd/pkg/crowdfunding/reward"
	"github.com/fritzpay/banktransferd/pkg/crowdfunding/session"
	"github.com/fritzpay/banktransferd/pkg/crowdfunding/transaction"
	"github.com/shopspring/decimal"
	"golang.org/x/net/context"
	"gopkg.in/inconshreveable/log15.v2"
)

func testLog() log15.Logger {
	l := log15.New()
	l.SetHandler(log15.DiscardHandler())
	return l
}

type fakeProjects map[int64]*project.Project

func (f fakeProjects) ProjectByID(id int64) (*project.Project, error) {
	p, ok := f[id]
	if !ok {
		return nil, project.ErrProjectNotFound
	}
	return p, nil
}

type fakeCurrencies struct{}

func (fakeCurrencies) CurrencyByCode(code string) (currency.Currency, error) {
	if code != "EUR" {
		return currency.Currency{}, currency.ErrCurrencyNotFound
	}
	return currency.Currency{ID: 1, Code: "EUR", Symbol: "€"}, nil
}

type fakeRewards map[int64]bool

func (f fakeRewards) IsPublishedReward(id int64) (bool, error) {
	return f[id], nil
}

func (f fakeRewards) RewardByID(id, projectID int64) (*reward.Reward, error) {
	if !f[id] {
		return nil, reward.ErrRewardNotFound
	}
	return &reward.Reward{ID: id, ProjectID: projectID, Title: "Postcard", Amount: decimal.NewFromInt(25)}, nil
}

type fakePayouts map[int64]*payout.Payout

func (f fakePayouts) PayoutByProjectID(projectID int64) (*payout.Payout, error) {
	p, ok := f[projectID]
	if !ok {
		return nil, payout.ErrPayoutNotFound
	}
	return p, nil
}

// fakeSessions is keyed by visitor
type fakeSessions struct {
	mu            sync.Mutex
	sessions      map[string]*session.PaymentSession
	invalidated   int
	invalidateErr error
}

func (f *fakeSessions) PaymentSession(ctx context.Context, visitor string, projectID int64) (*session.PaymentSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ps, ok := f.sessions[visitor]
	if !ok || ps.ProjectID != projectID {
		return nil, session.ErrPaymentSessionNotFound
	}
	return ps, nil
}

func (f *fakeSessions) Invalidate(ctx context.Context, ps *session.PaymentSession) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.invalidated++
	if f.invalidateErr != nil {
		return f.invalidateErr
	}
	for v, s := range f.sessions {
		if s.ID == ps.ID {
			delete(f.sessions, v)
		}
	}
	return nil
}

type fakeStore struct {
	beginErr   error
	processErr error
	commitErr  error

	begun      int
	processed  []transaction.Transaction
	committed  []transaction.Transaction
	rolledBack int
}

func (f *fakeStore) Begin() (TransactionTx, error) {
	if f.beginErr != nil {
		return nil, f.beginErr
	}
	f.begun++
	return &fakeTx{store: f}, nil
}

type fakeTx struct {
	store   *fakeStore
	pending []transaction.Transaction
	done    bool
}

func (tx *fakeTx) Process(t *transaction.Transaction, opts transaction.TransitionOptions) error {
	if err := transaction.Transition(opts.Old, opts.New); err != nil {
		return err
	}
	if tx.store.processErr != nil {
		return tx.store.processErr
	}
	t.Status = opts.New
	t.ID = int64(len(tx.store.committed) + 1)
	tx.pending = append(tx.pending, *t)
	tx.store.processed = append(tx.store.processed, *t)
	return nil
}

func (tx *fakeTx) Commit() error {
	if tx.done {
		return errors.New("tx done")
	}
	tx.done = true
	if tx.store.commitErr != nil {
		return tx.store.commitErr
	}
	tx.store.committed = append(tx.store.committed, tx.pending...)
	return nil
}

func (tx *fakeTx) Rollback() error {
	tx.store.rolledBack++
	tx.done = true
	return nil
}

type fakeDispatcher struct {
	sent []*PaymentResult
	err  error
}

func (f *fakeDispatcher) Send(ctx context.Context, r *PaymentResult) error {
	f.sent = append(f.sent, r)
	return f.err
}
