package banktransfer

import (
	"database/sql"
	"time"

	"github.com/fritzpay/banktransferd/pkg/crowdfunding/currency"
	"github.com/fritzpay/banktransferd/pkg/crowdfunding/payout"
	"github.com/fritzpay/banktransferd/pkg/crowdfunding/project"
	"github.com/fritzpay/banktransferd/pkg/crowdfunding/reward"
	"github.com/fritzpay/banktransferd/pkg/crowdfunding/session"
	"github.com/fritzpay/banktransferd/pkg/crowdfunding/transaction"
	"github.com/fritzpay/banktransferd/pkg/userstate"
	"golang.org/x/net/context"
)

type ProjectFinder interface {
	ProjectByID(id int64) (*project.Project, error)
}

type CurrencyFinder interface {
	CurrencyByCode(code string) (currency.Currency, error)
}

type RewardFinder interface {
	IsPublishedReward(id int64) (bool, error)
	RewardByID(id, projectID int64) (*reward.Reward, error)
}

type PayoutFinder interface {
	PayoutByProjectID(projectID int64) (*payout.Payout, error)
}

// SessionStore resolves the payment session a visitor selected for a project
type SessionStore interface {
	PaymentSession(ctx context.Context, visitor string, projectID int64) (*session.PaymentSession, error)
	Invalidate(ctx context.Context, ps *session.PaymentSession) error
}

// TransactionStore begins atomic units for storing transactions
type TransactionStore interface {
	Begin() (TransactionTx, error)
}

// TransactionTx is one atomic unit of a TransactionStore
type TransactionTx interface {
	Process(t *transaction.Transaction, opts transaction.TransitionOptions) error
	Commit() error
	Rollback() error
}

type TxnIDGenerator interface {
	Generate() (string, error)
}

// Dispatcher sends the notifications about a recorded payment
type Dispatcher interface {
	Send(ctx context.Context, r *PaymentResult) error
}

// Deps are the collaborators of the bank transfer service
type Deps struct {
	Transactions TransactionStore
	Projects     ProjectFinder
	Currencies   CurrencyFinder
	Rewards      RewardFinder
	Payouts      PayoutFinder
	Sessions     SessionStore
	TxnIDs       TxnIDGenerator
	// UserState is optional. If set, the anonymous user id of the visitor is
	// reset after a recorded payment
	UserState  userstate.Store
	Dispatcher Dispatcher
	Now        func() time.Time
}

// SQLTransactionStore stores transactions in the crowdfunding DB
type SQLTransactionStore struct {
	DB *sql.DB
}

func (s SQLTransactionStore) Begin() (TransactionTx, error) {
	tx, err := s.DB.Begin()
	if err != nil {
		return nil, err
	}
	return sqlTransactionTx{tx}, nil
}

type sqlTransactionTx struct {
	*sql.Tx
}

func (tx sqlTransactionTx) Process(t *transaction.Transaction, opts transaction.TransitionOptions) error {
	return transaction.ProcessTx(tx.Tx, t, opts)
}
