package banktransfer

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fritzpay/banktransferd/pkg/config"
	"github.com/fritzpay/banktransferd/pkg/crowdfunding/project"
	"github.com/fritzpay/banktransferd/pkg/crowdfunding/session"
	"github.com/fritzpay/banktransferd/pkg/crowdfunding/transaction"
	"github.com/fritzpay/banktransferd/pkg/userstate"
	"github.com/shopspring/decimal"
	"golang.org/x/net/context"
	"gopkg.in/inconshreveable/log15.v2"
)

// NotifyRequest is an inbound confirmation of a backer to pay by bank transfer
type NotifyRequest struct {
	ProjectID int64
	Amount    decimal.Decimal
	// Visitor identifies the user state of the backer
	Visitor string
	// Origin is the scheme and host of the site, used for the redirect URL
	Origin string
}

// Recorder records bank transfer transactions for payment notifications
type Recorder struct {
	cfg  config.BankTransferConfig
	log  log15.Logger
	deps Deps

	observers observers
}

// NewRecorder creates a recorder
//
// All of deps except UserState, Payouts and Dispatcher are required.
func NewRecorder(cfg config.BankTransferConfig, log log15.Logger, deps Deps) (*Recorder, error) {
	if log == nil {
		return nil, errors.New("log cannot be nil")
	}
	switch {
	case deps.Transactions == nil:
		return nil, errors.New("transaction store cannot be nil")
	case deps.Projects == nil:
		return nil, errors.New("project finder cannot be nil")
	case deps.Currencies == nil:
		return nil, errors.New("currency finder cannot be nil")
	case deps.Rewards == nil:
		return nil, errors.New("reward finder cannot be nil")
	case deps.Sessions == nil:
		return nil, errors.New("session store cannot be nil")
	case deps.TxnIDs == nil:
		return nil, errors.New("txn id generator cannot be nil")
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	r := &Recorder{
		cfg:  cfg,
		log:  log.New(log15.Ctx{"pkg": "github.com/fritzpay/banktransferd/pkg/service/banktransfer"}),
		deps: deps,
	}
	return r, nil
}

// AddObserver registers an observer for transactions of the given type alias
func (r *Recorder) AddObserver(typeAlias string, o Observer) {
	r.observers.add(typeAlias, o)
}

// RecordNotification stores a transaction for the notification and returns
// the payment result
//
// The payment session of the visitor is invalidated on success.
func (r *Recorder) RecordNotification(ctx context.Context, req NotifyRequest) (*PaymentResult, error) {
	log := r.log.New(log15.Ctx{
		"method":    "RecordNotification",
		"projectID": req.ProjectID,
	})

	p, err := r.project(req.ProjectID)
	if err != nil {
		log.Error("invalid project", log15.Ctx{"err": err})
		return nil, err
	}
	ps, err := r.paymentSession(ctx, req.Visitor, p.ID)
	if err != nil {
		log.Error("invalid payment session", log15.Ctx{"err": err, "visitor": req.Visitor})
		return nil, err
	}
	log = log.New(log15.Ctx{"paymentSessionID": ps.ID})

	result := &PaymentResult{
		Project:        p,
		PaymentSession: ps,
		RedirectURL:    r.redirectURL(req.Origin, p),
	}

	rewardID := r.rewardID(ps, log)

	cur, err := r.deps.Currencies.CurrencyByCode(r.cfg.ProjectCurrency)
	if err != nil {
		log.Error("error retrieving project currency", log15.Ctx{"err": err, "currency": r.cfg.ProjectCurrency})
		return nil, wrapKind(ErrInvalidCurrency, err)
	}

	txnID, err := r.deps.TxnIDs.Generate()
	if err != nil {
		log.Crit("error generating txn id", log15.Ctx{"err": err})
		return nil, wrapKind(ErrInternal, err)
	}

	t := &transaction.Transaction{
		InvestorID:      ps.UserID,
		ReceiverID:      p.UserID,
		ProjectID:       p.ID,
		RewardID:        rewardID,
		ServiceProvider: r.cfg.ServiceProvider,
		ServiceAlias:    r.cfg.ServiceAlias,
		TxnID:           strings.ToUpper(txnID),
		Amount:          req.Amount,
		Currency:        cur.Code,
		Created:         r.deps.Now(),
	}
	opts := transaction.TransitionOptions{
		Old: transaction.StatusNone,
		New: transaction.InitialStatus(r.cfg.AutoComplete),
	}
	err = r.persist(t, opts, log)
	if err != nil {
		log.Error("error storing transaction", log15.Ctx{"err": err, "txnID": t.TxnID})
		return nil, err
	}
	r.observers.fire(TransactionEvent{
		TypeAlias:   TypeAliasPayment,
		Transaction: *t,
		Time:        r.deps.Now(),
	})

	result.Transaction = t
	if t.RewardID != 0 {
		rw, err := r.deps.Rewards.RewardByID(t.RewardID, t.ProjectID)
		if err != nil {
			log.Warn("error retrieving reward", log15.Ctx{"err": err, "rewardID": t.RewardID})
		} else {
			result.Reward = rw
		}
	}
	result.Message = fmt.Sprintf("Your transaction %s has been registered. Please use %s as reference of your bank transfer.", t.TxnID, t.TxnID)

	err = r.deps.Sessions.Invalidate(ctx, ps)
	if err != nil {
		log.Error("error invalidating payment session", log15.Ctx{"err": err})
	}
	r.resetAnonymousUser(ctx, req.Visitor, log)

	log.Debug("transaction registered", log15.Ctx{"txnID": t.TxnID, "status": t.Status})
	return result, nil
}

func (r *Recorder) project(id int64) (*project.Project, error) {
	if id == 0 {
		return nil, ErrInvalidProject
	}
	p, err := r.deps.Projects.ProjectByID(id)
	if err != nil {
		if err == project.ErrProjectNotFound {
			return nil, ErrInvalidProject
		}
		return nil, wrapKind(ErrInvalidProject, err)
	}
	if p == nil || p.Empty() {
		return nil, ErrInvalidProject
	}
	return p, nil
}

func (r *Recorder) paymentSession(ctx context.Context, visitor string, projectID int64) (*session.PaymentSession, error) {
	if visitor == "" {
		return nil, ErrInvalidSession
	}
	ps, err := r.deps.Sessions.PaymentSession(ctx, visitor, projectID)
	if err != nil {
		if err == session.ErrPaymentSessionNotFound {
			return nil, ErrInvalidSession
		}
		return nil, wrapKind(ErrInvalidSession, err)
	}
	if ps == nil || ps.ID == 0 {
		return nil, ErrInvalidSession
	}
	return ps, nil
}

func (r *Recorder) redirectURL(origin string, p *project.Project) string {
	if u := strings.TrimSpace(r.cfg.ReturnURL); u != "" {
		return u
	}
	return strings.TrimRight(origin, "/") + project.BackingRoute(p.Slug(), p.CatSlug(), "share")
}

// rewardID returns the reward of the session if it may be used for the transaction
//
// Anonymous backers cannot select rewards. Invalid rewards are dropped.
func (r *Recorder) rewardID(ps *session.PaymentSession, log log15.Logger) int64 {
	if ps.IsAnonymous() || ps.RewardID <= 0 {
		return 0
	}
	ok, err := r.deps.Rewards.IsPublishedReward(ps.RewardID)
	if err != nil {
		log.Warn("error validating reward", log15.Ctx{"err": err, "rewardID": ps.RewardID})
		return 0
	}
	if !ok {
		return 0
	}
	return ps.RewardID
}

func (r *Recorder) persist(t *transaction.Transaction, opts transaction.TransitionOptions, log log15.Logger) error {
	var tx TransactionTx
	var commit bool
	var err error
	defer func() {
		if tx != nil && !commit {
			rbErr := tx.Rollback()
			if rbErr != nil && rbErr != sql.ErrTxDone {
				log.Crit("error on rollback", log15.Ctx{"err": rbErr})
			}
		}
	}()
	tx, err = r.deps.Transactions.Begin()
	if err != nil {
		return &TransactionPersistError{Err: err}
	}
	err = tx.Process(t, opts)
	if err != nil {
		return &TransactionPersistError{Err: err}
	}
	err = tx.Commit()
	if err != nil {
		return &TransactionPersistError{Err: err}
	}
	commit = true
	return nil
}

func (r *Recorder) resetAnonymousUser(ctx context.Context, visitor string, log log15.Logger) {
	if r.deps.UserState == nil {
		return
	}
	id, err := r.deps.UserState.Get(ctx, visitor, userstate.AnonymousUserKey)
	if err == userstate.ErrNotFound || (err == nil && id == "") {
		return
	}
	if err == nil {
		err = r.deps.UserState.Delete(ctx, visitor, userstate.AnonymousUserKey)
	}
	if err != nil {
		log.Warn("error resetting anonymous user", log15.Ctx{"err": err})
	}
}
