package banktransfer

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/fritzpay/banktransferd/pkg/config"
	"github.com/fritzpay/banktransferd/pkg/crowdfunding/session"
	"github.com/fritzpay/banktransferd/pkg/crowdfunding/transaction"
	"github.com/fritzpay/banktransferd/pkg/userstate"
	"github.com/shopspring/decimal"
	. "github.com/smartystreets/goconvey/convey"
	"golang.org/x/net/context"
)

var testNow = time.Date(2014, 11, 3, 12, 0, 0, 0, time.UTC)

type recorderFixture struct {
	cfg      config.BankTransferConfig
	store    *fakeStore
	sessions *fakeSessions
	state    *userstate.MemoryStore
	deps     Deps
}

func newRecorderFixture() *recorderFixture {
	f := &recorderFixture{
		cfg:   config.DefaultConfig().BankTransfer,
		store: &fakeStore{},
		sessions: &fakeSessions{sessions: map[string]*session.PaymentSession{
			"backer": {ID: 11, UserID: 3, ProjectID: 7, RewardID: 5, SessionID: "wizard-1"},
			"anon":   {ID: 12, AnonymousUserID: "a1b2", ProjectID: 7, RewardID: 5, SessionID: "wizard-2"},
			"norew":  {ID: 13, UserID: 4, ProjectID: 7, RewardID: 6, SessionID: "wizard-3"},
		}},
		state: userstate.NewMemoryStore(),
	}
	f.deps = Deps{
		Transactions: f.store,
		Projects: fakeProjects{
			7: {ID: 7, UserID: 9, Title: "Garden", Alias: "garden", CategoryID: 2, CategoryAlias: "art"},
			8: {},
		},
		Currencies: fakeCurrencies{},
		Rewards:    fakeRewards{5: true, 6: false},
		Sessions:   f.sessions,
		TxnIDs:     transaction.NewTxnIDGenerator(nil, transaction.TxnIDPrefix),
		UserState:  f.state,
		Now:        func() time.Time { return testNow },
	}
	return f
}

func (f *recorderFixture) recorder() *Recorder {
	r, err := NewRecorder(f.cfg, testLog(), f.deps)
	So(err, ShouldBeNil)
	return r
}

func notifyRequest(visitor string) NotifyRequest {
	return NotifyRequest{
		ProjectID: 7,
		Amount:    decimal.RequireFromString("50.00"),
		Visitor:   visitor,
		Origin:    "https://crowd.example.com",
	}
}

func TestRecordNotification(t *testing.T) {
	Convey("Given a recorder", t, func() {
		f := newRecorderFixture()
		ctx := context.Background()

		Convey("When auto complete is off", func() {
			r := f.recorder()
			res, err := r.RecordNotification(ctx, notifyRequest("backer"))

			Convey("It should record a pending transaction", func() {
				So(err, ShouldBeNil)
				So(res.Transaction.Status, ShouldEqual, transaction.StatusPending)
				So(len(f.store.committed), ShouldEqual, 1)
				So(f.store.committed[0].Status, ShouldEqual, transaction.StatusPending)
			})
			Convey("The transaction should carry the request data", func() {
				tr := res.Transaction
				So(tr.InvestorID, ShouldEqual, 3)
				So(tr.ReceiverID, ShouldEqual, 9)
				So(tr.ProjectID, ShouldEqual, 7)
				So(tr.Currency, ShouldEqual, "EUR")
				So(tr.Amount.Equal(decimal.NewFromInt(50)), ShouldBeTrue)
				So(tr.ServiceProvider, ShouldEqual, "Bank Transfer")
				So(tr.ServiceAlias, ShouldEqual, "banktransfer")
				So(tr.Created, ShouldResemble, testNow)
				So(transaction.ValidTxnID(tr.TxnID, "BT"), ShouldBeTrue)
			})
			Convey("The result should be complete", func() {
				So(res.Project.ID, ShouldEqual, 7)
				So(res.PaymentSession.ID, ShouldEqual, 11)
				So(res.Reward, ShouldNotBeNil)
				So(res.Reward.ID, ShouldEqual, 5)
				So(res.Message, ShouldContainSubstring, res.Transaction.TxnID)
				So(res.RedirectURL, ShouldEqual, "https://crowd.example.com/projects/2-art/7-garden/backing/share")
			})
		})

		Convey("When auto complete is on", func() {
			f.cfg.AutoComplete = true
			r := f.recorder()
			res, err := r.RecordNotification(ctx, notifyRequest("backer"))

			Convey("It should record a completed transaction", func() {
				So(err, ShouldBeNil)
				So(res.Transaction.Status, ShouldEqual, transaction.StatusCompleted)
				So(f.store.committed[0].Status, ShouldEqual, transaction.StatusCompleted)
			})
		})

		Convey("When a return URL is configured", func() {
			f.cfg.ReturnURL = " https://crowd.example.com/thanks "
			r := f.recorder()
			res, err := r.RecordNotification(ctx, notifyRequest("backer"))

			Convey("It should be used as redirect", func() {
				So(err, ShouldBeNil)
				So(res.RedirectURL, ShouldEqual, "https://crowd.example.com/thanks")
			})
		})

		Convey("When the visitor has no payment session", func() {
			r := f.recorder()
			res, err := r.RecordNotification(ctx, notifyRequest("stranger"))

			Convey("It should fail with an invalid session", func() {
				So(res, ShouldBeNil)
				So(errors.Is(err, ErrInvalidSession), ShouldBeTrue)
			})
			Convey("Nothing should be persisted", func() {
				So(f.store.begun, ShouldEqual, 0)
				So(f.store.committed, ShouldBeEmpty)
			})
		})

		Convey("When the project does not exist", func() {
			r := f.recorder()
			req := notifyRequest("backer")
			req.ProjectID = 99
			res, err := r.RecordNotification(ctx, req)

			Convey("It should fail with an invalid project", func() {
				So(res, ShouldBeNil)
				So(err, ShouldEqual, ErrInvalidProject)
				So(f.store.begun, ShouldEqual, 0)
			})
		})

		Convey("When the project has no id", func() {
			r := f.recorder()
			req := notifyRequest("backer")
			req.ProjectID = 8
			_, err := r.RecordNotification(ctx, req)

			Convey("It should fail with an invalid project", func() {
				So(err, ShouldEqual, ErrInvalidProject)
				So(f.store.begun, ShouldEqual, 0)
			})
		})

		Convey("When the project id is 0", func() {
			r := f.recorder()
			req := notifyRequest("backer")
			req.ProjectID = 0
			_, err := r.RecordNotification(ctx, req)

			Convey("It should fail with an invalid project", func() {
				So(err, ShouldEqual, ErrInvalidProject)
			})
		})

		Convey("When the reward of the session is not published", func() {
			r := f.recorder()
			res, err := r.RecordNotification(ctx, notifyRequest("norew"))

			Convey("The reward should be dropped silently", func() {
				So(err, ShouldBeNil)
				So(res.Transaction.RewardID, ShouldEqual, 0)
				So(res.Reward, ShouldBeNil)
			})
		})

		Convey("When the session is anonymous", func() {
			So(f.state.Set(ctx, "anon", userstate.AnonymousUserKey, "a1b2"), ShouldBeNil)
			r := f.recorder()
			res, err := r.RecordNotification(ctx, notifyRequest("anon"))

			Convey("The reward should be 0 regardless of the session", func() {
				So(err, ShouldBeNil)
				So(res.Transaction.RewardID, ShouldEqual, 0)
				So(res.Transaction.InvestorID, ShouldEqual, 0)
			})
			Convey("The anonymous user id should be reset", func() {
				_, err := f.state.Get(ctx, "anon", userstate.AnonymousUserKey)
				So(err, ShouldEqual, userstate.ErrNotFound)
			})
		})

		Convey("When the project currency is unknown", func() {
			f.cfg.ProjectCurrency = "XXX"
			r := f.recorder()
			_, err := r.RecordNotification(ctx, notifyRequest("backer"))

			Convey("It should fail with an invalid currency", func() {
				So(errors.Is(err, ErrInvalidCurrency), ShouldBeTrue)
				So(f.store.begun, ShouldEqual, 0)
			})
		})

		Convey("When the commit fails", func() {
			f.store.commitErr = errors.New("connection lost")
			r := f.recorder()
			res, err := r.RecordNotification(ctx, notifyRequest("backer"))

			Convey("It should return a persist error with the cause", func() {
				So(res, ShouldBeNil)
				So(errors.Is(err, ErrTransactionPersist), ShouldBeTrue)
				var perr *TransactionPersistError
				So(errors.As(err, &perr), ShouldBeTrue)
				So(perr.Err, ShouldEqual, f.store.commitErr)
			})
			Convey("The transaction should be rolled back", func() {
				So(f.store.rolledBack, ShouldEqual, 1)
				So(f.store.committed, ShouldBeEmpty)
			})
			Convey("The payment session should be kept", func() {
				So(f.sessions.invalidated, ShouldEqual, 0)
				_, err := f.sessions.PaymentSession(ctx, "backer", 7)
				So(err, ShouldBeNil)
			})
		})

		Convey("When processing fails", func() {
			f.store.processErr = transaction.ErrDuplicateTxnID
			r := f.recorder()
			_, err := r.RecordNotification(ctx, notifyRequest("backer"))

			Convey("It should not retry", func() {
				So(errors.Is(err, ErrTransactionPersist), ShouldBeTrue)
				So(errors.Is(err, transaction.ErrDuplicateTxnID), ShouldBeTrue)
				So(f.store.begun, ShouldEqual, 1)
				So(f.store.rolledBack, ShouldEqual, 1)
			})
		})

		Convey("When the transaction is recorded", func() {
			r := f.recorder()
			_, err := r.RecordNotification(ctx, notifyRequest("backer"))
			So(err, ShouldBeNil)

			Convey("The payment session should be invalidated once", func() {
				So(f.sessions.invalidated, ShouldEqual, 1)
				So(f.store.rolledBack, ShouldEqual, 0)
			})

			Convey("When the notification is replayed", func() {
				_, err := r.RecordNotification(ctx, notifyRequest("backer"))

				Convey("It should fail with an invalid session", func() {
					So(errors.Is(err, ErrInvalidSession), ShouldBeTrue)
					So(len(f.store.committed), ShouldEqual, 1)
				})
			})
		})

		Convey("When invalidating the session fails", func() {
			f.sessions.invalidateErr = errors.New("db gone")
			r := f.recorder()
			res, err := r.RecordNotification(ctx, notifyRequest("backer"))

			Convey("The result should still be returned", func() {
				So(err, ShouldBeNil)
				So(res.Transaction, ShouldNotBeNil)
			})
		})
	})
}

func TestRecorderObservers(t *testing.T) {
	Convey("Given a recorder with observers", t, func() {
		f := newRecorderFixture()
		ctx := context.Background()
		r := f.recorder()

		var events []TransactionEvent
		r.AddObserver(TypeAliasPayment, ObserverFunc(func(e TransactionEvent) {
			events = append(events, e)
		}))
		var other int
		r.AddObserver("crowdfunding.other", ObserverFunc(func(e TransactionEvent) {
			other++
		}))

		Convey("When a transaction is recorded", func() {
			res, err := r.RecordNotification(ctx, notifyRequest("backer"))
			So(err, ShouldBeNil)

			Convey("The payment observers should be notified", func() {
				So(len(events), ShouldEqual, 1)
				So(events[0].TypeAlias, ShouldEqual, TypeAliasPayment)
				So(events[0].Transaction.TxnID, ShouldEqual, res.Transaction.TxnID)
				So(other, ShouldEqual, 0)
			})
		})

		Convey("When the commit fails", func() {
			f.store.commitErr = errors.New("connection lost")
			_, err := r.RecordNotification(ctx, notifyRequest("backer"))
			So(err, ShouldNotBeNil)

			Convey("No observer should be notified", func() {
				So(events, ShouldBeEmpty)
			})
		})
	})
}

func TestRecorderSQL(t *testing.T) {
	Convey("Given a recorder storing into a mock DB", t, func() {
		db, mock, err := sqlmock.New()
		So(err, ShouldBeNil)
		Reset(func() {
			db.Close()
		})
		f := newRecorderFixture()
		f.deps.Transactions = SQLTransactionStore{DB: db}
		r := f.recorder()
		ctx := context.Background()

		Convey("When the insert succeeds", func() {
			mock.ExpectBegin()
			mock.ExpectPrepare("INSERT INTO crowdf_transactions").
				ExpectExec().
				WillReturnResult(sqlmock.NewResult(21, 1))
			mock.ExpectExec("UPDATE crowdf_rewards").
				WithArgs(int64(5), int64(7)).
				WillReturnResult(sqlmock.NewResult(0, 1))
			mock.ExpectCommit()
			res, err := r.RecordNotification(ctx, notifyRequest("backer"))

			Convey("It should commit the transaction", func() {
				So(err, ShouldBeNil)
				So(res.Transaction.ID, ShouldEqual, 21)
				So(mock.ExpectationsWereMet(), ShouldBeNil)
			})
		})

		Convey("When the insert fails", func() {
			mock.ExpectBegin()
			mock.ExpectPrepare("INSERT INTO crowdf_transactions").
				ExpectExec().
				WillReturnError(errors.New("table locked"))
			mock.ExpectRollback()
			_, err := r.RecordNotification(ctx, notifyRequest("backer"))

			Convey("It should roll back", func() {
				So(errors.Is(err, ErrTransactionPersist), ShouldBeTrue)
				So(strings.Contains(err.Error(), "table locked"), ShouldBeTrue)
				So(mock.ExpectationsWereMet(), ShouldBeNil)
				So(f.sessions.invalidated, ShouldEqual, 0)
			})
		})

		Convey("When the commit fails", func() {
			mock.ExpectBegin()
			mock.ExpectPrepare("INSERT INTO crowdf_transactions").
				ExpectExec().
				WillReturnResult(sqlmock.NewResult(21, 1))
			mock.ExpectExec("UPDATE crowdf_rewards").
				WillReturnResult(sqlmock.NewResult(0, 1))
			mock.ExpectCommit().WillReturnError(errors.New("connection lost"))
			_, err := r.RecordNotification(ctx, notifyRequest("backer"))

			Convey("It should return a persist error and keep the session", func() {
				So(errors.Is(err, ErrTransactionPersist), ShouldBeTrue)
				So(f.sessions.invalidated, ShouldEqual, 0)
			})
		})
	})
}

func TestNewRecorder(t *testing.T) {
	Convey("Given missing collaborators", t, func() {
		f := newRecorderFixture()
		f.deps.Sessions = nil
		_, err := NewRecorder(f.cfg, testLog(), f.deps)

		Convey("It should fail", func() {
			So(err, ShouldNotBeNil)
		})
	})
}
