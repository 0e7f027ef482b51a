package session

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/fritzpay/banktransferd/pkg/userstate"
	. "github.com/smartystreets/goconvey/convey"
	"golang.org/x/net/context"
)

var sessionColumns = []string{"id", "user_id", "auser_id", "project_id", "reward_id", "session_id", "gateway", "record_date"}

func TestStore(t *testing.T) {
	Convey("Given a store with a mock DB and a memory user state", t, func() {
		db, mock, err := sqlmock.New()
		So(err, ShouldBeNil)
		Reset(func() {
			db.Close()
		})
		state := userstate.NewMemoryStore()
		s := NewStore(db, state)
		ctx := context.Background()

		Convey("When the visitor has no payment session for the project", func() {
			_, err := s.PaymentSession(ctx, "visitor", 7)
			Convey("It should return not found without querying the DB", func() {
				So(err, ShouldEqual, ErrPaymentSessionNotFound)
				So(mock.ExpectationsWereMet(), ShouldBeNil)
			})
		})

		Convey("Given the visitor selected a payment session", func() {
			So(state.Set(ctx, "visitor", userstate.PaymentSessionKey(7), "wizard-1"), ShouldBeNil)

			Convey("When the session exists", func() {
				mock.ExpectQuery("SELECT(.+)FROM crowdf_payment_sessions(.+)session_id = ?").
					WithArgs("wizard-1").
					WillReturnRows(sqlmock.NewRows(sessionColumns).
						AddRow(11, 3, "", 7, 5, "wizard-1", "banktransfer", time.Now()))
				ps, err := s.PaymentSession(ctx, "visitor", 7)

				Convey("It should return the session", func() {
					So(err, ShouldBeNil)
					So(ps.ID, ShouldEqual, 11)
					So(ps.RewardID, ShouldEqual, 5)
					So(ps.IsAnonymous(), ShouldBeFalse)
				})
			})

			Convey("When the session belongs to another project", func() {
				mock.ExpectQuery("SELECT(.+)FROM crowdf_payment_sessions(.+)session_id = ?").
					WithArgs("wizard-1").
					WillReturnRows(sqlmock.NewRows(sessionColumns).
						AddRow(11, 3, "", 8, nil, "wizard-1", nil, time.Now()))
				_, err := s.PaymentSession(ctx, "visitor", 7)

				Convey("It should return not found", func() {
					So(err, ShouldEqual, ErrPaymentSessionNotFound)
				})
			})

			Convey("When the session was removed", func() {
				mock.ExpectQuery("SELECT(.+)FROM crowdf_payment_sessions(.+)session_id = ?").
					WithArgs("wizard-1").
					WillReturnRows(sqlmock.NewRows(sessionColumns))
				_, err := s.PaymentSession(ctx, "visitor", 7)

				Convey("It should return not found", func() {
					So(err, ShouldEqual, ErrPaymentSessionNotFound)
				})
			})
		})

		Convey("When invalidating a session", func() {
			mock.ExpectExec("DELETE FROM crowdf_payment_sessions").
				WithArgs(int64(11)).
				WillReturnResult(sqlmock.NewResult(0, 1))
			err := s.Invalidate(ctx, &PaymentSession{ID: 11})

			Convey("It should delete the row", func() {
				So(err, ShouldBeNil)
				So(mock.ExpectationsWereMet(), ShouldBeNil)
			})
		})

		Convey("When invalidating a session twice", func() {
			mock.ExpectExec("DELETE FROM crowdf_payment_sessions").
				WithArgs(int64(11)).
				WillReturnResult(sqlmock.NewResult(0, 0))
			err := s.Invalidate(ctx, &PaymentSession{ID: 11})

			Convey("It should return not found", func() {
				So(err, ShouldEqual, ErrPaymentSessionNotFound)
			})
		})
	})
}
