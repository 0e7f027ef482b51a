package service

import (
	"database/sql"
	"testing"

	"github.com/fritzpay/banktransferd/pkg/config"
	. "github.com/smartystreets/goconvey/convey"
	"golang.org/x/net/context"
	"gopkg.in/inconshreveable/log15.v2"
)

func TestContextSetup(t *testing.T) {
	Convey("Given a new service context", t, func() {
		ctx, err := NewContext(context.Background(), config.DefaultConfig(), log15.New())
		So(err, ShouldBeNil)

		Convey("It should have a user state store", func() {
			So(ctx.UserState(), ShouldNotBeNil)
		})

		Convey("It should expose the config", func() {
			So(ctx.Config().BankTransfer.ServiceAlias, ShouldEqual, "banktransfer")
			So(ctx.Value("cfg"), ShouldNotBeNil)
		})

		Convey("When setting a crowdfunding DB with nil write connection", func() {
			Convey("It should panic", func() {
				So(func() { ctx.SetCrowdfundingDB(nil, nil) }, ShouldPanic)
			})
		})

		Convey("When setting only a write connection", func() {
			w := &sql.DB{}
			ctx.SetCrowdfundingDB(w, nil)

			Convey("Read-only requests should return the write connection", func() {
				So(ctx.CrowdfundingDB(ReadOnly), ShouldEqual, w)
			})
		})

		Convey("When setting a read-only connection", func() {
			w, ro := &sql.DB{}, &sql.DB{}
			ctx.SetCrowdfundingDB(w, ro)

			Convey("Read-only requests should return it", func() {
				So(ctx.CrowdfundingDB(ReadOnly), ShouldEqual, ro)
				So(ctx.CrowdfundingDB(), ShouldEqual, w)
			})
		})

		Convey("When adding a value", func() {
			c := ctx.WithValue("visitor", "abc")

			Convey("The derived context should carry it and keep the config", func() {
				So(c.Value("visitor"), ShouldEqual, "abc")
				So(c.Config(), ShouldNotBeNil)
			})
		})
	})

	Convey("Given no logger", t, func() {
		_, err := NewContext(context.Background(), config.DefaultConfig(), nil)
		So(err, ShouldNotBeNil)
	})
}
