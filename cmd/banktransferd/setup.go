package main

import (
	"errors"

	"github.com/fritzpay/banktransferd/pkg/broker"
	"github.com/fritzpay/banktransferd/pkg/config"
	"github.com/fritzpay/banktransferd/pkg/crowdfunding/user"
	"github.com/fritzpay/banktransferd/pkg/mail"
	"github.com/fritzpay/banktransferd/pkg/metrics"
	"github.com/fritzpay/banktransferd/pkg/server"
	"github.com/fritzpay/banktransferd/pkg/service"
	"github.com/fritzpay/banktransferd/pkg/service/banktransfer"
	"github.com/fritzpay/banktransferd/pkg/service/web"
	"github.com/fritzpay/banktransferd/pkg/userstate"
	"gopkg.in/inconshreveable/log15.v2"
)

// closers are run in reverse order on exit
var closers []func() error

func cleanup() {
	for i := len(closers) - 1; i >= 0; i-- {
		if err := closers[i](); err != nil {
			log.Warn("error on cleanup", log15.Ctx{"err": err})
		}
	}
}

// setupContext opens the databases and the user state store
//
// The returned func releases everything opened so far and must be called
// even if an error is returned.
func setupContext(ctx *service.Context) (func(), error) {
	cfg := ctx.Config()

	db, err := openDB(cfg.Database.Write, cfg.Database)
	if err != nil {
		log.Crit("error connecting to crowdfunding DB", log15.Ctx{"err": err})
		return cleanup, err
	}
	closers = append(closers, db.Close)
	ro := db
	if cfg.Database.ReadOnly != "" {
		ro, err = openDB(cfg.Database.ReadOnly, cfg.Database)
		if err != nil {
			log.Crit("error connecting to crowdfunding read-only DB", log15.Ctx{"err": err})
			return cleanup, err
		}
		closers = append(closers, ro.Close)
	}
	ctx.SetCrowdfundingDB(db, ro)

	if cfg.UserState.Type == config.UserStateRedis {
		ttl, err := cfg.UserState.TTL.Duration()
		if err != nil {
			log.Crit("error parsing user state TTL", log15.Ctx{"err": err})
			return cleanup, err
		}
		store, err := userstate.NewRedisStore(cfg.UserState.RedisURL, ttl)
		if err != nil {
			log.Crit("error connecting to user state redis", log15.Ctx{"err": err})
			return cleanup, err
		}
		closers = append(closers, store.Close)
		ctx.SetUserState(store)
	}
	return cleanup, nil
}

// registerServices creates the bank transfer service with its observers and
// registers the HTTP services on the server
func registerServices(ctx *service.Context, srv *server.Server) error {
	cfg := ctx.Config()

	deps := banktransfer.SQLDeps(ctx)
	if cfg.Mail.SMTPAddress != "" {
		mailer, err := mail.NewSMTPMailer(cfg.Mail.SMTPAddress, cfg.Mail.SMTPUser, cfg.Mail.SMTPPassword)
		if err != nil {
			log.Crit("error creating mailer", log15.Ctx{"err": err})
			return err
		}
		users := user.Finder{DB: ctx.CrowdfundingDB(service.ReadOnly)}
		deps.Dispatcher, err = mail.NewDispatcher(cfg.Mail, cfg.BankTransfer.ServiceAlias, ctx.Log(), users, mailer)
		if err != nil {
			log.Crit("error creating mail dispatcher", log15.Ctx{"err": err})
			return err
		}
	} else {
		log.Warn("no SMTP address configured. notification emails are disabled.")
	}

	bt, err := banktransfer.NewService(ctx, deps)
	if err != nil {
		log.Crit("error creating bank transfer service", log15.Ctx{"err": err})
		return err
	}
	if cfg.Metrics.Active {
		bt.AddObserver(banktransfer.TypeAliasPayment, metrics.Observer{})
	}
	if cfg.Broker.Active {
		mq := broker.NewRabbitMQ(cfg.Broker.URL)
		err = mq.Connect(cfg.Broker.Exchange)
		if err != nil {
			log.Crit("error connecting to broker", log15.Ctx{"err": err})
			return err
		}
		closers = append(closers, mq.Close)
		pub := broker.NewPublisher(mq.Channel, cfg.Broker.Exchange, cfg.Broker.RoutingKey, ctx.Log())
		bt.AddObserver(banktransfer.TypeAliasPayment, pub)
	}

	h, err := web.NewHandler(ctx, bt)
	if err != nil {
		log.Crit("error creating web handler", log15.Ctx{"err": err})
		return err
	}
	writeTimeout, err := cfg.Web.Service.WriteTimeout.Duration()
	if err != nil {
		return err
	}
	if writeTimeout > 0 {
		err = srv.RegisterService(cfg.Web.Service, service.TimeoutHandler(log.Warn, writeTimeout, h))
	} else {
		err = srv.RegisterService(cfg.Web.Service, h)
	}
	if err != nil {
		return err
	}

	if cfg.Metrics.Active {
		if cfg.Metrics.Service.Address == "" {
			return errors.New("Metrics.Service.Address is empty")
		}
		err = srv.RegisterService(cfg.Metrics.Service, metrics.Handler())
		if err != nil {
			return err
		}
	}
	return nil
}
