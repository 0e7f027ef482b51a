package service

import (
	"database/sql"
	"errors"

	"github.com/fritzpay/banktransferd/pkg/config"
	"github.com/fritzpay/banktransferd/pkg/userstate"
	"golang.org/x/net/context"
	"gopkg.in/inconshreveable/log15.v2"
)

// Context is a custom context which is used by the service pkg
type Context struct {
	context.Context

	cfg config.Config
	log log15.Logger

	userState userstate.Store

	crowdfundingDBWrite    *sql.DB
	crowdfundingDBReadOnly *sql.DB
}

// Value wraps the Context.Value
func (ctx *Context) Value(key interface{}) interface{} {
	switch key {
	case "cfg":
		return ctx.cfg
	case "log":
		return ctx.log
	default:
		return ctx.Context.Value(key)
	}
}

// WithValue creates a new service context with the given value
func (ctx *Context) WithValue(key, value interface{}) *Context {
	c := *ctx
	c.Context = context.WithValue(ctx.Context, key, value)
	return &c
}

// Config returns the config.Config associated with the context
func (ctx *Context) Config() *config.Config {
	return &ctx.cfg
}

// Log returns the log15.Logger associated with the context
func (ctx *Context) Log() log15.Logger {
	return ctx.log
}

// UserState returns the store holding the per visitor state
func (ctx *Context) UserState() userstate.Store {
	return ctx.userState
}

// SetUserState sets the per visitor state store
// It will panic if the store is nil
func (ctx *Context) SetUserState(s userstate.Store) {
	if s == nil {
		panic("user state store cannot be nil")
	}
	ctx.userState = s
}

type dbRequestReadOnly bool

// ReadOnly is a possible parameter for the ctx.xDB() methods. If this parameter
// is passed to the methods, they will attempt to return the read-only database connection
var ReadOnly = dbRequestReadOnly(true)

// CrowdfundingDB returns the *sql.DB for the crowdfunding site DB
// If the parameter(s) contain a service.ReadOnly, the read-only connection will be returned if present
func (ctx *Context) CrowdfundingDB(ros ...dbRequestReadOnly) *sql.DB {
	var ro bool
	for _, r := range ros {
		if r {
			ro = true
		}
	}
	if !ro || ctx.crowdfundingDBReadOnly == nil {
		return ctx.crowdfundingDBWrite
	}
	return ctx.crowdfundingDBReadOnly
}

// SetCrowdfundingDB sets the crowdfunding DB connection(s)
// It will panic if the write connection is nil
func (ctx *Context) SetCrowdfundingDB(w, ro *sql.DB) {
	if w == nil {
		panic("write DB connection cannot be nil")
	}
	ctx.crowdfundingDBWrite, ctx.crowdfundingDBReadOnly = w, ro
}

// NewContext creates a new service context for use in the service pkg
func NewContext(ctx context.Context, cfg config.Config, log log15.Logger) (*Context, error) {
	if log == nil {
		return nil, errors.New("log cannot be nil")
	}
	c := &Context{
		Context:   ctx,
		cfg:       cfg,
		log:       log,
		userState: userstate.NewMemoryStore(),
	}
	return c, nil
}
