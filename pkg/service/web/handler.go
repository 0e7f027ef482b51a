package web

import (
	"net/http"

	"github.com/fritzpay/banktransferd/pkg/metrics"
	"github.com/fritzpay/banktransferd/pkg/service"
	"github.com/fritzpay/banktransferd/pkg/service/banktransfer"
	"github.com/gorilla/mux"
	"golang.org/x/time/rate"
	"gopkg.in/inconshreveable/log15.v2"
)

const (
	// PaymentFormPath serves the beneficiary data of a project
	PaymentFormPath = "/projects/{projectID}/payment/{alias}"
	// NotifyPath receives the payment notifications
	NotifyPath = "/notify/{alias}"
)

// Handler is the HTTP handler of the bank transfer service
type Handler struct {
	ctx *service.Context
	log log15.Logger

	bankTransfer *banktransfer.Service
	notifyLimit  *rate.Limiter

	router *mux.Router
}

func NewHandler(ctx *service.Context, bt *banktransfer.Service) (*Handler, error) {
	cfg := ctx.Config()
	h := &Handler{
		ctx: ctx,
		log: ctx.Log().New(log15.Ctx{
			"pkg": "github.com/fritzpay/banktransferd/pkg/service/web",
		}),
		bankTransfer: bt,
		notifyLimit:  rate.NewLimiter(rate.Inf, 0),

		router: mux.NewRouter(),
	}
	if cfg.Web.NotifyRateLimit > 0 {
		h.notifyLimit = rate.NewLimiter(rate.Limit(cfg.Web.NotifyRateLimit), cfg.Web.NotifyBurst)
	}
	if cfg.Metrics.Active {
		h.router.Use(metrics.Middleware)
	}
	h.router.Handle(PaymentFormPath, h.PaymentFormHandler()).Methods("GET")
	h.router.Handle(NotifyPath, h.NotifyHandler()).Methods("POST")
	return h, nil
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	rw := &ResponseWriter{ResponseWriter: w}
	defer func() {
		if err := recover(); err != nil {
			h.log.Crit("panic on serving HTTP", log15.Ctx{"panic": err})
			rw.mu.Lock()
			written := rw.HeaderWritten
			rw.mu.Unlock()
			if !written {
				ErrSystem.Write(rw)
			}
		}
	}()
	h.router.ServeHTTP(rw, r)
}
