package web

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/fritzpay/banktransferd/pkg/metrics"
	"github.com/fritzpay/banktransferd/pkg/service/banktransfer"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"gopkg.in/inconshreveable/log15.v2"
)

// PaymentFormResponse is the beneficiary data shown on the payment form
type PaymentFormResponse struct {
	ProjectID   int64
	IBAN        string `json:",omitempty"`
	BankAccount string
}

// NotifyResponse describes a recorded bank transfer
type NotifyResponse struct {
	TxnID       string
	Status      string
	Amount      decimal.Decimal
	Currency    string
	RedirectURL string
	Message     string
	PaymentData banktransfer.PaymentData `json:",omitempty"`
}

func (h *Handler) aliasMatches(r *http.Request) bool {
	return mux.Vars(r)["alias"] == h.ctx.Config().BankTransfer.ServiceAlias
}

// PaymentFormHandler returns the beneficiary account of a project
func (h *Handler) PaymentFormHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := h.log.New(log15.Ctx{"method": "PaymentFormHandler"})
		if !h.aliasMatches(r) {
			ErrNotFound.Write(w)
			return
		}
		projectID, err := strconv.ParseInt(mux.Vars(r)["projectID"], 10, 64)
		if err != nil || projectID <= 0 {
			log.Warn("invalid project id", log15.Ctx{"projectID": mux.Vars(r)["projectID"]})
			ErrReadParam.Write(w)
			return
		}
		b, err := h.bankTransfer.Beneficiary(projectID)
		if err != nil {
			h.writeError(w, err)
			return
		}
		cfg := h.ctx.Config().BankTransfer
		resp := PaymentFormResponse{
			ProjectID:   projectID,
			BankAccount: b.Display(cfg.ShowIBAN),
		}
		if cfg.ShowIBAN {
			resp.IBAN = b.IBAN
		}
		sr := ServiceResponse{
			Version:  ServiceVersion,
			Status:   StatusSuccess,
			Info:     "beneficiary found",
			Response: resp,
		}
		err = sr.Write(w)
		if err != nil {
			log.Error("write error", log15.Ctx{"err": err})
		}
	})
}

// NotifyHandler records a bank transfer the backer confirmed
//
// Form parameters: pid (project id) and amount.
func (h *Handler) NotifyHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := h.log.New(log15.Ctx{"method": "NotifyHandler"})
		if !h.aliasMatches(r) {
			ErrNotFound.Write(w)
			return
		}
		if !h.notifyLimit.Allow() {
			log.Warn("notification rate limit exceeded", log15.Ctx{"remoteAddr": r.RemoteAddr})
			ErrTooManyRequests.Write(w)
			return
		}
		req, err := h.notifyRequest(r)
		if err != nil {
			log.Warn("invalid notification", log15.Ctx{"err": err})
			ErrReadParam.Write(w)
			return
		}

		trigger := banktransfer.NotifyContext(h.ctx.Config().BankTransfer.ServiceAlias)
		result, err := h.bankTransfer.Notify(r.Context(), trigger, req)
		if err != nil {
			metrics.NotifyFailed(err)
			h.writeError(w, err)
			return
		}
		h.bankTransfer.AfterNotify(r.Context(), trigger, result)

		t := result.Transaction
		sr := ServiceResponse{
			Version: ServiceVersion,
			Status:  StatusSuccess,
			Info:    "transaction registered",
			Response: NotifyResponse{
				TxnID:       t.TxnID,
				Status:      t.Status.String(),
				Amount:      t.Amount,
				Currency:    t.Currency,
				RedirectURL: result.RedirectURL,
				Message:     result.Message,
				PaymentData: result.PaymentData,
			},
		}
		err = sr.Write(w)
		if err != nil {
			log.Error("write error", log15.Ctx{"err": err})
		}
	})
}

func (h *Handler) notifyRequest(r *http.Request) (banktransfer.NotifyRequest, error) {
	req := banktransfer.NotifyRequest{}
	var err error
	req.ProjectID, err = strconv.ParseInt(r.PostFormValue("pid"), 10, 64)
	if err != nil {
		return req, errors.New("invalid pid")
	}
	req.Amount, err = decimal.NewFromString(strings.TrimSpace(r.PostFormValue("amount")))
	if err != nil {
		return req, errors.New("invalid amount")
	}
	if !req.Amount.IsPositive() {
		return req, errors.New("amount must be positive")
	}
	if c, err := r.Cookie(h.ctx.Config().Web.VisitorCookie); err == nil {
		req.Visitor = c.Value
	}
	req.Origin = h.origin(r)
	return req, nil
}

// origin returns the configured site URL or the scheme and host of the request
func (h *Handler) origin(r *http.Request) string {
	if u := h.ctx.Config().Web.SiteURL; u != "" {
		return strings.TrimRight(u, "/")
	}
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if p := r.Header.Get("X-Forwarded-Proto"); p == "http" || p == "https" {
		scheme = p
	}
	return scheme + "://" + r.Host
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	var sr ServiceResponse
	switch banktransfer.Kind(err) {
	case banktransfer.ErrInvalidProject:
		sr = ErrNotFound
	case banktransfer.ErrInvalidSession:
		sr = ErrSession
	case banktransfer.ErrBeneficiaryConfig:
		sr = ErrUnavailable
	case banktransfer.ErrTransactionPersist:
		sr = ErrDatabase
	case banktransfer.ErrUnsupportedContext:
		sr = ErrNotFound
	default:
		sr = ErrSystem
	}
	sr.Write(w)
}
