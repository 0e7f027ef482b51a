package banktransfer

import (
	"github.com/fritzpay/banktransferd/pkg/crowdfunding/project"
	"github.com/fritzpay/banktransferd/pkg/crowdfunding/reward"
	"github.com/fritzpay/banktransferd/pkg/crowdfunding/session"
	"github.com/fritzpay/banktransferd/pkg/crowdfunding/transaction"
)

// PaymentData holds method specific display data keyed by the payment method alias
type PaymentData map[string]map[string]string

// PaymentResult is the outcome of one handled payment notification
type PaymentResult struct {
	Transaction    *transaction.Transaction
	Project        *project.Project
	Reward         *reward.Reward
	PaymentSession *session.PaymentSession

	RedirectURL string
	Message     string

	PaymentData PaymentData
}

// SetPaymentData sets the display data for the given payment method alias
func (r *PaymentResult) SetPaymentData(alias string, data map[string]string) {
	if r.PaymentData == nil {
		r.PaymentData = make(PaymentData)
	}
	r.PaymentData[alias] = data
}
