package banktransfer

import (
	"strings"

	"github.com/fritzpay/banktransferd/pkg/config"
	"github.com/fritzpay/banktransferd/pkg/crowdfunding/payout"
)

const ibanPlaceholder = "{IBAN}"

// Beneficiary is the bank account a backer transfers the money to
type Beneficiary struct {
	IBAN        string
	BankAccount string
}

// Display returns the bank account text shown to the backer
//
// With showIBAN the IBAN replaces the {IBAN} placeholder of the text or is
// appended to it.
func (b Beneficiary) Display(showIBAN bool) string {
	if !showIBAN || b.IBAN == "" {
		return b.BankAccount
	}
	if strings.Contains(b.BankAccount, ibanPlaceholder) {
		return strings.Replace(b.BankAccount, ibanPlaceholder, b.IBAN, -1)
	}
	if b.BankAccount == "" {
		return "IBAN: " + b.IBAN
	}
	return strings.TrimRight(b.BankAccount, "\n") + "\nIBAN: " + b.IBAN
}

// PaymentData returns the display data stored in a payment result
func (b Beneficiary) PaymentData(showIBAN bool) map[string]string {
	return map[string]string{
		"iban":         b.IBAN,
		"bank_account": b.Display(showIBAN),
	}
}

// BeneficiaryResolver selects the beneficiary account of a project
type BeneficiaryResolver struct {
	cfg     config.BankTransferConfig
	payouts PayoutFinder
}

func NewBeneficiaryResolver(cfg config.BankTransferConfig, payouts PayoutFinder) *BeneficiaryResolver {
	return &BeneficiaryResolver{cfg: cfg, payouts: payouts}
}

// Beneficiary returns the account of the site owner or, if configured, the
// payout account of the project owner
func (r *BeneficiaryResolver) Beneficiary(projectID int64) (Beneficiary, error) {
	if r.cfg.PaymentReceiver != config.ReceiverProjectOwner {
		return Beneficiary{
			IBAN:        strings.TrimSpace(r.cfg.IBAN),
			BankAccount: r.cfg.Beneficiary,
		}, nil
	}
	if !r.cfg.FinanceEnabled || r.payouts == nil {
		return Beneficiary{}, ErrBeneficiaryConfig
	}
	p, err := r.payouts.PayoutByProjectID(projectID)
	if err != nil {
		if err == payout.ErrPayoutNotFound {
			return Beneficiary{}, ErrBeneficiaryConfig
		}
		return Beneficiary{}, wrapKind(ErrBeneficiaryConfig, err)
	}
	if !p.HasIBAN() {
		return Beneficiary{}, ErrBeneficiaryConfig
	}
	return Beneficiary{
		IBAN:        strings.TrimSpace(p.IBAN),
		BankAccount: p.BankAccount,
	}, nil
}
