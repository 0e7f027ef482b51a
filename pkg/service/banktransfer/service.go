package banktransfer

import (
	"regexp"

	"github.com/fritzpay/banktransferd/pkg/crowdfunding/currency"
	"github.com/fritzpay/banktransferd/pkg/crowdfunding/payout"
	"github.com/fritzpay/banktransferd/pkg/crowdfunding/project"
	"github.com/fritzpay/banktransferd/pkg/crowdfunding/reward"
	"github.com/fritzpay/banktransferd/pkg/crowdfunding/session"
	"github.com/fritzpay/banktransferd/pkg/crowdfunding/transaction"
	"github.com/fritzpay/banktransferd/pkg/service"
	"golang.org/x/net/context"
	"gopkg.in/inconshreveable/log15.v2"
)

const triggerPrefix = "crowdfunding"

// NotifyContext returns the trigger context of a payment notification for the alias
func NotifyContext(alias string) string {
	return triggerPrefix + ".notify." + alias
}

// PaymentsContext returns the trigger context of the payments page for the alias
func PaymentsContext(alias string) string {
	return triggerPrefix + ".payments." + alias
}

// Service is the bank transfer payment method service
type Service struct {
	*Recorder

	ctx *service.Context
	log log15.Logger

	beneficiaries *BeneficiaryResolver
	dispatcher    Dispatcher

	afterNotify *regexp.Regexp
}

// SQLDeps returns the collaborators backed by the crowdfunding DB and the
// user state of the context
func SQLDeps(ctx *service.Context) Deps {
	db := ctx.CrowdfundingDB()
	ro := ctx.CrowdfundingDB(service.ReadOnly)
	cfg := ctx.Config().BankTransfer
	return Deps{
		Transactions: SQLTransactionStore{DB: db},
		Projects:     project.Finder{DB: ro},
		Currencies:   currency.Finder{DB: ro},
		Rewards:      reward.Finder{DB: ro},
		Payouts:      payout.Finder{DB: ro, Secret: cfg.Secret},
		Sessions:     session.NewStore(db, ctx.UserState()),
		TxnIDs:       transaction.NewTxnIDGenerator(nil, cfg.TxnIDPrefix),
		UserState:    ctx.UserState(),
	}
}

// NewService creates the bank transfer service
func NewService(ctx *service.Context, deps Deps) (*Service, error) {
	cfg := ctx.Config().BankTransfer
	s := &Service{
		ctx: ctx,
		log: ctx.Log().New(log15.Ctx{
			"pkg": "github.com/fritzpay/banktransferd/pkg/service/banktransfer",
		}),
		beneficiaries: NewBeneficiaryResolver(cfg, deps.Payouts),
		dispatcher:    deps.Dispatcher,
		afterNotify:   regexp.MustCompile(`^` + triggerPrefix + `\.(notify|payments)\.` + regexp.QuoteMeta(cfg.ServiceAlias) + `$`),
	}
	var err error
	s.Recorder, err = NewRecorder(cfg, ctx.Log(), deps)
	if err != nil {
		s.log.Error("error initializing recorder", log15.Ctx{"err": err})
		return nil, err
	}
	return s, nil
}

// Notify records the notification if the trigger context is the notification
// of this payment method
func (s *Service) Notify(ctx context.Context, trigger string, req NotifyRequest) (*PaymentResult, error) {
	if trigger != NotifyContext(s.ctx.Config().BankTransfer.ServiceAlias) {
		return nil, ErrUnsupportedContext
	}
	return s.RecordNotification(ctx, req)
}

// Beneficiary returns the beneficiary account for the project
func (s *Service) Beneficiary(projectID int64) (Beneficiary, error) {
	b, err := s.beneficiaries.Beneficiary(projectID)
	if err != nil {
		s.log.Error("error resolving beneficiary", log15.Ctx{
			"method":    "Beneficiary",
			"projectID": projectID,
			"err":       err,
		})
	}
	return b, err
}

// AfterNotify adds the beneficiary data to a recorded payment and dispatches
// the notification emails
//
// The recorded transaction stays untouched. Failures are only logged and do
// not keep the emails from being sent.
func (s *Service) AfterNotify(ctx context.Context, trigger string, result *PaymentResult) {
	log := s.log.New(log15.Ctx{"method": "AfterNotify"})
	if !s.afterNotify.MatchString(trigger) || result == nil || result.Project == nil {
		return
	}
	cfg := s.ctx.Config().BankTransfer
	log = log.New(log15.Ctx{"projectID": result.Project.ID})

	// without beneficiary data the emails are sent without bank account
	b, err := s.Beneficiary(result.Project.ID)
	if err == nil {
		result.SetPaymentData(cfg.ServiceAlias, b.PaymentData(cfg.ShowIBAN))
	}

	if s.dispatcher == nil {
		return
	}
	err = s.dispatcher.Send(ctx, result)
	if err != nil {
		log.Error("error sending notifications", log15.Ctx{"err": err})
	}
}

var (
	_ ProjectFinder  = project.Finder{}
	_ CurrencyFinder = currency.Finder{}
	_ RewardFinder   = reward.Finder{}
	_ PayoutFinder   = payout.Finder{}
	_ SessionStore   = (*session.Store)(nil)
	_ TxnIDGenerator = (*transaction.TxnIDGenerator)(nil)
)
