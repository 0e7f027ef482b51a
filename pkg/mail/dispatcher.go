// Package mail sends the notification emails about recorded bank transfers.
package mail

import (
	"bytes"
	"embed"
	"errors"
	"io/fs"
	"os"
	"strings"
	"text/template"

	"github.com/fritzpay/banktransferd/pkg/config"
	"github.com/fritzpay/banktransferd/pkg/crowdfunding/project"
	"github.com/fritzpay/banktransferd/pkg/crowdfunding/reward"
	"github.com/fritzpay/banktransferd/pkg/crowdfunding/transaction"
	"github.com/fritzpay/banktransferd/pkg/crowdfunding/user"
	"github.com/fritzpay/banktransferd/pkg/service/banktransfer"
	"golang.org/x/net/context"
	"gopkg.in/inconshreveable/log15.v2"
)

const (
	TemplateAdmin   = "admin.txt"
	TemplateCreator = "creator.txt"
	TemplateUser    = "user.txt"
)

//go:embed templates
var defaultTemplates embed.FS

const defaultTemplateLocale = "en_GB"

// UserFinder looks up the recipients of the emails
type UserFinder interface {
	UserByID(id int64) (user.User, error)
}

// TemplateData is passed to the email templates
type TemplateData struct {
	Recipient   user.User
	Project     *project.Project
	Reward      *reward.Reward
	Transaction *transaction.Transaction

	IBAN        string
	BankAccount string
}

// Dispatcher sends the emails about a recorded payment to the site admin, the
// project creator and the backer
type Dispatcher struct {
	cfg    config.MailConfig
	alias  string
	log    log15.Logger
	users  UserFinder
	mailer Mailer

	// templates from the configured directory or shipped with the binary
	templates fs.FS
}

func NewDispatcher(cfg config.MailConfig, alias string, log log15.Logger, users UserFinder, mailer Mailer) (*Dispatcher, error) {
	if mailer == nil {
		return nil, errors.New("mailer cannot be nil")
	}
	if users == nil {
		return nil, errors.New("user finder cannot be nil")
	}
	d := &Dispatcher{
		cfg:    cfg,
		alias:  alias,
		log:    log.New(log15.Ctx{"pkg": "github.com/fritzpay/banktransferd/pkg/mail"}),
		users:  users,
		mailer: mailer,
	}
	if cfg.TemplateDir != "" {
		d.templates = os.DirFS(cfg.TemplateDir)
	} else {
		var err error
		d.templates, err = fs.Sub(defaultTemplates, "templates")
		if err != nil {
			return nil, err
		}
	}
	return d, nil
}

// Send sends all enabled emails for the result
//
// A failing email does not keep the others from being sent. The errors are
// returned joined.
func (d *Dispatcher) Send(ctx context.Context, r *banktransfer.PaymentResult) error {
	log := d.log.New(log15.Ctx{"method": "Send"})
	if r == nil || r.Transaction == nil || r.Project == nil {
		return errors.New("incomplete payment result")
	}
	log = log.New(log15.Ctx{"txnID": r.Transaction.TxnID})

	data := TemplateData{
		Project:     r.Project,
		Reward:      r.Reward,
		Transaction: r.Transaction,
	}
	if pd, ok := r.PaymentData[d.alias]; ok {
		data.IBAN = pd["iban"]
		data.BankAccount = pd["bank_account"]
	}

	var errs []error
	if d.cfg.SendToAdmin && d.cfg.AdminAddress != "" {
		errs = append(errs, d.send(TemplateAdmin, d.cfg.AdminAddress, data))
	}
	if d.cfg.SendToCreator {
		errs = append(errs, d.sendToUser(TemplateCreator, r.Project.UserID, data))
	}
	if d.cfg.SendToUser && r.Transaction.InvestorID != 0 {
		errs = append(errs, d.sendToUser(TemplateUser, r.Transaction.InvestorID, data))
	}
	err := errors.Join(errs...)
	if err != nil {
		log.Error("error sending emails", log15.Ctx{"err": err})
	}
	return err
}

func (d *Dispatcher) sendToUser(tmpl string, userID int64, data TemplateData) error {
	u, err := d.users.UserByID(userID)
	if err != nil {
		return err
	}
	if u.Email == "" {
		return nil
	}
	data.Recipient = u
	return d.send(tmpl, u.Email, data)
}

func (d *Dispatcher) send(tmplName, to string, data TemplateData) error {
	tmpl, err := d.template(tmplName)
	if err != nil {
		return err
	}
	subject := bytes.NewBuffer(nil)
	err = tmpl.ExecuteTemplate(subject, "subject", data)
	if err != nil {
		return err
	}
	body := bytes.NewBuffer(nil)
	err = tmpl.ExecuteTemplate(body, "body", data)
	if err != nil {
		return err
	}
	return d.mailer.Send(Message{
		From:    d.cfg.From,
		To:      to,
		Subject: strings.TrimSpace(subject.String()),
		Body:    body.String(),
	})
}

// template loads the template for the configured locale
func (d *Dispatcher) template(name string) (*template.Template, error) {
	fileName, err := TemplateFile(d.templates, name, d.cfg.DefaultLocale, defaultTemplateLocale)
	if err != nil {
		return nil, err
	}
	return template.ParseFS(d.templates, fileName)
}

var _ banktransfer.Dispatcher = (*Dispatcher)(nil)
