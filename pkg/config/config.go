package config

import (
	"encoding/json"
	"errors"
	"io"
	"time"
)

const (
	// ReceiverSiteOwner makes the plugin show the configured site owner account
	ReceiverSiteOwner = "site_owner"
	// ReceiverProjectOwner makes the plugin show the payout account of the project owner
	ReceiverProjectOwner = "project_owner"
)

const (
	UserStateMemory = "memory"
	UserStateRedis  = "redis"
)

// Duration is a time.Duration which is represented as a string in JSON
type Duration string

// Duration parses the string representation
func (d Duration) Duration() (time.Duration, error) {
	if d == "" {
		return 0, nil
	}
	return time.ParseDuration(string(d))
}

// ServiceConfig is the configuration of a HTTP service
type ServiceConfig struct {
	Address        string
	ReadTimeout    Duration
	WriteTimeout   Duration
	MaxHeaderBytes int
}

// DatabaseConfig holds the connection settings for the crowdfunding database
type DatabaseConfig struct {
	Write        string
	ReadOnly     string
	MaxOpenConns int
	MaxIdleConns int
}

// BankTransferConfig holds the parameters of the bank transfer payment method
type BankTransferConfig struct {
	ServiceProvider string
	ServiceAlias    string

	// ReturnURL overrides the share page a backer is redirected to
	ReturnURL string
	// AutoComplete registers transactions as completed instead of pending
	AutoComplete bool
	// ShowIBAN adds the IBAN to the displayed bank account text
	ShowIBAN bool
	// PaymentReceiver is either site_owner or project_owner
	PaymentReceiver string
	IBAN            string
	Beneficiary     string
	ProjectCurrency string
	TxnIDPrefix     string

	// FinanceEnabled must be set when the project owner payout data is used
	FinanceEnabled bool
	// Secret is used to open the sealed payout data
	Secret string
}

// MailConfig holds the settings of the notification emails
type MailConfig struct {
	SMTPAddress  string
	SMTPUser     string
	SMTPPassword string
	From         string
	AdminAddress string

	TemplateDir   string
	DefaultLocale string

	SendToAdmin   bool
	SendToCreator bool
	SendToUser    bool
}

// Config represents a full configuration for banktransferd and its tools
type Config struct {
	Database DatabaseConfig

	Web struct {
		Service ServiceConfig
		// SiteURL is the scheme and host of the public site. If empty, the
		// request origin is used
		SiteURL string
		// NotifyRateLimit is the number of notifications per second accepted
		NotifyRateLimit float64
		NotifyBurst     int
		VisitorCookie   string
	}

	Metrics struct {
		Service ServiceConfig
		Active  bool
	}

	Log struct {
		Level string
	}

	UserState struct {
		Type     string
		RedisURL string
		TTL      Duration
	}

	Broker struct {
		Active     bool
		URL        string
		Exchange   string
		RoutingKey string
	}

	Mail MailConfig

	BankTransfer BankTransferConfig
}

// DefaultConfig returns a default configuration
func DefaultConfig() Config {
	cfg := Config{}
	cfg.Database.MaxOpenConns = 10
	cfg.Database.MaxIdleConns = 2

	cfg.Web.Service.Address = ":8080"
	cfg.Web.Service.ReadTimeout = "10s"
	cfg.Web.Service.WriteTimeout = "10s"
	cfg.Web.Service.MaxHeaderBytes = 1 << 20
	cfg.Web.NotifyRateLimit = 10
	cfg.Web.NotifyBurst = 20
	cfg.Web.VisitorCookie = "crowdfunding_visitor"

	cfg.Metrics.Service.Address = ":9090"

	cfg.Log.Level = "info"

	cfg.UserState.Type = UserStateMemory
	cfg.UserState.TTL = "2h"

	cfg.Broker.Exchange = "crowdfunding"
	cfg.Broker.RoutingKey = "transaction.created"

	cfg.Mail.DefaultLocale = "en_GB"
	cfg.Mail.SendToAdmin = true
	cfg.Mail.SendToCreator = true
	cfg.Mail.SendToUser = true

	cfg.BankTransfer.ServiceProvider = "Bank Transfer"
	cfg.BankTransfer.ServiceAlias = "banktransfer"
	cfg.BankTransfer.PaymentReceiver = ReceiverSiteOwner
	cfg.BankTransfer.ProjectCurrency = "EUR"
	cfg.BankTransfer.TxnIDPrefix = "BT"

	return cfg
}

// Validate checks the settings which the services cannot run without
func (cfg Config) Validate() error {
	if cfg.Database.Write == "" {
		return errors.New("Database.Write is empty")
	}
	if cfg.BankTransfer.ServiceAlias == "" {
		return errors.New("BankTransfer.ServiceAlias is empty")
	}
	if len(cfg.BankTransfer.TxnIDPrefix) != 2 {
		return errors.New("BankTransfer.TxnIDPrefix must have two characters")
	}
	switch cfg.BankTransfer.PaymentReceiver {
	case ReceiverSiteOwner, ReceiverProjectOwner:
	default:
		return errors.New("BankTransfer.PaymentReceiver must be site_owner or project_owner")
	}
	switch cfg.UserState.Type {
	case UserStateMemory:
	case UserStateRedis:
		if cfg.UserState.RedisURL == "" {
			return errors.New("UserState.RedisURL is empty")
		}
	default:
		return errors.New("UserState.Type must be memory or redis")
	}
	if _, err := cfg.UserState.TTL.Duration(); err != nil {
		return errors.New("UserState.TTL is not a duration")
	}
	if cfg.Broker.Active && cfg.Broker.URL == "" {
		return errors.New("Broker.URL is empty")
	}
	return nil
}

// ReadConfig reads the JSON from the given reader into a new Config
//
// Values not present in the JSON keep their defaults.
func ReadConfig(r io.Reader) (Config, error) {
	dec := json.NewDecoder(r)
	cfg := DefaultConfig()
	err := dec.Decode(&cfg)
	return cfg, err
}

// WriteConfig will write the given config to the given Writer as JSON (pretty printed)
func WriteConfig(w io.Writer, cfg Config) error {
	jsonBytes, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	_, err = w.Write(jsonBytes)
	return err
}
