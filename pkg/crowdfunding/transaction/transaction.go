package transaction

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction represents a payment of a backer for a project
type Transaction struct {
	ID         int64
	InvestorID int64
	// ReceiverID is the owner of the project
	ReceiverID int64
	ProjectID  int64
	// RewardID is 0 if no reward was selected
	RewardID int64

	ServiceProvider string
	ServiceAlias    string

	TxnID    string
	Amount   decimal.Decimal
	Currency string
	Status   Status
	Created  time.Time
}
