package reward

import (
	"github.com/shopspring/decimal"
)

// Reward represents a reward a backer can select for a project
type Reward struct {
	ID          int64
	ProjectID   int64
	Title       string
	Amount      decimal.Decimal
	Number      int64
	Distributed int64
	Published   bool
}
