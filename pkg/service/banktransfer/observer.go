package banktransfer

import (
	"sync"
	"time"

	"github.com/fritzpay/banktransferd/pkg/crowdfunding/transaction"
)

// TypeAliasPayment is the type alias observers of created payment transactions register for
const TypeAliasPayment = "crowdfunding.payment"

// TransactionEvent is passed to observers after a transaction was committed
type TransactionEvent struct {
	TypeAlias   string
	Transaction transaction.Transaction
	Time        time.Time
}

// Observer reacts to created transactions
//
// Observers are called synchronously after the commit. They must not block.
type Observer interface {
	TransactionCreated(e TransactionEvent)
}

// ObserverFunc is an adapter to use ordinary functions as observers
type ObserverFunc func(e TransactionEvent)

func (f ObserverFunc) TransactionCreated(e TransactionEvent) {
	f(e)
}

type observers struct {
	mu sync.RWMutex
	m  map[string][]Observer
}

func (o *observers) add(typeAlias string, obs Observer) {
	o.mu.Lock()
	if o.m == nil {
		o.m = make(map[string][]Observer)
	}
	o.m[typeAlias] = append(o.m[typeAlias], obs)
	o.mu.Unlock()
}

func (o *observers) fire(e TransactionEvent) {
	o.mu.RLock()
	obs := o.m[e.TypeAlias]
	o.mu.RUnlock()
	for _, ob := range obs {
		ob.TransactionCreated(e)
	}
}
