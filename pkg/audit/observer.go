package audit

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/ethereum/go-ethereum/common"

	"github.com/doodlesbykumbi/voterlist/pkg/accesscontrol"
	"github.com/doodlesbykumbi/voterlist/pkg/event"
	"github.com/doodlesbykumbi/voterlist/pkg/identity"
)

// Ensure Observer implements accesscontrol.Observer
var _ accesscontrol.Observer = (*Observer)(nil)

// Observer writes every mutation outcome of the registry to the audit log.
type Observer struct {
	// Log receives each audit event. Defaults to the package level Log.
	Log func(Event)
}

// NewObserver creates an Observer writing through the package level Log.
func NewObserver() *Observer {
	return &Observer{Log: Log}
}

// errorOutput receives persistence failures of store observers.
var errorOutput io.Writer = os.Stderr

// NewStoreObserver creates an Observer that writes each event to logger and
// saves it once to store. The package level DefaultStore is not used.
func NewStoreObserver(logger *Logger, store *Store) *Observer {
	return &Observer{Log: func(e Event) {
		if !IsEnabled() {
			return
		}
		logger.Log(e)
		if err := store.Save(e); err != nil {
			fmt.Fprintf(errorOutput, "audit: failed to save event: %v\n", err)
		}
	}}
}

func (o *Observer) log(e Event) {
	if o.Log == nil {
		Log(e)
		return
	}
	o.Log(e)
}

func clientIP(ctx context.Context) string {
	if id, ok := identity.Get(ctx); ok && id.RemoteIP != nil {
		return id.RemoteIP.String()
	}
	return "-"
}

// Committed logs one event per log entry of the receipt, then the mutation
// outcome.
func (o *Observer) Committed(ctx context.Context, receipt *event.Receipt) {
	ip := clientIP(ctx)
	for _, log := range receipt.Logs {
		o.log(FromLog(log, ip))
	}
	o.log(MutationEvent{
		Operation: receipt.Operation,
		Caller:    receipt.Sender,
		ClientIP:  ip,
		TxID:      receipt.TxID,
		Changes:   len(receipt.Logs),
		Success:   true,
	})
}

// Rejected logs a failed mutation.
func (o *Observer) Rejected(ctx context.Context, operation string, caller common.Address, err error) {
	o.log(MutationEvent{
		Operation:    operation,
		Caller:       caller,
		ClientIP:     clientIP(ctx),
		Success:      false,
		ErrorMessage: err.Error(),
	})
}
