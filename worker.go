package main

import (
	"context"
	"time"

	"github.com/MixinNetwork/candy/machine"
	"go.uber.org/zap"
)

// PendingWorker watches the unprocessed reservation queue so the operator
// can see how far the authorizer lags behind the sale. Every sweep is
// stamped with the persisted ledger clock.
type PendingWorker struct {
	machine *machine.Machine
	clock   *machine.Clock
	logger  *zap.SugaredLogger
}

func NewPendingWorker(m *machine.Machine, clock *machine.Clock, logger *zap.Logger) *PendingWorker {
	return &PendingWorker{
		machine: m,
		clock:   clock,
		logger:  logger.Sugar(),
	}
}

func (pw *PendingWorker) Run(ctx context.Context) {
	for {
		pw.sweep()
		select {
		case <-ctx.Done():
			return
		case <-time.After(time.Minute):
		}
	}
}

func (pw *PendingWorker) sweep() {
	now := pw.clock.Now()
	ids, err := pw.machine.ListUnprocessedReservations(0, 30)
	if err != nil {
		panic(err)
	}
	count, err := pw.machine.TokenCount()
	if err != nil {
		panic(err)
	}
	if len(ids) > 0 {
		pw.logger.Infof("clock %d issued %d pending %d newest %d", now.Unix(), count, len(ids), ids[0])
	} else {
		pw.logger.Infof("clock %d issued %d pending 0", now.Unix(), count)
	}
}
