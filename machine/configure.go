package machine

import (
	"context"
	"encoding/binary"
	"fmt"

	"github.com/gofrs/uuid"
	"github.com/shopspring/decimal"
)

const withdrawSequenceKey = "CANDY:WITHDRAW:SEQUENCE"

func (m *Machine) Configure(caller string, req *ConfigureReq) error {
	col, err := m.readCollection()
	if err != nil {
		return err
	}
	if caller != col.Owner {
		return ErrUnauthorized
	}

	if req.Name != nil {
		col.Name = *req.Name
	}
	if req.Description != nil {
		col.Description = *req.Description
	}
	if req.RegistryAddress != nil {
		col.RegistryAddress = *req.RegistryAddress
	}
	return m.store.WriteCollection(col)
}

// ConfigureStage merges the set fields of the request over the stored stage,
// unset fields are left unchanged. A time window where start exceeds finish
// is representable and never rejected here, such a stage simply fails every
// request on one of the time gates.
func (m *Machine) ConfigureStage(caller string, req *ConfigureStageReq) error {
	col, err := m.readCollection()
	if err != nil {
		return err
	}
	if caller != col.Owner {
		return ErrUnauthorized
	}

	stage, err := m.store.ReadStage(req.StageId)
	if err != nil {
		return err
	}
	if stage == nil {
		return ErrUnknownStage
	}

	if req.Name != nil {
		stage.Name = *req.Name
	}
	if req.Start != nil {
		stage.Start = req.Start
	}
	if req.Finish != nil {
		stage.Finish = req.Finish
	}
	if req.Price != nil {
		stage.Price = req.Price
	}
	if req.MaxPerUser != nil {
		stage.MaxPerUser = req.MaxPerUser
	}
	if req.WhitelistEnabled != nil {
		stage.WhitelistEnabled = *req.WhitelistEnabled
	}
	return m.store.WriteStage(stage)
}

func (m *Machine) ConfigureWhitelist(caller string, req *ConfigureWhitelistReq) error {
	col, err := m.readCollection()
	if err != nil {
		return err
	}
	if caller != col.Owner {
		return ErrUnauthorized
	}

	stage, err := m.store.ReadStage(req.StageId)
	if err != nil {
		return err
	}
	if stage == nil {
		return ErrUnknownStage
	}

	for _, account := range req.Accounts {
		if req.Add {
			err = m.store.RegisterWhitelist(req.StageId, account)
		} else {
			err = m.store.UnregisterWhitelist(req.StageId, account)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// WithdrawFunds transfers the whole collected payment balance to the
// recipient and zeroes it. Withdrawing a zero balance succeeds without a
// transfer instruction.
func (m *Machine) WithdrawFunds(ctx context.Context, caller, recipient string) error {
	col, err := m.readCollection()
	if err != nil {
		return err
	}
	if caller != col.Owner {
		return ErrUnauthorized
	}

	balance, err := m.store.ReadCollectedFunds()
	if err != nil {
		return err
	}
	if !balance.IsPositive() {
		return nil
	}
	err = m.store.WriteCollectedFunds(decimal.Zero)
	if err != nil {
		return err
	}
	seq, err := m.nextWithdrawSequence()
	if err != nil {
		return err
	}
	return m.registry.Transfer(ctx, &TransferInstruction{
		TraceId:  withdrawTraceId(seq, recipient),
		AssetId:  PaymentAssetId,
		Receiver: recipient,
		Amount:   balance,
	})
}

// nextWithdrawSequence numbers every withdrawal so repeated transfers of the
// same amount to the same recipient still carry unique trace ids.
func (m *Machine) nextWithdrawSequence() (uint32, error) {
	val, err := m.store.ReadProperty([]byte(withdrawSequenceKey))
	if err != nil {
		return 0, err
	}
	var seq uint32
	if len(val) == 4 {
		seq = binary.BigEndian.Uint32(val)
	}
	seq++
	buf := make([]byte, 4)
	binary.BigEndian.PutUint32(buf, seq)
	return seq, m.store.WriteProperty([]byte(withdrawSequenceKey), buf)
}

func withdrawTraceId(sequence uint32, recipient string) string {
	return uuid.NewV5(uuid.NamespaceOID, fmt.Sprintf("candy:withdraw:%d:%s", sequence, recipient)).String()
}
