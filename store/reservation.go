package store

import (
	"github.com/MixinNetwork/candy/machine"
	"github.com/dgraph-io/badger/v4"
)

const (
	prefixReservationPayload = "CANDY:RESERVATION:PAYLOAD:"
	prefixReservationQueue   = "CANDY:RESERVATION:QUEUE:"
)

// CommitIssue applies a full issuance decision in one transaction, either
// everything lands or nothing does.
func (bs *BadgerStore) CommitIssue(ci *machine.IssueCommit) error {
	return bs.db.Update(func(txn *badger.Txn) error {
		err := txn.Set(userCountKey(ci.Account), uint32ToBytes(ci.UserCount))
		if err != nil {
			return err
		}
		err = txn.Set([]byte(keyTokenCount), uint32ToBytes(ci.TokenCount))
		if err != nil {
			return err
		}

		if ci.Payment.IsPositive() {
			old, err := bs.readCollectedFunds(txn)
			if err != nil {
				return err
			}
			err = txn.Set([]byte(keyCollectedFunds), []byte(old.Add(ci.Payment).String()))
			if err != nil {
				return err
			}
		}

		if !ci.Reserve {
			return nil
		}
		r := &machine.Reservation{
			TokenId:     ci.TokenCount,
			UserAddress: ci.Account,
		}
		err = txn.Set(reservationPayloadKey(ci.TokenCount), MsgpackMarshalPanic(r))
		if err != nil {
			return err
		}
		return txn.Set(reservationQueueKey(ci.TokenCount), []byte(ci.Account))
	})
}

func (bs *BadgerStore) ReadReservation(tokenId uint32) (*machine.Reservation, error) {
	txn := bs.db.NewTransaction(false)
	defer txn.Discard()

	item, err := txn.Get(reservationPayloadKey(tokenId))
	if err == badger.ErrKeyNotFound {
		return nil, nil
	} else if err != nil {
		return nil, err
	}
	val, err := item.ValueCopy(nil)
	if err != nil {
		return nil, err
	}
	var r machine.Reservation
	err = MsgpackUnmarshal(val, &r)
	return &r, err
}

// RemoveReservation deletes both the payload and the queue entry, removing
// an absent reservation is not an error.
func (bs *BadgerStore) RemoveReservation(tokenId uint32) error {
	return bs.db.Update(func(txn *badger.Txn) error {
		err := txn.Delete(reservationPayloadKey(tokenId))
		if err != nil {
			return err
		}
		return txn.Delete(reservationQueueKey(tokenId))
	})
}

// ListUnprocessedReservations scans pending token ids in descending order.
// When after is not zero only ids strictly below it are returned, token ids
// start at 1 so zero means no bound.
func (bs *BadgerStore) ListUnprocessedReservations(after uint32, limit int) ([]uint32, error) {
	txn := bs.db.NewTransaction(false)
	defer txn.Discard()

	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = false
	opts.Reverse = true
	opts.Prefix = []byte(prefixReservationQueue)
	it := txn.NewIterator(opts)
	defer it.Close()

	seek := reservationQueueKey(^uint32(0))
	if after > 0 {
		seek = reservationQueueKey(after - 1)
	}
	var ids []uint32
	for it.Seek(seek); it.Valid(); it.Next() {
		key := it.Item().Key()
		ids = append(ids, bytesToUint32(key[len(opts.Prefix):]))
		if len(ids) == limit {
			break
		}
	}
	return ids, nil
}

func reservationPayloadKey(tokenId uint32) []byte {
	return append([]byte(prefixReservationPayload), uint32ToBytes(tokenId)...)
}

func reservationQueueKey(tokenId uint32) []byte {
	return append([]byte(prefixReservationQueue), uint32ToBytes(tokenId)...)
}
