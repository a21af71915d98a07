package store

import (
	"github.com/MixinNetwork/candy/machine"
	"github.com/dgraph-io/badger/v4"
	"github.com/shopspring/decimal"
)

const (
	keyCollectionConfig = "CANDY:COLLECTION:CONFIG"
	keyTokenCount       = "CANDY:COLLECTION:COUNT"
	keyCollectedFunds   = "CANDY:COLLECTION:FUNDS"
)

func (bs *BadgerStore) WriteCollection(col *machine.Collection) error {
	return bs.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(keyCollectionConfig), MsgpackMarshalPanic(col))
	})
}

func (bs *BadgerStore) ReadCollection() (*machine.Collection, error) {
	txn := bs.db.NewTransaction(false)
	defer txn.Discard()

	item, err := txn.Get([]byte(keyCollectionConfig))
	if err == badger.ErrKeyNotFound {
		return nil, nil
	} else if err != nil {
		return nil, err
	}
	val, err := item.ValueCopy(nil)
	if err != nil {
		return nil, err
	}
	var col machine.Collection
	err = MsgpackUnmarshal(val, &col)
	return &col, err
}

func (bs *BadgerStore) ReadTokenCount() (uint32, error) {
	txn := bs.db.NewTransaction(false)
	defer txn.Discard()

	return bs.readTokenCount(txn)
}

func (bs *BadgerStore) readTokenCount(txn *badger.Txn) (uint32, error) {
	item, err := txn.Get([]byte(keyTokenCount))
	if err == badger.ErrKeyNotFound {
		return 0, nil
	} else if err != nil {
		return 0, err
	}
	val, err := item.ValueCopy(nil)
	if err != nil {
		return 0, err
	}
	return bytesToUint32(val), nil
}

func (bs *BadgerStore) ReadCollectedFunds() (decimal.Decimal, error) {
	txn := bs.db.NewTransaction(false)
	defer txn.Discard()

	return bs.readCollectedFunds(txn)
}

func (bs *BadgerStore) WriteCollectedFunds(amount decimal.Decimal) error {
	return bs.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(keyCollectedFunds), []byte(amount.String()))
	})
}

func (bs *BadgerStore) readCollectedFunds(txn *badger.Txn) (decimal.Decimal, error) {
	item, err := txn.Get([]byte(keyCollectedFunds))
	if err == badger.ErrKeyNotFound {
		return decimal.Zero, nil
	} else if err != nil {
		return decimal.Zero, err
	}
	val, err := item.ValueCopy(nil)
	if err != nil {
		return decimal.Zero, err
	}
	return decimal.NewFromString(string(val))
}
