package store

import (
	"github.com/dgraph-io/badger/v4"
)

const (
	prefixUserCount     = "CANDY:USER:COUNT:"
	prefixUserWhitelist = "CANDY:USER:WHITELIST:"
)

func (bs *BadgerStore) ReadUserCount(account string) (uint32, error) {
	txn := bs.db.NewTransaction(false)
	defer txn.Discard()

	item, err := txn.Get(userCountKey(account))
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

func (bs *BadgerStore) RegisterWhitelist(stageId uint8, account string) error {
	return bs.db.Update(func(txn *badger.Txn) error {
		return txn.Set(whitelistKey(stageId, account), []byte{1})
	})
}

func (bs *BadgerStore) UnregisterWhitelist(stageId uint8, account string) error {
	return bs.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(whitelistKey(stageId, account))
	})
}

func (bs *BadgerStore) IsWhitelisted(stageId uint8, account string) (bool, error) {
	txn := bs.db.NewTransaction(false)
	defer txn.Discard()

	_, err := txn.Get(whitelistKey(stageId, account))
	if err == badger.ErrKeyNotFound {
		return false, nil
	} else if err != nil {
		return false, err
	}
	return true, nil
}

func userCountKey(account string) []byte {
	return append([]byte(prefixUserCount), account...)
}

func whitelistKey(stageId uint8, account string) []byte {
	key := append([]byte(prefixUserWhitelist), stageId)
	return append(key, account...)
}
