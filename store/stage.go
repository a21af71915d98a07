package store

import (
	"github.com/MixinNetwork/candy/machine"
	"github.com/dgraph-io/badger/v4"
	"github.com/shopspring/decimal"
)

const prefixStageConfig = "CANDY:STAGE:CONFIG:"

// stageEntity is the persisted form of a stage, the price travels as a
// string because decimals do not survive msgpack reflection.
type stageEntity struct {
	Id               uint8
	Name             string
	Start            *int64
	Finish           *int64
	Price            string
	MaxPerUser       *uint32
	WhitelistEnabled bool
}

func (bs *BadgerStore) WriteStage(stage *machine.Stage) error {
	entity := &stageEntity{
		Id:               stage.Id,
		Name:             stage.Name,
		Start:            stage.Start,
		Finish:           stage.Finish,
		MaxPerUser:       stage.MaxPerUser,
		WhitelistEnabled: stage.WhitelistEnabled,
	}
	if stage.Price != nil {
		entity.Price = stage.Price.String()
	}
	return bs.db.Update(func(txn *badger.Txn) error {
		return txn.Set(stageConfigKey(stage.Id), MsgpackMarshalPanic(entity))
	})
}

func (bs *BadgerStore) ReadStage(id uint8) (*machine.Stage, error) {
	txn := bs.db.NewTransaction(false)
	defer txn.Discard()

	item, err := txn.Get(stageConfigKey(id))
	if err == badger.ErrKeyNotFound {
		return nil, nil
	} else if err != nil {
		return nil, err
	}
	val, err := item.ValueCopy(nil)
	if err != nil {
		return nil, err
	}
	return stageFromBytes(val)
}

func (bs *BadgerStore) ListStages(limit int) ([]*machine.Stage, error) {
	txn := bs.db.NewTransaction(false)
	defer txn.Discard()

	opts := badger.DefaultIteratorOptions
	opts.Prefix = []byte(prefixStageConfig)
	it := txn.NewIterator(opts)
	defer it.Close()

	var stages []*machine.Stage
	for it.Seek(opts.Prefix); it.Valid(); it.Next() {
		val, err := it.Item().ValueCopy(nil)
		if err != nil {
			return nil, err
		}
		stage, err := stageFromBytes(val)
		if err != nil {
			return nil, err
		}
		stages = append(stages, stage)
		if len(stages) == limit {
			break
		}
	}
	return stages, nil
}

func stageFromBytes(val []byte) (*machine.Stage, error) {
	var entity stageEntity
	err := MsgpackUnmarshal(val, &entity)
	if err != nil {
		return nil, err
	}
	stage := &machine.Stage{
		Id:               entity.Id,
		Name:             entity.Name,
		Start:            entity.Start,
		Finish:           entity.Finish,
		MaxPerUser:       entity.MaxPerUser,
		WhitelistEnabled: entity.WhitelistEnabled,
	}
	if entity.Price != "" {
		price, err := decimal.NewFromString(entity.Price)
		if err != nil {
			return nil, err
		}
		stage.Price = &price
	}
	return stage, nil
}

func stageConfigKey(id uint8) []byte {
	return append([]byte(prefixStageConfig), id)
}
