package machine

import (
	"fmt"

	"github.com/shopspring/decimal"
)

type Machine struct {
	store    Store
	registry Registry
}

func NewMachine(store Store, registry Registry) *Machine {
	return &Machine{
		store:    store,
		registry: registry,
	}
}

// Bootstrap seeds the collection singleton and the initial stages from the
// configuration file. The registry address arrives later via Configure, after
// the registry is provisioned. A second run against the same store is a no-op.
func (m *Machine) Bootstrap(conf *Configuration) error {
	old, err := m.store.ReadCollection()
	if err != nil || old != nil {
		return err
	}

	col := &Collection{
		Owner:         conf.Owner,
		Name:          conf.Name,
		Symbol:        conf.Symbol,
		Description:   conf.Description,
		MaxTokenCount: conf.MaxTokenCount,
	}
	switch conf.Collection.Kind {
	case "single":
		col.Kind = NewSingleKind(conf.Collection.Image)
	case "collectible":
		col.Kind = NewCollectibleKind(conf.Collection.Authorizer, conf.Collection.Cover, conf.Collection.PublicKey)
	default:
		return fmt.Errorf("invalid collection kind %s", conf.Collection.Kind)
	}
	err = m.store.WriteCollection(col)
	if err != nil {
		return err
	}

	for _, sc := range conf.Stages {
		stage := &Stage{
			Id:               sc.Id,
			Name:             sc.Name,
			Start:            sc.Start,
			Finish:           sc.Finish,
			MaxPerUser:       sc.MaxPerUser,
			WhitelistEnabled: sc.WhitelistEnabled,
		}
		if sc.Price != "" {
			price, err := decimal.NewFromString(sc.Price)
			if err != nil {
				return fmt.Errorf("invalid stage price %s", sc.Price)
			}
			stage.Price = &price
		}
		err = m.store.WriteStage(stage)
		if err != nil {
			return err
		}
	}
	return nil
}

func (m *Machine) readCollection() (*Collection, error) {
	col, err := m.store.ReadCollection()
	if err != nil {
		return nil, err
	}
	if col == nil {
		return nil, fmt.Errorf("collection not initialized")
	}
	return col, nil
}
