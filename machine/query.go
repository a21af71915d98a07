package machine

const (
	defaultQueryLimit = 10
	maxQueryLimit     = 30
)

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return defaultQueryLimit
	}
	if limit > maxQueryLimit {
		return maxQueryLimit
	}
	return limit
}

func (m *Machine) Collection() (*Collection, error) {
	return m.readCollection()
}

func (m *Machine) TokenCount() (uint32, error) {
	return m.store.ReadTokenCount()
}

func (m *Machine) Stage(id uint8) (*Stage, error) {
	stage, err := m.store.ReadStage(id)
	if err != nil {
		return nil, err
	}
	if stage == nil {
		return nil, ErrUnknownStage
	}
	return stage, nil
}

func (m *Machine) ListStages(limit int) ([]*Stage, error) {
	return m.store.ListStages(normalizeLimit(limit))
}

func (m *Machine) IsWhitelisted(stageId uint8, account string) (bool, error) {
	return m.store.IsWhitelisted(stageId, account)
}

// ListUnprocessedReservations pages over pending token ids in descending
// order. A non-zero after bound is exclusive, only ids strictly below it are
// returned. Token ids start at 1 so zero means unbounded.
func (m *Machine) ListUnprocessedReservations(after uint32, limit int) ([]uint32, error) {
	return m.store.ListUnprocessedReservations(after, normalizeLimit(limit))
}
