package machine

import (
	"encoding/binary"
	"sync"
	"time"
)

const clockStorePropertyKey = "CANDY:CLOCK:MONOTONIC"

// Clock is the daemon side source of ledger time, it never goes backwards
// across restarts because every observed instant is persisted.
type Clock struct {
	sync.Mutex
	store Store
	now   time.Time
}

func NewClock(store Store) (*Clock, error) {
	clock := &Clock{store: store}
	bs, err := store.ReadProperty([]byte(clockStorePropertyKey))
	if err != nil {
		return nil, err
	}
	if len(bs) == 8 {
		clock.now = time.Unix(0, int64(binary.BigEndian.Uint64(bs)))
	}
	if now := time.Now(); clock.now.Before(now) {
		clock.now = now
	}
	return clock, nil
}

func (c *Clock) Now() time.Time {
	c.Lock()
	defer c.Unlock()

	for {
		now := time.Now()
		if now.After(c.now) {
			c.now = now
			break
		}
		time.Sleep(100 * time.Millisecond)
	}

	val := make([]byte, 8)
	binary.BigEndian.PutUint64(val, uint64(c.now.UnixNano()))
	for {
		err := c.store.WriteProperty([]byte(clockStorePropertyKey), val)
		if err == nil {
			break
		}
		time.Sleep(100 * time.Millisecond)
	}

	return c.now
}
