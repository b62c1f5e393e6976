package model

import "time"

// DeliveryReport is the aggregate outcome of one broadcast run. Attempted is
// fixed at the size of the registry snapshot the run started from, even when
// the run is abandoned mid-sequence.
type DeliveryReport struct {
	Attempted int
	Succeeded int
}

func (r DeliveryReport) Failed() int { return r.Attempted - r.Succeeded }

// BroadcastRun is the persisted record of one finished (or abandoned) run.
type BroadcastRun struct {
	ID         string
	Kind       PayloadKind
	Attempted  int
	Succeeded  int
	StartedAt  time.Time
	FinishedAt time.Time
}
