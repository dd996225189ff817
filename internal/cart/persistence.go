package cart

import "context"

// Persister is the durable storage adapter behind a Store. The production
// implementation keeps one JSON blob per session in Redis; tests use Memory.
type Persister interface {
	Save(ctx context.Context, snap Snapshot) error
	Load(ctx context.Context) (Snapshot, error)
}

// Memory is an in-process Persister for tests and ephemeral sessions.
type Memory struct {
	snap Snapshot
}

func (m *Memory) Save(_ context.Context, snap Snapshot) error {
	m.snap = snap.clone()
	return nil
}

func (m *Memory) Load(_ context.Context) (Snapshot, error) {
	return m.snap.clone(), nil
}
