package history

// Adapter bridges Store to the core HistoryStore port.
type Adapter struct {
	store *Store
}

func NewAdapter(store *Store) *Adapter {
	return &Adapter{store: store}
}

func (a *Adapter) Record(run Run) error {
	return a.store.Record(run)
}

func (a *Adapter) Recent(target string, limit int) ([]Run, error) {
	return a.store.Recent(target, limit)
}

func (a *Adapter) Path() string {
	return a.store.Path()
}

func (a *Adapter) Close() error {
	return a.store.Close()
}
