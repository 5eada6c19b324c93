package cache

// Coordinator maps remote-mutating operations to the dataset keys whose
// cached values they make stale. The mapping is a static table maintained
// alongside the mutations, not a pub/sub system.
type Coordinator struct {
	mgr   *Manager
	table map[string][]string
}

func NewCoordinator(mgr *Manager, table map[string][]string) *Coordinator {
	return &Coordinator{mgr: mgr, table: table}
}

// OnSuccess evicts every slot affected by operation. Call it only after
// the remote write succeeded; a failed write leaves the cache untouched.
func (c *Coordinator) OnSuccess(operation string) {
	for _, key := range c.table[operation] {
		c.mgr.Invalidate(key)
	}
}
