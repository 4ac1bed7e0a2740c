package renewal

import (
	"sync"
	"time"

	"certhub/internal/feeschedule"
)

// Manager hands out one workflow per user. The workflow lives for the
// session; re-opening reuses the same instance with a fresh draft.
type Manager struct {
	certs     CertificateStore
	schedules *feeschedule.Provider
	persister *Persister
	sink      EventSink
	now       func() time.Time

	mu        sync.Mutex
	workflows map[int]*Workflow
}

// NewManager creates a workflow manager
func NewManager(certs CertificateStore, schedules *feeschedule.Provider, persister *Persister, sink EventSink) *Manager {
	return &Manager{
		certs:     certs,
		schedules: schedules,
		persister: persister,
		sink:      sink,
		now:       time.Now,
		workflows: make(map[int]*Workflow),
	}
}

// ForUser returns the user's workflow, creating it on first use
func (m *Manager) ForUser(uid int) *Workflow {
	m.mu.Lock()
	defer m.mu.Unlock()

	wf, ok := m.workflows[uid]
	if !ok {
		wf = NewWorkflow(uid, m.certs, m.schedules, m.persister, m.sink, m.now)
		m.workflows[uid] = wf
	}
	return wf
}
