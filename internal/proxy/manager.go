package proxy

import (
	"math/rand"
	"sync"
	"time"
)

// Manager handles the rotation of proxies and user agents.
type Manager struct {
	proxies    []string
	userAgents []string

	mu         sync.Mutex
	proxyIndex int
	rnd        *rand.Rand
}

// NewManager keeps only the non-empty entries of both lists.
func NewManager(userAgents, proxies []string) *Manager {
	return &Manager{
		proxies:    nonEmpty(proxies),
		userAgents: nonEmpty(userAgents),
		rnd:        rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// GetProxy returns a proxy URL from the list, rotating sequentially.
func (m *Manager) GetProxy() string {
	if len(m.proxies) == 0 {
		return "" // No proxy
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	proxy := m.proxies[m.proxyIndex]
	m.proxyIndex = (m.proxyIndex + 1) % len(m.proxies)
	return proxy
}

// GetUserAgent returns a random user agent string.
func (m *Manager) GetUserAgent() string {
	if len(m.userAgents) == 0 {
		return ""
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.userAgents[m.rnd.Intn(len(m.userAgents))]
}

func nonEmpty(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
