package app

import "time"

// LoadStats counts load attempts over the process lifetime.
type LoadStats struct {
	Attempts     int
	Failures     int
	LastTrigger  string
	LastDuration time.Duration
	LastAttempt  time.Time
	LastSuccess  time.Time

	lastErr error
}

func (s *LoadStats) record(trigger string, d time.Duration, err error) {
	now := time.Now().UTC()
	s.Attempts++
	s.LastTrigger = trigger
	s.LastDuration = d
	s.LastAttempt = now
	s.lastErr = err
	if err != nil {
		s.Failures++
		return
	}
	s.LastSuccess = now
}

// Status is the JSON body of /api/status.
type Status struct {
	State        string  `json:"state"`
	LoadID       string  `json:"load_id,omitempty"`
	LoadedAt     string  `json:"loaded_at,omitempty"`
	PureSource   string  `json:"pure_source"`
	HybridSource string  `json:"hybrid_source"`
	Strict       bool    `json:"strict"`
	Watching     bool    `json:"watching"`
	Attempts     int     `json:"load_attempts"`
	Failures     int     `json:"load_failures"`
	LastTrigger  string  `json:"last_trigger,omitempty"`
	LastLoadMs   float64 `json:"last_load_ms"`
	LastError    string  `json:"last_error,omitempty"`
	PureCount    int     `json:"pure_projects"`
	HybridCount  int     `json:"hybrid_projects"`
}

// Status returns a point-in-time view of the load lifecycle.
func (a *App) Status() Status {
	a.mu.RLock()
	defer a.mu.RUnlock()

	st := Status{
		State:        a.state.String(),
		PureSource:   a.cfg.Data.PureSource,
		HybridSource: a.cfg.Data.HybridSource,
		Strict:       a.cfg.Data.Strict,
		Watching:     a.watching(),
		Attempts:     a.stats.Attempts,
		Failures:     a.stats.Failures,
		LastTrigger:  a.stats.LastTrigger,
		LastLoadMs:   float64(a.stats.LastDuration) / float64(time.Millisecond),
	}
	if a.stats.lastErr != nil {
		st.LastError = a.stats.lastErr.Error()
	}
	if a.store != nil {
		b := a.store.Bundle()
		st.LoadID = b.LoadID.String()
		st.LoadedAt = b.LoadedAt.Format(time.RFC3339)
		st.PureCount = len(b.Pure.Allocations)
		st.HybridCount = len(b.Hybrid.Allocations)
	}
	return st
}
