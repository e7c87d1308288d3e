package main

import (
	"time"

	"github.com/jonboulle/clockwork"
)

const (
	WhichOwn  Which = "own"
	WhichPeer Which = "peer"
)

const defaultSessionTTL = 10 * time.Minute

// #############################################################################

func ParseWhich(s string) (Which, error) {
	switch Which(s) {
	case WhichOwn, WhichPeer:
		return Which(s), nil
	}
	return "", dataError(nil, "selector must be %q or %q, got %q", WhichOwn, WhichPeer, s)
}

func NewRelay(gp *GroupParams, cfg RelayConfig, clock clockwork.Clock) *Relay {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	ttl := cfg.SessionTTL
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	return &Relay{
		params:   gp,
		secret:   NewSecret(gp),
		clock:    clock,
		ttl:      ttl,
		opts:     cfg.Pool,
		log:      log.WithField("party", "relay"),
		sessions: make(map[string]*relaySession),
	}
}

// Upload stores set as the latest upload of label within session. A session
// holds at most two participants.
func (r *Relay) Upload(session, label string, set BlindedSet) error {
	if session == "" || label == "" {
		return dataError(nil, "upload needs a session id and a participant label")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.prune()

	s, ok := r.sessions[session]
	if !ok {
		s = &relaySession{sets: make(map[string]BlindedSet)}
		r.sessions[session] = s
	}
	if _, known := s.sets[label]; !known {
		if len(s.labels) == 2 {
			return dataError(nil, "session already has two participants")
		}
		s.labels = append(s.labels, label)
	}
	s.sets[label] = set
	s.touched = r.clock.Now()

	r.log.WithField("session", session).Debugf("stored upload from %s / items=%d", label, len(set))
	return nil
}

// GetProcessed re-exponentiates the caller's own set or its counterpart's
// set by the relay secret. The second return value is false when the needed
// upload has not arrived yet; the set is then empty and callers should retry.
func (r *Relay) GetProcessed(session, label string, which Which) (BlindedSet, bool, error) {
	if session == "" || label == "" {
		return nil, false, dataError(nil, "fetch needs a session id and a participant label")
	}
	if _, err := ParseWhich(string(which)); err != nil {
		return nil, false, err
	}

	set, ok := r.lookup(session, label, which)
	if !ok {
		r.log.WithField("session", session).Debugf("%s asked for %s set before upload", label, which)
		return BlindedSet{}, false, nil
	}

	defer Timer(time.Now(), r.log.WithField("session", session), "re-exponentiate "+string(which))
	return ReExponentiate(r.params, set, r.secret, r.opts), true, nil
}

func (r *Relay) lookup(session, label string, which Which) (BlindedSet, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.prune()

	s, ok := r.sessions[session]
	if !ok {
		return nil, false
	}
	s.touched = r.clock.Now()

	target := label
	if which == WhichPeer {
		target = ""
		for _, l := range s.labels {
			if l != label {
				target = l
				break
			}
		}
	}
	set, ok := s.sets[target]
	return set, ok
}

// prune drops idle sessions. Callers hold r.mu.
func (r *Relay) prune() {
	now := r.clock.Now()
	for id, s := range r.sessions {
		if now.Sub(s.touched) > r.ttl {
			delete(r.sessions, id)
			r.log.WithField("session", id).Debug("session expired")
		}
	}
}

func (r *Relay) Sessions() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}
