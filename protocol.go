package main

import (
	"context"
	"time"

	uuid "github.com/satori/go.uuid"
	"github.com/sirupsen/logrus"
)

const (
	StateStart RunState = iota
	StateLocalBlind
	StateExchangeBlinded
	StateLocalReExponentiate
	StateUploadToRelay
	StateFetchPeerProcessed
	StateFetchOwnProcessed
	StateSendOwnProcessedToPeer
	StateReceivePeerFinal
	StateIntersect
	StateAggregate
	StateDone
	StateFailed
)

const (
	ModeDirect = "direct"
	ModeRelay  = "relay"
)

const defaultPollInterval = 250 * time.Millisecond

var stateNames = []string{
	"Start", "LocalBlind", "ExchangeBlinded", "LocalReExponentiate",
	"UploadToRelay", "FetchPeerProcessed", "FetchOwnProcessed",
	"SendOwnProcessedToPeer", "ReceivePeerFinal", "Intersect", "Aggregate",
	"Done", "Failed",
}

func (s RunState) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "Unknown"
}

// #############################################################################

type protocolRun struct {
	p       *Party
	session string
	state   RunState
	log     *logrus.Entry
}

func (r *protocolRun) enter(s RunState) {
	r.state = s
	r.log.WithField("state", s).Debug("transition")
}

// DefaultMode is relay when a relay address is configured.
func (p *Party) DefaultMode() string {
	if p.HasRelay() {
		return ModeRelay
	}
	return ModeDirect
}

// Run executes one full protocol run against the configured peer. It
// returns either a complete result or a *RunError, never both.
func (p *Party) Run(ctx context.Context, mode string) (*IntersectionResult, error) {
	if mode == "" {
		mode = p.DefaultMode()
	}
	session := uuid.NewV4().String()
	r := &protocolRun{p: p, session: session, log: p.log.WithFields(logrus.Fields{"session": session, "mode": mode})}
	r.enter(StateStart)

	var watch Stopwatch
	watch.Reset()

	var res *IntersectionResult
	var err error
	switch mode {
	case ModeDirect:
		res, err = r.direct(ctx)
	case ModeRelay:
		if !p.HasRelay() {
			err = configError("relay mode requested but no relay address is configured")
			break
		}
		res, err = r.relayed(ctx)
	default:
		err = dataError(nil, "unknown mode %q", mode)
	}

	if err != nil {
		re := AsRunError(err)
		r.enter(StateFailed)
		r.log.WithField("kind", re.Kind).Warnf("run failed after %s: %s", watch.Elapsed(), re.Reason)
		return nil, re
	}
	r.log.Infof("run finished in %s / size=%d", watch.Elapsed(), res.Size)
	return res, nil
}

func (r *protocolRun) direct(ctx context.Context) (*IntersectionResult, error) {
	p := r.p

	r.enter(StateLocalBlind)
	ownItems, handles := p.BlindForWire()

	r.enter(StateExchangeBlinded)
	peerItems, err := p.client.FetchBlinded(ctx, p.cfg.Peer)
	if err != nil {
		return nil, err
	}
	peerSet, err := DecodeItems(p.params, peerItems)
	if err != nil {
		return nil, err
	}
	ownFinal, err := r.peerFinal(ctx, ownItems, handles)
	if err != nil {
		return nil, err
	}

	r.enter(StateLocalReExponentiate)
	peerFinal := p.ReExponentiate(peerSet)

	return r.finish(ownFinal, peerFinal), nil
}

func (r *protocolRun) relayed(ctx context.Context) (*IntersectionResult, error) {
	p := r.p

	r.enter(StateLocalBlind)
	ownItems, handles := p.BlindForWire()

	r.enter(StateUploadToRelay)
	if _, err := p.client.Upload(ctx, p.cfg.Relay, r.session, p.Label(), ownItems); err != nil {
		return nil, err
	}
	ack, err := p.client.PreparePeer(ctx, p.cfg.Peer, r.session)
	if err != nil {
		return nil, err
	}
	if ack.Label == p.Label() {
		return nil, configError("peer uses the same participant label %q", ack.Label)
	}

	r.enter(StateFetchPeerProcessed)
	peerItems, err := r.poll(ctx, WhichPeer)
	if err != nil {
		return nil, err
	}
	peerSet, err := DecodeItems(p.params, peerItems)
	if err != nil {
		return nil, err
	}
	peerFinal := p.ReExponentiate(peerSet)

	r.enter(StateFetchOwnProcessed)
	ownProcessed, err := r.poll(ctx, WhichOwn)
	if err != nil {
		return nil, err
	}

	r.enter(StateSendOwnProcessedToPeer)
	ownFinal, err := r.peerFinal(ctx, ownProcessed, handles)
	if err != nil {
		return nil, err
	}

	return r.finish(ownFinal, peerFinal), nil
}

// peerFinal has the peer apply its secret to items and maps the answer back
// onto local identifiers.
func (r *protocolRun) peerFinal(ctx context.Context, items []WireItem, handles *handleTable) (BlindedSet, error) {
	p := r.p
	resp, err := p.client.ReExponentiate(ctx, p.cfg.Peer, items)
	if err != nil {
		return nil, err
	}
	if r.state == StateSendOwnProcessedToPeer {
		r.enter(StateReceivePeerFinal)
	}
	set, err := DecodeItems(p.params, resp)
	if err != nil {
		return nil, err
	}
	return handles.restore(set)
}

// poll fetches a relay-processed set, retrying while the relay reports the
// upload as pending. Running out of time is a network failure.
func (r *protocolRun) poll(ctx context.Context, which Which) ([]WireItem, error) {
	p := r.p
	interval := p.cfg.PollInterval
	if interval <= 0 {
		interval = defaultPollInterval
	}
	ctx, cancel := context.WithTimeout(ctx, p.client.timeout)
	defer cancel()

	for attempt := 1; ; attempt++ {
		items, pending, err := p.client.FetchProcessed(ctx, p.cfg.Relay, r.session, p.Label(), which)
		if err != nil {
			return nil, err
		}
		if !pending {
			return items, nil
		}
		r.log.Debugf("relay has no %s set yet / attempt=%d", which, attempt)

		t := time.NewTimer(interval)
		select {
		case <-ctx.Done():
			t.Stop()
			return nil, networkError(ctx.Err(), "waiting for the %s upload at the relay", which)
		case <-t.C:
		}
	}
}

func (r *protocolRun) finish(ownFinal, peerFinal BlindedSet) *IntersectionResult {
	r.enter(StateIntersect)
	matched := Intersect(r.p.params, ownFinal, peerFinal)

	r.enter(StateAggregate)
	avg := r.p.Aggregate(matched)

	r.enter(StateDone)
	return &IntersectionResult{matched, len(matched), avg}
}

// #############################################################################

// UploadToRelay serves a peer's prepare request: the local blinded set is
// uploaded to the configured relay under session. Handles are fresh and
// never mapped back since this side only answers re-exponentiation requests.
func (p *Party) UploadToRelay(ctx context.Context, session string) (Ack, error) {
	if !p.HasRelay() {
		return Ack{}, configError("no relay address is configured")
	}
	if session == "" {
		return Ack{}, dataError(nil, "prepare needs a session id")
	}
	items, _ := p.BlindForWire()
	ack, err := p.client.Upload(ctx, p.cfg.Relay, session, p.Label(), items)
	if err != nil {
		return Ack{}, AsRunError(err)
	}
	p.log.WithField("session", session).Infof("uploaded blinded set to relay / items=%d", len(items))
	ack.Label = p.Label()
	return ack, nil
}
