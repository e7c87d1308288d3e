package main

import (
	"time"
)

// #############################################################################

func NewParty(cfg PartyConfig, gp *GroupParams) (*Party, error) {
	records, err := LoadDataset(cfg.Dataset)
	if err != nil {
		return nil, err
	}
	return newParty(cfg, gp, records), nil
}

func newParty(cfg PartyConfig, gp *GroupParams, records []Record) *Party {
	p := &Party{
		cfg:     cfg,
		params:  gp,
		secret:  NewSecret(gp),
		records: records,
		ages:    make(map[string]float64, len(records)),
		client:  NewClient(cfg.Timeout),
		log:     log.WithField("party", cfg.Label),
	}
	for _, r := range records {
		p.ages[r.ID] = r.Age
	}
	p.log.Infof("loaded records=%d", len(records))
	return p
}

func (p *Party) Label() string {
	return p.cfg.Label
}

func (p *Party) HasRelay() bool {
	return p.cfg.Relay != ""
}

// #############################################################################

// Blind returns this party's identifiers blinded by its own secret.
func (p *Party) Blind() BlindedSet {
	defer Timer(time.Now(), p.log, "blind")
	ids := make([]string, len(p.records))
	for i, r := range p.records {
		ids[i] = r.ID
	}
	return ComputeBlinded(p.params, ids, p.secret, p.cfg.Pool)
}

// BlindForWire is Blind with identifiers replaced by fresh handles.
func (p *Party) BlindForWire() ([]WireItem, *handleTable) {
	set, handles := relabel(p.Blind())
	return EncodeItems(p.params, set), handles
}

func (p *Party) ReExponentiate(set BlindedSet) BlindedSet {
	defer Timer(time.Now(), p.log, "re-exponentiate")
	return ReExponentiate(p.params, set, p.secret, p.cfg.Pool)
}

// ReExponentiateWire decodes received items, applies the local secret and
// encodes the result, keeping the sender's handles.
func (p *Party) ReExponentiateWire(items []WireItem) ([]WireItem, error) {
	set, err := DecodeItems(p.params, items)
	if err != nil {
		return nil, err
	}
	return EncodeItems(p.params, p.ReExponentiate(set)), nil
}

// Aggregate averages the local attribute over matched identifiers.
func (p *Party) Aggregate(matched []string) *float64 {
	ages := make([]float64, 0, len(matched))
	for _, w := range matched {
		age, ok := p.ages[w]
		Assert(ok)
		ages = append(ages, age)
	}
	return Mean(ages)
}
