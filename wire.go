package main

import (
	"strconv"

	"lukechampine.com/frand"
)

// #############################################################################

func EncodeItems(gp *GroupParams, set BlindedSet) []WireItem {
	ret := make([]WireItem, len(set))
	for i, v := range set {
		ret[i] = WireItem{v.ID, gp.Encode(v.Value)}
	}
	return ret
}

func DecodeItems(gp *GroupParams, items []WireItem) (BlindedSet, error) {
	ret := make(BlindedSet, len(items))
	for i, it := range items {
		if it.ID == "" {
			return nil, dataError(nil, "item %d has no id", i)
		}
		v, err := gp.Decode(it.Value)
		if err != nil {
			return nil, dataError(err, "item %d", i)
		}
		ret[i] = BlindedValue{it.ID, v}
	}
	return ret, nil
}

// #############################################################################

// relabel swaps every identifier for an opaque handle before a set leaves
// the process. Items are shuffled so handles carry no ordering information.
func relabel(set BlindedSet) (BlindedSet, *handleTable) {
	h := &handleTable{make([]string, len(set)), frand.Perm(len(set))}
	ret := make(BlindedSet, len(set))
	for i, j := range h.pos {
		ret[i] = BlindedValue{strconv.Itoa(i), set[j].Value}
		h.ids[i] = set[j].ID
	}
	return ret, h
}

// restore maps handles back to identifiers and puts every item back at the
// position it held before relabel. The response must cover every handle
// exactly once.
func (h *handleTable) restore(set BlindedSet) (BlindedSet, error) {
	if len(set) != len(h.ids) {
		return nil, dataError(nil, "expected %d items, received %d", len(h.ids), len(set))
	}
	seen := make([]bool, len(h.ids))
	ret := make(BlindedSet, len(set))
	for _, v := range set {
		k, err := strconv.Atoi(v.ID)
		if err != nil || k < 0 || k >= len(h.ids) || strconv.Itoa(k) != v.ID {
			return nil, dataError(err, "unknown handle %q", v.ID)
		}
		if seen[k] {
			return nil, dataError(nil, "duplicate handle %q", v.ID)
		}
		seen[k] = true
		ret[h.pos[k]] = BlindedValue{h.ids[k], v.Value}
	}
	return ret, nil
}
