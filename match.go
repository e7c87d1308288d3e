package main

import (
	"github.com/RoaringBitmap/roaring/roaring64"
)

// #############################################################################

// Intersect returns the labels of the items of indexed whose value also
// occurs in scanned. Labels always come from the indexed side; the protocol
// indexes the initiator's own final set, so callers get their own
// identifiers back. If two indexed items share a value the first one wins.
// The result follows indexed order and holds no duplicates.
func Intersect(gp *GroupParams, indexed, scanned BlindedSet) []string {
	index := make(map[string]uint64, len(indexed))
	for i, v := range indexed {
		k := gp.Key(v.Value)
		if _, ok := index[k]; ok {
			continue
		}
		index[k] = uint64(i)
	}

	matched := roaring64.New()
	for _, v := range scanned {
		if i, ok := index[gp.Key(v.Value)]; ok {
			matched.Add(i)
		}
	}

	ret := make([]string, 0, matched.GetCardinality())
	k := matched.Iterator()
	for k.HasNext() {
		ret = append(ret, indexed[k.Next()].ID)
	}
	return ret
}
