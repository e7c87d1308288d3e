package main

import (
	"encoding/json"
	"math/rand"
	"os"
	"path"
	"sort"

	"github.com/pkg/errors"
)

// #############################################################################

// LoadDataset reads a JSON array of {"id", "age"} records. Identifiers must
// be non-empty and unique.
func LoadDataset(fpath string) ([]Record, error) {
	buf, err := os.ReadFile(fpath)
	if err != nil {
		return nil, errors.Wrapf(err, "reading dataset %s", fpath)
	}

	var records []Record
	if err := json.Unmarshal(buf, &records); err != nil {
		return nil, errors.Wrapf(err, "parsing dataset %s", fpath)
	}

	seen := NewSet(nil)
	for i, r := range records {
		if r.ID == "" {
			return nil, errors.Errorf("dataset %s: record %d has no id", fpath, i)
		}
		if seen.Contains(r.ID) {
			return nil, errors.Errorf("dataset %s: duplicate id at record %d", fpath, i)
		}
		seen.Add(r.ID)
	}
	return records, nil
}

func WriteDataset(fpath string, records []Record) error {
	buf, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(fpath, buf, 0644)
}

// #############################################################################

// NewSampleData builds two datasets of sizes nA and nB sharing exactly
// intCard identifiers. Generation is seeded so runs are reproducible.
func NewSampleData(nA, nB, intCard int, dataDir string, seed int64) (*SampleData, error) {
	if nA < 0 || nB < 0 || intCard < 0 {
		return nil, errors.Errorf("dataset sizes and overlap must not be negative (%d, %d, %d)", nA, nB, intCard)
	}
	if intCard > nA || intCard > nB {
		return nil, errors.Errorf("overlap %d exceeds a dataset size (%d, %d)", intCard, nA, nB)
	}
	rand.Seed(seed)

	var U Set
	U.RandomN(nA+nB-intCard, 10)
	ids := U.Serialize()
	sort.Strings(ids)
	rand.Shuffle(len(ids), func(i, j int) { ids[i], ids[j] = ids[j], ids[i] })

	shared := ids[:intCard]
	onlyA := ids[intCard:nA]
	onlyB := ids[nA:]

	data := &SampleData{dataDir: dataDir}
	for _, w := range append(append([]string{}, shared...), onlyA...) {
		data.A = append(data.A, Record{"P-" + w, float64(18 + rand.Intn(70))})
	}
	for _, w := range append(append([]string{}, shared...), onlyB...) {
		data.B = append(data.B, Record{"P-" + w, float64(18 + rand.Intn(70))})
	}
	rand.Shuffle(len(data.A), func(i, j int) { data.A[i], data.A[j] = data.A[j], data.A[i] })
	rand.Shuffle(len(data.B), func(i, j int) { data.B[i], data.B[j] = data.B[j], data.B[i] })
	return data, nil
}

func (d *SampleData) Write() ([]string, error) {
	if err := os.MkdirAll(d.dataDir, os.ModePerm); err != nil {
		return nil, err
	}
	paths := []string{path.Join(d.dataDir, "a.json"), path.Join(d.dataDir, "b.json")}
	if err := WriteDataset(paths[0], d.A); err != nil {
		return nil, err
	}
	if err := WriteDataset(paths[1], d.B); err != nil {
		return nil, err
	}
	return paths, nil
}

// ComputeStats returns the plaintext overlap and the mean of A's ages over
// it, the ground truth a protocol run initiated by A should reproduce.
func (d *SampleData) ComputeStats() (int, *float64) {
	b := NewSet(nil)
	for _, r := range d.B {
		b.Add(r.ID)
	}
	var ages []float64
	for _, r := range d.A {
		if b.Contains(r.ID) {
			ages = append(ages, r.Age)
		}
	}
	return len(ages), Mean(ages)
}
