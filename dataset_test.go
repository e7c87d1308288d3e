package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSampleData(t *testing.T) {
	dir := t.TempDir()
	data, err := NewSampleData(50, 40, 10, dir, 7)
	require.NoError(t, err)
	assert.Len(t, data.A, 50)
	assert.Len(t, data.B, 40)

	size, avg := data.ComputeStats()
	assert.Equal(t, 10, size)
	require.NotNil(t, avg)
	assert.True(t, *avg >= 18 && *avg < 88)

	again, err := NewSampleData(50, 40, 10, dir, 7)
	require.NoError(t, err)
	assert.Equal(t, data.A, again.A)

	paths, err := data.Write()
	require.NoError(t, err)
	a, err := LoadDataset(paths[0])
	require.NoError(t, err)
	assert.Equal(t, data.A, a)

	_, err = NewSampleData(5, 5, 6, dir, 1)
	assert.Error(t, err)
	_, err = NewSampleData(-1, 5, 0, dir, 1)
	assert.Error(t, err)
	_, err = NewSampleData(5, 5, -2, dir, 1)
	assert.Error(t, err)
}

func TestSampleDataDisjoint(t *testing.T) {
	data, err := NewSampleData(5, 5, 0, t.TempDir(), 1)
	require.NoError(t, err)
	size, avg := data.ComputeStats()
	assert.Equal(t, 0, size)
	assert.Nil(t, avg)
}

func TestLoadDatasetRejects(t *testing.T) {
	dir := t.TempDir()
	write := func(name, body string) string {
		fpath := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(fpath, []byte(body), 0644))
		return fpath
	}

	_, err := LoadDataset(filepath.Join(dir, "nope.json"))
	assert.Error(t, err)
	_, err = LoadDataset(write("bad.json", "{"))
	assert.Error(t, err)
	_, err = LoadDataset(write("noid.json", `[{"id": "", "age": 3}]`))
	assert.Error(t, err)
	_, err = LoadDataset(write("dup.json", `[{"id": "P1", "age": 3}, {"id": "P1", "age": 4}]`))
	assert.Error(t, err)

	records, err := LoadDataset(write("ok.json", `[{"id": "P1", "age": 30}, {"id": "P2", "age": 40.5}]`))
	require.NoError(t, err)
	assert.Equal(t, []Record{{"P1", 30}, {"P2", 40.5}}, records)
}
