package main

import (
	"encoding/json"
	"fmt"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
)

func secretFromInt(x int64) *Secret {
	return &Secret{big.NewInt(x)}
}

// #############################################################################

func TestNewSecretRange(t *testing.T) {
	gp := NewGroupParams()
	upper := new(big.Int).Sub(gp.p, &two)

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		s := NewSecret(gp).exponent()
		assert.True(t, s.Cmp(&two) >= 0)
		assert.True(t, s.Cmp(upper) <= 0)
		seen[s.String()] = true
	}
	assert.Len(t, seen, 100)
}

func TestSecretIsRedacted(t *testing.T) {
	gp := NewGroupParams()
	s := NewSecret(gp)
	digits := s.exponent().Text(10)

	for _, out := range []string{
		s.String(),
		fmt.Sprintf("%v", s),
		fmt.Sprintf("%s", s),
		fmt.Sprintf("%#v", s),
	} {
		assert.NotContains(t, out, digits)
		assert.Contains(t, out, "redacted")
	}

	_, err := json.Marshal(s)
	assert.Error(t, err)
	_, err = json.Marshal(struct{ S *Secret }{s})
	assert.Error(t, err)
}
