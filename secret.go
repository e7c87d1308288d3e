package main

import (
	"math/big"

	"github.com/pkg/errors"
	"lukechampine.com/frand"
)

// #############################################################################

// NewSecret draws a uniform exponent in [2, p-2].
func NewSecret(gp *GroupParams) *Secret {
	span := new(big.Int).Sub(gp.p, &three)
	s := frand.BigIntn(span)
	s.Add(s, &two)
	return &Secret{s}
}

func (s *Secret) exponent() *big.Int {
	return s.s
}

// #############################################################################

func (s *Secret) String() string {
	return "Secret(redacted)"
}

func (s *Secret) GoString() string {
	return s.String()
}

func (s *Secret) MarshalJSON() ([]byte, error) {
	return nil, errors.New("secrets are not serializable")
}

func (s *Secret) MarshalText() ([]byte, error) {
	return nil, errors.New("secrets are not serializable")
}
