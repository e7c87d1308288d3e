package main

import (
	"io"
	"math/big"
	"strings"

	"github.com/pkg/errors"
	"gitlab.com/elixxir/crypto/cyclic"
	"gitlab.com/xx_network/crypto/large"
	"golang.org/x/crypto/blake2b"
)

// #############################################################################

// RFC 3526 2048-bit MODP group (group 14).
const modpPrime = "FFFFFFFFFFFFFFFFC90FDAA22168C234C4C6628B80DC1CD1" +
	"29024E088A67CC74020BBEA63B139B22514A08798E3404DD" +
	"EF9519B3CD3A431B302B0A6DF25F14374FE1356D6D51C245" +
	"E485B576625E7EC6F44C42E9A637ED6B0BFF5CB6F406B7ED" +
	"EE386BFB5A899FA5AE9F24117C4B1FE649286651ECE45B3D" +
	"C2007CB8A163BF0598DA48361C55D39A69163FA8FD24CF5F" +
	"83655D23DCA3AD961C62F356208552BB9ED529077096966D" +
	"670C354E4ABC9804F1746C08CA18217C32905E462E36CE3B" +
	"E39E772C180E86039B2783A2EC07A28FB5C55DF06F4C52C9" +
	"DE2BCBF6955817183995497CEA956AE515D2261898FA0510" +
	"15728E5A8AACAA68FFFFFFFFFFFFFFFF"

const modpGenerator = 2

const hashDomainSep = "dh_psi/HashToExponent/v1"

var one big.Int = *new(big.Int).SetInt64(1)
var two big.Int = *new(big.Int).SetInt64(2)
var three big.Int = *new(big.Int).SetInt64(3)

// #############################################################################

func NewGroupParams() *GroupParams {
	grp := cyclic.NewGroup(large.NewIntFromString(modpPrime, 16), large.NewInt(modpGenerator))
	p := new(big.Int).SetBytes(grp.GetP().Bytes())
	return &GroupParams{
		grp:   grp,
		p:     p,
		pSub1: new(big.Int).Sub(p, &one),
		pLen:  grp.GetP().ByteLen(),
	}
}

// HashToExponent maps an identifier onto [0, p-1). The digest is drawn 32
// bytes wider than p so the reduction is close to uniform over the whole
// exponent domain.
func (gp *GroupParams) HashToExponent(id string) *big.Int {
	sz := gp.pLen + 32
	xof, err := blake2b.NewXOF(uint32(sz), nil)
	Check(err)
	_, _ = xof.Write([]byte(hashDomainSep))
	_, _ = xof.Write([]byte(id))

	buf := make([]byte, sz)
	_, err = io.ReadFull(xof, buf)
	Check(err)

	e := new(big.Int).SetBytes(buf)
	return e.Mod(e, gp.pSub1)
}

// ExpG returns G^e mod p.
func (gp *GroupParams) ExpG(e *big.Int) *cyclic.Int {
	e = gp.reduce(e)
	if e.Sign() == 0 {
		return gp.grp.NewInt(1)
	}
	return gp.grp.ExpG(gp.grp.NewIntFromBytes(e.Bytes()), gp.grp.NewInt(1))
}

// Exp returns x^e mod p.
func (gp *GroupParams) Exp(x *cyclic.Int, e *big.Int) *cyclic.Int {
	e = gp.reduce(e)
	if e.Sign() == 0 {
		return gp.grp.NewInt(1)
	}
	return gp.grp.Exp(x, gp.grp.NewIntFromBytes(e.Bytes()), gp.grp.NewInt(1))
}

func (gp *GroupParams) reduce(e *big.Int) *big.Int {
	if e.Sign() >= 0 && e.Cmp(gp.pSub1) < 0 {
		return e
	}
	return new(big.Int).Mod(e, gp.pSub1)
}

// #############################################################################

// Key is the canonical fixed-width encoding of a group element, used for
// every equality check and index lookup.
func (gp *GroupParams) Key(v *cyclic.Int) string {
	return string(v.LeftpadBytes(uint64(gp.pLen)))
}

func (gp *GroupParams) Encode(v *cyclic.Int) string {
	return new(big.Int).SetBytes(v.Bytes()).Text(10)
}

// Decode parses a decimal wire value. Only unsigned digit strings naming an
// element of [1, p) are accepted.
func (gp *GroupParams) Decode(s string) (*cyclic.Int, error) {
	if s == "" {
		return nil, errors.New("empty value")
	}
	if strings.TrimLeft(s, "0123456789") != "" {
		return nil, errors.Errorf("value of length %d is not an unsigned decimal integer", len(s))
	}
	n, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, errors.Errorf("value of length %d could not be parsed", len(s))
	}
	if n.Sign() == 0 || n.Cmp(gp.p) >= 0 {
		return nil, errors.New("value is outside the group")
	}
	b := n.Bytes()
	if !gp.grp.BytesInside(b) {
		return nil, errors.New("value is outside the group")
	}
	return gp.grp.NewIntFromBytes(b), nil
}
