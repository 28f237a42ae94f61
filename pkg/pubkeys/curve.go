package pubkeys

import (
	"crypto/elliptic"
	"math/big"
)

// weierstrass is a short Weierstrass curve y² = x³ + ax + b over a prime field.
// elliptic.CurveParams only covers a = -3, which leaves out the Koblitz curve RPCN signs with.
// Points are affine; the point at infinity is (0, 0).
type weierstrass struct {
	params *elliptic.CurveParams
	a      *big.Int
}

var _ elliptic.Curve = (*weierstrass)(nil)

func mustHex(s string) *big.Int {
	n, ok := new(big.Int).SetString(s, 16)
	if !ok {
		panic("pubkeys: bad hex constant " + s)
	}
	return n
}

func newCurve(name string, p, a, b, n, gx, gy string) *weierstrass {
	params := &elliptic.CurveParams{
		Name:    name,
		P:       mustHex(p),
		N:       mustHex(n),
		B:       mustHex(b),
		Gx:      mustHex(gx),
		Gy:      mustHex(gy),
		BitSize: mustHex(p).BitLen(),
	}
	return &weierstrass{params: params, a: mustHex(a)}
}

// prime192v1 is the NIST P-192 curve, which the standard library does not ship
var prime192v1 = newCurve("prime192v1",
	"fffffffffffffffffffffffffffffffeffffffffffffffff",
	"fffffffffffffffffffffffffffffffefffffffffffffffc",
	"64210519e59c80e70fa7e9ab72243049feb8deecc146b9b1",
	"ffffffffffffffffffffffff99def836146bc9b1b4d22831",
	"188da80eb03090f67cbf20eb43a18800f4ff0afd82ff1012",
	"07192b95ffc8da78631011ed6b24cdd573f977a11e794811",
)

// secp224k1 is the SEC 2 Koblitz curve with a = 0
var secp224k1 = newCurve("secp224k1",
	"fffffffffffffffffffffffffffffffffffffffffffffffeffffe56d",
	"0",
	"5",
	"010000000000000000000000000001dce8d2ec6184caf0a971769fb1f7",
	"a1455b334df099df30fc28a169a467e9e47075a90f7e650eb6b7a45c",
	"7e089fed7fba344282cafbd6f7e319f7c0b0bd59e2ca4bdb556d61a5",
)

func (c *weierstrass) Params() *elliptic.CurveParams { return c.params }

func (c *weierstrass) IsOnCurve(x, y *big.Int) bool {
	p := c.params.P
	if x.Sign() < 0 || x.Cmp(p) >= 0 || y.Sign() < 0 || y.Cmp(p) >= 0 {
		return false
	}
	// y² = x³ + ax + b
	lhs := new(big.Int).Mul(y, y)
	lhs.Mod(lhs, p)

	rhs := new(big.Int).Mul(x, x)
	rhs.Mul(rhs, x)
	ax := new(big.Int).Mul(c.a, x)
	rhs.Add(rhs, ax)
	rhs.Add(rhs, c.params.B)
	rhs.Mod(rhs, p)

	return lhs.Cmp(rhs) == 0
}

func isInfinity(x, y *big.Int) bool {
	return x.Sign() == 0 && y.Sign() == 0
}

func (c *weierstrass) Add(x1, y1, x2, y2 *big.Int) (*big.Int, *big.Int) {
	if isInfinity(x1, y1) {
		return new(big.Int).Set(x2), new(big.Int).Set(y2)
	}
	if isInfinity(x2, y2) {
		return new(big.Int).Set(x1), new(big.Int).Set(y1)
	}
	p := c.params.P
	if x1.Cmp(x2) == 0 {
		if y1.Cmp(y2) == 0 {
			return c.Double(x1, y1)
		}
		return new(big.Int), new(big.Int)
	}

	// λ = (y2 - y1) / (x2 - x1)
	num := new(big.Int).Sub(y2, y1)
	den := new(big.Int).Sub(x2, x1)
	den.Mod(den, p)
	den.ModInverse(den, p)
	lambda := num.Mul(num, den)
	lambda.Mod(lambda, p)

	return c.finish(lambda, x1, y1, x2)
}

func (c *weierstrass) Double(x1, y1 *big.Int) (*big.Int, *big.Int) {
	if isInfinity(x1, y1) || y1.Sign() == 0 {
		return new(big.Int), new(big.Int)
	}
	p := c.params.P

	// λ = (3x² + a) / 2y
	num := new(big.Int).Mul(x1, x1)
	num.Mul(num, big.NewInt(3))
	num.Add(num, c.a)
	den := new(big.Int).Lsh(y1, 1)
	den.Mod(den, p)
	den.ModInverse(den, p)
	lambda := num.Mul(num, den)
	lambda.Mod(lambda, p)

	return c.finish(lambda, x1, y1, x1)
}

// finish computes x3 = λ² - x1 - x2 and y3 = λ(x1 - x3) - y1
func (c *weierstrass) finish(lambda, x1, y1, x2 *big.Int) (*big.Int, *big.Int) {
	p := c.params.P

	x3 := new(big.Int).Mul(lambda, lambda)
	x3.Sub(x3, x1)
	x3.Sub(x3, x2)
	x3.Mod(x3, p)

	y3 := new(big.Int).Sub(x1, x3)
	y3.Mul(y3, lambda)
	y3.Sub(y3, y1)
	y3.Mod(y3, p)

	return x3, y3
}

func (c *weierstrass) ScalarMult(bx, by *big.Int, k []byte) (*big.Int, *big.Int) {
	x, y := new(big.Int), new(big.Int)
	for _, b := range k {
		for bit := 7; bit >= 0; bit-- {
			x, y = c.Double(x, y)
			if b>>uint(bit)&1 == 1 {
				x, y = c.Add(x, y, bx, by)
			}
		}
	}
	return x, y
}

func (c *weierstrass) ScalarBaseMult(k []byte) (*big.Int, *big.Int) {
	return c.ScalarMult(c.params.Gx, c.params.Gy, k)
}
