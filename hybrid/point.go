package hybrid

import (
	"crypto/elliptic"
	"fmt"
	"math/big"
)

const (
	fieldLength = 32
	pointLength = 2 * fieldLength
)

// P-256 parameters. a is not carried by elliptic.CurveParams (the package
// hardcodes a = -3), so it is materialized here for the curve equation check.
var (
	p256   = elliptic.P256()
	curveP = p256.Params().P
	curveB = p256.Params().B
	curveA = new(big.Int).Sub(curveP, big.NewInt(3))
)

// point is an affine P-256 point. Constructed only through deserializePoint
// or ephemeral key generation, so an instance is always on the curve.
type point struct {
	x, y *big.Int
}

// serializePoint returns the 64-byte juxtaposition of the point's affine
// coordinates, each as a 32-byte big-endian unsigned integer.
func serializePoint(pt point) ([]byte, error) {
	out := make([]byte, pointLength)
	xb, err := encodeUint(pt.x, fieldLength)
	if err != nil {
		return nil, fmt.Errorf("x coordinate: %w", err)
	}
	yb, err := encodeUint(pt.y, fieldLength)
	if err != nil {
		return nil, fmt.Errorf("y coordinate: %w", err)
	}
	copy(out, xb)
	copy(out[fieldLength:], yb)
	return out, nil
}

// deserializePoint parses a 64-byte serialized point and validates that it
// lies on P-256. Both coordinates must be in [0, p) and satisfy
// y^2 = x^3 + ax + b (mod p).
func deserializePoint(buf []byte) (point, error) {
	if len(buf) != pointLength {
		return point{}, fmt.Errorf("%w: got %d bytes", ErrPointLength, len(buf))
	}
	pt := point{
		x: decodeUint(buf[:fieldLength]),
		y: decodeUint(buf[fieldLength:]),
	}
	if pt.x.Cmp(curveP) >= 0 {
		return point{}, fmt.Errorf("%w: x >= p", ErrPointRange)
	}
	if pt.y.Cmp(curveP) >= 0 {
		return point{}, fmt.Errorf("%w: y >= p", ErrPointRange)
	}
	if !isOnCurve(pt) {
		return point{}, ErrNotOnCurve
	}
	return pt, nil
}

// isOnCurve checks y^2 == (x^2 + a)x + b (mod p). Coordinates are assumed
// already range-checked.
func isOnCurve(pt point) bool {
	lhs := new(big.Int).Mul(pt.y, pt.y)
	lhs.Mod(lhs, curveP)

	rhs := new(big.Int).Mul(pt.x, pt.x)
	rhs.Add(rhs, curveA)
	rhs.Mul(rhs, pt.x)
	rhs.Add(rhs, curveB)
	rhs.Mod(rhs, curveP)

	return lhs.Cmp(rhs) == 0
}
