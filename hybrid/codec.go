package hybrid

import (
	"fmt"
	"math/big"
)

// encodeUint serializes a non-negative big integer into exactly width bytes,
// big-endian, padding with leading zeros. This is used instead of
// big.Int.Bytes(), which returns the minimal representation and would drop
// leading zeros. Returns ErrIntegerTooLarge if the value does not fit.
func encodeUint(v *big.Int, width int) ([]byte, error) {
	if v.Sign() < 0 {
		return nil, fmt.Errorf("%w: negative value", ErrIntegerTooLarge)
	}
	if minimal := (v.BitLen() + 7) / 8; minimal > width {
		return nil, fmt.Errorf("%w: need %d bytes, have %d", ErrIntegerTooLarge, minimal, width)
	}
	return v.FillBytes(make([]byte, width)), nil
}

// decodeUint interprets buf as a big-endian unsigned integer. The most
// significant bit is always a magnitude bit, never a sign bit.
func decodeUint(buf []byte) *big.Int {
	return new(big.Int).SetBytes(buf)
}
