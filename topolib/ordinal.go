package topolib

import (
	"encoding/binary"
	"math/big"
	"net/netip"
)

// Ordinal is an unsigned 128-bit number which is used to compare
// addresses. IPv4 addresses occupy lower 32 bits only:
// 256^3*a + 256^2*b + 256*c + d.
type Ordinal struct {
	Hi uint64
	Lo uint64
}

func OrdinalFromUint32(value uint32) Ordinal {
	return Ordinal{Lo: uint64(value)}
}

// OrdinalFromAddr converts netip.Addr into a big-endian number. IPv4
// addresses (and only them, not IPv4-mapped IPv6) produce 32-bit values.
func OrdinalFromAddr(addr netip.Addr) Ordinal {
	if addr.Is4() {
		octets := addr.As4()

		return OrdinalFromUint32(binary.BigEndian.Uint32(octets[:]))
	}

	octets := addr.As16()

	return Ordinal{
		Hi: binary.BigEndian.Uint64(octets[:8]),
		Lo: binary.BigEndian.Uint64(octets[8:]),
	}
}

// OrdinalFromBig converts a non-negative big integer which fits into
// 128 bits.
func OrdinalFromBig(value *big.Int) (Ordinal, bool) {
	if value.Sign() < 0 || value.BitLen() > 128 {
		return Ordinal{}, false
	}

	var buf [16]byte

	value.FillBytes(buf[:])

	return Ordinal{
		Hi: binary.BigEndian.Uint64(buf[:8]),
		Lo: binary.BigEndian.Uint64(buf[8:]),
	}, true
}

// Compare returns -1, 0 or 1 like strings.Compare.
func (o Ordinal) Compare(other Ordinal) int {
	switch {
	case o.Hi < other.Hi:
		return -1
	case o.Hi > other.Hi:
		return 1
	case o.Lo < other.Lo:
		return -1
	case o.Lo > other.Lo:
		return 1
	}

	return 0
}

func (o Ordinal) Less(other Ordinal) bool {
	return o.Compare(other) < 0
}

// Uint32 returns lower 32 bits. It makes sense for IPv4 ordinals only.
func (o Ordinal) Uint32() uint32 {
	return uint32(o.Lo)
}

// FitsIPv4 checks that ordinal can be an IPv4 address.
func (o Ordinal) FitsIPv4() bool {
	return o.Hi == 0 && o.Lo <= 0xFFFFFFFF
}

func (o Ordinal) Big() *big.Int {
	var buf [16]byte

	binary.BigEndian.PutUint64(buf[:8], o.Hi)
	binary.BigEndian.PutUint64(buf[8:], o.Lo)

	return new(big.Int).SetBytes(buf[:])
}

func (o Ordinal) String() string {
	if o.Hi == 0 {
		return new(big.Int).SetUint64(o.Lo).String()
	}

	return o.Big().String()
}
