package topolib

import (
	"net"
	"net/netip"
	"strings"
)

// Family is an address family of the IP address.
type Family uint8

const (
	FamilyIPv4 Family = iota + 1
	FamilyIPv6
)

func (f Family) String() string {
	switch f {
	case FamilyIPv4:
		return "IPv4"
	case FamilyIPv6:
		return "IPv6"
	}

	return ""
}

// MarshalText is to conform encoding.TextMarshaler interface.
func (f Family) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

// ParseFamily converts a name like "ipv4", "IPv6", "4" or "6" to
// Family.
func ParseFamily(value string) (Family, bool) {
	switch strings.ToLower(value) {
	case "ipv4", "4", "v4":
		return FamilyIPv4, true
	case "ipv6", "6", "v6":
		return FamilyIPv6, true
	}

	return 0, false
}

// Address is a normalized IP address. It is produced by Normalize only
// so if you have an instance, it is valid and not local.
type Address struct {
	Raw     string
	Family  Family
	Ordinal Ordinal

	addr netip.Addr
}

// String returns a canonical text form of the address.
func (a Address) String() string {
	if !a.addr.IsValid() {
		return ""
	}

	return a.addr.String()
}

func (a Address) Addr() netip.Addr {
	return a.addr
}

// IP returns an address as net.IP. IPv4 addresses are returned in
// their 4-byte form.
func (a Address) IP() net.IP {
	if !a.addr.IsValid() {
		return nil
	}

	return net.IP(a.addr.AsSlice())
}

// Normalize validates and classifies a raw address. Empty strings,
// localhost and loopback addresses are rejected as local. Anything with
// a colon is treated as IPv6, everything else has to be a strict
// dotted quad.
//
// IPv6 accepts every RFC 4291 text form which net/netip understands:
// full form, :: compression and embedded IPv4 tails. Zones are
// rejected.
//
// Normalize never panics: an error is always *InvalidAddressError.
func Normalize(raw string) (Address, error) {
	value := strings.TrimSpace(raw)

	if value == "" || strings.EqualFold(value, "localhost") {
		return Address{}, &InvalidAddressError{Raw: raw, Reason: ReasonLocalOrEmpty}
	}

	var (
		addr netip.Addr
		ok   bool
	)

	if strings.Contains(value, ":") {
		addr, ok = parseIPv6(value)
	} else {
		addr, ok = parseIPv4(value)
	}

	if !ok {
		return Address{}, &InvalidAddressError{Raw: raw, Reason: ReasonMalformed}
	}

	if addr.IsLoopback() {
		return Address{}, &InvalidAddressError{Raw: raw, Reason: ReasonLocalOrEmpty}
	}

	rv := Address{
		Raw:     raw,
		Family:  FamilyIPv6,
		Ordinal: OrdinalFromAddr(addr),
		addr:    addr,
	}

	if addr.Is4() {
		rv.Family = FamilyIPv4
	}

	return rv, nil
}

func parseIPv4(value string) (netip.Addr, bool) {
	var octets [4]byte

	parts := strings.Split(value, ".")
	if len(parts) != len(octets) {
		return netip.Addr{}, false
	}

	for i, part := range parts {
		if len(part) == 0 || len(part) > 3 {
			return netip.Addr{}, false
		}

		num := 0

		for _, c := range []byte(part) {
			if c < '0' || c > '9' {
				return netip.Addr{}, false
			}

			num = num*10 + int(c-'0')
		}

		if num > 255 {
			return netip.Addr{}, false
		}

		octets[i] = byte(num)
	}

	return netip.AddrFrom4(octets), true
}

func parseIPv6(value string) (netip.Addr, bool) {
	addr, err := netip.ParseAddr(value)
	if err != nil || !addr.Is6() || addr.Zone() != "" {
		return netip.Addr{}, false
	}

	return addr, true
}
