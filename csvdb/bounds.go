package csvdb

import (
	"fmt"
	"math/big"
	"net/netip"
	"strconv"
	"strings"

	"github.com/9seconds/ipattrib/topolib"
	"go4.org/netipx"
)

// ParseBound parses a range bound: a decimal ordinal or an IP address
// of a given family.
func ParseBound(value string, family topolib.Family) (topolib.Ordinal, error) {
	value = strings.TrimSpace(value)

	if isDecimal(value) {
		return parseDecimalBound(value, family)
	}

	addr, err := netip.ParseAddr(value)
	if err != nil {
		return topolib.Ordinal{}, fmt.Errorf("incorrect bound %s: %w", value, err)
	}

	if err := checkFamily(addr, family); err != nil {
		return topolib.Ordinal{}, err
	}

	return topolib.OrdinalFromAddr(addr), nil
}

// ParseCIDR converts network prefix into a closed range of ordinals.
func ParseCIDR(value string, family topolib.Family) (topolib.Ordinal, topolib.Ordinal, error) {
	prefix, err := netip.ParsePrefix(strings.TrimSpace(value))
	if err != nil {
		return topolib.Ordinal{}, topolib.Ordinal{}, fmt.Errorf("incorrect prefix %s: %w", value, err)
	}

	if err := checkFamily(prefix.Addr(), family); err != nil {
		return topolib.Ordinal{}, topolib.Ordinal{}, err
	}

	ipRange := netipx.RangeOfPrefix(prefix.Masked())

	return topolib.OrdinalFromAddr(ipRange.From()), topolib.OrdinalFromAddr(ipRange.To()), nil
}

func parseDecimalBound(value string, family topolib.Family) (topolib.Ordinal, error) {
	if family == topolib.FamilyIPv4 {
		num, err := strconv.ParseUint(value, 10, 32)
		if err != nil {
			return topolib.Ordinal{}, fmt.Errorf("incorrect ipv4 bound %s: %w", value, err)
		}

		return topolib.OrdinalFromUint32(uint32(num)), nil
	}

	num, ok := new(big.Int).SetString(value, 10)
	if !ok {
		return topolib.Ordinal{}, fmt.Errorf("incorrect ipv6 bound %s", value)
	}

	rv, ok := topolib.OrdinalFromBig(num)
	if !ok {
		return topolib.Ordinal{}, fmt.Errorf("ipv6 bound %s does not fit into 128 bits", value)
	}

	return rv, nil
}

func checkFamily(addr netip.Addr, family topolib.Family) error {
	switch {
	case family == topolib.FamilyIPv4 && addr.Is4():
	case family == topolib.FamilyIPv6 && addr.Is6():
	default:
		return fmt.Errorf("address %s is not %s", addr, family)
	}

	return nil
}

func isDecimal(value string) bool {
	if value == "" {
		return false
	}

	for _, c := range []byte(value) {
		if c < '0' || c > '9' {
			return false
		}
	}

	return true
}
