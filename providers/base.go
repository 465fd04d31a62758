package providers

import "github.com/9seconds/ipattrib/topolib"

type base struct {
	name     string
	families []topolib.Family
}

func (b base) Name() string {
	return b.name
}

func (b base) Supports(family topolib.Family) bool {
	for _, v := range b.families {
		if v == family {
			return true
		}
	}

	return false
}

// Families returns a list of address families dataset can answer for.
func (b base) Families() []topolib.Family {
	return append([]topolib.Family(nil), b.families...)
}

func familiesOf(ipVersion uint) []topolib.Family {
	if ipVersion == 6 {
		return []topolib.Family{topolib.FamilyIPv4, topolib.FamilyIPv6}
	}

	return []topolib.Family{topolib.FamilyIPv4}
}
