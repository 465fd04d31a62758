package providers

const (
	// Kind of delimited text range tables. These are loaded by csvdb
	// package.
	KindCSV = "csv"

	// Kind of MaxMind DB files: GeoLite2, GeoIP2, DB-IP lite.
	KindMMDB = "mmdb"

	// Kind of IP2Location BIN files.
	KindIP2Location = "ip2location"

	// Kind of SypexGeo dat files.
	KindSypex = "sypex"

	// Kind of ip2region xdb files.
	KindIP2Region = "ip2region"
)

// Kinds is a list of all known dataset kinds.
var Kinds = []string{
	KindCSV,
	KindMMDB,
	KindIP2Location,
	KindSypex,
	KindIP2Region,
}

// IsTrieKind tells if dataset of this kind is an opaque binary database.
func IsTrieKind(kind string) bool {
	switch kind {
	case KindMMDB, KindIP2Location, KindSypex, KindIP2Region:
		return true
	}

	return false
}

// IsKnownKind tells if kind is supported at all.
func IsKnownKind(kind string) bool {
	return kind == KindCSV || IsTrieKind(kind)
}
