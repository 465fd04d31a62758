package topolib

// Dataset is a single source of attribution data: a range table built
// from CSV file or an adapter over some binary database.
//
// Lookup has to return ErrNoMatch if dataset has no data for the
// address. Any other error or a panic is logged and the dataset is
// treated as if it has no match.
type Dataset interface {
	Name() string
	Supports(Family) bool
	Lookup(Address) (Fields, error)
}

// Logger is an interface which is used by resolver to report
// problems and by loaders to report dataset status. Actual
// implementation is up to the application.
type Logger interface {
	LookupError(addr Address, name string, err error)
	LoadInfo(info DatasetInfo)
	LoadError(name string, err error)
}

type noopLogger struct{}

func (noopLogger) LookupError(Address, string, error) {}

func (noopLogger) LoadInfo(DatasetInfo) {}

func (noopLogger) LoadError(string, error) {}
