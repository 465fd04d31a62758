package topolib

type unavailableDataset struct {
	name string
}

func (u unavailableDataset) Name() string {
	return u.name
}

func (u unavailableDataset) Supports(Family) bool {
	return false
}

func (u unavailableDataset) Lookup(Address) (Fields, error) {
	return nil, ErrNoMatch
}

// NewUnavailableDataset returns a placeholder for a dataset which
// cannot be opened. It keeps a name in precedence but never matches.
func NewUnavailableDataset(name string) Dataset {
	return unavailableDataset{name: name}
}
