package topolib

import "fmt"

// PrecedenceConfig is a declared order of datasets. Default is applied
// to all fields, Fields overrides it for some of them.
type PrecedenceConfig struct {
	Default []string
	Fields  map[Field][]string
}

// Precedence is a total per-field order of dataset names. Each field
// has every dataset in its list: datasets which are not mentioned
// explicitly are appended in default order.
type Precedence struct {
	orders map[Field][]string
}

func (p *Precedence) Order(field Field) []string {
	return p.orders[field]
}

// NewPrecedence builds a total precedence for given dataset names. If
// default order is empty, an order of names is used.
func NewPrecedence(names []string, conf PrecedenceConfig) (*Precedence, error) {
	known := make(map[string]struct{}, len(names))

	for _, v := range names {
		known[v] = struct{}{}
	}

	defaultOrder, err := completeOrder(conf.Default, names, known)
	if err != nil {
		return nil, fmt.Errorf("incorrect default precedence: %w", err)
	}

	rv := &Precedence{
		orders: make(map[Field][]string, len(FieldsOrder)),
	}

	for _, field := range FieldsOrder {
		rv.orders[field] = defaultOrder
	}

	for field, order := range conf.Fields {
		if _, ok := knownFields[field]; !ok {
			return nil, fmt.Errorf("unknown field %s in precedence", field)
		}

		fieldOrder, err := completeOrder(order, defaultOrder, known)
		if err != nil {
			return nil, fmt.Errorf("incorrect precedence for %s: %w", field, err)
		}

		rv.orders[field] = fieldOrder
	}

	return rv, nil
}

func completeOrder(order, rest []string, known map[string]struct{}) ([]string, error) {
	rv := make([]string, 0, len(known))
	seen := make(map[string]struct{}, len(known))

	for _, v := range order {
		if _, ok := known[v]; !ok {
			return nil, fmt.Errorf("unknown dataset %s", v)
		}

		if _, ok := seen[v]; ok {
			return nil, fmt.Errorf("dataset %s is duplicated", v)
		}

		seen[v] = struct{}{}
		rv = append(rv, v)
	}

	for _, v := range rest {
		if _, ok := seen[v]; !ok {
			seen[v] = struct{}{}
			rv = append(rv, v)
		}
	}

	return rv, nil
}
