package topolib

import (
	"bytes"
	"encoding/json"
	"strings"
)

// AttributedRecord is a merged result of the resolving.
type AttributedRecord struct {
	Address     Address
	Fields      Fields
	Sources     []string
	Attribution string
}

// Source returns a human-readable provenance summary.
func (a *AttributedRecord) Source() string {
	return strings.Join(a.Sources, ", ")
}

// MarshalJSON produces a flat object with keys in a stable order:
// ip, ipType, ipv4 or ipv6, fields in canonical order, source and
// attribution.
func (a AttributedRecord) MarshalJSON() ([]byte, error) {
	buf := bytes.Buffer{}
	ip := a.Address.String()

	buf.WriteByte('{')

	writeJSONKeyValue(&buf, "ip", ip, true)
	writeJSONKeyValue(&buf, "ipType", a.Address.Family.String(), false)

	switch a.Address.Family {
	case FamilyIPv4:
		writeJSONKeyValue(&buf, "ipv4", ip, false)
	case FamilyIPv6:
		writeJSONKeyValue(&buf, "ipv6", ip, false)
	}

	for _, field := range FieldsOrder {
		if value, ok := a.Fields[field]; ok {
			if err := writeJSONKeyAny(&buf, string(field), value); err != nil {
				return nil, err
			}
		}
	}

	if len(a.Sources) > 0 {
		writeJSONKeyValue(&buf, "source", a.Source(), false)
	}

	if a.Attribution != "" {
		writeJSONKeyValue(&buf, "attribution", a.Attribution, false)
	}

	buf.WriteByte('}')

	return buf.Bytes(), nil
}

func writeJSONKeyValue(buf *bytes.Buffer, key, value string, first bool) {
	if !first {
		buf.WriteByte(',')
	}

	writeJSONString(buf, key)
	buf.WriteByte(':')
	writeJSONString(buf, value)
}

func writeJSONKeyAny(buf *bytes.Buffer, key string, value interface{}) error {
	encoded, err := json.Marshal(value)
	if err != nil {
		return err
	}

	buf.WriteByte(',')
	writeJSONString(buf, key)
	buf.WriteByte(':')
	buf.Write(encoded)

	return nil
}

func writeJSONString(buf *bytes.Buffer, value string) {
	encoded, _ := json.Marshal(value)

	buf.Write(encoded)
}

// BatchResult is a result of the single address in batch resolving.
// Either Record or Err is set.
type BatchResult struct {
	IP     string
	Record AttributedRecord
	Err    error
}

func (b BatchResult) MarshalJSON() ([]byte, error) {
	if b.Err != nil {
		return json.Marshal(newResolveHTTPError(b.IP, b.Err))
	}

	return b.Record.MarshalJSON()
}
