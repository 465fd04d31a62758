package topolib

import (
	"encoding/json"
	"time"
)

// DatasetInfo is a load report of the dataset. It is created once
// after dataset is opened and never changed.
type DatasetInfo struct {
	Name      string
	Kind      string
	Families  []Family
	Available bool
	Entries   int
	Skipped   int
	Overlaps  int
	LoadedAt  time.Time
	Err       error
}

func (d DatasetInfo) MarshalJSON() ([]byte, error) {
	var loadedAt int64

	if !d.LoadedAt.IsZero() {
		loadedAt = d.LoadedAt.Unix()
	}

	errMessage := ""
	if d.Err != nil {
		errMessage = d.Err.Error()
	}

	families := d.Families
	if families == nil {
		families = []Family{}
	}

	rawStruct := struct {
		Name      string   `json:"name"`
		Kind      string   `json:"kind"`
		Families  []Family `json:"families"`
		Available bool     `json:"available"`
		Entries   int      `json:"entries"`
		Skipped   int      `json:"skipped"`
		Overlaps  int      `json:"overlaps"`
		LoadedAt  int64    `json:"loaded_at"`
		Error     string   `json:"error,omitempty"`
	}{
		Name:      d.Name,
		Kind:      d.Kind,
		Families:  families,
		Available: d.Available,
		Entries:   d.Entries,
		Skipped:   d.Skipped,
		Overlaps:  d.Overlaps,
		LoadedAt:  loadedAt,
		Error:     errMessage,
	}

	return json.Marshal(&rawStruct)
}
