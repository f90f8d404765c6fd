package classifier

import (
	"encoding/json"
	"strings"
	"time"
)

// ErrorResponse is the body returned to clients for every failed request.
type ErrorResponse struct {
	Timestamp  time.Time `json:"timestamp"`
	StatusCode int       `json:"statusCode"`
	ErrorCode  string    `json:"errorCode"`
	Message    string    `json:"message"`
	Details    Details   `json:"details"`
}

// Details is either a list of strings or a single string on the wire.
// The zero value is written as an empty string.
type Details struct {
	items  []string
	text   string
	isList bool
}

// List returns details encoded as a JSON array.
func List(items ...string) Details {
	if items == nil {
		items = []string{}
	}
	return Details{items: items, isList: true}
}

// Text returns details encoded as a JSON string.
func Text(s string) Details {
	return Details{text: s}
}

// Items returns the list form, nil for text details.
func (d Details) Items() []string {
	return d.items
}

// String returns the text form, or the items joined by "; ".
func (d Details) String() string {
	if !d.isList {
		return d.text
	}
	return strings.Join(d.items, "; ")
}

// IsZero reports whether no details are set.
func (d Details) IsZero() bool {
	return !d.isList && d.text == ""
}

// MarshalJSON implements json.Marshaler.
func (d Details) MarshalJSON() ([]byte, error) {
	switch {
	case d.isList:
		return json.Marshal(d.items)
	default:
		return json.Marshal(d.text)
	}
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Details) UnmarshalJSON(data []byte) error {
	*d = Details{}

	var items []string
	if err := json.Unmarshal(data, &items); err == nil {
		if items != nil {
			*d = List(items...)
		}
		return nil
	}

	return json.Unmarshal(data, &d.text)
}
