package domain

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/invopop/jsonschema"
)

// Episode is the output record written for the site search
type Episode struct {
	Name          string      `json:"name" jsonschema:"description=episode title"`
	Desc          string      `json:"desc" jsonschema:"description=plain text description"`
	Link          string      `json:"link" jsonschema:"description=episode web page"`
	AudioURL      string      `json:"audio_url" jsonschema:"description=direct audio URL"`
	Image         string      `json:"image" jsonschema:"description=episode artwork URL"`
	Date          string      `json:"date" jsonschema:"description=publish date as DD.MM.YYYY"`
	Year          *int        `json:"year" jsonschema:"description=publish year"`
	Duration      string      `json:"duration" jsonschema:"description=runtime as H:MM:SS or M:SS"`
	EpisodeNumber IntOrString `json:"episode_number" jsonschema:"description=episode number"`
	Season        IntOrString `json:"season" jsonschema:"description=season number"`
	EpisodeType   string      `json:"episode_type" jsonschema:"description=episode type such as full or trailer or bonus"`
	GUID          string      `json:"guid" jsonschema:"description=feed provided identifier"`
	Explicit      bool        `json:"explicit" jsonschema:"description=explicit content marker"`
	Page          string      `json:"page" jsonschema:"description=site page from the extras map"`
	PubISO        string      `json:"pub_iso" jsonschema:"description=UTC publish timestamp used for sorting"`
}

// IntOrString holds a number that may come as free text, e.g. episode "8" or "S1E8".
// It is marshaled as a JSON number when it holds an integer and as a string otherwise.
type IntOrString struct {
	Int   *int
	Value string
}

// ParseIntOrString keeps an integer when s parses as one, the original string otherwise
func ParseIntOrString(s string) IntOrString {
	if n, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
		return IntOrString{Int: &n}
	}
	return IntOrString{Value: s}
}

// IsInt reports whether the value holds an integer
func (v IntOrString) IsInt() bool {
	return v.Int != nil
}

// String returns the integer form when present, the original value otherwise
func (v IntOrString) String() string {
	if v.Int != nil {
		return strconv.Itoa(*v.Int)
	}
	return v.Value
}

// MarshalJSON implements json.Marshaler
func (v IntOrString) MarshalJSON() ([]byte, error) {
	if v.Int != nil {
		return json.Marshal(*v.Int)
	}
	return json.Marshal(v.Value)
}

// UnmarshalJSON implements json.Unmarshaler
func (v *IntOrString) UnmarshalJSON(data []byte) error {
	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		*v = IntOrString{Int: &n}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*v = IntOrString{Value: s}
	return nil
}

// JSONSchema describes the value as integer or string
func (IntOrString) JSONSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		OneOf: []*jsonschema.Schema{
			{Type: "integer"},
			{Type: "string"},
		},
	}
}
