package version_json

import (
	"encoding/json"
	"fmt"
)

// Argument is either a plain string or a conditional {rules, value} object
// where value is a string or a list of strings.
type Argument struct {
	Rules []Rule
	Value []string
}

var _ json.Unmarshaler = &Argument{}
var _ json.Marshaler = Argument{}

func (a *Argument) UnmarshalJSON(b []byte) error {
	if len(b) == 0 {
		return fmt.Errorf("invalid argument")
	}
	switch b[0] {
	case '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		a.Rules = nil
		a.Value = []string{s}
		return nil
	case '{':
		var raw struct {
			Rules []Rule       `json:"rules"`
			Value stringOrList `json:"value"`
		}
		if err := json.Unmarshal(b, &raw); err != nil {
			return err
		}
		a.Rules = raw.Rules
		a.Value = raw.Value
		return nil
	}
	return fmt.Errorf("invalid argument")
}

func (a Argument) MarshalJSON() ([]byte, error) {
	if len(a.Rules) == 0 && len(a.Value) == 1 {
		return json.Marshal(a.Value[0])
	}
	return json.Marshal(struct {
		Rules []Rule   `json:"rules"`
		Value []string `json:"value"`
	}{a.Rules, a.Value})
}

type stringOrList []string

func (s *stringOrList) UnmarshalJSON(b []byte) error {
	if len(b) == 0 {
		return fmt.Errorf("invalid argument value")
	}
	switch b[0] {
	case '"':
		var a string
		if err := json.Unmarshal(b, &a); err != nil {
			return err
		}
		*s = []string{a}
		return nil
	case '[':
		var a []string
		if err := json.Unmarshal(b, &a); err != nil {
			return err
		}
		*s = a
		return nil
	}
	return fmt.Errorf("invalid argument value")
}

// Resolve returns the argument values allowed in env, in order.
func Resolve(args []Argument, env Environment) []string {
	a := make([]string, 0, len(args))
	for _, i := range args {
		if Allowed(i.Rules, env) {
			a = append(a, i.Value...)
		}
	}
	return a
}
