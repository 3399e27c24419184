package nav

import (
	"fmt"
	"strings"
)

// EnteringPolicy selects the element focused when a region is entered.
type EnteringPolicy int

const (
	// PolicyFromDirection focuses the member nearest to the previously
	// focused element's center.
	PolicyFromDirection EnteringPolicy = iota
	PolicyTop
	PolicyBottom
	PolicyLeft
	PolicyRight
	PolicyTopLeft
	PolicyTopRight
	PolicyBottomLeft
	PolicyBottomRight
	// PolicyLast refocuses the member the region remembers as last focused.
	PolicyLast
)

var policyNames = []string{
	PolicyFromDirection: "FromDirection",
	PolicyTop:           "Top",
	PolicyBottom:        "Bottom",
	PolicyLeft:          "Left",
	PolicyRight:         "Right",
	PolicyTopLeft:       "TopLeft",
	PolicyTopRight:      "TopRight",
	PolicyBottomLeft:    "BottomLeft",
	PolicyBottomRight:   "BottomRight",
	PolicyLast:          "Last",
}

// String returns the policy name as written in configuration.
func (p EnteringPolicy) String() string {
	if p >= 0 && int(p) < len(policyNames) {
		return policyNames[p]
	}
	return fmt.Sprintf("EnteringPolicy(%d)", int(p))
}

// ParsePolicy parses a policy name, case-insensitively. The empty string
// yields PolicyFromDirection.
func ParsePolicy(s string) (EnteringPolicy, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return PolicyFromDirection, nil
	}
	for i, name := range policyNames {
		if strings.EqualFold(name, s) {
			return EnteringPolicy(i), nil
		}
	}
	return PolicyFromDirection, fmt.Errorf("unknown entering policy %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (p EnteringPolicy) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *EnteringPolicy) UnmarshalText(text []byte) error {
	parsed, err := ParsePolicy(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
