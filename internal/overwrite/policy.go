package overwrite

import (
	"fmt"
	"strings"
)

// Policy controls how an existing destination is treated.
type Policy string

const (
	PolicySkip    Policy = "skip"
	PolicyPrompt  Policy = "prompt"
	PolicyReplace Policy = "replace"
)

// Policies lists the accepted values in display order.
var Policies = []Policy{PolicySkip, PolicyPrompt, PolicyReplace}

// ParsePolicy accepts a policy name case-insensitively.
func ParsePolicy(value string) (Policy, error) {
	switch Policy(strings.ToLower(strings.TrimSpace(value))) {
	case PolicySkip:
		return PolicySkip, nil
	case PolicyPrompt:
		return PolicyPrompt, nil
	case PolicyReplace:
		return PolicyReplace, nil
	default:
		return "", fmt.Errorf("unknown overwrite policy %q (want skip, prompt, or replace)", value)
	}
}

func (p Policy) String() string { return string(p) }
