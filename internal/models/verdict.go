package models

import (
	"errors"
	"fmt"
)

// Verdict is the screening outcome of a transaction.
type Verdict string

const (
	VerdictAllowed          Verdict = "ALLOWED"
	VerdictManualProcessing Verdict = "MANUAL_PROCESSING"
	VerdictProhibited       Verdict = "PROHIBITED"
)

var ErrUnknownVerdict = errors.New("unknown verdict")

// Rank orders verdicts by severity. Unknown values rank below ALLOWED.
func (v Verdict) Rank() int {
	switch v {
	case VerdictAllowed:
		return 0
	case VerdictManualProcessing:
		return 1
	case VerdictProhibited:
		return 2
	default:
		return -1
	}
}

func (v Verdict) Valid() bool {
	return v.Rank() >= 0
}

// Escalate returns the more severe of v and to. A verdict never goes down.
func (v Verdict) Escalate(to Verdict) Verdict {
	if to.Rank() > v.Rank() {
		return to
	}
	return v
}

func (v Verdict) String() string {
	return string(v)
}

// ParseVerdict accepts only the exact upper-case names.
func ParseVerdict(s string) (Verdict, error) {
	v := Verdict(s)
	if !v.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownVerdict, s)
	}
	return v, nil
}
