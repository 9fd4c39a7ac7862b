package models

import (
	"sort"
	"strings"
)

// Reason names the rule that contributed to a verdict.
type Reason string

const (
	ReasonIP                Reason = "ip"
	ReasonCardNumber        Reason = "card-number"
	ReasonIPCorrelation     Reason = "ip-correlation"
	ReasonRegionCorrelation Reason = "region-correlation"
	ReasonAmount            Reason = "amount"
)

// NoReasons is reported when no rule flagged the transaction.
const NoReasons = "none"

// Reasons is an insertion-ordered set of reasons.
type Reasons []Reason

// Add appends reason unless already present.
func (r *Reasons) Add(reason Reason) {
	if r.Has(reason) {
		return
	}
	*r = append(*r, reason)
}

func (r Reasons) Has(reason Reason) bool {
	for _, existing := range r {
		if existing == reason {
			return true
		}
	}
	return false
}

func (r Reasons) Empty() bool {
	return len(r) == 0
}

// Sorted returns the reasons in ascending lexicographic order.
func (r Reasons) Sorted() []string {
	out := make([]string, len(r))
	for i, reason := range r {
		out[i] = string(reason)
	}
	sort.Strings(out)
	return out
}

// String renders the report form: sorted and joined by ", ", or "none".
func (r Reasons) String() string {
	if r.Empty() {
		return NoReasons
	}
	return strings.Join(r.Sorted(), ", ")
}
