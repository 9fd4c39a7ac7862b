package models

import (
	"errors"
	"fmt"
)

// Region is the world region a transaction originates from.
type Region string

const (
	RegionEAP  Region = "EAP"  // East Asia and Pacific
	RegionECA  Region = "ECA"  // Europe and Central Asia
	RegionHIC  Region = "HIC"  // High-Income countries
	RegionLAC  Region = "LAC"  // Latin America and the Caribbean
	RegionMENA Region = "MENA" // Middle East and North Africa
	RegionSA   Region = "SA"   // South Asia
	RegionSSA  Region = "SSA"  // Sub-Saharan Africa
)

// Regions lists every accepted region code.
var Regions = []Region{RegionEAP, RegionECA, RegionHIC, RegionLAC, RegionMENA, RegionSA, RegionSSA}

var ErrUnknownRegion = errors.New("unknown region")

func (r Region) Valid() bool {
	for _, known := range Regions {
		if r == known {
			return true
		}
	}
	return false
}

func (r Region) String() string {
	return string(r)
}

// ParseRegion requires an exact upper-case match.
func ParseRegion(s string) (Region, error) {
	r := Region(s)
	if !r.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownRegion, s)
	}
	return r, nil
}
