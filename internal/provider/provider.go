package provider

import (
	"fmt"
	"strconv"
	"strings"
)

// DataProvider identifies one external source of observation records.
type DataProvider int

const (
	Artportalen DataProvider = iota + 1
	ClamPortal
	KUL
	MVM
	NORS
	SERS
	SHARK
	VirtualHerbarium
)

// Strategy is the way a provider's verbatim data is walked during processing.
type Strategy int

const (
	StrategySequential Strategy = iota
	StrategyPartitioned
	StrategyBulk
)

type info struct {
	name                string
	strategy            Strategy
	requiresAreaHarvest bool
}

var providers = map[DataProvider]info{
	Artportalen:      {name: "Artportalen", strategy: StrategyPartitioned},
	ClamPortal:       {name: "ClamPortal", requiresAreaHarvest: true},
	KUL:              {name: "KUL", requiresAreaHarvest: true},
	MVM:              {name: "MVM", requiresAreaHarvest: true},
	NORS:             {name: "NORS", requiresAreaHarvest: true},
	SERS:             {name: "SERS", requiresAreaHarvest: true},
	SHARK:            {name: "SHARK", requiresAreaHarvest: true},
	VirtualHerbarium: {name: "VirtualHerbarium", requiresAreaHarvest: true},
}

// All returns every known provider in id order.
func All() []DataProvider {
	return []DataProvider{Artportalen, ClamPortal, KUL, MVM, NORS, SERS, SHARK, VirtualHerbarium}
}

func (p DataProvider) Valid() bool {
	_, ok := providers[p]
	return ok
}

func (p DataProvider) String() string {
	if i, ok := providers[p]; ok {
		return i.name
	}
	return "DataProvider(" + strconv.Itoa(int(p)) + ")"
}

// HarvestInfoID is the id of the harvest record describing this provider's
// verbatim collection.
func (p DataProvider) HarvestInfoID() string {
	return p.String() + "ObservationVerbatim"
}

// Strategy returns the default processing strategy for the provider.
func (p DataProvider) Strategy() Strategy {
	return providers[p].strategy
}

// RequiresAreaHarvest reports whether records from this provider are placed in
// administrative areas by coordinate lookup, making the area harvest a
// dependency of its processing.
func (p DataProvider) RequiresAreaHarvest() bool {
	return providers[p].requiresAreaHarvest
}

// Bit is the provider's flag in a Mask.
func (p DataProvider) Bit() Mask {
	return Mask(1) << uint(p-1)
}

// Parse looks a provider up by its case-insensitive name or numeric id.
func Parse(s string) (DataProvider, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		if p := DataProvider(n); p.Valid() {
			return p, nil
		}
		return 0, fmt.Errorf("unknown data provider id %d", n)
	}
	for _, p := range All() {
		if strings.EqualFold(p.String(), s) {
			return p, nil
		}
	}
	return 0, fmt.Errorf("unknown data provider %q", s)
}
