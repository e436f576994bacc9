package provider

import (
	"fmt"
	"strconv"
	"strings"
)

// Mask selects a set of providers, one bit per provider.
type Mask uint32

// MaskAll selects every known provider.
var MaskAll = func() Mask {
	var m Mask
	for _, p := range All() {
		m |= p.Bit()
	}
	return m
}()

func MaskOf(ps ...DataProvider) Mask {
	var m Mask
	for _, p := range ps {
		m |= p.Bit()
	}
	return m
}

func (m Mask) Has(p DataProvider) bool {
	return p.Valid() && m&p.Bit() != 0
}

// Providers lists the selected providers in id order.
func (m Mask) Providers() []DataProvider {
	var out []DataProvider
	for _, p := range All() {
		if m.Has(p) {
			out = append(out, p)
		}
	}
	return out
}

func (m Mask) String() string {
	names := make([]string, 0, len(All()))
	for _, p := range m.Providers() {
		names = append(names, p.String())
	}
	return strings.Join(names, ",")
}

// ParseMask accepts either a numeric mask ("5", "0x5") or a comma separated
// list of provider names ("Artportalen,KUL"). "all" selects every provider.
func ParseMask(s string) (Mask, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "all") {
		return MaskAll, nil
	}
	if n, err := strconv.ParseUint(s, 0, 32); err == nil {
		m := Mask(n)
		if m&^MaskAll != 0 {
			return 0, fmt.Errorf("mask %#x selects unknown providers", n)
		}
		return m, nil
	}
	var m Mask
	for _, part := range strings.Split(s, ",") {
		p, err := Parse(part)
		if err != nil {
			return 0, err
		}
		m |= p.Bit()
	}
	return m, nil
}
