package runinfo

import (
	"sort"
)

// Merge returns the provider infos of a run: every touched entry, plus the
// prior entries of providers this run did not touch. The result is ordered by
// provider id.
func Merge(prior []ProviderInfo, touched []ProviderInfo) []ProviderInfo {
	byProvider := make(map[int]ProviderInfo, len(prior)+len(touched))
	for _, pi := range prior {
		byProvider[int(pi.Provider)] = pi
	}
	for _, pi := range touched {
		byProvider[int(pi.Provider)] = pi
	}

	out := make([]ProviderInfo, 0, len(byProvider))
	for _, pi := range byProvider {
		out = append(out, pi)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Provider < out[j].Provider })
	return out
}
