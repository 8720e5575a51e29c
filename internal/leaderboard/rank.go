package leaderboard

import "sort"

// Rank keeps the best entry per name, orders by currency descending (ties by
// name) and truncates to n. n <= 0 keeps everything.
func Rank(entries []Entry, n int) []Entry {
	best := make(map[string]int64, len(entries))
	for _, e := range entries {
		if cur, ok := best[e.Name]; !ok || e.Currency > cur {
			best[e.Name] = e.Currency
		}
	}

	ranked := make([]Entry, 0, len(best))
	for name, currency := range best {
		ranked = append(ranked, Entry{Name: name, Currency: currency})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Currency != ranked[j].Currency {
			return ranked[i].Currency > ranked[j].Currency
		}
		return ranked[i].Name < ranked[j].Name
	})

	if n > 0 && len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}
