package storage

import "sort"

// CollectionKeys lists every key cleared when demo data is reseeded.
var CollectionKeys = []string{KeyUsers, KeyMovies, KeyCinemas, KeyRooms, KeySessions, KeyOrders}

// sortedKeys gives transactional writers a stable statement order.
func sortedKeys(m map[string][]byte) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
