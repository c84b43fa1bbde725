// Package ranking implementa el ranking denso con empates del leaderboard.
package ranking

import "sort"

// Entry entrada agregada de entrada al ranker.
type Entry struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Ranked entrada con su posición asignada.
type Ranked struct {
	Rank  int    `json:"rank"`
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Rank ordena descendente por count (nombre ascendente como desempate
// estable) y asigna rangos: los empates comparten rango y el siguiente count
// distinto incrementa el rango en 1.
//
//	[5, 4, 4, 2] → rangos [1, 2, 2, 3]
//
// Entrada vacía devuelve slice vacío, no error ni nil.
func Rank(entries []Entry) []Ranked {
	sorted := make([]Entry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Count != sorted[j].Count {
			return sorted[i].Count > sorted[j].Count
		}
		return sorted[i].Name < sorted[j].Name
	})

	out := make([]Ranked, 0, len(sorted))
	rank := 0
	prevCount := 0
	for i, e := range sorted {
		if i == 0 || e.Count != prevCount {
			rank++
			prevCount = e.Count
		}
		out = append(out, Ranked{Rank: rank, Name: e.Name, Count: e.Count})
	}
	return out
}
