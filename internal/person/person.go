// Package person holds the Person record and the repository that stores it.
package person

import "strconv"

// Person is a single personnel record.
type Person struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Rank   string `json:"rank"`
	Mobile string `json:"mobile"`
}

// Columns are the display headers, in column order.
var Columns = []string{"Id", "Name", "Rank", "Mobile"}

// Cells returns the display values in Columns order.
func (p Person) Cells() []string {
	return []string{strconv.FormatInt(p.ID, 10), p.Name, p.Rank, p.Mobile}
}

// Ranks is the ordered set of ranks offered by the forms.
// The store accepts any string.
var Ranks = []string{
	"Soldier",
	"Senior Soldier",
	"Junior Sergeant",
	"Sergeant",
	"Senior Sergeant",
}

// RankIndex returns the position of rank in Ranks, or -1.
func RankIndex(rank string) int {
	for i, r := range Ranks {
		if r == rank {
			return i
		}
	}
	return -1
}

// IsRank reports whether rank is one of Ranks.
func IsRank(rank string) bool {
	return RankIndex(rank) >= 0
}
