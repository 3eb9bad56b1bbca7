package bot

import (
	"sort"
	"strconv"
	"strings"
)

// AdminSet is the immutable set of admin user ids.
type AdminSet struct {
	ids map[int64]struct{}
}

func NewAdminSet(ids ...int64) AdminSet {
	a := AdminSet{ids: make(map[int64]struct{}, len(ids))}
	for _, id := range ids {
		if id > 0 {
			a.ids[id] = struct{}{}
		}
	}
	return a
}

// ParseAdminIDs parses a comma-separated id list. Entries that are not
// positive integers are ignored.
func ParseAdminIDs(raw string) AdminSet {
	var ids []int64
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil || id <= 0 {
			continue
		}
		ids = append(ids, id)
	}
	return NewAdminSet(ids...)
}

// Merge returns a new set containing a's ids plus ids.
func (a AdminSet) Merge(ids ...int64) AdminSet {
	all := append(a.IDs(), ids...)
	return NewAdminSet(all...)
}

func (a AdminSet) IsAdmin(id int64) bool {
	_, ok := a.ids[id]
	return ok
}

// IDs returns the admin ids in ascending order.
func (a AdminSet) IDs() []int64 {
	out := make([]int64, 0, len(a.ids))
	for id := range a.ids {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (a AdminSet) Len() int { return len(a.ids) }
