package realtime

import (
	"sort"
	"strings"
)

// PairRoomID derives the room identifier for a one-to-one chat between two
// users. It is symmetric: both participants compute the same id regardless
// of argument order.
func PairRoomID(a, b string) string {
	ids := []string{a, b}
	sort.Strings(ids)
	return strings.Join(ids, "-")
}
