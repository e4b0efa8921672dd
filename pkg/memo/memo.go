package memo

import (
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// namespace scopes the name-based UUIDs produced by Key
var namespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/ritzau/movie-graph/memo"))

// Key derives a stable identifier for a pipeline input. The order of ids
// within each set does not matter.
func Key(movieIDs, selectedIDs, recommendedIDs []int) string {
	parts := []string{
		canonical(movieIDs),
		canonical(selectedIDs),
		canonical(recommendedIDs),
	}
	return uuid.NewSHA1(namespace, []byte(strings.Join(parts, "|"))).String()
}

// Fingerprint derives a stable identifier from ordered parts. Unlike Key,
// the order of the parts matters.
func Fingerprint(parts ...string) string {
	return uuid.NewSHA1(namespace, []byte(strings.Join(parts, "\x00"))).String()
}

func canonical(ids []int) string {
	sorted := make([]int, len(ids))
	copy(sorted, ids)
	sort.Ints(sorted)

	parts := make([]string, len(sorted))
	for i, id := range sorted {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, ",")
}

// Tracker remembers the last key it saw
type Tracker struct {
	mu   sync.Mutex
	last string
	seen bool
}

// Changed records key and reports whether it differs from the previous one.
// The first call always reports a change.
func (t *Tracker) Changed(key string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.seen && t.last == key {
		return false
	}
	t.last = key
	t.seen = true
	return true
}

// Reset forgets the last key
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.last = ""
	t.seen = false
}
