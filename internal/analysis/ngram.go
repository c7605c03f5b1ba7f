// Package analysis mines repeated action sequences from rollouts.
package analysis

import (
	"fmt"
	"slices"
	"sort"

	"github.com/SeamusWaldron/rubikscube"
)

// maxOccurrences caps the sample positions kept per n-gram.
const maxOccurrences = 10

// NGram represents a repeated action sequence.
type NGram struct {
	N           int          `json:"n"`
	Actions     []int        `json:"actions"`
	Sequence    string       `json:"sequence"`
	Count       int          `json:"count"`
	Occurrences []Occurrence `json:"occurrences,omitempty"`
}

// Occurrence represents where an n-gram was found.
type Occurrence struct {
	Episode    int `json:"episode"`
	StartIndex int `json:"start_index"`
}

// Report contains the results of n-gram mining.
type Report struct {
	TopNGrams map[int][]NGram `json:"top_ngrams"` // Keyed by n
}

// RollingHash implements Rabin-Karp rolling hash for efficient n-gram detection.
type RollingHash struct {
	base   uint64
	hash   uint64
	pow    uint64 // base^(n-1) for removal
	window []uint8
	n      int
}

// NewRollingHash creates a new rolling hash for window size n.
func NewRollingHash(n int) *RollingHash {
	rh := &RollingHash{
		base:   31,
		n:      n,
		window: make([]uint8, 0, n),
	}
	rh.pow = 1
	for i := 0; i < n-1; i++ {
		rh.pow *= rh.base
	}
	return rh
}

// Roll adds a token, dropping the oldest once the window is full.
func (rh *RollingHash) Roll(token uint8) {
	if len(rh.window) < rh.n {
		rh.window = append(rh.window, token)
		rh.hash = rh.hash*rh.base + uint64(token)
		return
	}

	old := rh.window[0]
	rh.hash = (rh.hash-uint64(old)*rh.pow)*rh.base + uint64(token)
	copy(rh.window, rh.window[1:])
	rh.window[rh.n-1] = token
}

// Reset empties the window.
func (rh *RollingHash) Reset() {
	rh.window = rh.window[:0]
	rh.hash = 0
}

// Hash returns the current hash value.
func (rh *RollingHash) Hash() uint64 {
	return rh.hash
}

// Window returns a copy of the current window.
func (rh *RollingHash) Window() []uint8 {
	return slices.Clone(rh.window)
}

// Ready returns true if the window is full.
func (rh *RollingHash) Ready() bool {
	return len(rh.window) == rh.n
}

type entry struct {
	tokens      []uint8
	count       int
	occurrences []Occurrence
}

// MineNGrams finds the topK most frequent action n-grams for each n in
// [minN, maxN] across episodes. Windows never span two episodes and only
// sequences seen at least twice are reported.
func MineNGrams(m rubikscube.Metric, episodes [][]int, minN, maxN, topK int) (*Report, error) {
	if minN < 1 || maxN < minN || topK <= 0 {
		return nil, fmt.Errorf("%w: need 1 <= minN <= maxN and topK > 0, got %d, %d, %d",
			rubikscube.ErrInvalidConfiguration, minN, maxN, topK)
	}

	tokens := make([][]uint8, len(episodes))
	for i, actions := range episodes {
		tokens[i] = make([]uint8, len(actions))
		for j, a := range actions {
			if _, err := m.MoveAt(a); err != nil {
				return nil, fmt.Errorf("episode %d step %d: %w", i, j, err)
			}
			tokens[i][j] = uint8(a)
		}
	}

	report := &Report{TopNGrams: make(map[int][]NGram)}
	for n := minN; n <= maxN; n++ {
		if ngrams := mineN(m, tokens, n, topK); len(ngrams) > 0 {
			report.TopNGrams[n] = ngrams
		}
	}
	return report, nil
}

func mineN(m rubikscube.Metric, episodes [][]uint8, n, topK int) []NGram {
	// Colliding hashes share a bucket.
	counts := make(map[uint64][]*entry)
	rh := NewRollingHash(n)

	for ep, tokens := range episodes {
		rh.Reset()
		for i, tok := range tokens {
			rh.Roll(tok)
			if !rh.Ready() {
				continue
			}

			occ := Occurrence{Episode: ep, StartIndex: i - n + 1}
			bucket := counts[rh.Hash()]
			found := false
			for _, e := range bucket {
				if slices.Equal(e.tokens, rh.window) {
					e.count++
					if len(e.occurrences) < maxOccurrences {
						e.occurrences = append(e.occurrences, occ)
					}
					found = true
					break
				}
			}
			if !found {
				counts[rh.Hash()] = append(bucket, &entry{
					tokens:      rh.Window(),
					count:       1,
					occurrences: []Occurrence{occ},
				})
			}
		}
	}

	var entries []*entry
	for _, bucket := range counts {
		for _, e := range bucket {
			if e.count >= 2 {
				entries = append(entries, e)
			}
		}
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].count != entries[j].count {
			return entries[i].count > entries[j].count
		}
		return slices.Compare(entries[i].tokens, entries[j].tokens) < 0
	})
	if len(entries) > topK {
		entries = entries[:topK]
	}

	result := make([]NGram, len(entries))
	for i, e := range entries {
		actions := make([]int, len(e.tokens))
		moves := make([]rubikscube.Move, len(e.tokens))
		for j, tok := range e.tokens {
			actions[j] = int(tok)
			moves[j], _ = m.MoveAt(int(tok))
		}
		result[i] = NGram{
			N:           n,
			Actions:     actions,
			Sequence:    rubikscube.FormatMoves(moves),
			Count:       e.count,
			Occurrences: e.occurrences,
		}
	}
	return result
}
