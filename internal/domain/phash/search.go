package phash

import (
	"strings"

	"golang.org/x/sync/errgroup"
)

// Default search bounds: seeds in [1, DefaultMaxSeed], sizes in
// [n, n*DefaultSizeFactor).
const (
	DefaultMaxSeed    = 9999
	DefaultSizeFactor = 10
)

// Result is the chosen table size and seed. The zero value is the
// "not found" sentinel.
type Result struct {
	Size int    `json:"size"`
	Seed uint64 `json:"seed"`
}

// Meaningful reports whether a collision-free pair was found.
func (r Result) Meaningful() bool {
	return r.Size != 0
}

// Options bounds the search. Zero fields take the defaults.
type Options struct {
	MaxSeed    uint64 // last seed tried, inclusive
	SizeFactor int    // sizes run up to n*SizeFactor, exclusive
	Workers    int    // goroutines splitting the seed range; <= 1 is sequential
}

// DefaultOptions returns the bounds of the reference search.
func DefaultOptions() Options {
	return Options{MaxSeed: DefaultMaxSeed, SizeFactor: DefaultSizeFactor, Workers: 1}
}

func (o Options) withDefaults() Options {
	if o.MaxSeed == 0 {
		o.MaxSeed = DefaultMaxSeed
	}
	if o.SizeFactor == 0 {
		o.SizeFactor = DefaultSizeFactor
	}
	if o.Workers < 1 {
		o.Workers = 1
	}
	return o
}

// Stats counts the work a search did.
type Stats struct {
	Candidates uint64 // (seed, size) pairs evaluated
	Accepted   uint64 // pairs that were injective
	Solved     int    // distinct sizes with at least one injective seed
}

// Slot is one keyword's position in a solved table.
type Slot struct {
	Keyword string `json:"keyword"`
	Slot    int    `json:"slot"`
}

// Search runs the reference search over keywords.
func Search(keywords []string) Result {
	r, _ := Find(keywords, DefaultOptions())
	return r
}

// Find searches every seed in [1, MaxSeed] against every size in
// [n, n*SizeFactor) and returns the smallest size that some seed makes
// injective, paired with the largest such seed. Duplicate keywords (after
// lowercasing) always collide, so they yield the sentinel.
func Find(keywords []string, opts Options) (Result, Stats) {
	opts = opts.withDefaults()
	n := len(keywords)
	lo, hi := n, n*opts.SizeFactor
	if n == 0 || hi <= lo {
		return Result{}, Stats{}
	}

	shorts := make([][]rune, n)
	for i, k := range keywords {
		shorts[i] = Shorten(strings.ToLower(k))
	}

	var sc *scan
	if opts.Workers == 1 || opts.MaxSeed < uint64(opts.Workers) {
		sc = newScan(shorts, lo, hi)
		sc.run(1, opts.MaxSeed)
	} else {
		sc = findParallel(shorts, lo, hi, opts)
	}

	stats := sc.stats
	var res Result
	for i, seed := range sc.best {
		if seed == 0 {
			continue
		}
		stats.Solved++
		if !res.Meaningful() {
			res = Result{Size: lo + i, Seed: seed}
		}
	}
	return res, stats
}

// findParallel splits [1, MaxSeed] into contiguous chunks, scans them
// concurrently and merges the per-size tables by taking the larger seed.
// That is the same answer the sequential overwrite produces.
func findParallel(shorts [][]rune, lo, hi int, opts Options) *scan {
	workers := uint64(opts.Workers)
	chunk := (opts.MaxSeed + workers - 1) / workers

	scans := make([]*scan, 0, workers)
	var g errgroup.Group
	g.SetLimit(opts.Workers)
	for from := uint64(1); from <= opts.MaxSeed; from += chunk {
		from := from
		to := min(from+chunk-1, opts.MaxSeed)
		sc := newScan(shorts, lo, hi)
		scans = append(scans, sc)
		g.Go(func() error {
			sc.run(from, to)
			return nil
		})
	}
	_ = g.Wait()

	merged := scans[0]
	for _, sc := range scans[1:] {
		merged.merge(sc)
	}
	return merged
}

// scan is the state of one pass over a seed range. Nothing in the inner
// loop allocates: the per-seed sums are reused across sizes and slot
// occupancy is tracked with generation stamps instead of clearing.
type scan struct {
	shorts [][]rune
	lo, hi int
	sums   []uint64
	marks  []uint32
	stamp  uint32
	best   []uint64 // best[size-lo] = last seed that solved size, 0 if none
	stats  Stats
}

func newScan(shorts [][]rune, lo, hi int) *scan {
	return &scan{
		shorts: shorts,
		lo:     lo,
		hi:     hi,
		sums:   make([]uint64, len(shorts)),
		marks:  make([]uint32, hi),
		best:   make([]uint64, hi-lo),
	}
}

// run evaluates seeds from..to inclusive in ascending order, overwriting
// best on every success.
func (s *scan) run(from, to uint64) {
	for seed := from; seed <= to; seed++ {
		for i, short := range s.shorts {
			s.sums[i] = sumShort(short, seed)
		}
		for size := s.lo; size < s.hi; size++ {
			s.stats.Candidates++
			if s.distinct(uint64(size)) {
				s.stats.Accepted++
				s.best[size-s.lo] = seed
			}
		}
		if seed == to {
			break // to may be math.MaxUint64
		}
	}
}

// distinct reports whether the current sums land in distinct slots mod size.
func (s *scan) distinct(size uint64) bool {
	s.stamp++
	if s.stamp == 0 {
		clear(s.marks)
		s.stamp = 1
	}
	for _, sum := range s.sums {
		slot := sum % size
		if s.marks[slot] == s.stamp {
			return false
		}
		s.marks[slot] = s.stamp
	}
	return true
}

func (s *scan) merge(o *scan) {
	for i, seed := range o.best {
		s.best[i] = max(s.best[i], seed)
	}
	s.stats.Candidates += o.stats.Candidates
	s.stats.Accepted += o.stats.Accepted
}

// Injective reports whether (seed, size) gives every keyword its own slot.
func Injective(keywords []string, seed uint64, size int) bool {
	if size <= 0 {
		return false
	}
	seen := make(map[int]struct{}, len(keywords))
	for _, k := range keywords {
		slot := Hash(k, seed, size)
		if _, dup := seen[slot]; dup {
			return false
		}
		seen[slot] = struct{}{}
	}
	return true
}

// Assign returns each lowercased keyword with its slot, in input order.
// It returns nil for the sentinel result.
func Assign(keywords []string, r Result) []Slot {
	if !r.Meaningful() {
		return nil
	}
	out := make([]Slot, len(keywords))
	for i, k := range keywords {
		lk := strings.ToLower(k)
		out[i] = Slot{Keyword: lk, Slot: Hash(lk, r.Seed, r.Size)}
	}
	return out
}
