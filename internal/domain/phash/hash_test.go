package phash

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// Known-good values for the 64-bit fold.
func TestHash_ReferenceValues(t *testing.T) {
	cases := []struct {
		keyword string
		seed    uint64
		size    int
		want    int
	}{
		{"user", 1, 97, 2},
		{"user", 9999, 1000003, 299769},
		{"pwd", 7, 61, 19},
		{"a", 3, 11, 6},
		{"ab", 5, 13, 8},
		{"", 5, 13, 0},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Hash(tc.keyword, tc.seed, tc.size),
			"Hash(%q, %d, %d)", tc.keyword, tc.seed, tc.size)
	}
}

func TestSum_WrapsAt64Bits(t *testing.T) {
	// seed 1 never overflows: the shifts alone fit in 55 bits for "user".
	assert.Equal(t, uint64(33059017806839922), Sum("user", 1))

	// With a large seed the intermediate products exceed 2^64 and must wrap.
	assert.Equal(t, uint64(3963788064157971148), Sum("quit", 9999))
	assert.Equal(t, uint64(17852493346448062217), Sum("listing", 9999))
}

func TestSum_ByHand(t *testing.T) {
	// "ab" shortens to "abab"; fold with seed 1 is plain shift/or.
	var want uint64 = 'a'
	want = want<<8 | 'b'
	want = want<<16 | 'a'
	want = want<<24 | 'b'
	assert.Equal(t, want, Sum("ab", 1))
}

func TestShorten(t *testing.T) {
	cases := map[string]string{
		"":        "",
		"a":       "aa",
		"ab":      "abab",
		"pwd":     "pwwd",
		"user":    "user",
		"listing": "ling",
		"héllo":   "hélo",
	}
	for in, want := range cases {
		assert.Equal(t, want, string(Shorten(in)), "Shorten(%q)", in)
	}
}

func TestHash_CaseInsensitive(t *testing.T) {
	for seed := uint64(1); seed < 50; seed++ {
		for size := 33; size < 70; size += 7 {
			want := Hash("user", seed, size)
			assert.Equal(t, want, Hash("USER", seed, size))
			assert.Equal(t, want, Hash("UsEr", seed, size))
		}
	}
}

func TestHash_InRange(t *testing.T) {
	for seed := uint64(1); seed < 200; seed++ {
		for _, size := range []int{1, 2, 33, 61, 329} {
			h := Hash("stor", seed, size)
			assert.GreaterOrEqual(t, h, 0)
			assert.Less(t, h, size)
		}
	}
}

func TestHash_Deterministic(t *testing.T) {
	a := Hash("retr", 1868, 61)
	for i := 0; i < 10; i++ {
		assert.Equal(t, a, Hash("retr", 1868, 61))
	}
}

func BenchmarkSum(b *testing.B) {
	for i := 0; i < b.N; i++ {
		Sum("stor", uint64(i))
	}
}
