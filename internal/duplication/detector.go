package duplication

import (
	"sort"
	"strings"

	"github.com/ingo-eichhorst/complexityguard/pkg/types"
)

// Config tunes the rolling-hash clone search.
type Config struct {
	// MinTokens is the fixed clone-window width W. Default 25.
	MinTokens int
	// MaxBucketSize discards hash buckets larger than this before all-pairs
	// verification, guarding against O(bucket²) blowup on boilerplate-heavy
	// or adversarial input. Default 1000.
	MaxBucketSize int
}

// DefaultConfig is the out-of-the-box clone-search tuning.
var DefaultConfig = Config{MinTokens: 25, MaxBucketSize: 1000}

type position struct {
	fileIndex int
	start     int
}

// Detect runs the duplication detector over every file's token sequence:
// windowed rolling hash, bucket grouping, all-pairs verification within
// surviving buckets, and per-file interval merging for the cloned-token
// count. files is indexed identically to the FileRecord array the caller
// owns; CloneInstance.FileIndex refers back into it.
func Detect(files []types.FileRecord, cfg Config) types.DuplicationReport {
	if cfg.MinTokens <= 0 {
		cfg.MinTokens = DefaultConfig.MinTokens
	}
	if cfg.MaxBucketSize <= 0 {
		cfg.MaxBucketSize = DefaultConfig.MaxBucketSize
	}
	w := cfg.MinTokens

	buckets := make(map[uint64][]position)
	totalTokens := 0

	for fi, f := range files {
		totalTokens += len(f.Tokens)
		kindHashes := make([]uint64, len(f.Tokens))
		for i, tok := range f.Tokens {
			kindHashes[i] = tok.KindHash
		}
		hashes := windowHashes(kindHashes, w)
		for start, h := range hashes {
			buckets[h] = append(buckets[h], position{fileIndex: fi, start: start})
		}
	}

	var groups []types.CloneGroup
	for _, positions := range buckets {
		if len(positions) < 2 || len(positions) > cfg.MaxBucketSize {
			continue
		}
		groups = append(groups, verifyBucket(files, positions, w)...)
	}

	sort.Slice(groups, func(i, j int) bool {
		gi, gj := groups[i].Instances[0], groups[j].Instances[0]
		if gi.FileIndex != gj.FileIndex {
			return gi.FileIndex < gj.FileIndex
		}
		return gi.StartToken < gj.StartToken
	})

	perFile := make([]fileDupAccum, len(files))
	for fi, f := range files {
		perFile[fi].Path = f.Path
		perFile[fi].TotalTokens = len(f.Tokens)
	}
	for _, g := range groups {
		for _, inst := range g.Instances {
			perFile[inst.FileIndex].clonedIntervals = append(
				perFile[inst.FileIndex].clonedIntervals,
				interval{start: inst.StartToken, end: inst.EndToken},
			)
		}
	}

	clonedTokens := 0
	for fi := range perFile {
		merged := mergeIntervals(perFile[fi].clonedIntervals)
		count := 0
		for _, iv := range merged {
			count += iv.end - iv.start
		}
		perFile[fi].ClonedTokens = count
		clonedTokens += count
	}

	report := types.DuplicationReport{
		Groups:       groups,
		TotalTokens:  totalTokens,
		ClonedTokens: clonedTokens,
		PerFile:      make([]types.FileDuplication, len(perFile)),
	}
	for i, pf := range perFile {
		pf.DuplicationPercentage = percentage(pf.ClonedTokens, pf.TotalTokens)
		report.PerFile[i] = types.FileDuplication{
			Path:                  pf.Path,
			TotalTokens:           pf.TotalTokens,
			ClonedTokens:          pf.ClonedTokens,
			DuplicationPercentage: pf.DuplicationPercentage,
		}
	}
	report.DuplicationPercentage = percentage(clonedTokens, totalTokens)
	return report
}

// fileDupAccum is an intermediate accumulator carrying the raw clone
// intervals a FileDuplication needs merged before its cloned-token count is
// known; it is not part of the public report shape.
type fileDupAccum struct {
	types.FileDuplication
	clonedIntervals []interval
}

func percentage(clonedTokens, totalTokens int) float64 {
	if totalTokens <= 0 {
		return 0
	}
	return 100 * float64(clonedTokens) / float64(totalTokens)
}

// verifyBucket groups a hash bucket's candidate positions by their exact
// W-token kind sequence (resolving hash collisions) and emits one
// CloneGroup per subgroup of size >= 2. A position belongs to exactly one
// subgroup, so it never joins a group twice.
func verifyBucket(files []types.FileRecord, positions []position, w int) []types.CloneGroup {
	bySeq := make(map[string][]position)
	for _, p := range positions {
		seq := kindSequence(files[p.fileIndex].Tokens, p.start, w)
		bySeq[seq] = append(bySeq[seq], p)
	}

	var groups []types.CloneGroup
	for _, ps := range bySeq {
		if len(ps) < 2 {
			continue
		}
		instances := make([]types.CloneInstance, 0, len(ps))
		for _, p := range ps {
			instances = append(instances, types.CloneInstance{
				FileIndex:  p.fileIndex,
				StartToken: p.start,
				EndToken:   p.start + w,
			})
		}
		sort.Slice(instances, func(i, j int) bool {
			if instances[i].FileIndex != instances[j].FileIndex {
				return instances[i].FileIndex < instances[j].FileIndex
			}
			return instances[i].StartToken < instances[j].StartToken
		})
		groups = append(groups, types.CloneGroup{TokenCount: w, Instances: instances})
	}
	return groups
}

func kindSequence(tokens []types.Token, start, w int) string {
	var b strings.Builder
	for i := start; i < start+w; i++ {
		b.WriteString(tokens[i].Kind)
		b.WriteByte('\x00')
	}
	return b.String()
}

type interval struct{ start, end int }

// mergeIntervals sorts half-open [start, end) token intervals and merges
// overlapping or touching ones. Without this step, overlapping clone
// windows in dense duplicate regions can produce a duplication percentage
// greater than 100.
func mergeIntervals(ivs []interval) []interval {
	if len(ivs) == 0 {
		return nil
	}
	sort.Slice(ivs, func(i, j int) bool { return ivs[i].start < ivs[j].start })
	merged := []interval{ivs[0]}
	for _, iv := range ivs[1:] {
		last := &merged[len(merged)-1]
		if iv.start <= last.end {
			if iv.end > last.end {
				last.end = iv.end
			}
			continue
		}
		merged = append(merged, iv)
	}
	return merged
}
