package duplication

import "github.com/ingo-eichhorst/complexityguard/pkg/types"

// ResolveLines fills in each CloneInstance's StartLine/EndLine from its
// token range: tokens only carry byte offsets, and line numbers are
// resolved once, after detection, against each file's original source
// bytes. contents must be indexed identically to files/report's
// CloneInstance.FileIndex.
func ResolveLines(report *types.DuplicationReport, files []types.FileRecord, contents [][]byte) {
	lineTables := make([]lineTable, len(files))
	for i, content := range contents {
		lineTables[i] = newLineTable(content)
	}

	for gi := range report.Groups {
		g := &report.Groups[gi]
		for ii := range g.Instances {
			inst := &g.Instances[ii]
			fi := inst.FileIndex
			if fi < 0 || fi >= len(files) {
				continue
			}
			tokens := files[fi].Tokens
			if inst.StartToken < 0 || inst.StartToken >= len(tokens) {
				continue
			}
			endTokenIdx := inst.EndToken - 1
			if endTokenIdx < 0 || endTokenIdx >= len(tokens) {
				endTokenIdx = inst.StartToken
			}
			inst.StartLine = lineTables[fi].lineAt(tokens[inst.StartToken].StartByte)
			inst.EndLine = lineTables[fi].lineAt(tokens[endTokenIdx].EndByte)
		}
	}
}

// lineTable maps a byte offset to its 1-indexed line number via binary
// search over newline positions.
type lineTable struct {
	newlineOffsets []uint32
}

func newLineTable(content []byte) lineTable {
	var offsets []uint32
	for i, b := range content {
		if b == '\n' {
			offsets = append(offsets, uint32(i))
		}
	}
	return lineTable{newlineOffsets: offsets}
}

func (t lineTable) lineAt(byteOffset uint32) int {
	lo, hi := 0, len(t.newlineOffsets)
	for lo < hi {
		mid := (lo + hi) / 2
		if t.newlineOffsets[mid] < byteOffset {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo + 1
}
