package engine

import (
	. "github.com/avolkov/zenith/pkg/common"
)

const (
	boundNone = iota
	boundUpper
	boundLower
	boundExact = boundUpper | boundLower
)

// 10 bytes per entry, three entries share a 32-byte cluster. All loads and
// stores are plain: readers tolerate torn data because key16 validates the
// entry and the search treats table hits as hints, never as oracles.
type ttEntry struct {
	key16     uint16
	move16    uint16
	value16   int16
	eval16    int16
	depth8    int8
	genBound8 uint8
}

const clusterSize = 3

type ttCluster struct {
	entry [clusterSize]ttEntry
	_     uint16
}

const (
	genDelta = 4    // low 2 bits of genBound8 hold the bound
	genCycle = 0xFC // generation mask
)

func (e *ttEntry) bound() int {
	return int(e.genBound8 & 3)
}

func (e *ttEntry) generation() uint8 {
	return e.genBound8 & genCycle
}

func (e *ttEntry) isEmpty() bool {
	return e.key16 == 0 && e.genBound8 == 0 && e.depth8 == 0
}

type transTable struct {
	megabytes  int
	clusters   []ttCluster
	generation uint8
	mask       uint64
}

func roundPowerOfTwo(size int) int {
	var x = 1
	for (x << 1) <= size {
		x <<= 1
	}
	return x
}

func newTransTable(megabytes int) *transTable {
	var size = roundPowerOfTwo(1024 * 1024 * megabytes / 32)
	return &transTable{
		megabytes: megabytes,
		clusters:  make([]ttCluster, size),
		mask:      uint64(size - 1),
	}
}

func (tt *transTable) Megabytes() int {
	return tt.megabytes
}

// NewSearch ages the table; called once per root search.
func (tt *transTable) NewSearch() {
	tt.generation += genDelta
}

func (tt *transTable) Clear() {
	tt.generation = 0
	for i := range tt.clusters {
		tt.clusters[i] = ttCluster{}
	}
}

func packMove16(m Move) uint16 {
	if !m.IsOk() {
		return 0
	}
	return uint16(m.From() | m.To()<<6 | m.Promotion()<<12)
}

// Probe returns the entry for key if present. The move comes back as the
// compact (from, to, promotion) encoding and must be resolved against the
// position before use. A stub entry saved with boundNone still hits and
// delivers its static eval.
func (tt *transTable) Probe(key uint64) (found bool, depth, value, eval, bound int, move16 uint16) {
	var cluster = &tt.clusters[key&tt.mask]
	var key16 = uint16(key >> 48)
	for i := range cluster.entry {
		var e = &cluster.entry[i]
		if e.key16 == key16 && !e.isEmpty() {
			e.genBound8 = tt.generation | uint8(e.bound())
			return true, int(e.depth8), int(e.value16), int(e.eval16), e.bound(), e.move16
		}
	}
	return false, depthNone, valueNone, valueNone, boundNone, 0
}

// Save stores an entry. Within the cluster an empty slot is preferred, then
// the slot of the same position, then the slot minimizing depth adjusted by
// relative age.
func (tt *transTable) Save(key uint64, value, bound, depth int, move Move, eval int) {
	var cluster = &tt.clusters[key&tt.mask]
	var key16 = uint16(key >> 48)

	var replace *ttEntry
	for i := range cluster.entry {
		var e = &cluster.entry[i]
		if e.isEmpty() || e.key16 == key16 {
			replace = e
			break
		}
	}
	if replace == nil {
		replace = &cluster.entry[0]
		for i := 1; i < clusterSize; i++ {
			var e = &cluster.entry[i]
			var relAgeReplace = int((tt.generation - replace.generation()) & genCycle)
			var relAgeEntry = int((tt.generation - e.generation()) & genCycle)
			if int(e.depth8)-relAgeEntry*8 < int(replace.depth8)-relAgeReplace*8 {
				replace = e
			}
		}
	}

	if replace.key16 == key16 && !replace.isEmpty() {
		// Keep the known move when the new search found none, and keep
		// deeper data unless the new bound is exact.
		if move.IsOk() {
			replace.move16 = packMove16(move)
		}
		if bound != boundExact && depth < int(replace.depth8)-3 {
			replace.genBound8 = tt.generation | uint8(replace.bound())
			return
		}
	} else {
		replace.move16 = packMove16(move)
	}

	replace.key16 = key16
	replace.value16 = int16(value)
	replace.eval16 = int16(eval)
	replace.depth8 = int8(depth)
	replace.genBound8 = tt.generation | uint8(bound)
}

// Hashfull estimates the permille of current-generation entries by sampling
// the leading clusters.
func (tt *transTable) Hashfull() int {
	var samples = Min(1000, len(tt.clusters)*clusterSize)
	var cnt = 0
	for i := 0; i < samples/clusterSize; i++ {
		for j := range tt.clusters[i].entry {
			var e = &tt.clusters[i].entry[j]
			if !e.isEmpty() && e.generation() == tt.generation {
				cnt++
			}
		}
	}
	return cnt * 1000 / samples
}
