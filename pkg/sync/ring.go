package sync

import (
	"encoding/binary"

	"github.com/emirpasic/gods/maps/treemap"
	"github.com/emirpasic/gods/utils"
	"github.com/spaolacci/murmur3"
)

// ring is a consistent hash ring mapping keys onto stripe indexes
type ring struct {
	hashRing *treemap.Map

	// Cached since treemap.Map.Min() is O(log n)
	minEntryValue int
}

// newRing returns a ring over stripes entries, each placed replicationFactor
// times
func newRing(stripes int, replicationFactor uint) *ring {
	hashRing := treemap.NewWith(utils.Int64Comparator)
	for stripe := 0; stripe < stripes; stripe++ {
		entryHash, _ := murmur3.Sum128([]byte{byte(stripe), byte(stripe >> 8), byte(stripe >> 16), byte(stripe >> 24)})
		entryHashBytes := make([]byte, 8)
		binary.LittleEndian.PutUint64(entryHashBytes, entryHash)

		for i := 0; i < int(replicationFactor); i++ {
			hasher := murmur3.New128()
			hasher.Write(entryHashBytes)
			indexBytes := make([]byte, 4)
			binary.LittleEndian.PutUint32(indexBytes, uint32(i))
			hasher.Write(indexBytes)
			hash, _ := hasher.Sum128()
			hashRing.Put(int64(hash), stripe)
		}
	}

	r := &ring{hashRing: hashRing}
	if _, minEntryValue := hashRing.Min(); minEntryValue != nil {
		r.minEntryValue = minEntryValue.(int)
	}
	return r
}

// shard consistently hashes the key onto a stripe index
func (r *ring) shard(key []byte) int {
	hasher := murmur3.New128()
	hasher.Write(key)
	raw, _ := hasher.Sum128()
	_, stripe := r.hashRing.Ceiling(int64(raw))
	if stripe != nil {
		return stripe.(int)
	}
	return r.minEntryValue
}
