package application

import (
	"hash/fnv"
	"sync"
)

// keyedMutex serializes work per key across a fixed set of shards. Ingestion
// uses it to keep same-customer assessments strictly ordered while distinct
// customers proceed in parallel.
type keyedMutex struct {
	shards []sync.Mutex
}

func newKeyedMutex(shards int) *keyedMutex {
	if shards <= 0 {
		shards = 64
	}
	return &keyedMutex{shards: make([]sync.Mutex, shards)}
}

// Lock acquires the shard for key and returns its unlock function.
func (m *keyedMutex) Lock(key string) func() {
	h := fnv.New32a()
	h.Write([]byte(key))
	shard := &m.shards[h.Sum32()%uint32(len(m.shards))]
	shard.Lock()
	return shard.Unlock
}
