package kv

import (
	"context"
	"hash/fnv"
)

const lockShards = 128

// KeyLocks serializes work per lock key using a fixed set of shards. Two keys
// that hash to the same shard also serialize, which is safe but slower.
type KeyLocks struct {
	shards [lockShards]chan struct{}
}

func NewKeyLocks() *KeyLocks {
	l := &KeyLocks{}
	for i := range l.shards {
		l.shards[i] = make(chan struct{}, 1)
	}
	return l
}

// Acquire blocks until the key's shard is free or ctx ends.
func (l *KeyLocks) Acquire(ctx context.Context, key string) (release func(), err error) {
	ch := l.shards[shardFor(key)]
	select {
	case ch <- struct{}{}:
		return func() { <-ch }, nil
	case <-ctx.Done():
		return nil, LockTimeout(key, ctx.Err())
	}
}

func shardFor(key string) uint32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return h.Sum32() % lockShards
}
