package service

import (
	"sync"

	"github.com/google/uuid"
)

// KeyedMutex serialises work per user. Entries are dropped once nobody holds
// or waits on them.
type KeyedMutex struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*keyedLock
}

type keyedLock struct {
	mu   sync.Mutex
	refs int
}

func NewKeyedMutex() *KeyedMutex {
	return &KeyedMutex{locks: make(map[uuid.UUID]*keyedLock)}
}

// Lock blocks until key is free and returns the matching unlock func.
func (k *KeyedMutex) Lock(key uuid.UUID) func() {
	k.mu.Lock()
	l, ok := k.locks[key]
	if !ok {
		l = &keyedLock{}
		k.locks[key] = l
	}
	l.refs++
	k.mu.Unlock()

	l.mu.Lock()

	return func() { k.release(key, l) }
}

// TryLock acquires key only if nobody holds or is waiting for it.
func (k *KeyedMutex) TryLock(key uuid.UUID) (func(), bool) {
	k.mu.Lock()
	defer k.mu.Unlock()

	if _, busy := k.locks[key]; busy {
		return nil, false
	}

	l := &keyedLock{refs: 1}
	l.mu.Lock()
	k.locks[key] = l

	return func() { k.release(key, l) }, true
}

func (k *KeyedMutex) Held(key uuid.UUID) bool {
	k.mu.Lock()
	defer k.mu.Unlock()

	_, ok := k.locks[key]
	return ok
}

func (k *KeyedMutex) release(key uuid.UUID, l *keyedLock) {
	l.mu.Unlock()

	k.mu.Lock()
	l.refs--
	if l.refs == 0 {
		delete(k.locks, key)
	}
	k.mu.Unlock()
}
