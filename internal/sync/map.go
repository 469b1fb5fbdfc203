// SPDX-License-Identifier: Apache-2.0

package sync

import (
	"sync"
)

// Map is a map safe for concurrent use, guarded by a read/write mutex.
type Map[K comparable, V any] struct {
	m     map[K]V
	mutex *sync.RWMutex
}

func NewMap[K comparable, V any]() *Map[K, V] {
	return &Map[K, V]{
		m:     make(map[K]V),
		mutex: &sync.RWMutex{},
	}
}

func (m *Map[K, V]) Get(key K) (V, bool) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	value, ok := m.m[key]
	return value, ok
}

func (m *Map[K, V]) Set(key K, value V) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.m[key] = value
}

func (m *Map[K, V]) Delete(key K) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	delete(m.m, key)
}

// Clear removes all the entries and returns how many there were.
func (m *Map[K, V]) Clear() int {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	n := len(m.m)
	clear(m.m)
	return n
}
