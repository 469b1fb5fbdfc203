// SPDX-License-Identifier: Apache-2.0

package mocks

import "sync"

type Bar struct {
	AddFn      func(int) error
	DescribeFn func(string)
	CloseFn    func() error

	mutex *sync.Mutex
	added int
}

func NewBar() *Bar {
	return &Bar{mutex: &sync.Mutex{}}
}

func (b *Bar) Add(n int) error {
	if b.mutex != nil {
		b.mutex.Lock()
		b.added += n
		b.mutex.Unlock()
	}
	if b.AddFn != nil {
		return b.AddFn(n)
	}
	return nil
}

func (b *Bar) Describe(description string) {
	if b.DescribeFn != nil {
		b.DescribeFn(description)
	}
}

func (b *Bar) Close() error {
	if b.CloseFn != nil {
		return b.CloseFn()
	}
	return nil
}

// Added returns the total count added to the bar. Only tracked for bars
// created with NewBar.
func (b *Bar) Added() int {
	if b.mutex == nil {
		return 0
	}
	b.mutex.Lock()
	defer b.mutex.Unlock()
	return b.added
}
