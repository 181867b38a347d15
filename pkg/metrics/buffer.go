// Copyright 2026 The Authors
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//     http://www.apache.org/licenses/LICENSE-2.0
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package metrics

import "sync/atomic"

// observationBuffer implements the collector<->observer coordination
// protocol of spec.md §4.7. Each series embeds one. While a snapshot is
// in flight the series is in "buffering" mode: observers push a closure
// describing their update instead of applying it directly. The
// snapshotter reads storage (now stable), replays anything queued
// during the window, and flips back to direct-write mode.
//
// The buffer is a lock-free, singly-linked Treiber stack: push is a CAS
// loop, drain is a single atomic swap-to-nil. drain replays entries in
// the order they were pushed, so a Set followed by an Add on the same
// series is replayed in that order.
type observationBuffer struct {
	mode atomic.Int32 // 0 = direct, 1 = buffering
	head atomic.Pointer[bufNode]
}

type bufNode struct {
	apply func()
	next  *bufNode
}

const (
	bufModeDirect    int32 = 0
	bufModeBuffering int32 = 1
)

// recordOrBuffer applies apply() immediately in direct mode, or enqueues
// it when a snapshot is in progress.
func (b *observationBuffer) recordOrBuffer(apply func()) {
	if b.mode.Load() == bufModeDirect {
		apply()
		return
	}
	n := &bufNode{apply: apply}
	for {
		old := b.head.Load()
		n.next = old
		if b.head.CompareAndSwap(old, n) {
			return
		}
	}
}

// drain replays (and discards) everything currently queued, in push
// order. Safe to call repeatedly, including when empty.
func (b *observationBuffer) drain() {
	n := b.head.Swap(nil)
	// The stack holds the newest push first; reverse it so replay happens
	// in the order pushes arrived.
	var prev *bufNode
	for n != nil {
		next := n.next
		n.next = prev
		prev = n
		n = next
	}
	for prev != nil {
		prev.apply()
		prev = prev.next
	}
}

// beginSnapshot switches the series to buffering mode and flushes any
// stray entries left over from a prior snapshot's race window: an
// observer that read the buffering mode just before the previous
// endSnapshot may push after that drain, and its entry is applied here,
// ahead of this snapshot's read of storage.
func (b *observationBuffer) beginSnapshot() {
	b.mode.Store(bufModeBuffering)
	b.drain()
}

// endSnapshot replays everything buffered during the snapshot window and
// returns the series to direct-write mode.
func (b *observationBuffer) endSnapshot() {
	b.drain()
	b.mode.Store(bufModeDirect)
}
