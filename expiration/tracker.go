// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package expiration - bounded recency registry
//
// remembers up to a fixed number of keys in the order they were last
// touched and hands back the least recently touched key when a new
// key pushes the registry over its limit
package expiration

import (
	"github.com/hashicorp/golang-lru/simplelru"

	"github.com/bitmark-inc/batchsig/fault"
)

// Tracker - not safe for concurrent use
type Tracker struct {
	limit   int
	lru     *simplelru.LRU
	victims []interface{}
}

// New - tracker that holds up to limit keys
func New(limit int) (*Tracker, error) {
	if limit <= 0 {
		return nil, fault.ErrInvalidCount
	}
	t := &Tracker{
		limit: limit,
	}
	lru, err := simplelru.NewLRU(limit, t.evicted)
	if nil != err {
		return nil, err
	}
	t.lru = lru
	return t, nil
}

// every removal from the lru calls this, including explicit ones
func (t *Tracker) evicted(key interface{}, _ interface{}) {
	t.victims = append(t.victims, key)
}

// Touch - make key the most recent, inserting it if absent
//
// if the insert exceeded the limit the least recently touched key is
// dropped and returned with evicted == true
func (t *Tracker) Touch(key interface{}) (victim interface{}, evicted bool) {
	t.victims = t.victims[:0]
	if !t.lru.Add(key, nil) {
		return nil, false
	}
	if 0 == len(t.victims) {
		return nil, false
	}
	victim = t.victims[0]
	t.victims = t.victims[:0]
	return victim, true
}

// Oldest - least recently touched key
func (t *Tracker) Oldest() (interface{}, bool) {
	key, _, ok := t.lru.GetOldest()
	return key, ok
}

// Remove - forget a key without reporting it as evicted
func (t *Tracker) Remove(key interface{}) bool {
	present := t.lru.Remove(key)
	t.victims = t.victims[:0]
	return present
}

// Contains - check without changing recency
func (t *Tracker) Contains(key interface{}) bool {
	return t.lru.Contains(key)
}

// Keys - oldest first
func (t *Tracker) Keys() []interface{} {
	return t.lru.Keys()
}

// Len - number of keys held
func (t *Tracker) Len() int {
	return t.lru.Len()
}

// Limit - maximum number of keys
func (t *Tracker) Limit() int {
	return t.limit
}

// Clear - forget everything
func (t *Tracker) Clear() {
	t.lru.Purge()
	t.victims = t.victims[:0]
}
