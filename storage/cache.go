// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package storage

import (
	"sort"
	"strings"

	cache "github.com/patrickmn/go-cache"
)

// pending operation on a key
const (
	dbPut = iota
	dbDelete
)

type cacheData struct {
	op    int
	value []byte
}

// one overlay layer of pending writes, keyed by full database key
type layer struct {
	cache *cache.Cache
}

func newLayer() *layer {
	return &layer{
		// entries must live until commit or abort
		cache: cache.New(cache.NoExpiration, 0),
	}
}

// second value is false if this layer has no operation for the key
func (l *layer) get(key string) (cacheData, bool) {
	obj, found := l.cache.Get(key)
	if !found {
		return cacheData{}, false
	}
	return obj.(cacheData), true
}

func (l *layer) set(op int, key string, value []byte) {
	cached := cacheData{
		op:    op,
		value: value,
	}
	l.cache.Set(key, cached, cache.NoExpiration)
}

// apply every operation of this layer on top of parent
func (l *layer) mergeInto(parent *layer) {
	for key, item := range l.cache.Items() {
		parent.cache.Set(key, item.Object, cache.NoExpiration)
	}
}

// all operations with keys starting with prefix, in key order
func (l *layer) scan(prefix string) []string {
	keys := make([]string, 0)
	for key := range l.cache.Items() {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys
}

func (l *layer) count() int {
	return l.cache.ItemCount()
}
