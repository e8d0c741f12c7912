package service

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"communitychat/internal/common"
)

type roleKey struct {
	roomID uint64
	userID uint64
}

type roleEntry struct {
	role       common.Role
	mutedUntil *time.Time
}

// roleCache bounds GetRole lookups by entry count and age.
type roleCache struct {
	lru *expirable.LRU[roleKey, roleEntry]
}

func newRoleCache(size int, ttl time.Duration) *roleCache {
	if size <= 0 {
		size = 1024
	}
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &roleCache{lru: expirable.NewLRU[roleKey, roleEntry](size, nil, ttl)}
}

func (c *roleCache) get(roomID, userID uint64) (roleEntry, bool) {
	return c.lru.Get(roleKey{roomID, userID})
}

func (c *roleCache) put(roomID, userID uint64, e roleEntry) {
	c.lru.Add(roleKey{roomID, userID}, e)
}

func (c *roleCache) invalidate(roomID, userID uint64) {
	c.lru.Remove(roleKey{roomID, userID})
}

func (c *roleCache) len() int {
	return c.lru.Len()
}
