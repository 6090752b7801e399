package config

import (
	"fmt"
	"strconv"
)

// CacheKeyStruct centralizes every Redis key layout in one place so key
// collisions stay visible at a glance.
type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

var CacheKey = NewCacheKeyStruct()

// UserLoginKey holds a user's active login JTI. Presence of this key is
// what makes logins single-device.
func (k *CacheKeyStruct) UserLoginKey(userID int64) string {
	return "login:" + strconv.FormatInt(userID, 10)
}

// SessionAnswersKey holds a session's checkpointed answers as a hash of
// question id to answer.
func (k *CacheKeyStruct) SessionAnswersKey(sessionID string) string {
	return "session:" + sessionID + ":answers"
}

// SessionMetaKey holds a session's metadata (owner, question ids,
// deadline), used to recover state after a page reload.
func (k *CacheKeyStruct) SessionMetaKey(sessionID string) string {
	return "session:" + sessionID + ":meta"
}

// LeaderboardKey holds a leaderboard snapshot. kind is "practice" or
// "exam"; an empty category addresses the global board.
func (k *CacheKeyStruct) LeaderboardKey(kind, category string) string {
	if category == "" {
		category = "all"
	}
	return fmt.Sprintf("leaderboard:%s:%s", kind, category)
}
