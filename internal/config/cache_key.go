package config

import "fmt"

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// MarkSheetKey returns the cache key for a student's mark sheet in an exam.
func (r *CacheKeyStruct) MarkSheetKey(examID string, studentID int) string {
	return fmt.Sprintf("student:%d:exam:%s:marksheet", studentID, examID)
}

// RevokedTokenKey returns the denylist key for a logged-out JWT.
func (r *CacheKeyStruct) RevokedTokenKey(jti string) string {
	return fmt.Sprintf("auth:revoked:%s", jti)
}

// MarksEventsChannel is the Redis PubSub channel carrying mark submissions.
func (r *CacheKeyStruct) MarksEventsChannel() string {
	return "marks:events"
}

var CacheKey = NewCacheKeyStruct()
