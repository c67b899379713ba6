package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// DefaultKeyPrefix namespaces every key written by the service.
const DefaultKeyPrefix = "ovp:"

// Keyspace derives search-index and cache key names from a shared prefix.
type Keyspace struct {
	prefix string
}

// NewKeyspace creates a Keyspace. An empty prefix falls back to DefaultKeyPrefix.
func NewKeyspace(prefix string) Keyspace {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return Keyspace{prefix: prefix}
}

// Prefix returns the raw namespace prefix.
func (k Keyspace) Prefix() string { return k.prefix }

// DocumentPrefix is the key prefix covered by the kind's search index.
// "ovp:" + project -> "ovp:project:"
func (k Keyspace) DocumentPrefix(kind Kind) string {
	return k.prefix + string(kind) + ":"
}

// DocumentKey is the HASH key holding one search document.
func (k Keyspace) DocumentKey(kind Kind, id int64) string {
	return k.DocumentPrefix(kind) + strconv.FormatInt(id, 10)
}

// IndexName is the FT index name for a kind.
func (k Keyspace) IndexName(kind Kind) string {
	return k.prefix + string(kind) + ":idx"
}

// CacheKey namespaces a result-cache entry.
func (k Keyspace) CacheKey(name string) string {
	return k.prefix + "cache:" + name
}

// ParseDocumentKey extracts the entity id from a document key.
func (k Keyspace) ParseDocumentKey(kind Kind, key string) (int64, error) {
	prefix := k.DocumentPrefix(kind)
	if !strings.HasPrefix(key, prefix) {
		return 0, fmt.Errorf("key %q outside %s", key, prefix)
	}
	id, err := strconv.ParseInt(key[len(prefix):], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("key %q: %w", key, err)
	}
	return id, nil
}
