// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package keyword normalizes and one-way hashes keywords so that only
// comparable digests, never raw keyword text, leave the caller.
package keyword

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Normalize lowercases and trims k.
func Normalize(k string) string {
	return strings.ToLower(strings.TrimSpace(k))
}

// Hash returns the hex SHA-256 digest of the normalized keyword.
func Hash(k string) string {
	sum := sha256.Sum256([]byte(Normalize(k)))
	return hex.EncodeToString(sum[:])
}

// HashAll hashes every keyword and drops duplicate digests, keeping the
// first occurrence's position.
func HashAll(keywords []string) []string {
	seen := make(map[string]struct{}, len(keywords))
	hashes := make([]string, 0, len(keywords))
	for _, k := range keywords {
		h := Hash(k)
		if _, dup := seen[h]; dup {
			continue
		}
		seen[h] = struct{}{}
		hashes = append(hashes, h)
	}
	return hashes
}

// Set is a set of keyword hashes.
type Set map[string]struct{}

// NewSet builds a Set from hashes.
func NewSet(hashes []string) Set {
	s := make(Set, len(hashes))
	for _, h := range hashes {
		s[h] = struct{}{}
	}
	return s
}

// Intersect returns the hashes of other that are also in s, in other's order.
func (s Set) Intersect(other []string) []string {
	var out []string
	for _, h := range other {
		if _, ok := s[h]; ok {
			out = append(out, h)
		}
	}
	return out
}
