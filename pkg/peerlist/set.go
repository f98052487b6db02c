package peerlist

import (
	"bytes"
	"strings"
)

// Set is an insertion-ordered set of normalized peer addresses.
// The zero value is not usable, use NewSet.
type Set struct {
	order   []string
	members map[string]struct{}
}

// NewSet returns a set holding addrs. Duplicates keep their first position.
func NewSet(addrs ...string) *Set {
	s := &Set{members: make(map[string]struct{}, len(addrs))}
	for _, a := range addrs {
		s.Add(a)
	}
	return s
}

// Add inserts addr and reports whether it was absent.
func (s *Set) Add(addr string) bool {
	if _, ok := s.members[addr]; ok {
		return false
	}
	s.members[addr] = struct{}{}
	s.order = append(s.order, addr)
	return true
}

// Remove deletes addr and reports whether it was present.
func (s *Set) Remove(addr string) bool {
	if _, ok := s.members[addr]; !ok {
		return false
	}
	delete(s.members, addr)
	kept := s.order[:0]
	for _, a := range s.order {
		if a != addr {
			kept = append(kept, a)
		}
	}
	s.order = kept
	return true
}

// Clear drops every member.
func (s *Set) Clear() {
	s.order = nil
	clear(s.members)
}

// Has reports membership of addr.
func (s *Set) Has(addr string) bool {
	_, ok := s.members[addr]
	return ok
}

// Len returns the number of members.
func (s *Set) Len() int {
	return len(s.order)
}

// Addresses returns a copy of the members in insertion order.
func (s *Set) Addresses() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// ParseSet parses a newline separated peer list. Lines have no length
// limit, a trailing '\r' is dropped, blank lines are skipped and repeated
// lines collapse into a single member.
func ParseSet(data []byte) *Set {
	s := NewSet()
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSuffix(line, "\r")
		if line == "" {
			continue
		}
		s.Add(line)
	}
	return s
}

// MarshalText encodes the set as newline terminated lines.
func (s *Set) MarshalText() ([]byte, error) {
	var buf bytes.Buffer
	for _, a := range s.order {
		buf.WriteString(a)
		buf.WriteByte('\n')
	}
	return buf.Bytes(), nil
}
