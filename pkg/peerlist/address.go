package peerlist

import (
	"errors"
	"strings"
)

var (
	// ErrEmptyAddress is returned when an address is empty after normalization.
	ErrEmptyAddress = errors.New("peer address is empty")

	// ErrInvalidAddress is returned for addresses the line based list cannot hold.
	ErrInvalidAddress = errors.New("peer address contains a line break")
)

// paramSeparator starts the transport metadata some callers append to an
// address, e.g. "10.0.0.1;transport=udp".
const paramSeparator = ";"

// Normalize truncates raw at the first ';'. No case folding or whitespace
// trimming is applied. Addresses containing '\n' or '\r' are rejected.
func Normalize(raw string) (string, error) {
	addr, _, _ := strings.Cut(raw, paramSeparator)
	if addr == "" {
		return "", ErrEmptyAddress
	}
	if strings.ContainsAny(addr, "\r\n") {
		return "", ErrInvalidAddress
	}
	return addr, nil
}
