package domain

import (
	"fmt"
	"strings"
)

type Priority string

const (
	PriorityNone   Priority = "none"
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// ValidPriorities is the canonical set of accepted priority strings.
var ValidPriorities = map[string]bool{
	"none": true, "low": true, "medium": true, "high": true,
}

// ParsePriority converts a user-supplied string into a Priority. Matching is
// case-insensitive; the empty string maps to PriorityNone.
func ParsePriority(s string) (Priority, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	if v == "" {
		return PriorityNone, nil
	}
	if !ValidPriorities[v] {
		return "", fmt.Errorf("invalid priority %q (expected none, low, medium or high)", s)
	}
	return Priority(v), nil
}

// ItemKind discriminates what a reorder moves.
type ItemKind string

const (
	KindColumn ItemKind = "COLUMN"
	KindTask   ItemKind = "TASK"
)

// Origin records where a board change came from. Only locally originated
// changes are broadcast to the peer.
type Origin int

const (
	OriginLocal Origin = iota
	OriginRemote
)

func (o Origin) String() string {
	switch o {
	case OriginLocal:
		return "local"
	case OriginRemote:
		return "remote"
	default:
		return "unknown"
	}
}
