package domain

import "time"

// StrFromPtrWithDefault returns the first non-nil *string value, or the fallback.
func StrFromPtrWithDefault(fallback string, ptrs ...*string) string {
	for _, p := range ptrs {
		if p != nil {
			return *p
		}
	}
	return fallback
}

// PriorityFromPtrWithDefault returns the first non-nil *Priority value, or the fallback.
func PriorityFromPtrWithDefault(fallback Priority, ptrs ...*Priority) Priority {
	for _, p := range ptrs {
		if p != nil {
			return *p
		}
	}
	return fallback
}

// cloneTime returns a copy of t so that boards never share date pointers.
func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}
