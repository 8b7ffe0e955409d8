package cli

import (
	"fmt"
	"time"

	"github.com/alexanderramin/boardsync/internal/domain"
	"github.com/spf13/pflag"
)

// priorityValue is a pflag.Value accepting none, low, medium or high.
type priorityValue struct {
	p domain.Priority
}

var _ pflag.Value = (*priorityValue)(nil)

func newPriorityValue(def domain.Priority) *priorityValue {
	return &priorityValue{p: def}
}

func (v *priorityValue) String() string { return string(v.p) }

func (v *priorityValue) Set(s string) error {
	p, err := domain.ParsePriority(s)
	if err != nil {
		return err
	}
	v.p = p
	return nil
}

func (v *priorityValue) Type() string { return "priority" }

const dateLayout = "2006-01-02"

// parseDateFlag parses a YYYY-MM-DD flag value. An empty value clears the date.
func parseDateFlag(name, value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	d, err := time.Parse(dateLayout, value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s date %q (expected YYYY-MM-DD)", name, value)
	}
	return &d, nil
}
