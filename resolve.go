package cardprices

import (
	"fmt"

	"github.com/etnz/cardprices/date"
)

// DuplicatePolicy tells the resolver what to do when the matrix already has a column for the
// snapshot's day.
type DuplicatePolicy int

const (
	// Reject fails the merge with ErrDuplicateDate.
	Reject DuplicatePolicy = iota
	// Reuse merges into the existing column, filling only its absent cells.
	Reuse
	// AllowDuplicate creates another column for the same day.
	AllowDuplicate
)

var policyNames = map[DuplicatePolicy]string{
	Reject:         "reject",
	Reuse:          "reuse",
	AllowDuplicate: "allow-duplicate",
}

func (p DuplicatePolicy) String() string {
	if name, ok := policyNames[p]; ok {
		return name
	}
	return fmt.Sprintf("DuplicatePolicy(%d)", int(p))
}

// ParseDuplicatePolicy reads a policy name.
func ParseDuplicatePolicy(s string) (DuplicatePolicy, error) {
	for p, name := range policyNames {
		if name == s {
			return p, nil
		}
	}
	return Reject, fmt.Errorf("unknown duplicate policy %q, want one of reject, reuse, allow-duplicate", s)
}

// Set implements flag.Value.
func (p *DuplicatePolicy) Set(s string) (err error) {
	*p, err = ParseDuplicatePolicy(s)
	return err
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *DuplicatePolicy) UnmarshalText(text []byte) error { return p.Set(string(text)) }

// Placement tells how the resolved column was found.
type Placement int

const (
	Append     Placement = iota // a new column after the last one
	ReuseBlank                  // an unlabeled column with no value
	ReuseDate                   // the existing column of the same day
)

func (p Placement) String() string {
	switch p {
	case ReuseBlank:
		return "reuse-blank"
	case ReuseDate:
		return "reuse-date"
	default:
		return "append"
	}
}

// Resolution is the column a snapshot is merged into.
type Resolution struct {
	Column    int
	Header    Header
	Placement Placement
}

// Resolver finds the column of a new snapshot.
type Resolver struct {
	Policy DuplicatePolicy
}

// Resolve returns the column that holds, or will hold, the prices observed on day.
//
// The matrix is not modified.
func (r Resolver) Resolve(m *Matrix, day date.Date) (Resolution, error) {
	if day.IsZero() {
		return Resolution{}, fmt.Errorf("%w: no date to resolve", ErrColumnResolution)
	}
	if m.Header(NameColumn).Kind != HeaderName || m.Header(QuantityColumn).Kind != HeaderQuantity {
		return Resolution{}, fmt.Errorf("%w: the first two headers must be the name and quantity columns, got %q and %q",
			ErrColumnResolution, m.Header(NameColumn).Label, m.Header(QuantityColumn).Label)
	}
	h := DateHeader(day)

	if r.Policy != AllowDuplicate {
		for col := FirstDateColumn; col <= m.NumColumns(); col++ {
			existing := m.Header(col)
			if existing.Kind != HeaderDate || existing.Day != day {
				continue
			}
			if r.Policy == Reject {
				return Resolution{}, fmt.Errorf("%w: column %d %q", ErrDuplicateDate, col, existing.Label)
			}
			return Resolution{Column: col, Header: existing, Placement: ReuseDate}, nil
		}
	}

	for col := FirstDateColumn; col <= m.NumColumns(); col++ {
		if m.Header(col).Kind == HeaderBlank && m.ColumnIsEmpty(col) {
			return Resolution{Column: col, Header: h, Placement: ReuseBlank}, nil
		}
	}

	return Resolution{Column: m.NumColumns() + 1, Header: h, Placement: Append}, nil
}
