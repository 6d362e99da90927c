package core

import (
	"errors"
	"strings"
	"time"
)

type (
	// Date is a calendar day. Time-of-day carries no meaning.
	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	// Expense is a single recorded spending event. ID is assigned at
	// creation and never changes; it is the sole key for update and delete.
	Expense struct {
		ID          string    `json:"id"`
		Amount      Money     `json:"amountCents"`
		Category    string    `json:"category"`
		Date        Date      `json:"date"`
		Description string    `json:"description"`
		CreatedAt   time.Time `json:"createdAt"`
	}

	// ExpenseForm carries caller-supplied data for creating an expense.
	// Amount is a decimal string as typed into the entry form.
	ExpenseForm struct {
		Amount      string `json:"amount"`
		Category    string `json:"category"`
		Date        string `json:"date"`
		Description string `json:"description"`
	}

	// ExpensePatch is a partial update. Nil fields are left untouched.
	ExpensePatch struct {
		Amount      *string `json:"amount"`
		Category    *string `json:"category"`
		Date        *string `json:"date"`
		Description *string `json:"description"`
	}
)

var (
	ErrInvalidAmount = errors.New("invalid amount")
	ErrInvalidDate   = errors.New("invalid date")
	ErrEmptyCategory = errors.New("empty category")
)

const dateLayout = "2006-01-02"

// ParseDate parses a calendar date in YYYY-MM-DD form.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

func (d Date) String() string {
	return d.Format(dateLayout)
}

// MonthKey returns the year-month bucket ("YYYY-MM") the date falls into.
// The encoding is fixed-width and zero-padded, so lexicographic order on
// keys is calendar order.
func (d Date) MonthKey() string {
	return d.Format("2006-01")
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (m Money) Validate() error {
	if m.Cents < 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (e Expense) Validate() error {
	if err := e.Date.Validate(); err != nil {
		return err
	}
	if err := e.Amount.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(e.Category) == "" {
		return ErrEmptyCategory
	}
	return nil
}

// Build constructs an Expense from the form. ID and CreatedAt are left
// empty; the Store assigns them. Invalid input never produces a partial
// expense.
func (f ExpenseForm) Build() (Expense, error) {
	cents, err := ParseDecimalToCents(f.Amount)
	if err != nil {
		return Expense{}, err
	}
	date, err := ParseDate(strings.TrimSpace(f.Date))
	if err != nil {
		return Expense{}, err
	}
	category := strings.TrimSpace(f.Category)
	if category == "" {
		return Expense{}, ErrEmptyCategory
	}
	return Expense{
		Amount:      Money{Cents: cents},
		Category:    category,
		Date:        date,
		Description: strings.TrimSpace(f.Description),
	}, nil
}
