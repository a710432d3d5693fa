// Package listing produces display-ready views over bookings, halls and
// users: free-text search across derived fields and stable sorting with the
// comparators the audit tables rely on. Everything here is pure; callers may
// invoke it concurrently.
package listing

import (
	"math"
	"sort"
	"strings"
	"time"

	"github.com/campushall/hallbook-api/internal/models"
)

// SortKey identifies a sortable booking column.
type SortKey string

const (
	SortEventName SortKey = "eventName"
	SortHallName  SortKey = "bookedHallName"
	SortEventDate SortKey = "eventDate"
	SortTime      SortKey = "time"
	SortCreatedAt SortKey = "createdAt"
)

// ParseSortKey maps a query parameter onto a known sort key, defaulting to
// createdAt which is also the order prior to any user interaction.
func ParseSortKey(raw string) SortKey {
	switch SortKey(raw) {
	case SortEventName, SortHallName, SortEventDate, SortTime, SortCreatedAt:
		return SortKey(raw)
	}
	return SortCreatedAt
}

// Directive captures the current sort state of a table.
type Directive struct {
	Key        SortKey
	Descending bool
}

// DefaultDirective is the listing order before any user interaction.
func DefaultDirective() Directive {
	return Directive{Key: SortCreatedAt}
}

// Toggle returns the directive after the user selects key: re-selecting the
// current key flips direction, a new key starts ascending.
func (d Directive) Toggle(key SortKey) Directive {
	if d.Key == key {
		return Directive{Key: key, Descending: !d.Descending}
	}
	return Directive{Key: key}
}

// SearchBookings returns the bookings whose derived fields contain query,
// case-insensitively. An empty query matches everything. Relative order is
// preserved.
func SearchBookings(items []models.Booking, query string) []models.Booking {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		out := make([]models.Booking, len(items))
		copy(out, items)
		return out
	}

	var out []models.Booking
	for _, b := range items {
		if bookingMatches(b, query) {
			out = append(out, b)
		}
	}
	return out
}

func bookingMatches(b models.Booking, query string) bool {
	fields := []string{
		b.EventName,
		b.BookedHallName,
		b.OrganizingClub,
		b.EventManager,
		DateText(b),
		TimeText(b),
	}
	for _, f := range fields {
		if f != "" && strings.Contains(strings.ToLower(f), query) {
			return true
		}
	}
	return false
}

// SortBookings returns a sorted copy of items. The sort is stable: ties keep
// their original relative order.
func SortBookings(items []models.Booking, d Directive) []models.Booking {
	out := make([]models.Booking, len(items))
	copy(out, items)

	cmp := bookingComparator(d.Key)
	sort.SliceStable(out, func(i, j int) bool {
		if d.Descending {
			return cmp(out[j], out[i]) < 0
		}
		return cmp(out[i], out[j]) < 0
	})
	return out
}

func bookingComparator(key SortKey) func(a, b models.Booking) int {
	switch key {
	case SortEventName:
		return func(a, b models.Booking) int {
			return strings.Compare(strings.ToLower(a.EventName), strings.ToLower(b.EventName))
		}
	case SortHallName:
		return func(a, b models.Booking) int {
			return compareInts(hallNumber(a.BookedHallName), hallNumber(b.BookedHallName))
		}
	case SortEventDate:
		return func(a, b models.Booking) int {
			return compareTimes(eventSortDate(a), eventSortDate(b))
		}
	case SortTime:
		return func(a, b models.Booking) int {
			return compareTimes(startClock(a), startClock(b))
		}
	default:
		return func(a, b models.Booking) int {
			return compareTimes(a.CreatedAt, b.CreatedAt)
		}
	}
}

// hallNumber extracts the first embedded integer of a hall name ("Room 12"
// yields 12). Names without a digit sort as largest.
func hallNumber(name string) int {
	start := -1
	for i, r := range name {
		if r >= '0' && r <= '9' {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			return atoi(name[start:i])
		}
	}
	if start >= 0 {
		return atoi(name[start:])
	}
	return math.MaxInt
}

func atoi(digits string) int {
	n := 0
	for _, r := range digits {
		n = n*10 + int(r-'0')
		if n < 0 {
			return math.MaxInt
		}
	}
	return n
}

// eventSortDate picks the chronological anchor of a booking: its single date,
// or the start of a multi-day range.
func eventSortDate(b models.Booking) time.Time {
	if b.EventDate != nil {
		return *b.EventDate
	}
	if b.EventStartDate != nil {
		return *b.EventStartDate
	}
	return time.Time{}
}

// startClock anchors the time comparator. Bookings without a parseable
// startTime sort as earliest.
func startClock(b models.Booking) time.Time {
	if b.StartTime == "" {
		return time.Time{}
	}
	t, err := time.Parse(clockLayout, b.StartTime)
	if err != nil {
		return time.Time{}
	}
	return t
}

func compareInts(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func compareTimes(a, b time.Time) int {
	switch {
	case a.Before(b):
		return -1
	case a.After(b):
		return 1
	}
	return 0
}

// SearchHalls filters halls by name or location, case-insensitively.
func SearchHalls(items []models.Hall, query string) []models.Hall {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		out := make([]models.Hall, len(items))
		copy(out, items)
		return out
	}

	var out []models.Hall
	for _, h := range items {
		if strings.Contains(strings.ToLower(h.Name), query) ||
			strings.Contains(strings.ToLower(h.Location), query) {
			out = append(out, h)
		}
	}
	return out
}

// SortHallsByName orders halls by the first embedded integer of their name,
// digitless names last in ascending order. Stable.
func SortHallsByName(items []models.Hall, descending bool) []models.Hall {
	out := make([]models.Hall, len(items))
	copy(out, items)

	sort.SliceStable(out, func(i, j int) bool {
		a, b := hallNumber(out[i].Name), hallNumber(out[j].Name)
		if descending {
			return b < a
		}
		return a < b
	})
	return out
}

// rolePrecedence is the fixed ordering of the user-management view.
var rolePrecedence = map[models.UserRole]int{
	models.RoleFaculty: 1,
	models.RoleStaff:   2,
	models.RoleStudent: 3,
}

// SortUsersByRole orders users faculty first, then staff, then students,
// with unrecognised roles last. Not user-toggleable. Stable.
func SortUsersByRole(items []models.User) []models.User {
	out := make([]models.User, len(items))
	copy(out, items)

	sort.SliceStable(out, func(i, j int) bool {
		return roleRank(out[i].UserType) < roleRank(out[j].UserType)
	})
	return out
}

func roleRank(r models.UserRole) int {
	if rank, ok := rolePrecedence[r]; ok {
		return rank
	}
	return len(rolePrecedence) + 1
}
