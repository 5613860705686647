package view

import (
	"fmt"
	"math"
	"slices"
	"sort"
	"strings"

	"bookingtracker/internal"
	"bookingtracker/internal/failure"
	"bookingtracker/internal/util"
)

type Tab string

const (
	TabAll       Tab = "all"
	TabPaid      Tab = "paid"
	TabUnpaid    Tab = "unpaid"
	TabUpcoming  Tab = "upcoming"
	TabCompleted Tab = "completed"
	TabCancelled Tab = "cancelled"
)

var Tabs = []Tab{TabAll, TabPaid, TabUnpaid, TabUpcoming, TabCompleted, TabCancelled}

type SortField string

const (
	SortCheckIn          SortField = "checkInDate"
	SortCheckOut         SortField = "checkOutDate"
	SortClientAndRoom    SortField = "clientAndRoom"
	SortTotalAmount      SortField = "totalAmount"
	SortRemainingBalance SortField = "remainingBalance"
	SortStatus           SortField = "status"
)

var SortFields = []SortField{SortCheckIn, SortCheckOut, SortClientAndRoom, SortTotalAmount, SortRemainingBalance, SortStatus}

type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

var Directions = []Direction{Asc, Desc}

// Query is the full set of list controls. Zero values mean "no filter",
// check-in ascending, page 1. From and To are inclusive YYYY-MM-DD bounds.
type Query struct {
	Tab       Tab
	Search    string
	From      string
	To        string
	Status    internal.BookingStatus
	RoomType  string
	SortField SortField
	Direction Direction
	Page      int
	PageSize  int
}

// Validate rejects list controls Apply would otherwise silently ignore.
// Empty values are always accepted.
func (q Query) Validate() error {
	if q.Tab != "" && !slices.Contains(Tabs, q.Tab) {
		return unknown("tab", q.Tab, Tabs)
	}
	if q.SortField != "" && !slices.Contains(SortFields, q.SortField) {
		return unknown("sort field", q.SortField, SortFields)
	}
	if q.Direction != "" && !slices.Contains(Directions, q.Direction) {
		return unknown("direction", q.Direction, Directions)
	}
	if q.Status != "" && !q.Status.Valid() {
		return unknown("status", q.Status, internal.BookingStatuses)
	}
	for name, v := range map[string]string{"from": q.From, "to": q.To} {
		if v != "" && !util.IsCanonicalDate(v) {
			return failure.Validation(fmt.Sprintf("%s date must be YYYY-MM-DD, got %q", name, v))
		}
	}
	return nil
}

func unknown[T ~string](what string, got T, known []T) error {
	names := make([]string, len(known))
	for i, k := range known {
		names[i] = string(k)
	}
	return failure.Validation(fmt.Sprintf("unknown %s %q, expected one of %s", what, got, strings.Join(names, "|")))
}

type Result struct {
	Items      []internal.Booking
	TotalCount int
	TotalPages int
}

// Apply filters, sorts and pages records. It never mutates records. Pages
// are 1-based and are not clamped: a page past the end comes back empty.
// A non-positive PageSize returns every match on a single page.
func Apply(records []internal.Booking, q Query, today string) Result {
	matched := Filter(records, q, today)
	Sort(matched, q.SortField, q.Direction)

	res := Result{TotalCount: len(matched)}
	if q.PageSize <= 0 {
		res.Items = matched
		if len(matched) > 0 {
			res.TotalPages = 1
		}
		return res
	}

	res.TotalPages = int(math.Ceil(float64(len(matched)) / float64(q.PageSize)))
	page := q.Page
	if page == 0 {
		page = 1
	}
	start := (page - 1) * q.PageSize
	end := start + q.PageSize
	if start < 0 || start >= len(matched) {
		res.Items = []internal.Booking{}
		return res
	}
	if end > len(matched) {
		end = len(matched)
	}
	res.Items = matched[start:end]
	return res
}

// Filter applies tab, search, date range, status and room type in that order
// and returns a new slice.
func Filter(records []internal.Booking, q Query, today string) []internal.Booking {
	search := strings.TrimSpace(q.Search)
	out := make([]internal.Booking, 0, len(records))
	for _, b := range records {
		if !matchesTab(b, q.Tab, today) {
			continue
		}
		if search != "" && !matchesSearch(b, search) {
			continue
		}
		if q.From != "" && b.CheckInDate < q.From {
			continue
		}
		if q.To != "" && b.CheckInDate > q.To {
			continue
		}
		if q.Status != "" && b.Status != q.Status {
			continue
		}
		if q.RoomType != "" && b.RoomType != q.RoomType {
			continue
		}
		out = append(out, b)
	}
	return out
}

func matchesTab(b internal.Booking, tab Tab, today string) bool {
	switch tab {
	case TabPaid:
		return b.IsPaid
	case TabUnpaid:
		return !b.IsPaid
	case TabUpcoming:
		return isUpcoming(b, today)
	case TabCompleted:
		return b.Status == internal.StatusCompleted
	case TabCancelled:
		return b.Status == internal.StatusCancelled
	default:
		return true
	}
}

func matchesSearch(b internal.Booking, search string) bool {
	return util.ContainsFold(b.ClientAndRoom, search) ||
		util.ContainsFold(b.RoomType, search) ||
		util.ContainsFold(b.Notes, search)
}

func isUpcoming(b internal.Booking, today string) bool {
	return b.CheckInDate >= today && b.Status != internal.StatusCancelled && b.Status != internal.StatusCompleted
}

// Sort orders records in place, stably. Unknown fields sort by check-in date.
func Sort(records []internal.Booking, field SortField, dir Direction) {
	cmp := comparator(field)
	sort.SliceStable(records, func(i, j int) bool {
		c := cmp(records[i], records[j])
		if dir == Desc {
			return c > 0
		}
		return c < 0
	})
}

func comparator(field SortField) func(a, b internal.Booking) int {
	switch field {
	case SortCheckOut:
		return func(a, b internal.Booking) int { return strings.Compare(a.CheckOutDate, b.CheckOutDate) }
	case SortClientAndRoom:
		return func(a, b internal.Booking) int { return strings.Compare(a.ClientAndRoom, b.ClientAndRoom) }
	case SortTotalAmount:
		return func(a, b internal.Booking) int { return compareFloat(a.TotalAmount, b.TotalAmount) }
	case SortRemainingBalance:
		return func(a, b internal.Booking) int { return compareFloat(a.RemainingBalance, b.RemainingBalance) }
	case SortStatus:
		return func(a, b internal.Booking) int { return strings.Compare(string(a.Status), string(b.Status)) }
	default:
		return func(a, b internal.Booking) int { return strings.Compare(a.CheckInDate, b.CheckInDate) }
	}
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// RoomTypes lists distinct non-empty room types in first-seen order.
func RoomTypes(records []internal.Booking) []string {
	seen := map[string]struct{}{}
	out := []string{}
	for _, b := range records {
		if b.RoomType == "" {
			continue
		}
		if _, ok := seen[b.RoomType]; ok {
			continue
		}
		seen[b.RoomType] = struct{}{}
		out = append(out, b.RoomType)
	}
	return out
}
