package query

import (
	"fmt"
	"net/url"
	"strconv"
)

// DefaultLimit is the page size applied when the caller does not send one.
const DefaultLimit = 100

// UnlimitedSentinel is the literal limit value that disables pagination.
const UnlimitedSentinel = "null"

// Limit is a page size, or the unlimited sentinel which bypasses pagination
// entirely.
type Limit struct {
	N         int
	Unlimited bool
}

// DefaultPageLimit returns the default page size.
func DefaultPageLimit() Limit {
	return Limit{N: DefaultLimit}
}

// Options carries one request's parsed list parameters. Filter and Order are
// nil when absent.
type Options struct {
	Filter Filter
	Order  Order
	Limit  Limit
	Offset int
	Page   int
}

// ParseOptions decodes list options from a request query string: filter and
// order are JSON-encoded clauses, limit is an integer or the literal "null",
// offset and page are integers.
func ParseOptions(values url.Values) (Options, error) {
	opts := Options{Limit: DefaultPageLimit()}

	if raw := values.Get("filter"); raw != "" {
		filter, err := ParseFilter([]byte(raw))
		if err != nil {
			return Options{}, err
		}
		opts.Filter = filter
	}

	if raw := values.Get("order"); raw != "" {
		order, err := ParseOrder([]byte(raw))
		if err != nil {
			return Options{}, err
		}
		opts.Order = order
	}

	if raw := values.Get("limit"); raw != "" {
		if raw == UnlimitedSentinel {
			opts.Limit = Limit{Unlimited: true}
		} else {
			n, err := strconv.Atoi(raw)
			if err != nil || n <= 0 {
				return Options{}, fmt.Errorf("limit must be a positive integer or %q", UnlimitedSentinel)
			}
			opts.Limit = Limit{N: n}
		}
	}

	if raw := values.Get("offset"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return Options{}, fmt.Errorf("offset must be a non-negative integer")
		}
		opts.Offset = n
	}

	if raw := values.Get("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return Options{}, fmt.Errorf("page must be a non-negative integer")
		}
		opts.Page = n
	}

	return opts, nil
}

// RowOffset computes the row offset for a page request. Explicit offset wins
// over page; the unlimited sentinel always yields offset 0.
func RowOffset(limit Limit, offset, page int) int {
	if limit.Unlimited {
		return 0
	}
	if offset > 0 {
		return offset
	}
	if page > 0 {
		return (page - 1) * limit.N
	}
	return 0
}

// PageMeta is the derived pagination envelope returned beside list data.
type PageMeta struct {
	PageTotal   int   `json:"pageTotal"`
	CurrentPage int   `json:"currentPage"`
	ItemTotal   int64 `json:"itemTotal"`
}

// NewPageMeta derives pagination metadata from a total row count. A requested
// page past the last page is clamped down to it rather than failing; the
// unlimited sentinel always reports a single page.
func NewPageMeta(total int64, limit Limit, offset, page int) PageMeta {
	if limit.Unlimited {
		return PageMeta{PageTotal: 1, CurrentPage: 1, ItemTotal: total}
	}

	pageTotal := int((total + int64(limit.N) - 1) / int64(limit.N))

	currentPage := page
	if currentPage == 0 {
		currentPage = offset/limit.N + 1
	}
	if currentPage > pageTotal {
		currentPage = pageTotal
	}

	return PageMeta{PageTotal: pageTotal, CurrentPage: currentPage, ItemTotal: total}
}
