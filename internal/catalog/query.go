package catalog

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

var objectIDPattern = regexp.MustCompile(`^[0-9a-fA-F]{24}$`)

// Mode selects how a Query resolves records.
type Mode int

const (
	ModeAll Mode = iota
	ModeByID
	ModeBySlug
	ModeBySearch
)

func (m Mode) String() string {
	switch m {
	case ModeByID:
		return "id"
	case ModeBySlug:
		return "slug"
	case ModeBySearch:
		return "search"
	default:
		return "all"
	}
}

// Params are the raw lookup parameters of a request.
type Params struct {
	ID     string
	Search string
	Page   string
	Limit  string
}

// Query is a store-agnostic lookup. Backends translate it into their own
// filter language.
type Query struct {
	Mode          Mode
	ObjectID      primitive.ObjectID
	Slug          string
	Search        string
	PublishedOnly bool
	Page          int
	Limit         int
}

// BuildQuery resolves the lookup mode from request parameters. An id wins
// over a search term; a 24 character hex id addresses the store id, any
// other id the slug field. Public id lookups only see published records.
func BuildQuery(p Params, public bool) Query {
	q := Query{
		Page:  parsePositive(p.Page, DefaultPage),
		Limit: parsePositive(p.Limit, DefaultLimit),
	}
	if q.Limit > MaxLimit {
		q.Limit = MaxLimit
	}

	id := strings.TrimSpace(p.ID)
	search := strings.TrimSpace(p.Search)
	switch {
	case id != "":
		if objectIDPattern.MatchString(id) {
			oid, err := primitive.ObjectIDFromHex(id)
			if err == nil {
				q.Mode = ModeByID
				q.ObjectID = oid
			}
		}
		if q.Mode != ModeByID {
			q.Mode = ModeBySlug
			q.Slug = id
		}
		q.PublishedOnly = public
	case search != "":
		q.Mode = ModeBySearch
		q.Search = search
	}
	return q
}

// ByObjectID addresses a single record by store id with no status filter.
func ByObjectID(id primitive.ObjectID) Query {
	return Query{Mode: ModeByID, ObjectID: id, Page: DefaultPage, Limit: DefaultLimit}
}

// Single reports whether the query targets one record.
func (q Query) Single() bool {
	return q.Mode == ModeByID || q.Mode == ModeBySlug
}

// Skip is the number of records before the requested page.
func (q Query) Skip() int {
	if q.Page < 1 {
		return 0
	}
	return (q.Page - 1) * q.Limit
}

// Key identifies a single-record lookup, used as a cache key suffix.
func (q Query) Key() string {
	scope := "all"
	if q.PublishedOnly {
		scope = "published"
	}
	switch q.Mode {
	case ModeByID:
		return fmt.Sprintf("id:%s:%s", q.ObjectID.Hex(), scope)
	case ModeBySlug:
		return fmt.Sprintf("slug:%s:%s", q.Slug, scope)
	default:
		return fmt.Sprintf("%s:%s:p%d:l%d:%s", q.Mode, q.Search, q.Page, q.Limit, scope)
	}
}

// Pages is ceil(total / limit).
func Pages(total int64, limit int) int {
	if limit <= 0 || total <= 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}

func parsePositive(raw string, fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 {
		return fallback
	}
	return n
}
