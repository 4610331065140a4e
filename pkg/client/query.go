package client

import (
	"net/url"
	"sort"
	"strconv"
	"strings"
)

// Filter is the raw state of the search form.
type Filter struct {
	Search   string
	Location string
	Type     string
	Skills   []string
	Page     int
}

// Query is a Filter in canonical form. Build it with Canonical.
type Query struct {
	Search   string
	Location string
	Type     string
	Skills   []string
	Page     int
}

// TypeAll is the form's "any type" choice; it is never sent.
const TypeAll = "all"

// JobsKeyPrefix starts every job list cache key.
const JobsKeyPrefix = "jobs?"

func Canonical(f Filter) Query {
	q := Query{
		Search:   strings.TrimSpace(f.Search),
		Location: strings.TrimSpace(f.Location),
		Type:     strings.TrimSpace(f.Type),
		Page:     f.Page,
	}
	if strings.EqualFold(q.Type, TypeAll) {
		q.Type = ""
	}
	if q.Page < 1 {
		q.Page = 1
	}

	seen := make(map[string]struct{}, len(f.Skills))
	for _, s := range f.Skills {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		q.Skills = append(q.Skills, s)
	}
	sort.Strings(q.Skills)
	return q
}

// Values omits every empty field; page is always present.
func (q Query) Values() url.Values {
	v := url.Values{}
	v.Set("page", strconv.Itoa(q.Page))
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	if q.Location != "" {
		v.Set("location", q.Location)
	}
	if q.Type != "" {
		v.Set("type", q.Type)
	}
	if len(q.Skills) > 0 {
		v.Set("skills", strings.Join(q.Skills, ","))
	}
	return v
}

// Key is stable for equal canonical queries.
func (q Query) Key() string {
	return JobsKeyPrefix + q.Values().Encode()
}

// Builder tracks search form state. Any filter change sends the user back to page 1.
type Builder struct {
	f Filter
}

func NewBuilder() *Builder {
	return &Builder{f: Filter{Page: 1}}
}

func (b *Builder) SetSearch(s string) *Builder {
	if s != b.f.Search {
		b.f.Search = s
		b.f.Page = 1
	}
	return b
}

func (b *Builder) SetLocation(s string) *Builder {
	if s != b.f.Location {
		b.f.Location = s
		b.f.Page = 1
	}
	return b
}

func (b *Builder) SetType(s string) *Builder {
	if s != b.f.Type {
		b.f.Type = s
		b.f.Page = 1
	}
	return b
}

func (b *Builder) SetSkills(skills []string) *Builder {
	if !equalStrings(skills, b.f.Skills) {
		b.f.Skills = append([]string(nil), skills...)
		b.f.Page = 1
	}
	return b
}

func (b *Builder) SetPage(p int) *Builder {
	if p < 1 {
		p = 1
	}
	b.f.Page = p
	return b
}

func (b *Builder) Filter() Filter {
	f := b.f
	f.Skills = append([]string(nil), b.f.Skills...)
	return f
}

func (b *Builder) Query() Query {
	return Canonical(b.f)
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
