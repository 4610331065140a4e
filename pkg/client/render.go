package client

import (
	"fmt"
	"strings"
)

const (
	PagerWindow      = 5
	DescriptionLimit = 200
	MaxSkillBadges   = 5
	ellipsis         = "..."
)

// PageWindow returns up to size consecutive page numbers around current, within [1, totalPages].
func PageWindow(current, totalPages, size int) []int {
	if totalPages < 1 || size < 1 {
		return []int{}
	}
	if current < 1 {
		current = 1
	}
	if current > totalPages {
		current = totalPages
	}
	if size > totalPages {
		size = totalPages
	}

	start := current - size/2
	if start < 1 {
		start = 1
	}
	if start+size-1 > totalPages {
		start = totalPages - size + 1
	}

	pages := make([]int, size)
	for i := range pages {
		pages[i] = start + i
	}
	return pages
}

type Pager struct {
	Current      int
	Pages        []int
	PrevDisabled bool
	NextDisabled bool
}

func NewPager(p Pagination) Pager {
	return Pager{
		Current:      p.Page,
		Pages:        PageWindow(p.Page, p.TotalPages, PagerWindow),
		PrevDisabled: p.Page <= 1,
		NextDisabled: p.Page >= p.TotalPages,
	}
}

// Truncate cuts s to limit runes and appends "..." when anything was removed.
func Truncate(s string, limit int) string {
	r := []rune(s)
	if len(r) <= limit {
		return s
	}
	return string(r[:limit]) + ellipsis
}

// SkillBadges returns the first max skills plus a "+N more" badge for the rest.
func SkillBadges(skills []string, max int) []string {
	if len(skills) <= max {
		return append([]string{}, skills...)
	}
	out := append([]string{}, skills[:max]...)
	return append(out, fmt.Sprintf("+%d more", len(skills)-max))
}

type JobCard struct {
	ID          int64
	Title       string
	Location    string
	Type        string
	Description string
	Badges      []string
}

type ListView struct {
	Cards []JobCard
	Pager Pager
	Total int
	Empty bool
}

func NewListView(p Page) ListView {
	cards := make([]JobCard, len(p.Jobs))
	for i, j := range p.Jobs {
		cards[i] = JobCard{
			ID:          j.ID,
			Title:       j.Title,
			Location:    j.Location,
			Type:        j.Type,
			Description: Truncate(j.Description, DescriptionLimit),
			Badges:      SkillBadges(j.Skills, MaxSkillBadges),
		}
	}
	return ListView{
		Cards: cards,
		Pager: NewPager(p.Pagination),
		Total: p.Pagination.Total,
		Empty: len(cards) == 0,
	}
}

type DetailView struct {
	Job    Job
	Skills []string
}

// NewDetailView keeps the full description and every skill.
func NewDetailView(j Job) DetailView {
	return DetailView{Job: j, Skills: append([]string{}, j.Skills...)}
}

// Text renders the list as plain text, one card per block.
func (v ListView) Text() string {
	if v.Empty {
		return "No jobs found.\n"
	}
	var b strings.Builder
	for _, c := range v.Cards {
		fmt.Fprintf(&b, "#%d %s (%s, %s)\n  %s\n", c.ID, c.Title, c.Location, c.Type, c.Description)
		if len(c.Badges) > 0 {
			fmt.Fprintf(&b, "  [%s]\n", strings.Join(c.Badges, "] ["))
		}
	}
	fmt.Fprintf(&b, "%s\n", v.Pager.Text())
	return b.String()
}

func (v DetailView) Text() string {
	var b strings.Builder
	j := v.Job
	fmt.Fprintf(&b, "#%d %s\n%s | %s\n", j.ID, j.Title, j.Location, j.Type)
	if j.Deadline != nil {
		fmt.Fprintf(&b, "Apply by %s\n", j.Deadline.Format("2006-01-02"))
	}
	if len(v.Skills) > 0 {
		fmt.Fprintf(&b, "Skills: %s\n", strings.Join(v.Skills, ", "))
	}
	fmt.Fprintf(&b, "\n%s\n", j.Description)
	return b.String()
}

func (p Pager) Text() string {
	var b strings.Builder
	if p.PrevDisabled {
		b.WriteString("(prev)")
	} else {
		b.WriteString("<prev")
	}
	for _, n := range p.Pages {
		if n == p.Current {
			fmt.Fprintf(&b, " [%d]", n)
		} else {
			fmt.Fprintf(&b, " %d", n)
		}
	}
	if p.NextDisabled {
		b.WriteString(" (next)")
	} else {
		b.WriteString(" next>")
	}
	return b.String()
}
