package client

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPageWindow(t *testing.T) {
	assert.Equal(t, []int{5, 6, 7, 8, 9}, PageWindow(7, 12, 5))
	assert.Equal(t, []int{1, 2, 3, 4, 5}, PageWindow(1, 12, 5))
	assert.Equal(t, []int{1, 2, 3, 4, 5}, PageWindow(2, 12, 5))
	assert.Equal(t, []int{8, 9, 10, 11, 12}, PageWindow(12, 12, 5))
	assert.Equal(t, []int{1, 2, 3}, PageWindow(2, 3, 5))
	assert.Equal(t, []int{}, PageWindow(1, 0, 5))
	assert.Equal(t, []int{8, 9, 10, 11, 12}, PageWindow(40, 12, 5), "out of range pages are clamped")
}

func TestPagerFlags(t *testing.T) {
	first := NewPager(Pagination{Page: 1, TotalPages: 12})
	assert.True(t, first.PrevDisabled)
	assert.False(t, first.NextDisabled)

	last := NewPager(Pagination{Page: 12, TotalPages: 12})
	assert.False(t, last.PrevDisabled)
	assert.True(t, last.NextDisabled)

	middle := NewPager(Pagination{Page: 7, TotalPages: 12})
	assert.False(t, middle.PrevDisabled)
	assert.False(t, middle.NextDisabled)
	assert.Equal(t, []int{5, 6, 7, 8, 9}, middle.Pages)
	assert.Equal(t, "<prev 5 6 [7] 8 9 next>", middle.Text())

	only := NewPager(Pagination{Page: 1, TotalPages: 1})
	assert.True(t, only.PrevDisabled)
	assert.True(t, only.NextDisabled)
}

func TestTruncate(t *testing.T) {
	long := strings.Repeat("a", 350)
	out := Truncate(long, DescriptionLimit)
	assert.Equal(t, strings.Repeat("a", 200)+"...", out)
	assert.Equal(t, "short", Truncate("short", DescriptionLimit))
	assert.Equal(t, strings.Repeat("é", 200)+"...", Truncate(strings.Repeat("é", 201), 200))
}

func TestSkillBadges(t *testing.T) {
	skills := []string{"a", "b", "c", "d", "e", "f", "g"}
	assert.Equal(t, []string{"a", "b", "c", "d", "e", "+2 more"}, SkillBadges(skills, MaxSkillBadges))
	assert.Equal(t, []string{"a", "b"}, SkillBadges(skills[:2], MaxSkillBadges))
	assert.Len(t, skills, 7)
}

func TestListAndDetailViews(t *testing.T) {
	job := Job{ID: 1, Title: "Go", Description: strings.Repeat("x", 350), Skills: []string{"1", "2", "3", "4", "5", "6"}}
	view := NewListView(Page{Jobs: []Job{job}, Pagination: Pagination{Page: 1, Limit: 10, Total: 1, TotalPages: 1}})

	assert.False(t, view.Empty)
	assert.Len(t, []rune(view.Cards[0].Description), 203)
	assert.Equal(t, "+1 more", view.Cards[0].Badges[5])
	assert.Contains(t, view.Text(), "[1]")

	detail := NewDetailView(job)
	assert.Len(t, detail.Job.Description, 350)
	assert.Len(t, detail.Skills, 6)

	empty := NewListView(Page{})
	assert.True(t, empty.Empty)
	assert.Equal(t, "No jobs found.\n", empty.Text())
}

func TestDetailViewText(t *testing.T) {
	deadline := time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)
	v := NewDetailView(Job{ID: 3, Title: "SRE", Location: "Berlin", Type: "full-time",
		Description: "Keep it running.", Skills: []string{"k8s", "go"}, Deadline: &deadline})

	text := v.Text()
	assert.Contains(t, text, "#3 SRE\nBerlin | full-time\n")
	assert.Contains(t, text, "Apply by 2024-12-31")
	assert.Contains(t, text, "Skills: k8s, go")
	assert.True(t, strings.HasSuffix(text, "Keep it running.\n"))
}
