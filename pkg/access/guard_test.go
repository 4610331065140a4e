package access

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func principal(role Role) *Principal {
	return &Principal{ID: 1, Username: "u", Role: role}
}

func TestDecide(t *testing.T) {
	tests := []struct {
		name     string
		state    SessionState
		path     string
		required []Role
		want     Decision
	}{
		{"loading never redirects", SessionState{Loading: true}, "/admin", adminOnly, Decision{Kind: Loading}},
		{"no principal goes to auth", SessionState{}, "/my-dashboard", nil, Decision{Kind: Redirect, Target: "/auth"}},
		{"candidate denied recruiter dashboard", SessionState{Principal: principal(RoleCandidate)},
			"/recruiter-dashboard", recruiterOrAdmin, Decision{Kind: Redirect, Target: "/jobs"}},
		{"recruiter denied admin", SessionState{Principal: principal(RoleRecruiter)},
			"/admin", adminOnly, Decision{Kind: Redirect, Target: "/recruiter-dashboard"}},
		{"recruiter allowed", SessionState{Principal: principal(RoleRecruiter)},
			"/jobs/post", recruiterOrAdmin, Decision{Kind: Render}},
		{"admin allowed everywhere listed", SessionState{Principal: principal(RoleAdmin)},
			"/recruiter-dashboard", recruiterOrAdmin, Decision{Kind: Render}},
		{"empty requirement admits any principal", SessionState{Principal: principal(RoleCandidate)},
			"/my-dashboard", nil, Decision{Kind: Render}},
		{"fallback never loops", SessionState{Principal: principal(RoleRecruiter)},
			"/recruiter-dashboard/", adminOnly, Decision{Kind: Redirect, Target: "/jobs"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Decide(tt.state, tt.path, tt.required))
		})
	}
}

func TestDecideIsDeterministic(t *testing.T) {
	state := SessionState{Principal: principal(RoleCandidate)}
	first := Decide(state, "/admin", adminOnly)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Decide(state, "/admin", adminOnly))
	}
}

func TestRouteTable(t *testing.T) {
	table := NewRouteTable(DefaultRoutes)

	r, ok := table.Match("/jobs/post")
	assert.True(t, ok)
	assert.Equal(t, "/jobs/post", r.Pattern)

	r, ok = table.Match("/jobs/42")
	assert.True(t, ok)
	assert.Equal(t, "/jobs/:id", r.Pattern)

	r, ok = table.Match("/jobs/42/applications")
	assert.True(t, ok)
	assert.Equal(t, recruiterOrAdmin, r.Required)

	_, ok = table.Match("/nowhere/at/all")
	assert.False(t, ok)

	candidate := SessionState{Principal: principal(RoleCandidate)}
	assert.Equal(t, Decision{Kind: Render}, table.Check(SessionState{}, "/jobs"))
	assert.Equal(t, Decision{Kind: Redirect, Target: "/auth"}, table.Check(SessionState{}, "/jobs/post"))
	assert.Equal(t, Decision{Kind: Redirect, Target: "/jobs"}, table.Check(candidate, "/recruiter-dashboard"))
	assert.Equal(t, Decision{Kind: Render}, table.Check(candidate, "/my-dashboard"))
	assert.Equal(t, "redirect", table.Check(candidate, "/admin/super").Kind.String())
}
