// Package access decides whether a route may render for the current session.
//
// Decide is pure: it does no I/O and returns the same Decision for the same
// inputs, so it can run on every navigation and inside server middleware.
package access

import "strings"

type Role string

const (
	RoleCandidate Role = "candidate"
	RoleRecruiter Role = "recruiter"
	RoleAdmin     Role = "admin"
)

type Principal struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Role      Role   `json:"role"`
}

// SessionState is the identity provider's view at a point in time.
// Principal is nil once resolution finished without a logged in user.
type SessionState struct {
	Loading   bool
	Principal *Principal
}

type DecisionKind int

const (
	Loading DecisionKind = iota
	Redirect
	Render
)

func (k DecisionKind) String() string {
	switch k {
	case Loading:
		return "loading"
	case Redirect:
		return "redirect"
	case Render:
		return "render"
	}
	return "unknown"
}

type Decision struct {
	Kind   DecisionKind
	Target string
}

const (
	AuthPath     = "/auth"
	JobsPath     = "/jobs"
	RecruiterHub = "/recruiter-dashboard"
	AdminHub     = "/admin"
)

// FallbackFor is where a signed in user lands after being denied a route.
func FallbackFor(role Role) string {
	switch role {
	case RoleRecruiter:
		return RecruiterHub
	case RoleAdmin:
		return AdminHub
	default:
		return JobsPath
	}
}

// Decide returns Loading while the session is unresolved, a redirect to the
// sign in page without a principal, a redirect to the role fallback when the
// role is not allowed, and Render otherwise. An empty required set admits any
// signed in principal.
func Decide(state SessionState, path string, required []Role) Decision {
	if state.Loading {
		return Decision{Kind: Loading}
	}
	if state.Principal == nil {
		return Decision{Kind: Redirect, Target: AuthPath}
	}
	if len(required) == 0 || hasRole(required, state.Principal.Role) {
		return Decision{Kind: Render}
	}

	target := FallbackFor(state.Principal.Role)
	if samePath(target, path) {
		target = JobsPath
	}
	return Decision{Kind: Redirect, Target: target}
}

func hasRole(roles []Role, r Role) bool {
	for _, allowed := range roles {
		if allowed == r {
			return true
		}
	}
	return false
}

func samePath(a, b string) bool {
	return strings.TrimSuffix(a, "/") == strings.TrimSuffix(b, "/")
}
