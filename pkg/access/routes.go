package access

import "strings"

// Route describes a guarded page. Params are written as ":name".
type Route struct {
	Pattern  string
	Required []Role
	// Public routes render without a principal.
	Public bool
}

var (
	recruiterOrAdmin = []Role{RoleRecruiter, RoleAdmin}
	adminOnly        = []Role{RoleAdmin}
)

// DefaultRoutes is the page table of the web client.
var DefaultRoutes = []Route{
	{Pattern: "/", Public: true},
	{Pattern: "/auth", Public: true},
	{Pattern: "/jobs", Public: true},
	{Pattern: "/jobs/:id", Public: true},
	{Pattern: "/privacy-policy", Public: true},
	{Pattern: "/terms-of-service", Public: true},
	{Pattern: "/cookie-policy", Public: true},
	{Pattern: "/jobs/post", Required: recruiterOrAdmin},
	{Pattern: "/jobs/:id/applications", Required: recruiterOrAdmin},
	{Pattern: "/recruiter-dashboard", Required: recruiterOrAdmin},
	{Pattern: "/applications", Required: recruiterOrAdmin},
	{Pattern: "/analytics", Required: recruiterOrAdmin},
	{Pattern: "/my-dashboard"},
	{Pattern: "/admin", Required: adminOnly},
	{Pattern: "/admin/super", Required: adminOnly},
}

type RouteTable struct {
	routes []Route
}

func NewRouteTable(routes []Route) *RouteTable {
	return &RouteTable{routes: routes}
}

// Match finds the route for path. Literal segments win over params, so
// "/jobs/post" is not taken for "/jobs/:id".
func (t *RouteTable) Match(path string) (Route, bool) {
	segs := splitPath(path)
	best, bestScore, found := Route{}, -1, false
	for _, r := range t.routes {
		score, ok := matchSegments(splitPath(r.Pattern), segs)
		if ok && score > bestScore {
			best, bestScore, found = r, score, true
		}
	}
	return best, found
}

// Check runs Decide for path. Unknown and public paths always render.
func (t *RouteTable) Check(state SessionState, path string) Decision {
	route, ok := t.Match(path)
	if !ok || route.Public {
		return Decision{Kind: Render}
	}
	return Decide(state, path, route.Required)
}

func splitPath(p string) []string {
	p = strings.Trim(p, "/")
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}

func matchSegments(pattern, segs []string) (int, bool) {
	if len(pattern) != len(segs) {
		return 0, false
	}
	score := 0
	for i, p := range pattern {
		if strings.HasPrefix(p, ":") {
			continue
		}
		if p != segs[i] {
			return 0, false
		}
		score++
	}
	return score, true
}
