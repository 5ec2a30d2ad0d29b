package aggregate

import (
	"sort"
	"strings"

	"black-heatmap/internal/domain"
)

// RollupAccess collapses raw access facts into one summary per user: each
// attribute becomes the deduplicated, sorted set of observed values
// joined with ", ". Output is ordered ascending by user id.
func RollupAccess(facts []*domain.AccessFact) []domain.AccessSummary {
	type sets struct {
		ips, devices, oses, browsers, agents map[string]struct{}
		count                                int
	}

	byUser := make(map[string]*sets)
	for _, f := range facts {
		s, ok := byUser[f.UserID]
		if !ok {
			s = &sets{
				ips:      make(map[string]struct{}),
				devices:  make(map[string]struct{}),
				oses:     make(map[string]struct{}),
				browsers: make(map[string]struct{}),
				agents:   make(map[string]struct{}),
			}
			byUser[f.UserID] = s
		}
		addNonEmpty(s.ips, f.IP)
		addNonEmpty(s.devices, f.DeviceID)
		addNonEmpty(s.oses, f.OS)
		addNonEmpty(s.browsers, f.Browser)
		addNonEmpty(s.agents, f.UserAgent)
		s.count++
	}

	users := make([]string, 0, len(byUser))
	for id := range byUser {
		users = append(users, id)
	}
	sort.Strings(users)

	summaries := make([]domain.AccessSummary, 0, len(users))
	for _, id := range users {
		s := byUser[id]
		summaries = append(summaries, domain.AccessSummary{
			UserID:     id,
			IPs:        joinSet(s.ips),
			DeviceIDs:  joinSet(s.devices),
			OSes:       joinSet(s.oses),
			Browsers:   joinSet(s.browsers),
			UserAgents: joinSet(s.agents),
			EventCount: s.count,
		})
	}
	return summaries
}

func addNonEmpty(set map[string]struct{}, v string) {
	if v != "" {
		set[v] = struct{}{}
	}
}

func joinSet(set map[string]struct{}) string {
	values := make([]string, 0, len(set))
	for v := range set {
		values = append(values, v)
	}
	sort.Strings(values)
	return strings.Join(values, ", ")
}
