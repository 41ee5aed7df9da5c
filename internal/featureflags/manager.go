// Package featureflags evaluates the FEATURE_FLAGS switches.
package featureflags

import (
	"hash/fnv"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// GitHubRepos gates the public GitHub repository lookup on profiles.
const GitHubRepos = "github_repos"

// rule is one parsed flag. percent is -1 for plain on/off flags.
type rule struct {
	raw     string
	on      bool
	percent int
}

// Manager evaluates flags declared as a comma-separated key=value list,
// e.g. "github_repos=on,profile_badges=25%".
type Manager struct {
	rules map[string]rule
}

// NewManager parses raw. Malformed pairs are ignored.
func NewManager(raw string) *Manager {
	rules := make(map[string]rule)

	for _, pair := range strings.Split(raw, ",") {
		key, value, ok := strings.Cut(pair, "=")
		if !ok {
			continue
		}
		key, value = normalize(key), normalize(value)
		if key == "" || value == "" {
			continue
		}
		rules[key] = parseRule(value)
	}

	return &Manager{rules: rules}
}

func parseRule(value string) rule {
	r := rule{raw: value, percent: -1}
	switch value {
	case "on", "true", "1":
		r.on = true
		return r
	case "off", "false", "0":
		return r
	}
	if pct, ok := strings.CutSuffix(value, "%"); ok {
		if n, err := strconv.Atoi(pct); err == nil {
			r.percent = min(max(n, 0), 100)
		}
	}
	return r
}

// Enabled reports whether name is on for userID. Percentage rollouts bucket
// users deterministically; an anonymous caller (uuid.Nil) is only admitted at 100%.
func (m *Manager) Enabled(name string, userID uuid.UUID) bool {
	if m == nil {
		return false
	}

	r, ok := m.rules[normalize(name)]
	switch {
	case !ok:
		return false
	case r.percent < 0:
		return r.on
	case r.percent == 0:
		return false
	case r.percent == 100:
		return true
	case userID == uuid.Nil:
		return false
	}
	return rolloutBucket(name, userID) < r.percent
}

// Raw returns a copy of the configured values.
func (m *Manager) Raw() map[string]string {
	out := make(map[string]string, len(m.rules))
	for k, r := range m.rules {
		out[k] = r.raw
	}
	return out
}

// Snapshot evaluates every flag for userID.
func (m *Manager) Snapshot(userID uuid.UUID) map[string]bool {
	out := make(map[string]bool, len(m.rules))
	for name := range m.rules {
		out[name] = m.Enabled(name, userID)
	}
	return out
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func rolloutBucket(name string, userID uuid.UUID) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(normalize(name) + ":" + userID.String()))
	return int(h.Sum32() % 100)
}
