// Package blocking derives the declarative site-blocking rule set
// from the current timer snapshot and the user's settings. Rule sets
// are disposable: every recomputation rebuilds the full set and the
// publisher replaces whatever was active before. With at most a dozen
// rules there is nothing to gain from diffing.
package blocking

import (
	"fmt"
	"strings"

	"github.com/miguel-sanchez/PomodoroPal/internal/model"
	"github.com/miguel-sanchez/PomodoroPal/internal/settings"
)

// BlockedTarget is the local resource matching navigation is
// redirected to while blocking is active.
const BlockedTarget = "/blocked.html"

// Rule redirects main-frame navigation matching Pattern to Target.
type Rule struct {
	Site    string `json:"site"`
	Pattern string `json:"matchPattern"`
	Target  string `json:"redirectTarget"`
}

// Publisher applies a full rule set, dropping all previously
// published rules first. An empty slice clears blocking entirely.
type Publisher interface {
	Replace(rules []Rule) error
}

// ShouldBlock is the policy decision in one place: block only while
// the timer runs, and, unless the user disabled the work-only option,
// only during work sessions.
func ShouldBlock(snapshot model.TimerSnapshot, cfg settings.Settings) bool {
	if !cfg.BlockingEnabled || !snapshot.IsRunning {
		return false
	}
	if cfg.BlockDuringWorkOnly && snapshot.Mode != model.ModeWork {
		return false
	}
	return true
}

// Recompute builds the rule set for the given snapshot and settings.
// Two rules per site: the bare domain and any subdomain.
func Recompute(snapshot model.TimerSnapshot, cfg settings.Settings) []Rule {
	if !ShouldBlock(snapshot, cfg) {
		return nil
	}

	rules := make([]Rule, 0, 2*len(cfg.BlockedSites))
	for _, site := range cfg.BlockedSites {
		site = normalizeSite(site)
		if site == "" {
			continue
		}
		rules = append(rules,
			Rule{Site: site, Pattern: fmt.Sprintf("*://%s/*", site), Target: BlockedTarget},
			Rule{Site: site, Pattern: fmt.Sprintf("*://*.%s/*", site), Target: BlockedTarget},
		)
	}
	return rules
}

func normalizeSite(site string) string {
	site = strings.TrimSpace(strings.ToLower(site))
	site = strings.TrimPrefix(site, "https://")
	site = strings.TrimPrefix(site, "http://")
	site = strings.TrimPrefix(site, "www.")
	return strings.Trim(site, "/")
}
