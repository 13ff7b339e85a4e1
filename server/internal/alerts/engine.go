package alerts

import (
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/zusistats/zusistats/pkg/summary"
	"github.com/zusistats/zusistats/server/internal/config"
)

const (
	defaultCooldown   = 15 * time.Minute
	maxHistoryLen     = 200
	recentWindowHours = 1
)

// Alert states.
const (
	StateFiring   = "firing"
	StateResolved = "resolved"
)

// Alert represents a single alert event produced by the rule engine.
type Alert struct {
	ID         string     `json:"id"`
	RuleName   string     `json:"rule_name"`
	Run        string     `json:"run"`
	Severity   string     `json:"severity"`
	Message    string     `json:"message"`
	Value      float64    `json:"value"`
	FiredAt    time.Time  `json:"fired_at"`
	ResolvedAt *time.Time `json:"resolved_at,omitempty"`
	State      string     `json:"state"`
}

// Engine evaluates alert rules against run statistics and delivers webhook
// notifications when rules fire or resolve.
//
// Engine is safe for concurrent use.
type Engine struct {
	mu       sync.Mutex
	rules    []config.AlertRule
	webhooks []config.WebhookConfig
	active   map[string]*Alert    // key: "ruleName:run"
	lastFire map[string]time.Time // last fire time per key (for cooldown)
	history  []*Alert             // recently resolved alerts

	client *http.Client
	now    func() time.Time
	wg     sync.WaitGroup // in-flight deliveries; Add only under mu while !closed
	closed bool
}

// New creates an Engine from the server alert configuration.
// An Engine with empty rules is valid; Evaluate is then a no-op.
func New(cfg config.AlertsConfig) *Engine {
	return &Engine{
		rules:    cfg.Rules,
		webhooks: cfg.Webhooks,
		active:   make(map[string]*Alert),
		lastFire: make(map[string]time.Time),
		client:   &http.Client{Timeout: 10 * time.Second},
		now:      time.Now,
	}
}

// SetConfig replaces the rules and webhook targets. Firing alerts of rules
// that no longer exist are resolved.
func (e *Engine) SetConfig(cfg config.AlertsConfig) {
	keep := make(map[string]bool, len(cfg.Rules))
	for _, r := range cfg.Rules {
		keep[r.Name] = true
	}

	e.mu.Lock()
	e.rules = cfg.Rules
	e.webhooks = cfg.Webhooks
	var resolved []*Alert
	for key, a := range e.active {
		if !keep[a.RuleName] {
			resolved = append(resolved, e.resolveLocked(key, a))
		}
	}
	e.mu.Unlock()

	slog.Info("alerts: rules updated", "rules", len(cfg.Rules), "resolved", len(resolved))
	for _, a := range resolved {
		e.dispatch(a)
	}
}

// Evaluate tests all configured rules against rs.
// Alerts that fire are stored and webhook delivery is triggered asynchronously.
// Alerts that were firing but whose condition is now false are resolved.
func (e *Engine) Evaluate(rs summary.RunStats) {
	e.mu.Lock()
	rules := e.rules
	e.mu.Unlock()

	now := e.now()
	for _, rule := range rules {
		key := rule.Name + ":" + rs.Name
		fires, value := evalCondition(rule.Condition, rs)

		e.mu.Lock()
		var out *Alert
		if fires {
			out = e.fireLocked(key, rule, rs.Name, value, now)
		} else if a, ok := e.active[key]; ok && a.State == StateFiring {
			out = e.resolveLocked(key, a)
		}
		e.mu.Unlock()

		if out != nil {
			e.dispatch(out)
		}
	}
}

// Forget resolves every firing alert of the run called name, e.g. when its
// file was removed.
func (e *Engine) Forget(name string) {
	e.mu.Lock()
	var resolved []*Alert
	for key, a := range e.active {
		if a.Run == name {
			resolved = append(resolved, e.resolveLocked(key, a))
		}
	}
	e.mu.Unlock()

	for _, a := range resolved {
		e.dispatch(a)
	}
}

// Active returns copies of all currently firing alerts plus any alerts
// resolved within the past hour, newest first.
func (e *Engine) Active() []*Alert {
	e.mu.Lock()
	defer e.mu.Unlock()

	cutoff := e.now().Add(-recentWindowHours * time.Hour)
	out := make([]*Alert, 0, len(e.active))

	for _, a := range e.active {
		cp := *a
		out = append(out, &cp)
	}
	for _, a := range e.history {
		if a.ResolvedAt != nil && a.ResolvedAt.After(cutoff) {
			cp := *a
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FiredAt.After(out[j].FiredAt) })
	return out
}

// Wait blocks until every webhook delivery started so far has finished.
func (e *Engine) Wait() {
	e.wg.Wait()
}

// Close stops webhook delivery for alerts raised from now on and waits for
// in-flight deliveries. Rules are still evaluated after Close.
func (e *Engine) Close() {
	e.mu.Lock()
	e.closed = true
	e.mu.Unlock()
	e.wg.Wait()
}

// fireLocked records a firing alert unless the rule is cooling down for
// this run. It returns a copy to deliver, or nil.
func (e *Engine) fireLocked(key string, rule config.AlertRule, run string, value float64, now time.Time) *Alert {
	cooldown := rule.Cooldown
	if cooldown <= 0 {
		cooldown = defaultCooldown
	}
	if last, ok := e.lastFire[key]; ok && now.Sub(last) <= cooldown {
		return nil
	}

	sev := rule.Severity
	if sev == "" {
		sev = "warning"
	}
	a := &Alert{
		ID:       fmt.Sprintf("%s:%s:%d", rule.Name, run, now.UnixNano()),
		RuleName: rule.Name,
		Run:      run,
		Severity: sev,
		Value:    value,
		Message: fmt.Sprintf("[%s] %s fired on %s: %s (value %.2f)",
			sev, rule.Name, run, rule.Condition, value),
		FiredAt: now,
		State:   StateFiring,
	}
	e.active[key] = a
	e.lastFire[key] = now

	slog.Warn("alert fired",
		"rule", rule.Name,
		"run", run,
		"value", value,
		"severity", sev,
	)
	cp := *a
	return &cp
}

func (e *Engine) resolveLocked(key string, a *Alert) *Alert {
	resolved := e.now()
	a.State = StateResolved
	a.ResolvedAt = &resolved
	delete(e.active, key)

	e.history = append(e.history, a)
	if len(e.history) > maxHistoryLen {
		e.history = e.history[len(e.history)-maxHistoryLen:]
	}

	slog.Info("alert resolved", "rule", a.RuleName, "run", a.Run)
	cp := *a
	return &cp
}

func (e *Engine) dispatch(a *Alert) {
	e.mu.Lock()
	webhooks := e.webhooks
	if e.closed || len(webhooks) == 0 {
		e.mu.Unlock()
		return
	}
	e.wg.Add(1)
	e.mu.Unlock()

	go func() {
		defer e.wg.Done()
		e.deliver(webhooks, a)
	}()
}
