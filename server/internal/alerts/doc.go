// Package alerts implements the rule evaluation engine and webhook delivery
// for run alerts. Rules are threshold conditions over a run's statistics;
// webhooks are delivered to Teams, Slack, or generic HTTP targets.
package alerts
