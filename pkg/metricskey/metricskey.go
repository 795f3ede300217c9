// Package metricskey describes the metrics emitted by toolchat.
package metricskey

import "github.com/effective-security/metrics"

// Stats
var (
	StatsTurnsSucceeded = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_turns_succeeded",
		Help:         "stats_turns_succeeded provides total user turns completed",
		RequiredTags: []string{"model"},
	}

	StatsTurnsFailed = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_turns_failed",
		Help:         "stats_turns_failed provides total user turns aborted with an error",
		RequiredTags: []string{"model"},
	}

	StatsDecisionParseErrors = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_decision_parse_errors",
		Help:         "stats_decision_parse_errors provides total completion responses that failed to parse",
		RequiredTags: []string{"model"},
	}

	StatsClarificationsAsked = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_clarifications_asked",
		Help:         "stats_clarifications_asked provides total clarification questions asked",
		RequiredTags: []string{"model"},
	}

	StatsProvidersConnected = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_providers_connected",
		Help:         "stats_providers_connected provides total tool providers connected",
		RequiredTags: []string{"provider"},
	}

	StatsProvidersFailed = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_providers_failed",
		Help:         "stats_providers_failed provides total tool providers that failed to connect",
		RequiredTags: []string{"provider"},
	}

	StatsToolCallsSucceeded = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_tool_calls_succeeded",
		Help:         "stats_tool_calls_succeeded provides total tool calls succeeded",
		RequiredTags: []string{"tool"},
	}

	StatsToolCallsFailed = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_tool_calls_failed",
		Help:         "stats_tool_calls_failed provides total tool calls failed",
		RequiredTags: []string{"tool"},
	}

	StatsToolCallsNotFound = metrics.Describe{
		Type:         metrics.TypeCounter,
		Name:         "stats_tool_calls_not_found",
		Help:         "stats_tool_calls_not_found provides total decision actions referencing unregistered tools",
		RequiredTags: []string{"tool"},
	}
)

// Perf
var (
	PerfTurn = metrics.Describe{
		Type:         metrics.TypeSample,
		Name:         "perf_turn",
		Help:         "perf_turn provides duration of one user turn",
		RequiredTags: []string{"model"},
	}

	PerfToolCall = metrics.Describe{
		Type:         metrics.TypeSample,
		Name:         "perf_tool_call",
		Help:         "perf_tool_call provides duration of one tool call",
		RequiredTags: []string{"tool"},
	}
)

// Metrics returns slice of metrics from this repo
// keep sorted by name
var Metrics = []*metrics.Describe{
	&PerfToolCall,
	&PerfTurn,
	&StatsClarificationsAsked,
	&StatsDecisionParseErrors,
	&StatsProvidersConnected,
	&StatsProvidersFailed,
	&StatsToolCallsFailed,
	&StatsToolCallsNotFound,
	&StatsToolCallsSucceeded,
	&StatsTurnsFailed,
	&StatsTurnsSucceeded,
}
