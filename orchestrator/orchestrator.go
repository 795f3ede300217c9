// Package orchestrator runs the per-turn control loop: compose the
// decision prompt, obtain and parse the model's decision, resolve missing
// inputs with the user, then either answer directly or dispatch the
// requested tool calls.
package orchestrator

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/toolchat/chatmodel"
	"github.com/effective-security/toolchat/llm"
	"github.com/effective-security/toolchat/pkg/metricskey"
	"github.com/effective-security/toolchat/registry"
	"github.com/effective-security/toolchat/store"
	"github.com/effective-security/xlog"
	"github.com/google/uuid"
)

var logger = xlog.NewPackageLogger("github.com/effective-security/toolchat", "orchestrator")

var (
	// ErrCompletionService wraps any failure of the completion service.
	// It aborts the current turn only; the chat loop continues.
	ErrCompletionService = errors.New("completion service error")

	// ErrClarificationRounds is returned when the model keeps asking for
	// user input after the allowed number of clarification rounds.
	ErrClarificationRounds = errors.New("clarification rounds exhausted")
)

const (
	// DefaultHistoryWindow is the number of recent history entries
	// included in the decision prompt.
	DefaultHistoryWindow = 3
	// DefaultMaxClarifications bounds the re-decide loop when the model
	// requests missing inputs.
	DefaultMaxClarifications = 3
)

// Prompter obtains answers to clarification questions from the user.
type Prompter interface {
	Ask(ctx context.Context, question string) (string, error)
}

// Orchestrator drives one conversation. It is not safe for concurrent
// ProcessTurn calls; a conversation is strictly sequential.
type Orchestrator struct {
	completer llm.Completer
	registry  *registry.Registry
	prompter  Prompter
	parser    *chatmodel.DecisionParser
	history   store.History
	callback  Callback

	historyWindow     int
	maxClarifications int
	conversationID    string
}

// Option configures the orchestrator.
type Option func(*Orchestrator)

// WithHistory replaces the default in-memory history.
func WithHistory(h store.History) Option {
	return func(o *Orchestrator) {
		o.history = h
	}
}

// WithCallback registers the lifecycle event receiver.
func WithCallback(cb Callback) Option {
	return func(o *Orchestrator) {
		o.callback = cb
	}
}

// WithHistoryWindow sets how many recent history entries the decision
// prompt carries. Non-positive values keep the default.
func WithHistoryWindow(n int) Option {
	return func(o *Orchestrator) {
		if n > 0 {
			o.historyWindow = n
		}
	}
}

// WithMaxClarifications bounds the clarification loop. Non-positive
// values keep the default.
func WithMaxClarifications(n int) Option {
	return func(o *Orchestrator) {
		if n > 0 {
			o.maxClarifications = n
		}
	}
}

// New creates an orchestrator over the given completion service, tool
// catalog and clarification prompter.
func New(completer llm.Completer, reg *registry.Registry, prompter Prompter, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		completer:         completer,
		registry:          reg,
		prompter:          prompter,
		parser:            chatmodel.NewDecisionParser(),
		history:           store.NewMemoryHistory(),
		callback:          NewNoopCallback(),
		historyWindow:     DefaultHistoryWindow,
		maxClarifications: DefaultMaxClarifications,
		conversationID:    uuid.NewString(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// ConversationID identifies this conversation in logs.
func (o *Orchestrator) ConversationID() string {
	return o.conversationID
}

// History exposes the conversation history.
func (o *Orchestrator) History() store.History {
	return o.history
}

// ProcessTurn handles one user input end to end. Any returned error is a
// per-turn condition: the caller reports it and keeps the conversation
// alive. The process-fatal boundary is startup configuration only.
func (o *Orchestrator) ProcessTurn(ctx context.Context, input string) error {
	started := time.Now()
	model := o.completer.Name()
	defer metricskey.PerfTurn.MeasureSince(started, model)

	o.callback.OnTurnStart(ctx, input)

	err := o.processTurn(ctx, input)
	if err != nil {
		metricskey.StatsTurnsFailed.IncrCounter(1, model)
		o.callback.OnTurnError(ctx, input, err)
		return err
	}
	metricskey.StatsTurnsSucceeded.IncrCounter(1, model)
	return nil
}

func (o *Orchestrator) processTurn(ctx context.Context, input string) error {
	decision, input, err := o.decide(ctx, input)
	if err != nil {
		return err
	}
	o.callback.OnDecision(ctx, input, decision)

	if len(decision.Actions) == 0 {
		return o.directReply(ctx, input)
	}

	o.dispatch(ctx, decision)

	o.history.Add("User: " + input)
	o.history.Add(fmt.Sprintf("AI used tools: [%s]", strings.Join(decision.ToolNames(), ", ")))
	return nil
}

// decide runs the decision prompt, resolving missing inputs by asking the
// user and re-deciding with the augmented input. The returned input
// carries the clarification answers appended to the original text.
func (o *Orchestrator) decide(ctx context.Context, input string) (*chatmodel.Decision, string, error) {
	model := o.completer.Name()

	for round := 0; ; round++ {
		raw, err := o.completer.Complete(ctx, o.composePrompt(input))
		if err != nil {
			return nil, input, errors.WithMessage(ErrCompletionService, err.Error())
		}

		decision, err := o.parser.Parse(raw)
		if err != nil {
			metricskey.StatsDecisionParseErrors.IncrCounter(1, model)
			return nil, input, err
		}

		if !decision.NeedsClarification() {
			return decision, input, nil
		}
		if round >= o.maxClarifications {
			return nil, input, errors.WithMessagef(ErrClarificationRounds, "after %d rounds", round)
		}

		params := make([]string, 0, len(decision.MissingInputs))
		for param := range decision.MissingInputs {
			params = append(params, param)
		}
		sort.Strings(params)

		for _, param := range params {
			question := decision.MissingInputs[param]
			metricskey.StatsClarificationsAsked.IncrCounter(1, model)
			answer, err := o.prompter.Ask(ctx, question)
			if err != nil {
				return nil, input, errors.WithMessagef(err, "clarification for %q", param)
			}
			o.callback.OnClarification(ctx, param, question, answer)
			input += fmt.Sprintf(" (%s: %s)", param, answer)
		}
	}
}

// directReply answers without tools: the model is called again with the
// plain input, outside the decision format. Direct replies are not
// recorded in history.
func (o *Orchestrator) directReply(ctx context.Context, input string) error {
	reply, err := o.completer.Complete(ctx, input)
	if err != nil {
		return errors.WithMessage(ErrCompletionService, err.Error())
	}
	o.callback.OnDirectReply(ctx, strings.TrimSpace(reply))
	return nil
}

// dispatch executes the decision's actions sequentially. Each action
// failure, including an unknown tool name, is reported and skipped; it
// never aborts the remaining actions or the turn.
func (o *Orchestrator) dispatch(ctx context.Context, decision *chatmodel.Decision) {
	for _, action := range decision.Actions {
		owner, err := o.registry.ResolveOwner(action.Tool)
		if err != nil {
			metricskey.StatsToolCallsNotFound.IncrCounter(1, action.Tool)
			logger.KV(xlog.WARNING,
				"conversation", o.conversationID,
				"status", "tool_not_found",
				"tool", action.Tool,
			)
			o.callback.OnToolNotFound(ctx, action.Tool)
			continue
		}

		o.callback.OnToolStart(ctx, action.Tool, action.Parameters, action.Reasoning)

		started := time.Now()
		output, err := owner.CallTool(ctx, action.Tool, action.Parameters)
		metricskey.PerfToolCall.MeasureSince(started, action.Tool)
		if err != nil {
			metricskey.StatsToolCallsFailed.IncrCounter(1, action.Tool)
			logger.KV(xlog.ERROR,
				"conversation", o.conversationID,
				"status", "tool_failed",
				"tool", action.Tool,
				"provider", owner.Name(),
				"err", err.Error(),
			)
			o.callback.OnToolError(ctx, action.Tool, err)
			continue
		}
		metricskey.StatsToolCallsSucceeded.IncrCounter(1, action.Tool)
		o.callback.OnToolEnd(ctx, action.Tool, output)
	}
}

// composePrompt assembles the decision prompt: role instructions, the
// tool catalog, the user message with recent history, and the reply
// format contract.
func (o *Orchestrator) composePrompt(input string) string {
	var b strings.Builder
	b.WriteString("You are a smart chatbot with access to tools via APIs.\n")
	b.WriteString("- Reply directly if tools are unnecessary.\n")
	b.WriteString("- Use tools if needed, based on the user's intent.\n")
	b.WriteString("- Ask for missing input if required.\n\n")
	b.WriteString(o.registry.Describe())
	b.WriteString("\n")
	fmt.Fprintf(&b, "User message: %q\n", input)

	recent := o.history.Last(o.historyWindow)
	if len(recent) == 0 {
		b.WriteString("Recent history: none\n")
	} else {
		b.WriteString("Recent history:\n")
		for _, entry := range recent {
			b.WriteString("- ")
			b.WriteString(entry)
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(o.parser.GetFormatInstructions())
	return b.String()
}
