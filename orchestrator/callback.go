package orchestrator

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/effective-security/toolchat/chatmodel"
	"github.com/effective-security/xlog"
)

// Callback receives turn lifecycle events. All methods are optional
// notifications; implementations must not block the turn.
type Callback interface {
	OnTurnStart(ctx context.Context, input string)
	OnDecision(ctx context.Context, input string, decision *chatmodel.Decision)
	OnClarification(ctx context.Context, param, question, answer string)
	OnDirectReply(ctx context.Context, reply string)
	OnToolStart(ctx context.Context, tool string, params map[string]any, reasoning string)
	OnToolEnd(ctx context.Context, tool string, output []chatmodel.Fragment)
	OnToolNotFound(ctx context.Context, tool string)
	OnToolError(ctx context.Context, tool string, err error)
	OnTurnError(ctx context.Context, input string, err error)
}

// NoopCallback does nothing.
type NoopCallback struct{}

func NewNoopCallback() *NoopCallback {
	return &NoopCallback{}
}

var _ Callback = (*NoopCallback)(nil)

func (l *NoopCallback) OnTurnStart(ctx context.Context, input string) {}
func (l *NoopCallback) OnDecision(ctx context.Context, input string, decision *chatmodel.Decision) {
}
func (l *NoopCallback) OnClarification(ctx context.Context, param, question, answer string) {}
func (l *NoopCallback) OnDirectReply(ctx context.Context, reply string)                     {}
func (l *NoopCallback) OnToolStart(ctx context.Context, tool string, params map[string]any, reasoning string) {
}
func (l *NoopCallback) OnToolEnd(ctx context.Context, tool string, output []chatmodel.Fragment) {}
func (l *NoopCallback) OnToolNotFound(ctx context.Context, tool string)                         {}
func (l *NoopCallback) OnToolError(ctx context.Context, tool string, err error)                 {}
func (l *NoopCallback) OnTurnError(ctx context.Context, input string, err error)                {}

// PrinterCallback writes conversation events to the Writer. It is the
// default surface of the interactive chat.
type PrinterCallback struct {
	Out io.Writer
}

func NewPrinterCallback(out io.Writer) *PrinterCallback {
	return &PrinterCallback{Out: out}
}

var _ Callback = (*PrinterCallback)(nil)

func (l *PrinterCallback) OnTurnStart(ctx context.Context, input string) {
	fmt.Fprintln(l.Out, "Thinking...")
}

func (l *PrinterCallback) OnDecision(ctx context.Context, input string, decision *chatmodel.Decision) {
	fmt.Fprintf(l.Out, "Decision:\n%s\n", decision.String())
}

func (l *PrinterCallback) OnClarification(ctx context.Context, param, question, answer string) {}

func (l *PrinterCallback) OnDirectReply(ctx context.Context, reply string) {
	fmt.Fprintf(l.Out, "AI: %s\n", reply)
}

func (l *PrinterCallback) OnToolStart(ctx context.Context, tool string, params map[string]any, reasoning string) {
	if reasoning != "" {
		fmt.Fprintf(l.Out, "Executing %q - %s\n", tool, reasoning)
	} else {
		fmt.Fprintf(l.Out, "Executing %q\n", tool)
	}
}

func (l *PrinterCallback) OnToolEnd(ctx context.Context, tool string, output []chatmodel.Fragment) {
	for _, f := range output {
		s := strings.TrimRight(f.String(), "\n")
		if s != "" {
			fmt.Fprintln(l.Out, s)
		}
	}
}

func (l *PrinterCallback) OnToolNotFound(ctx context.Context, tool string) {
	fmt.Fprintf(l.Out, "Tool %q not found.\n", tool)
}

func (l *PrinterCallback) OnToolError(ctx context.Context, tool string, err error) {
	fmt.Fprintf(l.Out, "Tool %q failed: %s\n", tool, err.Error())
}

func (l *PrinterCallback) OnTurnError(ctx context.Context, input string, err error) {
	fmt.Fprintf(l.Out, "Error: %s\n", err.Error())
}

// PackageLoggerCallback emits turn events to the logger.
type PackageLoggerCallback struct {
	logger *xlog.PackageLogger
}

func NewPackageLoggerCallback(logger *xlog.PackageLogger) *PackageLoggerCallback {
	return &PackageLoggerCallback{logger: logger}
}

var _ Callback = (*PackageLoggerCallback)(nil)

func (l *PackageLoggerCallback) OnTurnStart(ctx context.Context, input string) {
	l.logger.ContextKV(ctx, xlog.DEBUG,
		"event", "turn_start",
		"input", input,
	)
}

func (l *PackageLoggerCallback) OnDecision(ctx context.Context, input string, decision *chatmodel.Decision) {
	l.logger.ContextKV(ctx, xlog.DEBUG,
		"event", "decision",
		"intent", decision.Intent,
		"tools", decision.ToolNames(),
	)
}

func (l *PackageLoggerCallback) OnClarification(ctx context.Context, param, question, answer string) {
	l.logger.ContextKV(ctx, xlog.DEBUG,
		"event", "clarification",
		"param", param,
	)
}

func (l *PackageLoggerCallback) OnDirectReply(ctx context.Context, reply string) {
	l.logger.ContextKV(ctx, xlog.DEBUG,
		"event", "direct_reply",
	)
}

func (l *PackageLoggerCallback) OnToolStart(ctx context.Context, tool string, params map[string]any, reasoning string) {
	l.logger.ContextKV(ctx, xlog.DEBUG,
		"event", "tool_start",
		"tool", tool,
	)
}

func (l *PackageLoggerCallback) OnToolEnd(ctx context.Context, tool string, output []chatmodel.Fragment) {
	l.logger.ContextKV(ctx, xlog.DEBUG,
		"event", "tool_end",
		"tool", tool,
		"fragments", len(output),
	)
}

func (l *PackageLoggerCallback) OnToolNotFound(ctx context.Context, tool string) {
	l.logger.ContextKV(ctx, xlog.WARNING,
		"event", "tool_not_found",
		"tool", tool,
	)
}

func (l *PackageLoggerCallback) OnToolError(ctx context.Context, tool string, err error) {
	l.logger.ContextKV(ctx, xlog.ERROR,
		"event", "tool_error",
		"tool", tool,
		"err", err.Error(),
	)
}

func (l *PackageLoggerCallback) OnTurnError(ctx context.Context, input string, err error) {
	l.logger.ContextKV(ctx, xlog.ERROR,
		"event", "turn_error",
		"err", err.Error(),
	)
}
