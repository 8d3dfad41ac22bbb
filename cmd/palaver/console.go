package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/casualjim/palaver/events"
	"github.com/casualjim/palaver/pkg/slogx"
	"github.com/charmbracelet/glamour"
	"github.com/fatih/color"
)

// console renders session events on a terminal. Without a markdown renderer
// text is printed as it streams in; with one it is rendered once complete.
type console struct {
	events.Funcs
	w         io.Writer
	markdown  *glamour.TermRenderer
	streaming bool
	ready     chan struct{}
}

func newConsole(w io.Writer, markdown *glamour.TermRenderer) *console {
	c := &console{w: w, markdown: markdown, ready: make(chan struct{}, 1)}
	c.Funcs = events.Funcs{
		TextChunk:    c.textChunk,
		TextComplete: c.textComplete,
		ToolCall:     c.toolCall,
		TurnComplete: c.turnComplete,
		Error:        c.error,
		Usage:        c.usage,
	}
	return c
}

// Ready signals when the conversation waits for the user again.
func (c *console) Ready() <-chan struct{} { return c.ready }

func (c *console) signalReady() {
	select {
	case c.ready <- struct{}{}:
	default:
	}
}

func (c *console) textChunk(_ context.Context, ev events.TextChunk) {
	if c.markdown != nil {
		return
	}
	if !c.streaming {
		c.streaming = true
		fmt.Fprint(c.w, color.MagentaString("Assistant")+": ")
	}
	fmt.Fprint(c.w, ev.Text)
}

func (c *console) textComplete(_ context.Context, ev events.TextComplete) {
	if c.markdown == nil {
		c.streaming = false
		fmt.Fprintln(c.w)
		return
	}
	out, err := c.markdown.Render(ev.Text)
	if err != nil {
		slog.Warn("failed to render markdown", slogx.LoggerName("console"), slogx.Error(err))
		out = ev.Text + "\n"
	}
	fmt.Fprint(c.w, color.MagentaString("Assistant")+":\n"+out)
}

func (c *console) toolCall(_ context.Context, ev events.ToolCall) {
	args := strings.ReplaceAll(ev.Call.Arguments, ":", "=")
	fmt.Fprintf(c.w, "%s %s%s\n", color.YellowString("Tool")+":", color.YellowString(ev.Call.Name), args)
}

func (c *console) turnComplete(_ context.Context, ev events.TurnComplete) {
	c.streaming = false
	if ev.ToolCalls == 0 {
		c.signalReady()
	}
}

func (c *console) error(_ context.Context, ev events.Error) {
	if c.streaming {
		c.streaming = false
		fmt.Fprintln(c.w)
	}
	fmt.Fprintf(c.w, "%s %v\n", color.RedString("Error:"), ev)
	c.signalReady()
}

func (c *console) usage(ctx context.Context, ev events.Usage) {
	slog.DebugContext(ctx, "token usage",
		slogx.LoggerName("console"),
		slogx.Turn(ev.TurnID),
		slog.Int64("input", ev.Usage.InputTokens),
		slog.Int64("output", ev.Usage.OutputTokens),
	)
}
