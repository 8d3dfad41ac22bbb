// Command palaver is a console chat host: it reads prompts from stdin, streams
// the model's answers and runs the demo tools, asking before destructive ones.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/casualjim/palaver"
	"github.com/casualjim/palaver/config"
	"github.com/casualjim/palaver/internal/broker"
	"github.com/casualjim/palaver/pkg/natsx"
	"github.com/casualjim/palaver/provider/anthropic"
	"github.com/casualjim/palaver/tool"
	"github.com/charmbracelet/glamour"
	"github.com/fatih/color"
	"github.com/k0kubun/pp/v3"
	"github.com/phsym/zeroslog"
	"github.com/rs/zerolog"
)

var log zerolog.Logger

func init() {
	output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Stamp}
	log = zerolog.New(output).With().Timestamp().Logger()
	slog.SetDefault(slog.New(
		zeroslog.NewHandler(log, &zeroslog.HandlerOptions{Level: slog.LevelWarn}),
	))
}

type options struct {
	envFiles []string
	markdown bool
	publish  bool
	natsURL  string
	tick     time.Duration
}

func main() {
	var opts options
	envFile := flag.String("env", "", "dotenv file to load instead of .env")
	flag.BoolVar(&opts.markdown, "markdown", false, "render answers as markdown once complete instead of streaming them")
	flag.BoolVar(&opts.publish, "publish", false, "also publish session events to NATS ($NATS_URL)")
	flag.StringVar(&opts.natsURL, "nats", "", "NATS server URL, overrides $NATS_URL")
	flag.DurationVar(&opts.tick, "tick", 16*time.Millisecond, "session update interval")
	flag.Parse()
	if *envFile != "" {
		opts.envFiles = append(opts.envFiles, *envFile)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, opts, os.Stdin, os.Stdout); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatal().Err(err).Msg("palaver failed")
	}
}

func run(ctx context.Context, opts options, in io.Reader, out io.Writer) error {
	cfg, err := config.Load(opts.envFiles...)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	slog.Info("configuration loaded", slog.Any("config", cfg))

	registry := tool.NewRegistry(demoTools)
	confirmer := tool.NewAsyncConfirmer(4)

	session, err := palaver.New(cfg, anthropic.FromConfig(cfg), palaver.WithTools(registry))
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	ticker := time.NewTicker(opts.tick)
	defer ticker.Stop()
	loop := palaver.NewLoop(session, ticker.C)
	dispatcher, err := tool.NewDispatcher(registry, tool.WithConfirmer(confirmer))
	if err != nil {
		return err
	}
	session.Subscribe(palaver.NewToolRunner(loop, dispatcher))

	var markdown *glamour.TermRenderer
	if opts.markdown {
		if markdown, err = glamour.NewTermRenderer(glamour.WithAutoStyle()); err != nil {
			return err
		}
	}
	term := newConsole(out, markdown)

	topic := broker.Local().Topic(ctx, "session."+session.ID().String())
	session.Subscribe(broker.Forward(topic))
	sub, err := topic.Subscribe(ctx, term)
	if err != nil {
		return err
	}
	defer sub.Unsubscribe()

	if opts.publish || opts.natsURL != "" {
		nc, err := natsx.NewClient(opts.natsURL)
		if err != nil {
			return fmt.Errorf("connecting to nats: %w", err)
		}
		defer nc.Close()
		subject := "palaver.session." + session.ID().String()
		session.Subscribe(broker.Forward(broker.NATS(nc).Topic(ctx, subject)))
		slog.Warn("publishing session events", slog.String("subject", subject))
	}

	go func() {
		if err := loop.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			slog.Error("session loop stopped", slog.Any("error", err))
		}
	}()

	return repl(ctx, loop, confirmer, term, in, out)
}

func repl(ctx context.Context, loop *palaver.Loop, confirmer *tool.AsyncConfirmer, term *console, in io.Reader, out io.Writer) error {
	lines := readLines(in)
	var pending *tool.ConfirmationRequest

	prompt := func() { fmt.Fprintf(out, "%s: ", color.CyanString("User")) }
	prompt()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-loop.Done():
			return nil
		case <-term.Ready():
			prompt()
		case req := <-confirmer.Requests():
			pending = &req
			fmt.Fprintf(out, "%s %s%s? [y/N]: ", color.RedString("Allow"), color.YellowString(req.Tool), req.Call.Arguments)
		case line, ok := <-lines:
			if !ok {
				fmt.Fprintln(out, "Exiting...")
				return nil
			}
			line = strings.TrimSpace(line)

			if pending != nil {
				approved := strings.EqualFold(line, "y") || strings.EqualFold(line, "yes")
				if err := confirmer.Respond(pending.ID, approved); err != nil {
					slog.Warn("confirmation was not delivered", slog.Any("error", err))
				}
				pending = nil
				continue
			}

			if quit := command(ctx, loop, term, line, out); quit {
				return nil
			}
		}
	}
}

// command handles one line of input and reports whether the host should exit.
// Everything touching the session is posted to the loop goroutine.
func command(ctx context.Context, loop *palaver.Loop, term *console, line string, out io.Writer) (quit bool) {
	var work palaver.Work
	switch strings.ToLower(line) {
	case "":
		term.signalReady()
		return false
	case "exit", "quit":
		return true
	case "/history":
		work = func(_ context.Context, s *palaver.Session) {
			pp.Fprintln(out, s.History())
			term.signalReady()
		}
	case "/usage":
		work = func(_ context.Context, s *palaver.Session) {
			u := s.Usage()
			fmt.Fprintf(out, "%s input=%d output=%d cache_read=%d cache_write=%d\n",
				color.CyanString("Usage:"), u.InputTokens, u.OutputTokens, u.CacheReadInputTokens, u.CacheCreationInputTokens)
			term.signalReady()
		}
	case "/abort":
		work = func(_ context.Context, s *palaver.Session) {
			s.Abort()
			fmt.Fprintln(out, color.RedString("aborted"))
			term.signalReady()
		}
	default:
		work = func(ctx context.Context, s *palaver.Session) {
			if err := s.SendText(ctx, line); err != nil {
				fmt.Fprintf(out, "%s %v\n", color.RedString("Error:"), err)
				term.signalReady()
			}
		}
	}

	if err := loop.Post(ctx, work); err != nil {
		fmt.Fprintf(out, "%s %v\n", color.RedString("Error:"), err)
		return errors.Is(err, palaver.ErrLoopStopped)
	}
	return false
}

func readLines(r io.Reader) <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()
	return lines
}
