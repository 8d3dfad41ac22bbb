/*
Package palaver is an embeddable conversational-agent engine. A Session talks
to a language model over a streaming HTTP protocol, turns the streamed output
into discrete events, and lets the model call host functions registered as
tools.

# Basic Usage

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	registry := tool.NewRegistry(sceneTools)
	session, err := palaver.New(cfg, anthropic.FromConfig(cfg),
		palaver.WithTools(registry),
		palaver.WithHook(events.Funcs{
			TextChunk: func(ctx context.Context, ev events.TextChunk) { ui.Append(ev.Text) },
		}),
	)
	if err != nil {
		return err
	}
	defer session.Close()

	loop := palaver.NewLoop(session, time.NewTicker(16*time.Millisecond).C)
	dispatcher, err := tool.NewDispatcher(registry)
	if err != nil {
		return err
	}
	session.Subscribe(palaver.NewToolRunner(loop, dispatcher))

	go loop.Run(ctx)
	_ = loop.Post(ctx, func(ctx context.Context, s *palaver.Session) {
		_ = s.SendText(ctx, "Add a red cube at the origin")
	})

# Architecture

  - Session (session.go): owns the history, the turn engine and the single
    in-flight request. Sends return as soon as the request is dispatched.
  - Update: drains the frames the transport goroutine parsed since the last
    call and advances the turn, delivering events to subscribers in order.
  - Loop (loop.go): the explicit event loop. It runs Update on every tick and
    executes work posted from other goroutines, so only one goroutine ever
    touches session state.
  - ToolRunner (runner.go): executes the tool calls of a finished turn off the
    loop and posts their results back as the next turn.

# Concurrency

A Session is not safe for concurrent use. Drive it from one goroutine, either
directly or through a Loop. Transports only write into the session's stream
parser, which is the single structure shared across goroutines.
*/
package palaver
