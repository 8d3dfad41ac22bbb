// Package events defines the application-level events a session emits while
// a turn streams, and the ways a host subscribes to them.
//
// Design decisions:
//   - Closed union: Event is implemented only by the types in this package,
//     so a type switch over it is exhaustive.
//   - Every event carries the id of the turn that produced it and the time it
//     was produced.
//   - Delivery is synchronous and ordered: the session hands each event to its
//     subscribers in parse order on the goroutine that drives it. Hosts that
//     need decoupling wrap a Hook with a channel fan-out.
//   - Events serialize to a flat JSON object with a "type" discriminator, for
//     publishing over a message bus.
//
// Event hierarchy:
//   - Event
//     ├── TextChunk: one streamed text fragment
//     ├── TextComplete: a text segment ended
//     ├── ToolCall: a complete tool invocation issued by the model
//     ├── TurnComplete: the turn finished and the session is idle again
//     ├── Error: the turn was abandoned because of a transport or provider failure
//     └── Usage: token counters reported by the provider
//
// Example usage:
//
//	var subs events.Subscribers
//	unsubscribe := subs.Add(events.Funcs{
//		TextChunk: func(ctx context.Context, ev events.TextChunk) { fmt.Print(ev.Text) },
//		ToolCall:  func(ctx context.Context, ev events.ToolCall) { pending = append(pending, ev.Call) },
//	})
//	defer unsubscribe()
package events
