// Package broker distributes session events beyond the host goroutine.
//
// A session delivers events synchronously to its hooks. Forward turns a Topic
// into such a hook, and subscribers of the topic receive the events on their
// own goroutines, in publish order per subscriber:
//
//	b := broker.Local()
//	topic := b.Topic(ctx, "session."+session.ID().String())
//	session.Subscribe(broker.Forward(topic))
//
//	sub, err := topic.Subscribe(ctx, renderer)
//	if err != nil {
//	    return err
//	}
//	defer sub.Unsubscribe()
//
// Local keeps everything in process and drops subscribers that stay full for
// longer than the slow subscriber timeout. NATS encodes each event with
// events.ToJSON and publishes it on the topic's subject.
package broker
