package mqtt

import "log"

// queued is one publish held while the broker is unreachable.
type queued struct {
	topic    string
	payload  []byte
	qos      byte
	retained bool
}

// outbox holds publishes made while disconnected, oldest first, up to limit.
// A retained publish replaces any earlier retained one on the same topic.
// When full the oldest entry is dropped. Caller synchronizes.
type outbox struct {
	items   []queued
	limit   int
	dropped int
}

func newOutbox(limit int) *outbox {
	return &outbox{limit: limit}
}

func (o *outbox) add(m queued) {
	if m.retained {
		for i, q := range o.items {
			if q.retained && q.topic == m.topic {
				o.items = append(o.items[:i], o.items[i+1:]...)
				break
			}
		}
	}
	if len(o.items) == o.limit {
		if o.dropped == 0 {
			log.Printf("mqtt: outbox full (%d messages), dropping oldest", o.limit)
		}
		o.dropped++
		o.items = o.items[1:]
	}
	o.items = append(o.items, m)
}

// drain returns everything queued and empties the outbox.
func (o *outbox) drain() []queued {
	if o.dropped > 0 {
		log.Printf("mqtt: %d messages dropped while disconnected", o.dropped)
		o.dropped = 0
	}
	if len(o.items) == 0 {
		o.items = nil
		return nil
	}
	items := o.items
	o.items = nil
	return items
}

func (o *outbox) len() int {
	return len(o.items)
}
