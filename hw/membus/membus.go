// Package membus models the external memory the SFX chip fetches its data
// from: a byte RAM behind a single-ported bus, serving word requests first
// come, first served.
package membus

import (
	"p8sfx/emu/log"
	"p8sfx/hw/hwio"
	"p8sfx/hw/sfx"
)

type pending struct {
	req  sfx.FetchRequest
	wait int // bus cycles before the request is served
}

// Bus serves the fetch requests of the SFX chip from a RAM. Only the request
// at the head of the queue is in service, so requests are served in the order
// they were issued, each one taking latency+1 bus cycles.
type Bus struct {
	ram     *hwio.Mem
	latency int
	queue   []pending

	Served uint64 // number of served requests
	Cycles uint64 // number of bus cycles
}

// New returns a bus serving requests from ram, with the given latency in bus
// cycles. A latency of 0 serves a request on the first cycle following it.
func New(ram *hwio.Mem, latency int) *Bus {
	return &Bus{
		ram:     ram,
		latency: max(latency, 0),
	}
}

func (b *Bus) RAM() *hwio.Mem { return b.ram }

func (b *Bus) Latency() int { return b.latency }

// Pending returns the number of requests waiting to be served.
func (b *Bus) Pending() int { return len(b.queue) }

func (b *Bus) Request(req sfx.FetchRequest) {
	b.queue = append(b.queue, pending{req: req, wait: b.latency})
}

// Service runs one bus cycle, possibly completing the request at the head of
// the queue.
func (b *Bus) Service(ack func(sfx.FetchAck)) {
	b.Cycles++
	if len(b.queue) == 0 {
		return
	}

	head := &b.queue[0]
	if head.wait > 0 {
		head.wait--
		return
	}

	req := head.req
	b.queue = append(b.queue[:0], b.queue[1:]...)
	b.Served++

	data := b.ram.ReadWord16(req.Addr)
	log.ModMem.DebugZ("serve fetch").
		Int("ch", req.Channel).
		Uint32("tag", req.Tag).
		Hex32("addr", req.Addr).
		Hex16("data", data).
		End()

	ack(sfx.FetchAck{Channel: req.Channel, Tag: req.Tag, Data: data})
}

// Reset drops all pending requests.
func (b *Bus) Reset() {
	b.queue = b.queue[:0]
	b.Served = 0
	b.Cycles = 0
}
