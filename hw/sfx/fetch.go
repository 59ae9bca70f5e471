package sfx

import (
	"p8sfx/emu/log"
)

// Memory is the external memory the chip fetches SFX data from.
//
// Requests carry a word address, the memory answers with the big-endian word
// found at that address. Acknowledges may come late and out of order across
// channels: the chip matches them against the request tag of the channel.
type Memory interface {
	// Request queues a fetch request.
	Request(req FetchRequest)

	// Service gives the memory one bus cycle to make progress. Each
	// completed request is passed to ack.
	Service(ack func(FetchAck))
}

// FetchRequest is a single word read request issued by a channel.
type FetchRequest struct {
	Channel int
	Tag     uint32
	Addr    uint32 // word address, 31 bits
}

// FetchAck answers a FetchRequest.
type FetchAck struct {
	Channel int
	Tag     uint32
	Data    uint16
}

const addrMask = 1<<31 - 1

// fetchUnit handles the single outstanding request of a channel. A new tag is
// used for each request, so that an acknowledge for an aborted request can be
// told apart from the one being waited for.
type fetchUnit struct {
	channel int
	tag     uint32
	pending bool
	addr    uint32

	ready bool
	data  uint16
}

func (f *fetchUnit) request(mem Memory, addr uint32) {
	f.tag++
	f.pending = true
	f.ready = false
	f.addr = addr & addrMask

	log.ModMem.DebugZ("fetch request").
		Int("ch", f.channel).
		Uint32("tag", f.tag).
		Hex32("addr", f.addr).
		End()

	if mem != nil {
		mem.Request(f.outstanding())
	}
}

func (f *fetchUnit) outstanding() FetchRequest {
	return FetchRequest{Channel: f.channel, Tag: f.tag, Addr: f.addr}
}

// ack latches the data of a matching acknowledge. Stale or unexpected
// acknowledges are dropped.
func (f *fetchUnit) ack(a FetchAck) bool {
	if !f.pending || a.Tag != f.tag {
		log.ModMem.WarnZ("discarding fetch ack").
			Int("ch", f.channel).
			Uint32("tag", a.Tag).
			Uint32("want", f.tag).
			Bool("pending", f.pending).
			End()
		return false
	}
	f.pending = false
	f.ready = true
	f.data = a.Data
	return true
}

// take consumes the latched word, if any.
func (f *fetchUnit) take() (uint16, bool) {
	if !f.ready {
		return 0, false
	}
	f.ready = false
	return f.data, true
}

func (f *fetchUnit) abort() {
	if f.pending {
		log.ModMem.DebugZ("abort fetch").
			Int("ch", f.channel).
			Uint32("tag", f.tag).
			Hex32("addr", f.addr).
			End()
	}
	f.pending = false
	f.ready = false
}
