package membus

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"p8sfx/hw/hwio"
	"p8sfx/hw/sfx"
)

func newTestBus(latency int) *Bus {
	ram := hwio.NewMem("ram", 0x100, hwio.MemFlagReadWrite)
	for i := range ram.Data {
		ram.Data[i] = uint8(i)
	}
	return New(ram, latency)
}

func TestBusFirstComeFirstServed(t *testing.T) {
	b := newTestBus(0)
	b.Request(sfx.FetchRequest{Channel: 3, Tag: 1, Addr: 0x10})
	b.Request(sfx.FetchRequest{Channel: 0, Tag: 9, Addr: 0x11})
	b.Request(sfx.FetchRequest{Channel: 3, Tag: 2, Addr: 0x12})

	var got []sfx.FetchAck
	for range 5 {
		b.Service(func(a sfx.FetchAck) { got = append(got, a) })
	}

	want := []sfx.FetchAck{
		{Channel: 3, Tag: 1, Data: 0x2021},
		{Channel: 0, Tag: 9, Data: 0x2223},
		{Channel: 3, Tag: 2, Data: 0x2425},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("acks mismatch (-want +got):\n%s", diff)
	}
	if b.Pending() != 0 || b.Served != 3 || b.Cycles != 5 {
		t.Errorf("pending=%d served=%d cycles=%d, want 0, 3, 5", b.Pending(), b.Served, b.Cycles)
	}
}

func TestBusLatency(t *testing.T) {
	const latency = 3
	b := newTestBus(latency)
	b.Request(sfx.FetchRequest{Channel: 1, Tag: 1, Addr: 0})
	b.Request(sfx.FetchRequest{Channel: 2, Tag: 1, Addr: 1})

	var cycles []int
	for i := range 2 * (latency + 1) {
		b.Service(func(a sfx.FetchAck) { cycles = append(cycles, i) })
	}

	// each request spends latency+1 cycles at the head of the queue
	if diff := cmp.Diff([]int{latency, 2*latency + 1}, cycles); diff != "" {
		t.Errorf("completion cycles mismatch (-want +got):\n%s", diff)
	}
}

func TestBusReset(t *testing.T) {
	b := newTestBus(10)
	b.Request(sfx.FetchRequest{Channel: 1, Tag: 1})
	b.Reset()
	b.Service(func(sfx.FetchAck) { t.Error("unexpected ack after Reset") })
	if b.Pending() != 0 {
		t.Errorf("Pending() = %d, want 0", b.Pending())
	}
}
