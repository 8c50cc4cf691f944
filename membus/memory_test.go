package membus_test

import (
	"testing"

	"github.com/hdl2go/rv32pipe/membus"
)

func TestStoreThenLoadRoundTrip(t *testing.T) {
	dev := membus.NewDevice(0x200, 2)

	req := membus.Request{
		Address: 0x100,
		Write:   true,
		Data:    [4]byte{99, 0, 0, 0},
		Mask:    [4]bool{true, true, true, true},
	}
	if !dev.TryRequest(req) {
		t.Fatalf("store request not accepted")
	}
	dev.Tick()
	if _, ok := dev.Poll(); ok {
		t.Fatalf("response ready too early (latency 2)")
	}
	dev.Tick()
	resp, ok := dev.Poll()
	if !ok || !resp.Valid {
		t.Fatalf("expected valid store response after latency elapses")
	}

	if !dev.TryRequest(membus.Request{Address: 0x100}) {
		t.Fatalf("load request not accepted")
	}
	dev.Tick()
	dev.Tick()
	resp, ok = dev.Poll()
	if !ok || !resp.Valid {
		t.Fatalf("expected valid load response")
	}
	if resp.Data[0] != 99 {
		t.Errorf("loaded byte 0 = %d, want 99", resp.Data[0])
	}
}

func TestOneRequestInFlight(t *testing.T) {
	dev := membus.NewDevice(0x10, 3)
	if !dev.TryRequest(membus.Request{Address: 0}) {
		t.Fatalf("first request should be accepted")
	}
	if dev.TryRequest(membus.Request{Address: 4}) {
		t.Errorf("second concurrent request should be rejected")
	}
}

func TestOutOfRangeDenied(t *testing.T) {
	dev := membus.NewDevice(0x10, 1)
	dev.TryRequest(membus.Request{Address: 0x100})
	dev.Tick()
	resp, ok := dev.Poll()
	if !ok {
		t.Fatalf("expected a response")
	}
	if resp.Valid {
		t.Errorf("expected denied response for out-of-range address")
	}
}

func TestPeekPoke(t *testing.T) {
	dev := membus.NewDevice(0x10, 1)
	if err := dev.Poke(4, 0x42); err != nil {
		t.Fatalf("Poke: %v", err)
	}
	v, err := dev.Peek(4)
	if err != nil {
		t.Fatalf("Peek: %v", err)
	}
	if v != 0x42 {
		t.Errorf("Peek(4) = %#x, want 0x42", v)
	}
}
