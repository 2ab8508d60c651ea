// internal/writer/ingest/client_test.go
package ingest

import (
	"bytes"
	"io"
	"net"
	"testing"
	"time"
)

func TestBuildPacketV1_Layout(t *testing.T) {
	pkt := BuildPacketV1(AreaHoldingRegisters, 1, 0x0014, 2, []byte{0x00, 0x01, 0x00, 0x03})

	want := []byte{
		'R', 'I', 0x01, 0x03,
		0x00, 0x01, // unit
		0x00, 0x14, // addr
		0x00, 0x02, // count
		0x00, 0x01, 0x00, 0x03,
	}
	if !bytes.Equal(pkt, want) {
		t.Fatalf("packet mismatch:\n got %x\nwant %x", pkt, want)
	}
}

// serveOnce accepts one connection, captures the packet and answers with resp.
func serveOnce(t *testing.T, resp byte, n int) (string, <-chan []byte) {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	t.Cleanup(func() { _ = ln.Close() })

	got := make(chan []byte, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		_ = conn.SetDeadline(time.Now().Add(2 * time.Second))

		buf := make([]byte, n)
		if _, err := io.ReadFull(conn, buf); err != nil {
			return
		}
		got <- buf
		_, _ = conn.Write([]byte{resp})
	}()

	return ln.Addr().String(), got
}

func TestWriteRegisters_OK(t *testing.T) {
	addr, got := serveOnce(t, respOK, headerLen+2)

	c, err := NewEndpointClient(Config{Endpoint: addr, Timeout: time.Second})
	if err != nil {
		t.Fatal(err)
	}
	if err := c.WriteRegisters(7, 40, []uint16{0xBEEF}); err != nil {
		t.Fatalf("WriteRegisters() err=%v", err)
	}

	pkt := <-got
	if pkt[3] != AreaHoldingRegisters || pkt[5] != 7 || pkt[7] != 40 || pkt[9] != 1 {
		t.Fatalf("unexpected header %x", pkt[:headerLen])
	}
	if pkt[10] != 0xBE || pkt[11] != 0xEF {
		t.Fatalf("unexpected payload %x", pkt[headerLen:])
	}
}

func TestWriteRegisters_Rejected(t *testing.T) {
	addr, _ := serveOnce(t, respRejected, headerLen+2)

	c, _ := NewEndpointClient(Config{Endpoint: addr, Timeout: time.Second})
	if err := c.WriteRegisters(1, 0, []uint16{1}); err == nil {
		t.Fatalf("expected rejected error")
	}
}

func TestNewEndpointClient_RequiresEndpoint(t *testing.T) {
	if _, err := NewEndpointClient(Config{}); err == nil {
		t.Fatalf("expected error for empty endpoint")
	}
}
