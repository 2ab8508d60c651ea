// internal/scanner/spool/client_test.go
package spool_test

import (
	"bytes"
	"crypto/sha1"
	"encoding/hex"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/tamzrod/tag-inventory/internal/ndef"
	"github.com/tamzrod/tag-inventory/internal/scanner"
	"github.com/tamzrod/tag-inventory/internal/scanner/spool"
)

// image builds tag memory with msg placed at block 4.
func image(msg []byte) []byte {
	mem := make([]byte, 20*4)
	copy(mem[16:], msg)
	return mem
}

func TestClient_EmptySpoolIsNoTag(t *testing.T) {
	c, err := spool.New(spool.Config{Dir: t.TempDir(), BlockSize: 4})
	if err != nil {
		t.Fatalf("New() err=%v", err)
	}

	uid, err := c.ReadUID(time.Millisecond)
	if err != nil || uid != nil {
		t.Fatalf("expected no tag, got uid=%v err=%v", uid, err)
	}
	if _, err := c.ReadBlock(4); err == nil {
		t.Fatalf("expected error reading without a tag")
	}
}

func TestClient_BinImageThroughScanner(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "sword.bin"), image(ndef.EncodeText("en", "Sword")), 0o644); err != nil {
		t.Fatal(err)
	}

	c, err := spool.New(spool.Config{Dir: dir, BlockSize: 4})
	if err != nil {
		t.Fatal(err)
	}
	s, err := scanner.New(scanner.Config{
		Timeout:    100 * time.Millisecond,
		FirstBlock: 4,
		EndBlock:   20,
		BlockSize:  4,
	}, c)
	if err != nil {
		t.Fatal(err)
	}

	res := s.ScanOnce()
	if !res.Present() || res.Truncated {
		t.Fatalf("unexpected scan: %+v", res)
	}
	if len(res.UID) != spool.UIDLength {
		t.Fatalf("expected %d byte uid, got %d", spool.UIDLength, len(res.UID))
	}

	text, err := ndef.ParseText(res.Raw)
	if err != nil || text != "Sword" {
		t.Fatalf("expected Sword, got %q err=%v", text, err)
	}
}

func TestClient_HexImage(t *testing.T) {
	dir := t.TempDir()
	mem := image(ndef.EncodeText("en", "Torch"))
	txt := hex.EncodeToString(mem[:40]) + "\n" + hex.EncodeToString(mem[40:]) + "\n"
	if err := os.WriteFile(filepath.Join(dir, "torch.hex"), []byte(txt), 0o644); err != nil {
		t.Fatal(err)
	}

	c, _ := spool.New(spool.Config{Dir: dir, BlockSize: 4})
	if uid, err := c.ReadUID(0); err != nil || uid == nil {
		t.Fatalf("expected tag, got uid=%v err=%v", uid, err)
	}
	b, err := c.ReadBlock(4)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(b, mem[16:20]) {
		t.Fatalf("unexpected block %v", b)
	}
}

func TestClient_ShortImageTruncates(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "short.bin"), make([]byte, 6*4), 0o644); err != nil {
		t.Fatal(err)
	}

	c, _ := spool.New(spool.Config{Dir: dir, BlockSize: 4})
	s, _ := scanner.New(scanner.Config{Timeout: time.Millisecond, FirstBlock: 4, EndBlock: 20, BlockSize: 4}, c)

	res := s.ScanOnce()
	if !res.Truncated || res.Blocks != 2 {
		t.Fatalf("expected truncation after 2 blocks, got %+v", res)
	}
}

func TestClient_PicksFirstByNameAndIgnoresOthers(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.bin", "a.bin", ".hidden.bin", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), image(nil), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	c, _ := spool.New(spool.Config{Dir: dir, BlockSize: 4})
	uid, err := c.ReadUID(0)
	if err != nil {
		t.Fatal(err)
	}
	want := sha1.Sum([]byte("a.bin"))
	if !bytes.Equal(uid, want[:spool.UIDLength]) {
		t.Fatalf("expected uid of a.bin, got %x", uid)
	}
}

func TestClient_BadHexIsNoTag(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "bad.hex"), []byte("zz"), 0o644); err != nil {
		t.Fatal(err)
	}

	c, _ := spool.New(spool.Config{Dir: dir, BlockSize: 4})
	uid, err := c.ReadUID(0)
	if err != nil || uid != nil {
		t.Fatalf("expected no tag for unreadable image, got uid=%v err=%v", uid, err)
	}
}
