package fsutil_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/yaklabco/gorblint/pkg/fsutil"
)

func FuzzWriteAtomicRoundTrip(f *testing.F) {
	f.Add([]byte(""))
	f.Add([]byte("class CreateUser\nend\n"))
	f.Add([]byte("# frozen_string_literal: true\r\n"))
	f.Add([]byte("\x00\x01\x02\x03"))
	f.Add(make([]byte, 4096))

	f.Fuzz(func(t *testing.T, content []byte) {
		ctx := context.Background()
		path := filepath.Join(t.TempDir(), "service.rb")

		if err := fsutil.WriteAtomic(ctx, path, content, 0o644); err != nil {
			t.Fatalf("WriteAtomic: %v", err)
		}

		got, info, err := fsutil.ReadFile(ctx, path)
		if err != nil {
			t.Fatalf("ReadFile: %v", err)
		}
		if !bytes.Equal(got, content) {
			t.Fatalf("content mismatch: got %d bytes, want %d", len(got), len(content))
		}

		modified, err := fsutil.CheckModified(ctx, info)
		if err != nil {
			t.Fatalf("CheckModified: %v", err)
		}
		if modified {
			t.Error("untouched file reported as modified")
		}

		if err := os.WriteFile(path, append(bytes.Clone(content), 'x'), 0o644); err != nil {
			t.Fatalf("WriteFile: %v", err)
		}
		modified, err = fsutil.CheckModified(ctx, info)
		if err != nil {
			t.Fatalf("CheckModified after write: %v", err)
		}
		if !modified {
			t.Error("rewritten file not reported as modified")
		}
	})
}
