package fix_test

import (
	"bytes"
	"testing"

	"github.com/yaklabco/gorblint/pkg/fix"
)

func FuzzGenerateDiff(f *testing.F) {
	f.Add([]byte(""), []byte(""))
	f.Add([]byte("trait :b do\nend\n"), []byte("trait :b do\nend\n"))
	f.Add([]byte("trait :b do\nend\ntrait :a do\nend\n"), []byte("trait :a do\nend\ntrait :b do\nend\n"))
	f.Add([]byte("def call\nend"), []byte("def call\nend\n"))
	f.Add([]byte("a\nb\nc\nd\ne\n"), []byte("a\nB\nc\nD\ne\n"))

	f.Fuzz(func(t *testing.T, original, modified []byte) {
		diff := fix.GenerateDiff("spec/factories/users.rb", original, modified)
		if diff == nil {
			return
		}

		_ = diff.String()
		if !diff.HasChanges() && len(diff.Hunks) > 0 {
			t.Error("HasChanges() inconsistent with Hunks")
		}

		for i, hunk := range diff.Hunks {
			if hunk.OriginalStart < 0 || hunk.ModifiedStart < 0 {
				t.Errorf("hunk %d: negative start %d/%d", i, hunk.OriginalStart, hunk.ModifiedStart)
			}

			var context, added, removed int
			for _, line := range hunk.Lines {
				switch line.Kind {
				case fix.DiffLineContext:
					context++
				case fix.DiffLineAdd:
					added++
				case fix.DiffLineRemove:
					removed++
				}
			}
			if context+removed != hunk.OriginalCount {
				t.Errorf("hunk %d: context(%d) + removed(%d) != OriginalCount(%d)",
					i, context, removed, hunk.OriginalCount)
			}
			if context+added != hunk.ModifiedCount {
				t.Errorf("hunk %d: context(%d) + added(%d) != ModifiedCount(%d)",
					i, context, added, hunk.ModifiedCount)
			}
		}
	})
}

// FuzzCorrector checks that a batch of two edits is applied entirely or not
// at all.
func FuzzCorrector(f *testing.F) {
	f.Add([]byte("trait :b\ntrait :a\n"), 0, 8, "trait :a", 9, 17, "trait :b")
	f.Add([]byte("abcdef"), 1, 4, "X", 2, 5, "Y")
	f.Add([]byte("abcdef"), 2, 4, "X", 2, 4, "X")
	f.Add([]byte("abcdef"), 3, 3, "<", 3, 3, ">")
	f.Add([]byte(""), 0, 0, "x", 0, 0, "x")

	f.Fuzz(func(t *testing.T, content []byte, start1, end1 int, text1 string, start2, end2 int, text2 string) {
		corrector := fix.NewCorrector(content)
		corrector.Replace(start1, end1, text1)
		corrector.Replace(start2, end2, text2)

		prepared, prepErr := corrector.Prepared()
		result, err := corrector.Apply()

		if prepErr != nil {
			if err == nil {
				t.Fatal("Apply succeeded although the batch was rejected")
			}
			if !bytes.Equal(result, content) {
				t.Fatal("rejected batch changed the content")
			}
			return
		}
		if err != nil {
			t.Fatalf("Apply failed on a valid batch: %v", err)
		}

		want := len(content)
		for _, edit := range prepared {
			want += len(edit.NewText) - (edit.EndOffset - edit.StartOffset)
		}
		if len(result) != want {
			t.Errorf("result length = %d, want %d", len(result), want)
		}
	})
}
