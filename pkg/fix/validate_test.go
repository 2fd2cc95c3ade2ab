package fix_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gorblint/pkg/fix"
)

func edit(start, end int, text string) fix.TextEdit {
	return fix.TextEdit{StartOffset: start, EndOffset: end, NewText: text}
}

func TestValidateEdits(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		edits   []fix.TextEdit
		wantMsg string
	}{
		{name: "valid", edits: []fix.TextEdit{edit(0, 2, "x"), edit(5, 5, "y")}},
		{name: "negative start", edits: []fix.TextEdit{edit(-1, 2, "")}, wantMsg: "negative"},
		{name: "inverted", edits: []fix.TextEdit{edit(4, 2, "")}, wantMsg: "before start"},
		{name: "past end", edits: []fix.TextEdit{edit(0, 11, "")}, wantMsg: "exceeds content length"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := fix.ValidateEdits(tt.edits, 10)
			if tt.wantMsg == "" {
				require.NoError(t, err)
				return
			}
			var validation *fix.ValidationError
			require.True(t, errors.As(err, &validation))
			assert.Contains(t, validation.Message, tt.wantMsg)
		})
	}
}

func TestSortEdits(t *testing.T) {
	t.Parallel()

	edits := []fix.TextEdit{edit(5, 6, "b"), edit(0, 2, "z"), edit(5, 6, "a"), edit(0, 1, "y")}
	fix.SortEdits(edits)

	assert.Equal(t, []fix.TextEdit{edit(0, 1, "y"), edit(0, 2, "z"), edit(5, 6, "a"), edit(5, 6, "b")}, edits)
}

func TestDetectConflicts(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		edits    []fix.TextEdit
		conflict bool
	}{
		{name: "empty", edits: nil},
		{name: "disjoint", edits: []fix.TextEdit{edit(0, 2, ""), edit(3, 4, "")}},
		{name: "touching", edits: []fix.TextEdit{edit(0, 2, ""), edit(2, 4, "")}},
		{name: "insert at replacement end", edits: []fix.TextEdit{edit(0, 2, "x"), edit(2, 2, "y")}},
		{name: "overlap", edits: []fix.TextEdit{edit(0, 3, ""), edit(2, 4, "")}, conflict: true},
		{name: "insert inside replacement", edits: []fix.TextEdit{edit(0, 4, "x"), edit(2, 2, "y")}, conflict: true},
		{name: "same offset inserts", edits: []fix.TextEdit{edit(2, 2, "a"), edit(2, 2, "b")}, conflict: true},
		{
			name:     "wide edit covers a later one",
			edits:    []fix.TextEdit{edit(0, 10, ""), edit(1, 2, ""), edit(5, 6, "")},
			conflict: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := fix.DetectConflicts(tt.edits)
			if tt.conflict {
				var conflict *fix.ConflictError
				assert.True(t, errors.As(err, &conflict))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestPrepareEdits(t *testing.T) {
	t.Parallel()

	t.Run("dedupes identical edits", func(t *testing.T) {
		t.Parallel()

		input := []fix.TextEdit{edit(4, 6, "x"), edit(0, 1, "a"), edit(4, 6, "x")}
		got, err := fix.PrepareEdits(input, 10)

		require.NoError(t, err)
		assert.Equal(t, []fix.TextEdit{edit(0, 1, "a"), edit(4, 6, "x")}, got)
		assert.Len(t, input, 3, "input must not be modified")
	})

	t.Run("distinct overlapping edits conflict", func(t *testing.T) {
		t.Parallel()

		_, err := fix.PrepareEdits([]fix.TextEdit{edit(4, 6, "x"), edit(4, 6, "y")}, 10)
		require.Error(t, err)
	})

	t.Run("empty", func(t *testing.T) {
		t.Parallel()

		got, err := fix.PrepareEdits(nil, 10)
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}

func TestApplyEdits(t *testing.T) {
	t.Parallel()

	content := []byte("factory :user do\nend\n")
	got := fix.ApplyEdits(content, []fix.TextEdit{edit(9, 13, "admin"), edit(17, 20, "end # factory")})

	assert.Equal(t, "factory :admin do\nend # factory\n", string(got))
	assert.Equal(t, "factory :user do\nend\n", string(content))
	assert.Equal(t, content, fix.ApplyEdits(content, nil))
}

func TestTextEdit_IsNoop(t *testing.T) {
	t.Parallel()

	content := []byte("abc")

	assert.True(t, edit(1, 2, "b").IsNoop(content))
	assert.False(t, edit(1, 2, "x").IsNoop(content))
	assert.False(t, edit(1, 9, "b").IsNoop(content))
}
