package diffparse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnnotateHunk(t *testing.T) {
	h := Hunk{
		Header: "@@ -10,3 +10,3 @@ func main()",
		Lines: []DiffLine{
			{Type: LineContext, Content: "keep", OldLineNo: 10, NewLineNo: 10},
			{Type: LineDeleted, Content: "old := 1", OldLineNo: 11},
			{Type: LineAdded, Content: "new := 2", NewLineNo: 11},
			{Type: LineContext, Content: "end", OldLineNo: 12, NewLineNo: 12},
		},
	}

	want := "@@ -10,3 +10,3 @@ func main()\n" +
		"10  keep\n" +
		"11 -old := 1\n" +
		"11 +new := 2\n" +
		"12  end\n"
	assert.Equal(t, want, AnnotateHunk(h))
}

func TestAnnotateHunk_Deterministic(t *testing.T) {
	changes := Parse(sampleDiff)
	require.Len(t, changes, 1)
	require.Len(t, changes[0].Hunks, 1)

	h := changes[0].Hunks[0]
	assert.Equal(t, AnnotateHunk(h), AnnotateHunk(h))
	assert.Contains(t, AnnotateHunk(h), `4 +import "os"`)
}
