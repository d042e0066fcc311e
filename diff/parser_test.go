package diff

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDiff = `diff --git a/foo.txt b/foo.txt
index 1234567..89abcde 100644
--- a/foo.txt
+++ b/foo.txt
@@ -1,3 +1,3 @@
 context
-old line
+new line
@@ -10,2 +10,3 @@ func region
 more context
+added
 tail
diff --git a/bar.txt b/bar.txt
index 2345678..9abcdef 100644
--- a/bar.txt
+++ b/bar.txt
@@ -5,1 +5,1 @@
-bar old
+bar new
`

func TestParseMultipleHunks(t *testing.T) {
	hunks := Parse(sampleDiff)
	require.Len(t, hunks, 3)

	first := hunks[0]
	assert.Equal(t, "foo.txt", first.File)
	assert.Equal(t, "foo.txt", first.OldFile)
	assert.Equal(t, "foo.txt", first.NewFile)
	assert.Equal(t, "--- a/foo.txt\n+++ b/foo.txt", first.FileHeader)
	assert.Equal(t, "@@ -1,3 +1,3 @@", first.Header)

	wantLines := []Line{
		{Kind: Context, Raw: " context"},
		{Kind: Deletion, Raw: "-old line"},
		{Kind: Addition, Raw: "+new line"},
	}
	if d := cmp.Diff(wantLines, first.Lines); d != "" {
		t.Errorf("first hunk lines mismatch (-want +got):\n%s", d)
	}

	second := hunks[1]
	assert.Equal(t, "foo.txt", second.File)
	assert.Equal(t, "@@ -10,2 +10,3 @@ func region", second.Header)
	require.Len(t, second.Lines, 3)

	third := hunks[2]
	assert.Equal(t, "bar.txt", third.File)
	assert.Equal(t, 1, third.Additions())
	assert.Equal(t, 1, third.Deletions())
}

func TestParseEmptyInput(t *testing.T) {
	assert.Empty(t, Parse(""))
}

func TestParseSkipsLeadingNoise(t *testing.T) {
	input := "warning: something\nnot a diff line\n" + sampleDiff
	hunks := Parse(input)
	assert.Len(t, hunks, 3)
}

func TestParseNewFile(t *testing.T) {
	input := `diff --git a/new.txt b/new.txt
new file mode 100644
index 0000000..c8d42a9
--- /dev/null
+++ b/new.txt
@@ -0,0 +1,2 @@
+first
+second
`
	hunks := Parse(input)
	require.Len(t, hunks, 1)
	h := hunks[0]
	assert.Equal(t, "new.txt", h.File)
	assert.Equal(t, "dev/null", h.OldFile)
	assert.False(t, h.Unsupported, "new files are sliceable")
}

func TestParseDeletedFileUsesOldPath(t *testing.T) {
	input := `diff --git a/gone.txt b/gone.txt
deleted file mode 100644
index c8d42a9..0000000
--- a/gone.txt
+++ /dev/null
@@ -1,2 +0,0 @@
-first
-second
`
	hunks := Parse(input)
	require.Len(t, hunks, 1)
	assert.Equal(t, "gone.txt", hunks[0].File)
	assert.Equal(t, "dev/null", hunks[0].NewFile)
}

func TestParseRenameTaggedUnsupported(t *testing.T) {
	input := `diff --git a/old_name.txt b/new_name.txt
similarity index 90%
rename from old_name.txt
rename to new_name.txt
index 1234567..89abcde 100644
--- a/old_name.txt
+++ b/new_name.txt
@@ -1,2 +1,2 @@
 keep
-changed
+changed more
`
	hunks := Parse(input)
	require.Len(t, hunks, 1)
	assert.True(t, hunks[0].Unsupported)
}

func TestParseModeChangeTaggedUnsupported(t *testing.T) {
	input := `diff --git a/script.sh b/script.sh
old mode 100644
new mode 100755
index 1234567..89abcde
--- a/script.sh
+++ b/script.sh
@@ -1,1 +1,1 @@
-echo hi
+echo hello
`
	hunks := Parse(input)
	require.Len(t, hunks, 1)
	assert.True(t, hunks[0].Unsupported)
}

func TestParseMetadataDoesNotLeakAcrossFiles(t *testing.T) {
	input := `diff --git a/moved.txt b/renamed.txt
similarity index 95%
rename from moved.txt
rename to renamed.txt
--- a/moved.txt
+++ b/renamed.txt
@@ -1,1 +1,1 @@
-a
+b
diff --git a/plain.txt b/plain.txt
--- a/plain.txt
+++ b/plain.txt
@@ -1,1 +1,1 @@
-c
+d
`
	hunks := Parse(input)
	require.Len(t, hunks, 2)
	assert.True(t, hunks[0].Unsupported)
	assert.False(t, hunks[1].Unsupported)
}

func TestParseNoNewlineMarker(t *testing.T) {
	input := `diff --git a/f.txt b/f.txt
--- a/f.txt
+++ b/f.txt
@@ -1,1 +1,1 @@
-old
+new
\ No newline at end of file
`
	hunks := Parse(input)
	require.Len(t, hunks, 1)
	require.Len(t, hunks[0].Lines, 3)
	assert.Equal(t, Other, hunks[0].Lines[2].Kind)
	assert.Equal(t, `\ No newline at end of file`, hunks[0].Lines[2].Raw)
}

func TestLineContent(t *testing.T) {
	assert.Equal(t, "text", Line{Kind: Addition, Raw: "+text"}.Content())
	assert.Equal(t, "text", Line{Kind: Deletion, Raw: "-text"}.Content())
	assert.Equal(t, "text", Line{Kind: Context, Raw: " text"}.Content())
	assert.Equal(t, `\ marker`, Line{Kind: Other, Raw: `\ marker`}.Content())
}
