package surgeon

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/surgeonkit/surgeon/diff"
	surgexec "github.com/surgeonkit/surgeon/exec"
	"github.com/surgeonkit/surgeon/git"
)

const oneHunkDiff = `diff --git a/hello.txt b/hello.txt
index 83db48f..bf269f4 100644
--- a/hello.txt
+++ b/hello.txt
@@ -1,2 +1,2 @@ func greet
 context
-old line
+new line
`

const twoFileDiff = `diff --git a/a.txt b/a.txt
--- a/a.txt
+++ b/a.txt
@@ -1,1 +1,1 @@
-aaa
+AAA
diff --git a/b.txt b/b.txt
--- a/b.txt
+++ b/b.txt
@@ -1,1 +1,1 @@
-bbb
+BBB
`

var workingDiffArgs = []string{"diff", "--no-color", "--no-ext-diff", "--src-prefix=a/", "--dst-prefix=b/"}

func stagedDiffArgs() []string {
	return append(append([]string{}, workingDiffArgs...), "--cached")
}

func newTestSurgeon(t *testing.T, dir string, opts ...Option) (*Surgeon, *surgexec.MockExecutor, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	mock := surgexec.NewMockExecutor(nil)
	svc := git.NewGitServiceWithExecutor(mock, dir)
	var out, progress bytes.Buffer
	opts = append([]Option{WithOutput(&out), WithErrOutput(&progress)}, opts...)
	return New(svc, opts...), mock, &out, &progress
}

func mockWorkingDiff(mock *surgexec.MockExecutor, text string) {
	mock.AddExactMatch("git", workingDiffArgs, surgexec.MockResponse{Stdout: []byte(text)})
}

func mockStagedDiff(mock *surgexec.MockExecutor, text string) {
	mock.AddExactMatch("git", stagedDiffArgs(), surgexec.MockResponse{Stdout: []byte(text)})
}

func mockCommitDiff(mock *surgexec.MockExecutor, commit, text string) {
	mock.AddContainsMatch("git", []string{"show", commit}, surgexec.MockResponse{Stdout: []byte(text)})
}

// hunkIDs derives the ids a listing of the given diff text would print.
func hunkIDs(text string) []string {
	identified := diff.AssignIDs(diff.Parse(text))
	ids := make([]string, len(identified))
	for i, entry := range identified {
		ids[i] = entry.ID
	}
	return ids
}

func hasArg(args []string, want string) bool {
	for _, a := range args {
		if a == want {
			return true
		}
	}
	return false
}

// findCall returns the first recorded git call whose leading args match.
func findCall(calls []surgexec.MockCall, prefix ...string) *surgexec.MockCall {
	for i := range calls {
		if len(calls[i].Args) < len(prefix) {
			continue
		}
		match := true
		for j, p := range prefix {
			if calls[i].Args[j] != p {
				match = false
				break
			}
		}
		if match {
			return &calls[i]
		}
	}
	return nil
}

func porcelainFor(hashes ...string) []byte {
	var b strings.Builder
	for i, h := range hashes {
		fmt.Fprintf(&b, "%s %d %d 1\n", h, i+1, i+1)
		b.WriteString("\tcontent\n")
	}
	return []byte(b.String())
}
