package patch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const twoHunkDiff = `diff --git a/lintly/parsers.py b/lintly/parsers.py
index 83db48f..bf269f4 100644
--- a/lintly/parsers.py
+++ b/lintly/parsers.py
@@ -1,4 +1,5 @@
 import json
+import os
 import re

 PARSERS = {}
@@ -10,2 +11,4 @@
     return {}

+
+# trailing helper
`

const mixedDiff = `diff --git a/app.py b/app.py
index 83db48f..bf269f4 100644
--- a/app.py
+++ b/app.py
@@ -5,4 +5,4 @@
 def run():
-    print "hello"
+    print("hello")
     return 0
diff --git a/old.py b/old.py
deleted file mode 100644
index 83db48f..0000000
--- a/old.py
+++ /dev/null
@@ -1,2 +0,0 @@
-import sys
-sys.exit(1)
`

func TestParse_EmptyDiff(t *testing.T) {
	p, err := Parse("   \n")
	require.NoError(t, err)
	assert.False(t, p.HasFile("anything.py"))
	assert.Empty(t, p.ChangedLines("anything.py"))
}

func TestParse_MultipleHunks(t *testing.T) {
	p, err := Parse(twoHunkDiff)
	require.NoError(t, err)

	require.True(t, p.HasFile("lintly/parsers.py"))
	assert.Equal(t, []int{2, 13, 14}, p.ChangedLines("lintly/parsers.py"))

	// Position 1 is the line directly below the first @@ header; the second
	// @@ header itself consumes a position.
	pos, ok := p.Position("lintly/parsers.py", 2)
	require.True(t, ok)
	assert.Equal(t, 2, pos)

	pos, ok = p.Position("lintly/parsers.py", 13)
	require.True(t, ok)
	assert.Equal(t, 9, pos)

	pos, ok = p.Position("lintly/parsers.py", 14)
	require.True(t, ok)
	assert.Equal(t, 10, pos)
}

func TestParse_UnchangedLineHasNoPosition(t *testing.T) {
	p, err := Parse(twoHunkDiff)
	require.NoError(t, err)

	_, ok := p.Position("lintly/parsers.py", 1)
	assert.False(t, ok, "context lines are not commentable")
	_, ok = p.Position("lintly/parsers.py", 999)
	assert.False(t, ok)
}

func TestParse_RemovedLinesAdvancePositionOnly(t *testing.T) {
	p, err := Parse(mixedDiff)
	require.NoError(t, err)

	// Hunk body: context(1), removal(2), addition(3), context(4).
	assert.Equal(t, []int{6}, p.ChangedLines("app.py"))
	pos, ok := p.Position("app.py", 6)
	require.True(t, ok)
	assert.Equal(t, 3, pos)
}

func TestParse_DeletedFileIsSkipped(t *testing.T) {
	p, err := Parse(mixedDiff)
	require.NoError(t, err)

	assert.False(t, p.HasFile("old.py"))
	assert.False(t, p.HasFile("/dev/null"))
}

func TestParse_Garbage(t *testing.T) {
	p, err := Parse("this is not a diff at all")
	if err == nil {
		assert.Empty(t, p.changed, "non-diff input must not invent files")
	}
}
