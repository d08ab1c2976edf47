package source_test

import (
	"testing"

	"github.com/hexaengine/hxslc/pkg/source"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManagerAssignsSequentialIDs(t *testing.T) {
	mgr := source.NewManager()
	a := mgr.Add("a.hlsl", []byte("void main() {}"))
	b := mgr.Add("b.hlsl", []byte("struct S {}"))

	assert.Equal(t, source.ID(0), a)
	assert.Equal(t, source.ID(1), b)
	require.Equal(t, 2, mgr.Len())
	assert.Equal(t, "b.hlsl", mgr.Get(b).Filename())
}

func TestFindLineLocatesEnclosingLine(t *testing.T) {
	mgr := source.NewManager()
	id := mgr.Add("f.hlsl", []byte("line1\nline2\nline3"))
	file := mgr.Get(id)

	line := file.FindLine(6)
	assert.Equal(t, 2, line.Number)
	assert.Equal(t, "line2", string(file.Contents()[line.Start:line.End]))
}

func TestSpanMergeSpansSameFile(t *testing.T) {
	a := source.NewSpan(0, 0, 3, 1, 1)
	b := source.NewSpan(0, 10, 3, 2, 1)

	m := a.Merge(b)
	assert.Equal(t, 0, m.Offset)
	assert.Equal(t, 13, m.End())
}

func TestTextMapEmptyOnMacroFreeInput(t *testing.T) {
	tm := source.NewTextMap(0)
	assert.True(t, tm.IsEmpty())

	tm.Record(source.Mapping{OutputStart: 0, OutputEnd: 5, Original: source.NewSpan(0, 0, 5, 1, 1), LineDelta: -1})
	assert.False(t, tm.IsEmpty())

	span, ok := tm.Resolve(2)
	require.True(t, ok)
	assert.Equal(t, 5, span.Length)
}
