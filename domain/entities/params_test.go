package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParameters_LastValueWins(t *testing.T) {
	p := NewParameters()
	p.SetValue("FilterSize", "3")
	p.SetValue("FilterSize", "5")
	p.SetValue("Fail", "false")
	p.SetImage(&Image{Key: "WorkImage", Width: 1, Height: 1, Stride: 1, Pix: []byte{0}})

	v, ok := p.Value("FilterSize")
	assert.True(t, ok)
	assert.Equal(t, "5", v, "last value wins")

	_, ok = p.Value("Missing")
	assert.False(t, ok)

	assert.Equal(t, []string{"Fail", "FilterSize"}, p.ValueKeys())
	assert.Equal(t, []string{"WorkImage"}, p.ImageKeys())
	assert.Equal(t, 3, p.Len())
}

func TestResults(t *testing.T) {
	r := NewResults()
	r.Set("Size", "3")
	r.Set("Elapsed", "0.5")

	assert.Equal(t, []string{"Elapsed", "Size"}, r.Keys())

	m := r.Map()
	m["Size"] = "changed"
	v, _ := r.Get("Size")
	assert.Equal(t, "3", v, "Map returns a copy")

	r.Reset()
	assert.Equal(t, 0, r.Len())
	_, ok := r.Get("Size")
	assert.False(t, ok)
}

func TestNotificationLog_AppendReset(t *testing.T) {
	var l NotificationLog

	_, ok := l.Last()
	assert.False(t, ok)

	l.Append("first")
	l.Append("second")
	last, ok := l.Last()
	assert.True(t, ok)
	assert.Equal(t, "second", last)
	assert.Equal(t, []string{"first", "second"}, l.Entries())

	l.Reset()
	assert.Empty(t, l.Entries())
}
