package circuit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gatework-labs/gatesim/pkg/names"
)

func point(r *Registry, dev, pin string) Point {
	p := Point{Device: r.Names().Intern(dev), Pin: names.NoID}
	if pin != "" {
		p.Pin = r.Names().Intern(pin)
	}
	return p
}

func TestMonitorSet_AddValidation(t *testing.T) {
	r := newTestRegistry(t)
	mustCreate(t, r, KindClock, "clk", "1")
	mustCreate(t, r, KindDType, "ff", "")
	m := NewMonitorSet(r)

	require.NoError(t, m.Add(point(r, "clk", "")))
	require.NoError(t, m.Add(point(r, "ff", "Q")))
	require.NoError(t, m.Add(point(r, "ff", "QBAR")))

	assert.ErrorIs(t, m.Add(point(r, "ghost", "")), ErrUnknownDevice)
	assert.ErrorIs(t, m.Add(point(r, "clk", "Q")), ErrInvalidPin)
	assert.ErrorIs(t, m.Add(point(r, "ff", "")), ErrInvalidPin)
	assert.ErrorIs(t, m.Add(point(r, "ff", "DATA")), ErrInvalidPin, "inputs are not monitorable")
	assert.ErrorIs(t, m.Add(point(r, "clk", "")), ErrMonitorExists)
	assert.Equal(t, 3, m.Len())
}

func TestMonitorSet_RecordsPostCycleLevels(t *testing.T) {
	r := newTestRegistry(t)
	mustCreate(t, r, KindClock, "clk", "1")
	net := NewNetwork(r)
	m := NewMonitorSet(r)
	require.NoError(t, m.Add(point(r, "clk", "")))

	for i := 0; i < 4; i++ {
		require.NoError(t, net.ExecuteCycle())
		m.RecordCycle()
	}

	got, ok := m.History(point(r, "clk", ""))
	require.True(t, ok)
	assert.Equal(t, []bool{true, false, true, false}, got)
}

func TestMonitorSet_NoBackfill(t *testing.T) {
	r := newTestRegistry(t)
	mustCreate(t, r, KindClock, "clk", "1")
	mustCreate(t, r, KindSigGen, "sg", "111")
	net := NewNetwork(r)
	m := NewMonitorSet(r)
	require.NoError(t, m.Add(point(r, "clk", "")))

	for i := 0; i < 3; i++ {
		require.NoError(t, net.ExecuteCycle())
		m.RecordCycle()
	}

	require.NoError(t, m.Add(point(r, "sg", "")))
	for i := 0; i < 2; i++ {
		require.NoError(t, net.ExecuteCycle())
		m.RecordCycle()
	}

	clk, _ := m.History(point(r, "clk", ""))
	late, _ := m.History(point(r, "sg", ""))
	assert.Len(t, clk, 5)
	assert.Equal(t, []bool{true, true}, late, "a late monitor records only from registration on")
}

func TestMonitorSet_OrderAndRemove(t *testing.T) {
	r := newTestRegistry(t)
	mustCreate(t, r, KindClock, "c", "1")
	mustCreate(t, r, KindSigGen, "b", "1")
	mustCreate(t, r, KindSwitch, "a", "0")
	m := NewMonitorSet(r)

	require.NoError(t, m.Add(point(r, "c", "")))
	require.NoError(t, m.Add(point(r, "b", "")))
	require.NoError(t, m.Add(point(r, "a", "")))
	assert.Equal(t, []Point{point(r, "c", ""), point(r, "b", ""), point(r, "a", "")}, m.Points(),
		"registration order, not creation or name order")

	require.NoError(t, m.Remove(point(r, "b", "")))
	assert.Equal(t, []Point{point(r, "c", ""), point(r, "a", "")}, m.Points())

	assert.ErrorIs(t, m.Remove(point(r, "b", "")), ErrNotMonitored)

	_, ok := m.History(point(r, "b", ""))
	assert.False(t, ok, "removal discards the history")
}

func TestMonitorSet_ResetKeepsRegistrations(t *testing.T) {
	r := newTestRegistry(t)
	mustCreate(t, r, KindClock, "clk", "2")
	net := NewNetwork(r)
	m := NewMonitorSet(r)
	require.NoError(t, m.Add(point(r, "clk", "")))

	for i := 0; i < 4; i++ {
		require.NoError(t, net.ExecuteCycle())
		m.RecordCycle()
	}
	m.Reset()

	assert.Equal(t, 1, m.Len())
	got, ok := m.History(point(r, "clk", ""))
	require.True(t, ok)
	assert.Empty(t, got)

	// Recording picks up again from the current state.
	require.NoError(t, net.ExecuteCycle())
	m.RecordCycle()
	got, _ = m.History(point(r, "clk", ""))
	assert.Len(t, got, 1)
}
