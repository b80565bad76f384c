package engine_test

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/emersion/go-ical"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-milestone/internal/config"
	"github.com/tartampluch/go-milestone/internal/engine"
)

func TestEventUID_Stable(t *testing.T) {
	birth := engine.NewCalendarDate(1990, time.January, 1)

	uid := engine.EventUID("John", birth, 37)

	assert.Equal(t, uid, engine.EventUID("John", birth, 37), "same inputs must give the same UID")
	assert.True(t, strings.HasSuffix(uid, config.UIDDomainSuffix))
	assert.NotEqual(t, uid, engine.EventUID("Jane", birth, 37))
	assert.NotEqual(t, uid, engine.EventUID("John", birth, 38))
	assert.NotEqual(t, uid, engine.EventUID("John", birth.AddDays(1), 37))
}

func TestEncodeCalendar_Empty(t *testing.T) {
	data, err := engine.EncodeCalendar(nil, june2024)

	require.NoError(t, err)
	assert.Equal(t, config.StubVCalendar, string(data))
}

func TestEncodeCalendar_AllDayEvent(t *testing.T) {
	events := []engine.MilestoneEvent{{
		UID:     "abc@gomilestone",
		Summary: "Milestone",
		Date:    engine.NewCalendarDate(2027, time.January, 1),
	}}

	data, err := engine.EncodeCalendar(events, june2024)
	require.NoError(t, err)

	cal, err := ical.NewDecoder(bytes.NewReader(data)).Decode()
	require.NoError(t, err)

	assert.Equal(t, config.ICalProdid, cal.Props.Get(config.PropProdid).Value)
	require.Len(t, cal.Events(), 1)

	ev := cal.Events()[0]
	assert.Equal(t, "abc@gomilestone", ev.Props.Get(config.PropUID).Value)
	assert.Equal(t, "Milestone", ev.Props.Get(config.PropSummary).Value)

	start := ev.Props.Get(config.PropDTStart)
	require.NotNil(t, start)
	assert.Equal(t, "20270101", start.Value)
	assert.Equal(t, "DATE", start.Params.Get("VALUE"))

	assert.Empty(t, ev.Children, "no alarm without a trigger")
}
