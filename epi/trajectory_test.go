package epi

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// recordLinearTrajectory records ticks+1 samples where cumI in node 0
// grows by one per tick.
func recordLinearTrajectory(ticksPerDay, ticks int) *Trajectory {
	tr := NewTrajectory(ticksPerDay, 2, ticks)
	s := NewState(2)
	for i := 0; i <= ticks; i++ {
		s.Comp[CompCumI][0] = float64(i)
		tr.Record(s)
	}
	return tr
}

func TestTrajectory_Bookkeeping(t *testing.T) {
	tr := recordLinearTrajectory(2, 10)

	assert.Equal(t, 11, tr.Len())
	assert.Equal(t, 5, tr.Days())
	assert.Equal(t, 0.0, tr.Time(0))
	assert.Equal(t, 1.5, tr.Time(3))
}

func TestTrajectory_DaySample(t *testing.T) {
	tr := recordLinearTrajectory(2, 10)

	// day d ends at sample (d+1)*ticksPerDay
	assert.Equal(t, 2, tr.DaySample(0))
	assert.Equal(t, 10, tr.DaySample(4))
	// out of range clamps to the last sample
	assert.Equal(t, 10, tr.DaySample(99))
}

func TestTrajectory_DailySeries(t *testing.T) {
	tr := recordLinearTrajectory(2, 10)

	series := tr.DailySeries(CompCumI)
	assert.Len(t, series, 5)
	assert.Equal(t, 2.0, series[0][0])
	assert.Equal(t, 10.0, series[4][0])
	assert.Equal(t, 0.0, series[4][1])
}

func TestTrajectory_DailyIncidence(t *testing.T) {
	// cumI grows by one per tick at 2 ticks per day, so incidence is 2/day.
	tr := recordLinearTrajectory(2, 10)

	inc := tr.DailyIncidence()
	assert.Len(t, inc, 5)
	for d, row := range inc {
		assert.Equal(t, 2.0, row[0], "day %d", d)
		assert.Equal(t, 0.0, row[1], "day %d", d)
	}
}

func TestTrajectory_Empty(t *testing.T) {
	tr := NewTrajectory(2, 2, 10)
	assert.Equal(t, 0, tr.Len())
	assert.Equal(t, 0, tr.Days())
	assert.Empty(t, tr.DailyIncidence())
}

func TestTrajectory_RecordCopiesState(t *testing.T) {
	tr := NewTrajectory(1, 1, 2)
	s := NewState(1)
	s.Comp[CompS][0] = 100
	tr.Record(s)
	s.Comp[CompS][0] = 0

	assert.Equal(t, 100.0, tr.Comp[CompS][0][0], "trajectory must not alias live state")
}
