package certification

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gyeh/carestats/internal/model"
)

func TestComputePeriod(t *testing.T) {
	tests := []struct {
		name        string
		application model.Date
		decision    model.Date
		months      int
		want        model.Period
	}{
		{
			name:        "same month rolls base into next year",
			application: 20201215, decision: 20201215, months: 6,
			want: model.Period{Start: 20201215, End: 20210701},
		},
		{
			name:        "different months count from the decision date",
			application: 20200105, decision: 20200310, months: 12,
			want: model.Period{Start: 20200310, End: 20210310},
		},
		{
			name:        "application in previous month",
			application: 20190320, decision: 20190401, months: 12,
			want: model.Period{Start: 20190401, End: 20200401},
		},
		{
			name:        "day 31 clamps to end of February",
			application: 20210115, decision: 20210331, months: 11,
			want: model.Period{Start: 20210331, End: 20220228},
		},
		{
			name:        "day 31 clamps to leap-year February 29",
			application: 20230101, decision: 20230731, months: 7,
			want: model.Period{Start: 20230731, End: 20240229},
		},
		{
			name:        "day 31 clamps to a 30-day month",
			application: 20200101, decision: 20200531, months: 1,
			want: model.Period{Start: 20200531, End: 20200630},
		},
		{
			name:        "long validity crosses several years",
			application: 20190901, decision: 20191020, months: 48,
			want: model.Period{Start: 20191020, End: 20231020},
		},
		{
			name:        "same month in November lands in the next year",
			application: 20191101, decision: 20191125, months: 2,
			want: model.Period{Start: 20191125, End: 20200201},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ComputePeriod(tt.application, tt.decision, tt.months)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.True(t, got.Start <= got.End)
		})
	}
}

func TestComputePeriod_Invalid(t *testing.T) {
	_, err := ComputePeriod(0, 20200101, 12)
	assert.Error(t, err)
	_, err = ComputePeriod(20200101, 20200101, 0)
	assert.Error(t, err)
	_, err = ComputePeriod(20200101, 20200230, 12)
	assert.Error(t, err)
}

func TestAssignPeriods(t *testing.T) {
	in := []model.CertificationRecord{
		{ResidentID: 1, ApplicationDate: 20190320, DecisionDate: 20190401, ValidMonths: 12},
		{ResidentID: 2, ApplicationDate: 20190320, DecisionDate: 20190401, ValidMonths: 0},
	}
	out, dropped := AssignPeriods(in)
	require.Len(t, out, 1)
	assert.Equal(t, 1, dropped)
	assert.Equal(t, model.Date(20200401), out[0].Period.End)
	assert.True(t, in[0].Period.Start == 0, "input records are not modified")
}

func rec(id int64, start, end model.Date, row int) model.CertificationRecord {
	return model.CertificationRecord{ResidentID: id, Period: model.Period{Start: start, End: end}, Row: row}
}

func TestMatch(t *testing.T) {
	m := NewMatcher([]model.CertificationRecord{
		rec(1, 20180401, 20190331, 0),
		rec(1, 20190401, 20200401, 1),
		rec(1, 20190601, 20210531, 2),
		rec(2, 20200401, 20210331, 3),
		rec(3, 20190101, 20200331, 4),
	})

	got, ok := m.Match(1, 20200331)
	require.True(t, ok)
	assert.Equal(t, 2, got.Row, "latest-ending window wins")

	_, ok = m.Match(2, 20200331)
	assert.False(t, ok, "window starting after the cutoff does not match")

	got, ok = m.Match(3, 20200331)
	require.True(t, ok, "window end is inclusive")
	assert.Equal(t, 4, got.Row)

	got, ok = m.Match(2, 20200401)
	require.True(t, ok, "window start is inclusive")
	assert.Equal(t, 3, got.Row)

	_, ok = m.Match(99, 20200331)
	assert.False(t, ok)
}

func TestMatch_TieBreaks(t *testing.T) {
	m := NewMatcher([]model.CertificationRecord{
		rec(1, 20190401, 20200401, 0),
		rec(1, 20190501, 20200401, 1),
		rec(1, 20190501, 20200401, 2),
	})
	got, ok := m.Match(1, 20200101)
	require.True(t, ok)
	assert.Equal(t, 2, got.Row)
}

func TestTag(t *testing.T) {
	m := NewMatcher([]model.CertificationRecord{rec(1002, 20190401, 20200401, 0)})
	eligible := []model.ResidencyEvent{
		{ResidentID: 1002, SequenceNo: 1},
		{ResidentID: 1003, SequenceNo: 4},
	}

	got := m.Tag(eligible, 20200331)
	require.Len(t, got, 2)
	assert.Equal(t, model.StatusCertified, got[0].Status)
	require.NotNil(t, got[0].Certification)
	assert.Equal(t, model.Date(20200401), got[0].Certification.Period.End)

	assert.Equal(t, model.StatusNotCertified, got[1].Status)
	assert.Nil(t, got[1].Certification)
	assert.Equal(t, int64(4), got[1].Event.SequenceNo)
}
