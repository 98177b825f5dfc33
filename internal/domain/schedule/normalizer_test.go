//go:build unit

package schedule_test

import (
	"testing"

	"studiobook/internal/domain/schedule"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		name string
		raw  map[string]any
		want schedule.WeekSpec
	}{
		{
			name: "single range string",
			raw:  map[string]any{"monday": "09:00-18:00"},
			want: schedule.WeekSpec{
				schedule.Monday: {{StartMin: 540, EndMin: 1080}},
			},
		},
		{
			name: "list of range strings",
			raw:  map[string]any{"tue": []any{"09:00-12:00", "13:00-18:00"}},
			want: schedule.WeekSpec{
				schedule.Tuesday: {{StartMin: 540, EndMin: 720}, {StartMin: 780, EndMin: 1080}},
			},
		},
		{
			name: "two element tuple",
			raw:  map[string]any{"wed": []any{"10:00", "15:30"}},
			want: schedule.WeekSpec{
				schedule.Wednesday: {{StartMin: 600, EndMin: 930}},
			},
		},
		{
			name: "object with start and end",
			raw:  map[string]any{"thu": map[string]any{"start": "08:15", "end": "12:45"}},
			want: schedule.WeekSpec{
				schedule.Thursday: {{StartMin: 495, EndMin: 765}},
			},
		},
		{
			name: "spanish day alias",
			raw:  map[string]any{"miércoles": "09:00-17:00"},
			want: schedule.WeekSpec{
				schedule.Wednesday: {{StartMin: 540, EndMin: 1020}},
			},
		},
		{
			name: "portuguese day alias",
			raw:  map[string]any{"segunda": "09:00-17:00"},
			want: schedule.WeekSpec{
				schedule.Monday: {{StartMin: 540, EndMin: 1020}},
			},
		},
		{
			name: "midnight rollover splits across days",
			raw:  map[string]any{"friday": "22:00-02:00"},
			want: schedule.WeekSpec{
				schedule.Friday:   {{StartMin: 1320, EndMin: 1440}},
				schedule.Saturday: {{StartMin: 0, EndMin: 120}},
			},
		},
		{
			name: "equal start and end means open all day",
			raw:  map[string]any{"sun": "00:00-00:00"},
			want: schedule.WeekSpec{
				schedule.Sunday: {{StartMin: 0, EndMin: 1440}},
			},
		},
		{
			name: "touching intervals merge",
			raw:  map[string]any{"mon": []any{"09:00-12:00", "12:00-15:00"}},
			want: schedule.WeekSpec{
				schedule.Monday: {{StartMin: 540, EndMin: 900}},
			},
		},
		{
			name: "overlapping intervals merge",
			raw:  map[string]any{"mon": []any{"09:00-13:00", "11:00-15:00"}},
			want: schedule.WeekSpec{
				schedule.Monday: {{StartMin: 540, EndMin: 900}},
			},
		},
		{
			name: "malformed entries are dropped",
			raw:  map[string]any{"mon": []any{"garbage", "25:99-26:00", "09:00-12:00"}},
			want: schedule.WeekSpec{
				schedule.Monday: {{StartMin: 540, EndMin: 720}},
			},
		},
		{
			name: "unknown day key is ignored",
			raw:  map[string]any{"someday": "09:00-18:00"},
			want: schedule.WeekSpec{},
		},
		{
			name: "nil input",
			raw:  nil,
			want: schedule.WeekSpec{},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := schedule.Normalize(tc.raw)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("Normalize mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestNormalizeSortsIntervals(t *testing.T) {
	got := schedule.Normalize(map[string]any{
		"mon": []any{"14:00-16:00", "08:00-10:00"},
	})

	want := schedule.WeekSpec{
		schedule.Monday: {{StartMin: 480, EndMin: 600}, {StartMin: 840, EndMin: 960}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Normalize mismatch (-want +got):\n%s", diff)
	}
}

func TestWeekSpecIsEmpty(t *testing.T) {
	assert.True(t, schedule.WeekSpec{}.IsEmpty())
	assert.True(t, schedule.Normalize(nil).IsEmpty())
	assert.False(t, schedule.Normalize(map[string]any{"mon": "09:00-10:00"}).IsEmpty())
}
