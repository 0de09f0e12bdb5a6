package progression

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"skillkart_backend/internal/model"
)

func TestDeriveStatus(t *testing.T) {
	cases := []struct {
		current model.ProgressStatus
		done    int
		total   int
		want    model.ProgressStatus
	}{
		{model.StatusNotStarted, 0, 3, model.StatusNotStarted},
		{model.StatusNotStarted, 1, 3, model.StatusInProgress},
		{model.StatusInProgress, 3, 3, model.StatusCompleted},
		{model.StatusNotStarted, 0, 0, model.StatusNotStarted},
		{model.StatusCompleted, 0, 3, model.StatusCompleted},
		{model.StatusInProgress, 0, 3, model.StatusInProgress},
		{"", 2, 2, model.StatusCompleted},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, DeriveStatus(tc.current, tc.done, tc.total), "%s %d/%d", tc.current, tc.done, tc.total)
	}
}

func TestRoadmapProgress(t *testing.T) {
	assert.Equal(t, 0, RoadmapProgress(0, 0))
	assert.Equal(t, 0, RoadmapProgress(0, 9))
	assert.Equal(t, 33, RoadmapProgress(1, 3))
	assert.Equal(t, 67, RoadmapProgress(2, 3))
	assert.Equal(t, 100, RoadmapProgress(3, 3))
}

func TestCurrentWeek(t *testing.T) {
	weeks := []model.RoadmapWeek{
		{WeekNumber: 1, Status: model.StatusCompleted},
		{WeekNumber: 2, Status: model.StatusInProgress},
		{WeekNumber: 3, Status: model.StatusNotStarted},
	}
	assert.Equal(t, 2, CurrentWeek(weeks, 3))

	weeks[1].Status = model.StatusCompleted
	weeks[2].Status = model.StatusCompleted
	assert.Equal(t, 3, CurrentWeek(weeks, 3))

	assert.Equal(t, 1, CurrentWeek(nil, 0))
	assert.Equal(t, 2, CurrentWeek([]model.RoadmapWeek{{WeekNumber: 9}}, 2))
}

func TestRollupRoadmap(t *testing.T) {
	res := func(done bool) model.Resource { return model.Resource{Completed: done} }
	r := model.Roadmap{
		TotalWeeks: 2,
		Progress:   10,
		Status:     model.StatusNotStarted,
		Weeks: []model.RoadmapWeek{
			{WeekNumber: 1, Status: model.StatusCompleted, Steps: []model.RoadmapStep{
				{Status: model.StatusCompleted, Resources: []model.Resource{res(true), res(true)}},
			}},
			{WeekNumber: 2, Status: model.StatusNotStarted, Steps: []model.RoadmapStep{
				{Status: model.StatusNotStarted, Resources: []model.Resource{res(false), res(false)}},
			}},
		},
	}

	got := RollupRoadmap(r)
	assert.Equal(t, model.StatusInProgress, got.Status)
	assert.Equal(t, 50, got.Progress)
	assert.Equal(t, 2, got.CurrentWeek)
	assert.Equal(t, 2, got.DoneResources)
	assert.Equal(t, 4, got.TotalResources)

	r.Progress = 80
	assert.Equal(t, 80, RollupRoadmap(r).Progress)
}

func TestStepAndWeekStatus(t *testing.T) {
	empty := model.RoadmapStep{Status: model.StatusNotStarted}
	assert.Equal(t, model.StatusNotStarted, StepStatus(empty))

	step := model.RoadmapStep{Resources: []model.Resource{{Completed: true}, {Completed: false}}}
	assert.Equal(t, model.StatusInProgress, StepStatus(step))
	step.Resources[1].Completed = true
	assert.Equal(t, model.StatusCompleted, StepStatus(step))

	week := model.RoadmapWeek{Steps: []model.RoadmapStep{{Status: model.StatusInProgress}, {Status: model.StatusNotStarted}}}
	assert.Equal(t, model.StatusInProgress, WeekStatus(week))
	week.Steps[0].Status = model.StatusCompleted
	week.Steps[1].Status = model.StatusCompleted
	assert.Equal(t, model.StatusCompleted, WeekStatus(week))
	assert.Equal(t, model.StatusNotStarted, WeekStatus(model.RoadmapWeek{}))
}
