package progression

import (
	"math"

	"skillkart_backend/internal/model"
)

// DeriveStatus 根据已完成子项数量推导父级状态。状态只前进，不会回退。
func DeriveStatus(current model.ProgressStatus, done, total int) model.ProgressStatus {
	next := model.StatusNotStarted
	switch {
	case total > 0 && done >= total:
		next = model.StatusCompleted
	case done > 0:
		next = model.StatusInProgress
	}
	if current.Rank() > next.Rank() {
		return current
	}
	return next
}

// Advance 合并两个状态，取更靠后的一个
func Advance(current, next model.ProgressStatus) model.ProgressStatus {
	if next.Rank() > current.Rank() {
		return next
	}
	return current
}

// RoadmapProgress 已完成资源占比，四舍五入到整数百分比
func RoadmapProgress(doneResources, totalResources int) int {
	if totalResources <= 0 || doneResources <= 0 {
		return 0
	}
	if doneResources >= totalResources {
		return 100
	}
	return int(math.Round(float64(doneResources) / float64(totalResources) * 100))
}

// CurrentWeek 第一个未完成的周次，结果限制在 [1, totalWeeks]
func CurrentWeek(weeks []model.RoadmapWeek, totalWeeks int) int {
	if totalWeeks < 1 {
		totalWeeks = 1
	}
	current := 0
	for _, w := range weeks {
		if w.Status == model.StatusCompleted {
			continue
		}
		if current == 0 || w.WeekNumber < current {
			current = w.WeekNumber
		}
	}
	if current == 0 {
		return totalWeeks
	}
	if current < 1 {
		return 1
	}
	if current > totalWeeks {
		return totalWeeks
	}
	return current
}

// StepStatus 根据资源完成情况推导步骤状态。没有资源的步骤不会完成。
func StepStatus(step model.RoadmapStep) model.ProgressStatus {
	done := 0
	for _, r := range step.Resources {
		if r.Completed {
			done++
		}
	}
	return DeriveStatus(step.Status, done, len(step.Resources))
}

// WeekStatus 根据步骤状态推导周状态。步骤状态需先更新。
func WeekStatus(week model.RoadmapWeek) model.ProgressStatus {
	done, started := 0, 0
	for _, s := range week.Steps {
		switch s.Status {
		case model.StatusCompleted:
			done++
		case model.StatusInProgress:
			started++
		}
	}
	status := DeriveStatus(week.Status, done, len(week.Steps))
	if started > 0 {
		status = Advance(status, model.StatusInProgress)
	}
	return status
}

// Rollup 路线整体进度汇总
type Rollup struct {
	Status         model.ProgressStatus
	Progress       int
	CurrentWeek    int
	DoneResources  int
	TotalResources int
}

// RollupRoadmap 由已加载的周、步骤、资源重新计算路线状态。进度不低于原值。
func RollupRoadmap(r model.Roadmap) Rollup {
	done, total := 0, 0
	weeksDone := 0
	for _, w := range r.Weeks {
		if w.Status == model.StatusCompleted {
			weeksDone++
		}
		for _, s := range w.Steps {
			for _, res := range s.Resources {
				total++
				if res.Completed {
					done++
				}
			}
		}
	}

	progress := RoadmapProgress(done, total)
	if progress < r.Progress {
		progress = r.Progress
	}

	status := DeriveStatus(r.Status, weeksDone, len(r.Weeks))
	if done > 0 {
		status = Advance(status, model.StatusInProgress)
	}
	if status == model.StatusCompleted {
		progress = 100
	}

	return Rollup{
		Status:         status,
		Progress:       progress,
		CurrentWeek:    CurrentWeek(r.Weeks, r.TotalWeeks),
		DoneResources:  done,
		TotalResources: total,
	}
}
