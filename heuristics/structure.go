package heuristics

import (
	"math"

	"course-intel/models"
)

const (
	// MaxModules caps the module count; search pages often list far more
	// section-like elements than a single course has.
	MaxModules = 20

	FallbackLessonsPerModule = 5

	defaultModuleCount = 6
)

func DefaultContentTypes() []string {
	return []string{"video", "text"}
}

// DefaultStructure is used when structure extraction failed entirely.
func DefaultStructure() models.StructureSnapshot {
	return models.StructureSnapshot{
		ModuleCount:             defaultModuleCount,
		AverageLessonsPerModule: FallbackLessonsPerModule,
		ContentTypes:            DefaultContentTypes(),
	}
}

// BuildStructure turns raw element counts into a snapshot. The average is
// computed from the uncapped module count and rounded half-up.
func BuildStructure(moduleCount, lessonCount int, duration string) models.StructureSnapshot {
	snap := models.StructureSnapshot{
		ModuleCount:             min(moduleCount, MaxModules),
		AverageLessonsPerModule: FallbackLessonsPerModule,
		ContentTypes:            DefaultContentTypes(),
		TotalDuration:           duration,
	}
	if moduleCount > 0 {
		snap.AverageLessonsPerModule = roundHalfUp(float64(lessonCount) / float64(moduleCount))
	}
	return snap
}

func roundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}
