package service

import (
	"math"

	"github.com/blaisecz/sleep-coach/internal/domain"
)

// StageEstimator synthesizes a stage breakdown when no sensor data exists.
type StageEstimator interface {
	Estimate(durationMinutes, quality int) domain.SleepStages
}

// SliderStageEstimator scales deep and REM sleep by the reported quality.
// Light sleep is a fixed half of the night; awake time absorbs the rest.
type SliderStageEstimator struct{}

func (SliderStageEstimator) Estimate(durationMinutes, quality int) domain.SleepStages {
	d := float64(durationMinutes)
	q := float64(quality) / 100

	deep := roundInt(d * 0.20 * q)
	rem := roundInt(d * 0.25 * q)
	light := roundInt(d * 0.50)

	return domain.SleepStages{
		Deep:  deep,
		REM:   rem,
		Light: light,
		Awake: max(0, durationMinutes-deep-rem-light),
	}
}

// DreamQuality is the quality assigned to sessions logged from a dream entry.
// A vividly recalled dream is taken as a sign of a reasonably good night.
const DreamQuality = 80

// DreamStageEstimator applies fixed ratios weighted towards REM, ignoring quality.
type DreamStageEstimator struct{}

func (DreamStageEstimator) Estimate(durationMinutes, _ int) domain.SleepStages {
	d := float64(durationMinutes)
	return domain.SleepStages{
		Deep:  roundInt(d * 0.15),
		REM:   roundInt(d * 0.35),
		Light: roundInt(d * 0.45),
		Awake: roundInt(d * 0.05),
	}
}

func roundInt(x float64) int {
	return int(math.Round(x))
}
