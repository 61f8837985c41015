package renderer

import "github.com/ivlev/ledsign/internal/program"

// EaseProgram maps linear transition progress to the eased value used for
// drawing. Fades stay linear, moving effects ease in and out.
func EaseProgram(kind program.TransitionKind, progress float64) float64 {
	switch kind {
	case program.TransitionSlideLeft, program.TransitionSlideUp, program.TransitionWipe:
		return easeInOutCubic(clamp01(progress))
	default:
		return clamp01(progress)
	}
}

// EaseStop does the same for stop animations
func EaseStop(kind program.StopAnimationKind, progress float64) float64 {
	switch kind {
	case program.StopAnimationScrollUp, program.StopAnimationScrollLeft:
		return easeInOutCubic(clamp01(progress))
	default:
		return clamp01(progress)
	}
}

// lerp performs linear interpolation between a and b
func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// easeInOutCubic applies smooth easing function
func easeInOutCubic(t float64) float64 {
	if t < 0.5 {
		return 4 * t * t * t
	}
	return 1 - pow(-2*t+2, 3)/2
}

// pow calculates x^n
func pow(x float64, n int) float64 {
	result := 1.0
	for i := 0; i < n; i++ {
		result *= x
	}
	return result
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
