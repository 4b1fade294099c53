package game

const (
	MinDifficulty     = 1
	MaxDifficulty     = 5
	DefaultSliceWidth = 20.0
	DefaultDifficulty = 3
)

// SliceWidths maps difficulty to the visual slice width in degrees,
// 1 is the narrowest
var SliceWidths = map[int]float64{
	1: 12,
	2: 16,
	3: 20,
	4: 24,
	5: 28,
}

func ValidDifficulty(d int) bool {
	return d >= MinDifficulty && d <= MaxDifficulty
}
