package session

// Rating is the qualitative tier for a finished game, ordered from lowest
// to highest.
type Rating int

const (
	RatingRecruit Rating = iota
	RatingSpotter
	RatingAnalyst
	RatingSpecialist
	RatingExpert
)

var ratingNames = [...]string{
	RatingRecruit:    "recruit",
	RatingSpotter:    "spotter",
	RatingAnalyst:    "analyst",
	RatingSpecialist: "specialist",
	RatingExpert:     "expert",
}

func (r Rating) String() string {
	if r < 0 || int(r) >= len(ratingNames) {
		return "unknown"
	}
	return ratingNames[r]
}

// RatingFor maps a score percentage of the maximum to a tier.
func RatingFor(percentage float64) Rating {
	switch {
	case percentage >= 80:
		return RatingExpert
	case percentage >= 60:
		return RatingSpecialist
	case percentage >= 40:
		return RatingAnalyst
	case percentage >= 20:
		return RatingSpotter
	default:
		return RatingRecruit
	}
}
