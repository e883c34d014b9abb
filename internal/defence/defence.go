// Package defence defines the core domain types shared by the game engine.
// It has no dependencies outside the standard library.
package defence

// Scoring constants. A round is worth at most MaxLocationPoints for the map
// guess plus BonusPoints for identifying the equipment.
const (
	MaxLocationPoints = 5000
	BonusPoints       = 2500
	MaxRoundPoints    = MaxLocationPoints + BonusPoints
	DefaultRounds     = 5
)

type Coords struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Valid reports whether c lies within -90..90 latitude and -180..180 longitude.
func (c Coords) Valid() bool {
	return c.Lat >= -90 && c.Lat <= 90 && c.Lng >= -180 && c.Lng <= 180
}

type Specs struct {
	Speed    string `json:"speed"`
	Armament string `json:"armament"`
	Range    string `json:"range"`
}

// Equipment is one catalog record. Origin is the canonical country name.
type Equipment struct {
	Name      string
	Origin    string
	Type      string
	Coords    Coords
	Image     string
	Specs     Specs
	InService string
	Status    string
	Users     []string
}

// GuessInput is what the map collaborator produces for one round. A nil
// Location means the player has not selected anything; an empty Country
// means the click did not land on a recognised country.
type GuessInput struct {
	Location *Coords
	Country  string
}

type RoundResult struct {
	Round           int     `json:"round"`
	Equipment       string  `json:"equipment"`
	Origin          string  `json:"origin"`
	Type            string  `json:"type"`
	LocationCorrect bool    `json:"locationCorrect"`
	LocationPoints  int     `json:"locationPoints"`
	DistanceKm      float64 `json:"distanceKm"`
	BonusCorrect    bool    `json:"bonusCorrect"`
	BonusPoints     int     `json:"bonusPoints"`
	TotalPoints     int     `json:"totalPoints"`
}

// LeaderboardEntry is persisted as-is; Timestamp is milliseconds since the
// Unix epoch.
type LeaderboardEntry struct {
	Name      string `json:"name"`
	Score     int    `json:"score"`
	Timestamp int64  `json:"timestamp"`
}
