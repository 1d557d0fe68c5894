package game

// HighScoreKey is the preference key the best score is stored under.
const HighScoreKey = "HighScore"

// Prefs is a small persistent key/value store for integers.
type Prefs interface {
	// Int returns the stored value and whether the key exists.
	Int(key string) (int, bool, error)
	// RaiseInt stores v unless the key already holds a larger value and
	// returns what is stored afterwards.
	RaiseInt(key string, v int) (int, error)
	DeleteAll() error
}
