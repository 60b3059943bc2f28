// Package scores persists the game's progress data: registered nicknames,
// play sessions, and individual guesses.
//
// Correctness and streaks are computed server-side from the submitted answer
// and the card's ground truth, so a modified client cannot inflate its score
// by lying about verdicts. On top of the raw records the package serves two
// read models: the leaderboard (top sessions by score) and per-generator
// model statistics (how often each model's images were guessed real).
//
// The feature is optional: it loads only when a database connection was
// established at startup, and the deck feature never depends on it.
package scores
