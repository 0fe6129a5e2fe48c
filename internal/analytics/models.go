package analytics

type LeaderboardEntry struct {
	PlayerName string `json:"name"`
	Value      int    `json:"value"`
	Rank       int    `json:"rank"`
}

type PlayerStats struct {
	PlayerName  string `json:"name"`
	GamesPlayed int    `json:"gamesPlayed"`
	TotalScore  int    `json:"totalScore"`
	BestGame    int    `json:"bestGame"`
	WinCount    int    `json:"wins"`
	WinStreak   int    `json:"winStreak"`
}
