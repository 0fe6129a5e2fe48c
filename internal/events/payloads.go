package events

// PlayerView is the public face of a player. Connection tokens never leave
// the server except to their owner.
type PlayerView struct {
	Name     string `json:"name"`
	Color    string `json:"color"`
	Score    int    `json:"score"`
	IsHost   bool   `json:"isHost"`
	IsDrawer bool   `json:"isDrawer"`
	Guessed  bool   `json:"guessed"`
}

type Standing struct {
	Rank  int    `json:"rank"`
	Name  string `json:"name"`
	Color string `json:"color"`
	Score int    `json:"score"`
}

type RoomCreated struct {
	Code    string       `json:"code"`
	You     string       `json:"you"`
	Players []PlayerView `json:"players"`
}

type JoinFailed struct {
	Code   string `json:"code"`
	Reason string `json:"reason"`
}

type RosterChanged struct {
	Code    string       `json:"code"`
	Players []PlayerView `json:"players"`
}

type RoomState struct {
	Code             string       `json:"code"`
	You              string       `json:"you"`
	Phase            string       `json:"phase"`
	Round            int          `json:"round"`
	MaxRounds        int          `json:"maxRounds"`
	Drawer           string       `json:"drawer,omitempty"`
	WordLength       int          `json:"wordLength,omitempty"`
	RemainingSeconds int          `json:"remainingSeconds"`
	Players          []PlayerView `json:"players"`
}

type GameStarted struct {
	Round     int          `json:"round"`
	MaxRounds int          `json:"maxRounds"`
	Players   []PlayerView `json:"players"`
}

type DrawerAssigned struct {
	Round   int      `json:"round"`
	Choices []string `json:"choices"`
}

type DrawerChoosing struct {
	Round  int    `json:"round"`
	Drawer string `json:"drawer"`
}

type DrawerAnnounced struct {
	Drawer     string `json:"drawer"`
	WordLength int    `json:"wordLength"`
}

type WordToDraw struct {
	Word string `json:"word"`
}

type RoundStarted struct {
	Round    int `json:"round"`
	Duration int `json:"duration"`
}

type TimerTick struct {
	Remaining int `json:"remaining"`
}

type CorrectGuess struct {
	Name   string `json:"name"`
	Points int    `json:"points"`
	Total  int    `json:"total"`
}

type Scoreboard struct {
	Players []PlayerView `json:"players"`
}

type RoundEnded struct {
	Round  int          `json:"round"`
	Word   string       `json:"word"`
	Reason string       `json:"reason"`
	Scores []PlayerView `json:"scores"`
}

type GameEnded struct {
	Standings []Standing `json:"standings"`
}

type SystemNotice struct {
	Text string `json:"text"`
}

type DrawerChanged struct {
	Drawer string `json:"drawer"`
}

type Chat struct {
	From string `json:"from"`
	Text string `json:"text"`
}

// StrokeSegment is forwarded untouched; the drawing surface owns its format.
type StrokeSegment struct {
	StartX float64 `json:"startX"`
	StartY float64 `json:"startY"`
	EndX   float64 `json:"endX"`
	EndY   float64 `json:"endY"`
	Color  string  `json:"color"`
	Width  float64 `json:"width"`
}

type Undo struct {
	Strokes [][]StrokeSegment `json:"strokes"`
}

type ActionRejected struct {
	Action string `json:"action"`
	Reason string `json:"reason"`
}
