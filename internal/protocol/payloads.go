package protocol

type WheelSpin struct {
	Items []string `json:"items,omitempty"`
	Speed *int     `json:"speed,omitempty"`
}

type TxRoll struct {
	Pick        string   `json:"pick,omitempty"`
	WinRewards  []string `json:"winRewards,omitempty"`
	LoseRewards []string `json:"loseRewards,omitempty"`
}

type RlSpin struct {
	BetType     string   `json:"betType,omitempty"`
	BetNumber   *int     `json:"betNumber,omitempty"`
	WinRewards  []string `json:"winRewards,omitempty"`
	LoseRewards []string `json:"loseRewards,omitempty"`
}

// BjAction is shared by bj:new, bj:deal, bj:hit and bj:stand.
type BjAction struct {
	WinRewards  []string `json:"winRewards,omitempty"`
	LoseRewards []string `json:"loseRewards,omitempty"`
	PushRewards []string `json:"pushRewards,omitempty"`
}

type StateSet struct {
	Field string `json:"field"`
	Value any    `json:"value"`
}

type LockSet struct {
	Field  string `json:"field"`
	Locked bool   `json:"locked"`
}

type UITab struct {
	Tab string `json:"tab"`
}

type PlayerSet struct {
	Key   string `json:"key"`
	Value any    `json:"value"`
}
