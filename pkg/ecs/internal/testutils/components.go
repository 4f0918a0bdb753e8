package testutils

type Health struct {
	Value int `json:"value"`
}

func (Health) Name() string { return "Health" }

type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (Position) Name() string { return "Position" }

type Velocity struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (Velocity) Name() string { return "Velocity" }

type PlayerTag struct {
	Tag string `json:"tag"`
}

func (PlayerTag) Name() string { return "PlayerTag" }

// Counter is a resource used by system tests.
type Counter struct {
	Runs  int
	Order []string
}
