package refdata

// State is one row of the remote State reference table.
type State struct {
	ID   string `json:"id"`
	Name string `json:"state"`
}

// City is one row of the remote City reference table, scoped to a state.
type City struct {
	ID      string `json:"id"`
	Name    string `json:"city"`
	StateID string `json:"stateId"`
}
