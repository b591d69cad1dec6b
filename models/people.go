package models

// Person is someone a bill can be split with
type Person struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Avatar    string `json:"avatar,omitempty"`
	ColorName string `json:"colorName"`
}

// Group is a saved set of people who often split bills together
type Group struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	MemberIDs []string `json:"memberIds"`
}

// UserContext identifies whose device, and therefore whose spend, a call is for
type UserContext struct {
	PersonID string
	Name     string
}

// ParticipantView is a participant resolved against the live registry
type ParticipantView struct {
	Person
	Removed bool `json:"removed,omitempty"`
}
