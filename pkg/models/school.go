package models

type School struct {
	SchoolName string `json:"school_name"`
	Admin      string `json:"admin"`
}

func NewSchool(username, admin string) School {
	return School{
		SchoolName: username + "'s School",
		Admin:      admin,
	}
}
