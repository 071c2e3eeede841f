package onboarding

import (
	"slices"
	"time"
)

// Data is the onboarding profile stored under a user. The email from the
// request is not part of it; the parent record already carries it.
type Data struct {
	Name           string    `json:"name" bson:"name"`
	Birthdate      time.Time `json:"birthdate" bson:"birthdate"`
	Gender         string    `json:"gender" bson:"gender"`
	City           string    `json:"city" bson:"city"`
	State          string    `json:"state" bson:"state"`
	Sport          []string  `json:"sport" bson:"sport"`
	AthleticStatus string    `json:"athletic_status" bson:"athletic_status"`
	Handicap       int       `json:"handicap" bson:"handicap"`
	Expectation    string    `json:"expectation" bson:"expectation"`
	Goal           string    `json:"goal" bson:"goal"`
}

// Equal compares birthdates as instants so a value that went through a store
// round trip still matches the submitted one.
func (d Data) Equal(o Data) bool {
	return d.Name == o.Name &&
		d.Birthdate.Equal(o.Birthdate) &&
		d.Gender == o.Gender &&
		d.City == o.City &&
		d.State == o.State &&
		slices.Equal(d.Sport, o.Sport) &&
		d.AthleticStatus == o.AthleticStatus &&
		d.Handicap == o.Handicap &&
		d.Expectation == o.Expectation &&
		d.Goal == o.Goal
}

// Request fields are pointers so presence can be required while empty
// strings stay valid. Only sport has to be non-empty.
type Request struct {
	Email          string   `json:"email" binding:"required,email"`
	Name           *string  `json:"name" binding:"required"`
	Birthdate      *Date    `json:"birthdate" binding:"required"`
	Gender         *string  `json:"gender" binding:"required"`
	City           *string  `json:"city" binding:"required"`
	State          *string  `json:"state" binding:"required"`
	Sport          []string `json:"sport" binding:"required,min=1"`
	AthleticStatus *string  `json:"athletic_status" binding:"required"`
	Handicap       *int     `json:"handicap" binding:"required"`
	Expectation    *string  `json:"expectation" binding:"required"`
	Goal           *string  `json:"goal" binding:"required"`
}

func (r Request) Data() Data {
	d := Data{
		Name:           deref(r.Name),
		Gender:         deref(r.Gender),
		City:           deref(r.City),
		State:          deref(r.State),
		Sport:          slices.Clone(r.Sport),
		AthleticStatus: deref(r.AthleticStatus),
		Expectation:    deref(r.Expectation),
		Goal:           deref(r.Goal),
	}
	if r.Birthdate != nil {
		d.Birthdate = r.Birthdate.Time.UTC()
	}
	if r.Handicap != nil {
		d.Handicap = *r.Handicap
	}
	return d
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
