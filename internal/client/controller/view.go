package controller

import (
	"slices"

	"github.com/mergington/signup/internal/client/models"
)

// SelectPlaceholder is the first entry of the activity selector.
const SelectPlaceholder = "-- Select an activity --"

// View is everything the front end draws. The controller owns it; callers
// get copies from Controller.View.
type View struct {
	// Auth affordances, all derived from the session by SetAuthState.
	AuthStatus          string
	LogoutVisible       bool
	LoginSubmitEnabled  bool
	SignupSubmitEnabled bool

	LoginDialogOpen bool

	// Loaded turns true after the first fetch completes, successfully or not.
	Loaded          bool
	Activities      []ActivityCard
	ActivityOptions []SelectOption
	ListError       string

	Message models.Message
}

// ActivityCard is one rendered activity.
type ActivityCard struct {
	Name         string
	Description  string
	Schedule     string
	SpotsLeft    int
	Participants []ParticipantRow
}

// ParticipantRow is one participant line. Remove is nil unless a teacher
// is logged in.
type ParticipantRow struct {
	Email  string
	Remove *RemoveControl
}

// RemoveControl carries the activity/email pair an unregister acts on.
type RemoveControl struct {
	Activity string
	Email    string
}

// SelectOption is an entry of the activity selector. The placeholder has an
// empty Value.
type SelectOption struct {
	Value string
	Label string
}

func (v View) clone() View {
	v.Activities = slices.Clone(v.Activities)
	v.ActivityOptions = slices.Clone(v.ActivityOptions)
	return v
}

func buildCards(list models.ActivityList, authenticated bool) []ActivityCard {
	cards := make([]ActivityCard, 0, len(list))
	for _, a := range list {
		rows := make([]ParticipantRow, 0, len(a.Participants))
		for _, email := range a.Participants {
			row := ParticipantRow{Email: email}
			if authenticated {
				row.Remove = &RemoveControl{Activity: a.Name, Email: email}
			}
			rows = append(rows, row)
		}
		cards = append(cards, ActivityCard{
			Name:         a.Name,
			Description:  a.Description,
			Schedule:     a.Schedule,
			SpotsLeft:    a.SpotsLeft(),
			Participants: rows,
		})
	}
	return cards
}

func buildOptions(list models.ActivityList) []SelectOption {
	opts := make([]SelectOption, 0, len(list)+1)
	opts = append(opts, SelectOption{Label: SelectPlaceholder})
	for _, name := range list.Names() {
		opts = append(opts, SelectOption{Value: name, Label: name})
	}
	return opts
}
