package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Activity is a named, capacity-bounded signup slot.
type Activity struct {
	Name            string   `json:"-"`
	Description     string   `json:"description"`
	Schedule        string   `json:"schedule"`
	MaxParticipants int      `json:"max_participants"`
	Participants    []string `json:"participants"`
}

// SpotsLeft is MaxParticipants minus the current participant count. It is
// not clamped: an over-full activity reports a negative number, which is what
// the server says.
func (a Activity) SpotsLeft() int {
	return a.MaxParticipants - len(a.Participants)
}

// ActivityList is the /activities payload in the order the server listed
// the activities.
type ActivityList []Activity

// Names returns the activity names in list order.
func (l ActivityList) Names() []string {
	names := make([]string, len(l))
	for i, a := range l {
		names[i] = a.Name
	}
	return names
}

// Find returns the activity called name.
func (l ActivityList) Find(name string) (Activity, bool) {
	for _, a := range l {
		if a.Name == name {
			return a, true
		}
	}
	return Activity{}, false
}

// UnmarshalJSON decodes an object keyed by activity name, keeping key order.
// A repeated key keeps the position of its first occurrence and the value of
// its last, matching how a JSON object is read by a browser.
func (l *ActivityList) UnmarshalJSON(b []byte) error {
	dec := json.NewDecoder(bytes.NewReader(b))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*l = nil
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("activities: expected object, got %v", tok)
	}

	list := ActivityList{}
	index := make(map[string]int)
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		name, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("activities: unexpected key %v", keyTok)
		}

		var a Activity
		if err := dec.Decode(&a); err != nil {
			return fmt.Errorf("activities: %q: %w", name, err)
		}
		a.Name = name

		if i, seen := index[name]; seen {
			list[i] = a
			continue
		}
		index[name] = len(list)
		list = append(list, a)
	}

	if _, err := dec.Token(); err != nil {
		return err
	}

	*l = list
	return nil
}
