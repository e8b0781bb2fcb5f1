package espn

import (
	"strconv"
	"strings"

	sonic "github.com/bytedance/sonic"
)

// flexString accepts a JSON string, number, or an object carrying
// displayValue/value, which the provider mixes for scores and ids.
type flexString string

func (f *flexString) UnmarshalJSON(raw []byte) error {
	text := strings.TrimSpace(string(raw))
	switch {
	case text == "" || text == "null":
		*f = ""
	case text[0] == '"':
		var s string
		if err := sonic.Unmarshal(raw, &s); err != nil {
			return err
		}
		*f = flexString(s)
	case text[0] == '{':
		var obj struct {
			DisplayValue *string  `json:"displayValue"`
			Value        *float64 `json:"value"`
		}
		if err := sonic.Unmarshal(raw, &obj); err != nil {
			return err
		}
		switch {
		case obj.DisplayValue != nil:
			*f = flexString(*obj.DisplayValue)
		case obj.Value != nil:
			*f = flexString(strconv.FormatFloat(*obj.Value, 'f', -1, 64))
		default:
			*f = ""
		}
	default:
		*f = flexString(text)
	}
	return nil
}

func (f flexString) String() string { return string(f) }

// calendarEntry is either a bare ISO date or an object with startDate.
type calendarEntry string

func (c *calendarEntry) UnmarshalJSON(raw []byte) error {
	text := strings.TrimSpace(string(raw))
	if text == "" || text == "null" {
		*c = ""
		return nil
	}
	if text[0] == '{' {
		var obj struct {
			StartDate string `json:"startDate"`
		}
		if err := sonic.Unmarshal(raw, &obj); err != nil {
			return err
		}
		*c = calendarEntry(obj.StartDate)
		return nil
	}
	var s string
	if err := sonic.Unmarshal(raw, &s); err != nil {
		return err
	}
	*c = calendarEntry(s)
	return nil
}

type scoreboardEnvelope struct {
	Leagues []struct {
		Calendar []calendarEntry `json:"calendar"`
	} `json:"leagues"`
	Events []eventItem `json:"events"`
}

type eventItem struct {
	ID           flexString        `json:"id"`
	Date         string            `json:"date"`
	Competitions []competitionItem `json:"competitions"`
	Status       *statusItem       `json:"status"`
}

type competitionItem struct {
	Venue *struct {
		FullName string `json:"fullName"`
	} `json:"venue"`
	Competitors []competitorItem `json:"competitors"`
	Status      *statusItem      `json:"status"`
}

type competitorItem struct {
	HomeAway string     `json:"homeAway"`
	Score    flexString `json:"score"`
	Team     teamItem   `json:"team"`
}

type teamItem struct {
	ID          flexString `json:"id"`
	DisplayName string     `json:"displayName"`
	Name        string     `json:"name"`
	Logo        string     `json:"logo"`
	Logos       []struct {
		Href string `json:"href"`
	} `json:"logos"`
}

type statusItem struct {
	Type struct {
		Description string `json:"description"`
		ShortDetail string `json:"shortDetail"`
	} `json:"type"`
}

type summaryEnvelope struct {
	Header struct {
		Competitions []competitionItem `json:"competitions"`
	} `json:"header"`
	Rosters []rosterItem `json:"rosters"`
}

type rosterItem struct {
	HomeAway  string             `json:"homeAway"`
	Formation string             `json:"formation"`
	Team      teamItem           `json:"team"`
	Roster    *[]rosterEntryItem `json:"roster"`
}

type rosterEntryItem struct {
	Starter        flexBool   `json:"starter"`
	SubbedIn       flexBool   `json:"subbedIn"`
	SubbedOut      flexBool   `json:"subbedOut"`
	Jersey         flexString `json:"jersey"`
	FormationPlace flexString `json:"formationPlace"`
	Athlete        *struct {
		ID          flexString `json:"id"`
		DisplayName string     `json:"displayName"`
		FullName    string     `json:"fullName"`
		Position    *struct {
			Abbreviation string `json:"abbreviation"`
			Name         string `json:"name"`
		} `json:"position"`
		Headshot *struct {
			Href string `json:"href"`
		} `json:"headshot"`
	} `json:"athlete"`
}

// flexBool treats only a literal true as true. The summary feed sometimes
// sends substitution flags as objects.
type flexBool bool

func (b *flexBool) UnmarshalJSON(raw []byte) error {
	*b = flexBool(strings.TrimSpace(string(raw)) == "true")
	return nil
}
