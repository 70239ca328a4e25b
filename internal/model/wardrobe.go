package model

type ItemStatus string

const (
	StatusClean ItemStatus = "clean"
	StatusWorn  ItemStatus = "worn"
)

type WardrobeColor struct {
	Name string `json:"name" yaml:"name"`
	Hex  string `json:"hex" yaml:"hex"`
}

type WardrobeItem struct {
	ID       int             `json:"id"`
	Name     string          `json:"name"`
	Brand    string          `json:"brand"`
	Tags     []string        `json:"tags"`
	Colors   []WardrobeColor `json:"colors"`
	Status   ItemStatus      `json:"status"`
	ImageURL string          `json:"imageUrl"`
}

type WardrobeCategory struct {
	ID    string `json:"id" yaml:"id"`
	Label string `json:"label" yaml:"label"`
}

type Outfit struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Items    []int  `json:"items"`
	Occasion string `json:"occasion"`
	Weather  string `json:"weather"`
	// Rating is -1 disliked, 0 neutral, 1 liked.
	Rating      int  `json:"rating"`
	UserCreated bool `json:"userCreated"`
}

// Wardrobe groups the three wardrobe collections. Items are keyed by category id.
type Wardrobe struct {
	Categories []WardrobeCategory
	Items      map[string][]WardrobeItem
	Outfits    []Outfit
}

type UserSettings struct {
	Profile struct {
		Name   string  `json:"name"`
		Email  string  `json:"email"`
		Avatar *string `json:"avatar"`
	} `json:"profile"`
	Notifications struct {
		RoutineReminders   bool   `json:"routineReminders"`
		CalendarAlerts     bool   `json:"calendarAlerts"`
		EmailNotifications bool   `json:"emailNotifications"`
		EmailAddress       string `json:"emailAddress"`
	} `json:"notifications"`
	Appearance struct {
		DarkMode bool   `json:"darkMode"`
		Theme    string `json:"theme"`
		FontSize string `json:"fontSize"`
	} `json:"appearance"`
	WeatherCondition string `json:"weatherCondition"`
	Calendar         *struct {
		View string `json:"view"`
	} `json:"calendar,omitempty"`
}
