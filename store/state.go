package store

import (
	"globe-travel-api/models"
)

const (
	DefaultLanguage   = "he"
	DefaultTheme      = "light"
	DefaultDonateLink = "https://www.paypal.com/donate/?hosted_button_id=QPPDT97GAMX58"
)

// Preference keys.
const (
	keyLanguage     = "language"
	keyTheme        = "theme"
	keySocialLinks  = "socialLinks"
	keyDonateLink   = "donateLink"
	keyStars        = "stars"
	keyAccessToken  = "accessToken"
	keyUser         = "user"
	keyCurrentGroup = "currentGroup"
)

type SearchFilters struct {
	HasMedia    bool
	HasComments bool
	MinLikes    int
}

// ClickLocation is the last point picked on the globe.
type ClickLocation struct {
	Lat      float64
	Lon      float64
	Position [3]float64
}

// State is everything the UI renders from. Values handed out by the Store
// are copies.
type State struct {
	Dots          []models.LocationResponse
	AdviceList    []models.Advice
	SelectedDot   *uint
	ClickLocation *ClickLocation
	SearchQuery   string
	SearchFilters SearchFilters
	Loading       bool
	Error         string

	User           *models.UserResponse
	CurrentGroup   string
	TravelerActive bool
	TravelerTarget *uint

	Language    string
	Theme       string
	SocialLinks []string
	DonateLink  string
	Stars       map[uint]int
	AccessToken string
}

func (s State) clone() State {
	out := s
	out.Dots = make([]models.LocationResponse, len(s.Dots))
	for i, d := range s.Dots {
		out.Dots[i] = cloneDot(d)
	}
	out.AdviceList = append([]models.Advice(nil), s.AdviceList...)
	if s.SelectedDot != nil {
		id := *s.SelectedDot
		out.SelectedDot = &id
	}
	if s.ClickLocation != nil {
		cl := *s.ClickLocation
		out.ClickLocation = &cl
	}
	if s.User != nil {
		u := *s.User
		out.User = &u
	}
	if s.TravelerTarget != nil {
		id := *s.TravelerTarget
		out.TravelerTarget = &id
	}
	out.SocialLinks = append([]string(nil), s.SocialLinks...)
	out.Stars = make(map[uint]int, len(s.Stars))
	for k, v := range s.Stars {
		out.Stars[k] = v
	}
	return out
}

func cloneDot(d models.LocationResponse) models.LocationResponse {
	out := d
	out.SocialLinks = append(models.StringList(nil), d.SocialLinks...)
	out.Media = append([]models.MediaResponse{}, d.Media...)
	out.Comments = append([]models.Comment{}, d.Comments...)
	return out
}
