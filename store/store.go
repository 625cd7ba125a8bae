// Package store holds client-side application state for the globe UI:
// the loaded locations, selection and search, and persisted preferences.
package store

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"strings"
	"sync"

	"github.com/goccy/go-json"

	"globe-travel-api/client"
	"globe-travel-api/logging"
	"globe-travel-api/models"
)

// API is the subset of the HTTP client the store drives.
type API interface {
	ListLocations(ctx context.Context) ([]models.LocationResponse, error)
	GetLocation(ctx context.Context, id uint) (*models.LocationResponse, error)
	CreateLocation(ctx context.Context, req models.CreateLocationRequest) (*models.LocationResponse, error)
	UpdateLocation(ctx context.Context, id uint, req models.UpdateLocationRequest) (*models.LocationResponse, error)
	DeleteLocation(ctx context.Context, id uint) error
	LikeLocation(ctx context.Context, id uint) (int, error)
	DislikeLocation(ctx context.Context, id uint) (int, error)
	ShareLocation(ctx context.Context, id uint) (int, error)
	CheckIn(ctx context.Context, id uint, visitorName string) (int, error)
	UploadMedia(ctx context.Context, locationID uint, files ...client.UploadFile) ([]models.MediaResponse, error)
	AddComment(ctx context.Context, req models.CreateCommentRequest) (*models.Comment, error)
	Advice(ctx context.Context) ([]models.Advice, error)
	AddAdvice(ctx context.Context, req models.CreateAdviceRequest) (*models.Advice, error)
}

var _ API = (*client.Client)(nil)

const accessTokenBytes = 48

type Store struct {
	api   API
	prefs Preferences

	mu        sync.RWMutex
	state     State
	listeners map[int]func(State)
	nextID    int
}

// New builds a store and restores persisted preferences. Missing or
// unreadable preferences fall back to defaults.
func New(api API, prefs Preferences) *Store {
	s := &Store{
		api:       api,
		prefs:     prefs,
		listeners: make(map[int]func(State)),
		state: State{
			Language:   DefaultLanguage,
			Theme:      DefaultTheme,
			DonateLink: DefaultDonateLink,
			Stars:      make(map[uint]int),
		},
	}
	s.restore()
	return s
}

func (s *Store) restore() {
	if v, ok := s.load(keyLanguage); ok {
		s.state.Language = v
	}
	if v, ok := s.load(keyTheme); ok {
		s.state.Theme = v
	}
	if v, ok := s.load(keyDonateLink); ok {
		s.state.DonateLink = v
	}
	if v, ok := s.load(keyAccessToken); ok {
		s.state.AccessToken = v
	}
	if v, ok := s.load(keyCurrentGroup); ok {
		s.state.CurrentGroup = v
	}
	if v, ok := s.load(keySocialLinks); ok {
		var links []string
		if err := json.Unmarshal([]byte(v), &links); err == nil {
			s.state.SocialLinks = links
		}
	}
	if v, ok := s.load(keyStars); ok {
		stars := make(map[uint]int)
		if err := json.Unmarshal([]byte(v), &stars); err == nil {
			s.state.Stars = stars
		}
	}
	if v, ok := s.load(keyUser); ok {
		var user models.UserResponse
		if err := json.Unmarshal([]byte(v), &user); err == nil {
			s.state.User = &user
		}
	}
}

func (s *Store) load(key string) (string, bool) {
	v, err := s.prefs.Get(key)
	if err != nil {
		if !errors.Is(err, ErrPreferenceNotFound) {
			logging.Warn().Err(err).Str("key", key).Msg("Failed to read preference")
		}
		return "", false
	}
	return v, true
}

func (s *Store) persist(key string, value interface{}) error {
	var raw string
	switch v := value.(type) {
	case string:
		raw = v
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return err
		}
		raw = string(b)
	}
	return s.prefs.Set(key, raw)
}

// Subscribe registers fn to run after every state change. The returned
// func removes it.
func (s *Store) Subscribe(fn func(State)) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

// update applies fn under the lock and notifies listeners once it is released.
func (s *Store) update(fn func(*State)) {
	s.mu.Lock()
	fn(&s.state)
	snapshot := s.state.clone()
	listeners := make([]func(State), 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	s.mu.Unlock()

	for _, l := range listeners {
		l(snapshot)
	}
}

func (s *Store) fail(err error) error {
	msg := client.UserMessage(err)
	s.update(func(st *State) {
		st.Loading = false
		st.Error = msg
	})
	return err
}

// Selectors

func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.clone()
}

func (s *Store) Dots() []models.LocationResponse {
	return s.Snapshot().Dots
}

func (s *Store) Dot(id uint) (models.LocationResponse, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, d := range s.state.Dots {
		if d.ID == id {
			return cloneDot(d), true
		}
	}
	return models.LocationResponse{}, false
}

// FilteredDots applies the search query (case-insensitive, title or note)
// and the search filters.
func (s *Store) FilteredDots() []models.LocationResponse {
	st := s.Snapshot()
	query := strings.ToLower(strings.TrimSpace(st.SearchQuery))
	f := st.SearchFilters

	out := make([]models.LocationResponse, 0, len(st.Dots))
	for _, d := range st.Dots {
		if query != "" &&
			!strings.Contains(strings.ToLower(d.Title), query) &&
			!strings.Contains(strings.ToLower(d.Note), query) {
			continue
		}
		if f.HasMedia && d.MediaCount == 0 && len(d.Media) == 0 {
			continue
		}
		if f.HasComments && d.CommentCount == 0 && len(d.Comments) == 0 {
			continue
		}
		if d.Likes < f.MinLikes {
			continue
		}
		out = append(out, d)
	}
	return out
}

func (s *Store) Stars(id uint) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Stars[id]
}

// Data actions

// LoadData fetches locations and advice together.
func (s *Store) LoadData(ctx context.Context) error {
	s.update(func(st *State) {
		st.Loading = true
		st.Error = ""
	})

	dots, err := s.api.ListLocations(ctx)
	if err != nil {
		return s.fail(err)
	}
	advice, err := s.api.Advice(ctx)
	if err != nil {
		return s.fail(err)
	}

	s.update(func(st *State) {
		st.Dots = append([]models.LocationResponse(nil), dots...)
		st.AdviceList = append([]models.Advice(nil), advice...)
		st.Loading = false
	})
	return nil
}

func (s *Store) AddDot(ctx context.Context, req models.CreateLocationRequest) (*models.LocationResponse, error) {
	dot, err := s.api.CreateLocation(ctx, req)
	if err != nil {
		return nil, s.fail(err)
	}
	s.update(func(st *State) {
		st.Dots = append(st.Dots, *dot)
	})
	return dot, nil
}

func (s *Store) UpdateDot(ctx context.Context, id uint, req models.UpdateLocationRequest) (*models.LocationResponse, error) {
	dot, err := s.api.UpdateLocation(ctx, id, req)
	if err != nil {
		return nil, s.fail(err)
	}
	s.replaceDot(*dot)
	return dot, nil
}

func (s *Store) DeleteDot(ctx context.Context, id uint) error {
	if err := s.api.DeleteLocation(ctx, id); err != nil {
		return s.fail(err)
	}
	s.update(func(st *State) {
		dots := make([]models.LocationResponse, 0, len(st.Dots))
		for _, d := range st.Dots {
			if d.ID != id {
				dots = append(dots, d)
			}
		}
		st.Dots = dots
		if st.SelectedDot != nil && *st.SelectedDot == id {
			st.SelectedDot = nil
		}
	})
	return nil
}

// UploadMedia uploads files and refreshes the location so media and
// counts come from the server.
func (s *Store) UploadMedia(ctx context.Context, locationID uint, files ...client.UploadFile) error {
	if _, err := s.api.UploadMedia(ctx, locationID, files...); err != nil {
		return s.fail(err)
	}
	return s.refreshDot(ctx, locationID)
}

func (s *Store) AddComment(ctx context.Context, locationID uint, text, author string) error {
	_, err := s.api.AddComment(ctx, models.CreateCommentRequest{
		LocationID: locationID,
		Text:       text,
		Author:     author,
	})
	if err != nil {
		return s.fail(err)
	}
	return s.refreshDot(ctx, locationID)
}

func (s *Store) ToggleLike(ctx context.Context, id uint) error {
	return s.bump(ctx, id, s.api.LikeLocation, func(d *models.LocationResponse, n int) { d.Likes = n })
}

func (s *Store) ToggleDislike(ctx context.Context, id uint) error {
	return s.bump(ctx, id, s.api.DislikeLocation, func(d *models.LocationResponse, n int) { d.Dislikes = n })
}

func (s *Store) IncrementShare(ctx context.Context, id uint) error {
	return s.bump(ctx, id, s.api.ShareLocation, func(d *models.LocationResponse, n int) { d.Shares = n })
}

func (s *Store) CheckIn(ctx context.Context, id uint, visitorName string) (int, error) {
	visitors, err := s.api.CheckIn(ctx, id, visitorName)
	if err != nil {
		return 0, s.fail(err)
	}
	s.patchDot(id, func(d *models.LocationResponse) { d.Visitors = visitors })
	return visitors, nil
}

func (s *Store) AddAdvice(ctx context.Context, req models.CreateAdviceRequest) (*models.Advice, error) {
	advice, err := s.api.AddAdvice(ctx, req)
	if err != nil {
		return nil, s.fail(err)
	}
	s.update(func(st *State) {
		st.AdviceList = append(st.AdviceList, *advice)
	})
	return advice, nil
}

func (s *Store) bump(ctx context.Context, id uint, call func(context.Context, uint) (int, error), set func(*models.LocationResponse, int)) error {
	n, err := call(ctx, id)
	if err != nil {
		return s.fail(err)
	}
	s.patchDot(id, func(d *models.LocationResponse) { set(d, n) })
	return nil
}

func (s *Store) refreshDot(ctx context.Context, id uint) error {
	dot, err := s.api.GetLocation(ctx, id)
	if err != nil {
		return s.fail(err)
	}
	s.replaceDot(*dot)
	return nil
}

func (s *Store) replaceDot(dot models.LocationResponse) {
	s.patchDot(dot.ID, func(d *models.LocationResponse) { *d = dot })
}

func (s *Store) patchDot(id uint, fn func(*models.LocationResponse)) {
	s.update(func(st *State) {
		for i := range st.Dots {
			if st.Dots[i].ID == id {
				fn(&st.Dots[i])
				return
			}
		}
	})
}

// Plain setters

func (s *Store) SetError(msg string) {
	s.update(func(st *State) { st.Error = msg })
}

func (s *Store) ClearError() {
	s.SetError("")
}

func (s *Store) SetLoading(loading bool) {
	s.update(func(st *State) { st.Loading = loading })
}

// SelectDot selects a location; nil clears the selection.
func (s *Store) SelectDot(id *uint) {
	s.update(func(st *State) {
		if id == nil {
			st.SelectedDot = nil
			return
		}
		v := *id
		st.SelectedDot = &v
	})
}

func (s *Store) SetClickLocation(cl *ClickLocation) {
	s.update(func(st *State) {
		if cl == nil {
			st.ClickLocation = nil
			return
		}
		v := *cl
		st.ClickLocation = &v
	})
}

func (s *Store) SetSearchQuery(q string) {
	s.update(func(st *State) { st.SearchQuery = q })
}

func (s *Store) SetSearchFilters(f SearchFilters) {
	s.update(func(st *State) { st.SearchFilters = f })
}

func (s *Store) SetTravelerActive(active bool) {
	s.update(func(st *State) {
		st.TravelerActive = active
		if !active {
			st.TravelerTarget = nil
		}
	})
}

func (s *Store) SetTravelerTarget(id *uint) {
	s.update(func(st *State) {
		if id == nil {
			st.TravelerTarget = nil
			return
		}
		v := *id
		st.TravelerTarget = &v
	})
}

// Persisted setters. State changes even when persisting fails; the error
// is returned so callers can surface it.

func (s *Store) SetLanguage(lang string) error {
	s.update(func(st *State) { st.Language = lang })
	return s.persist(keyLanguage, lang)
}

func (s *Store) SetTheme(theme string) error {
	s.update(func(st *State) { st.Theme = theme })
	return s.persist(keyTheme, theme)
}

func (s *Store) SetSocialLinks(links []string) error {
	links = append([]string(nil), links...)
	s.update(func(st *State) { st.SocialLinks = links })
	return s.persist(keySocialLinks, links)
}

func (s *Store) SetDonateLink(link string) error {
	s.update(func(st *State) { st.DonateLink = link })
	return s.persist(keyDonateLink, link)
}

// SendStars adds amount stars to a location and returns the new total.
func (s *Store) SendStars(id uint, amount int) (int, error) {
	var total int
	var stars map[uint]int
	s.update(func(st *State) {
		st.Stars[id] += amount
		total = st.Stars[id]
		stars = make(map[uint]int, len(st.Stars))
		for k, v := range st.Stars {
			stars[k] = v
		}
	})
	return total, s.persist(keyStars, stars)
}

func (s *Store) SetAccessToken(token string) error {
	s.update(func(st *State) { st.AccessToken = token })
	if token == "" {
		return s.prefs.Delete(keyAccessToken)
	}
	return s.persist(keyAccessToken, token)
}

// GenerateAccessToken creates a random hex token and stores it.
func (s *Store) GenerateAccessToken() (string, error) {
	buf := make([]byte, accessTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	token := hex.EncodeToString(buf)
	return token, s.SetAccessToken(token)
}

// SetUser records the signed-in user; nil signs out.
func (s *Store) SetUser(user *models.UserResponse) error {
	if user == nil {
		s.update(func(st *State) { st.User = nil })
		return s.prefs.Delete(keyUser)
	}
	u := *user
	s.update(func(st *State) { st.User = &u })
	return s.persist(keyUser, u)
}

func (s *Store) SetCurrentGroup(id string) error {
	s.update(func(st *State) { st.CurrentGroup = id })
	if id == "" {
		return s.prefs.Delete(keyCurrentGroup)
	}
	return s.persist(keyCurrentGroup, id)
}

