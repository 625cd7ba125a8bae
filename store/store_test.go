package store

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"
	"testing"

	"globe-travel-api/client"
	"globe-travel-api/models"
)

type fakeAPI struct {
	mu        sync.Mutex
	locations map[uint]models.LocationResponse
	advice    []models.Advice
	nextID    uint
	err       error
	uploads   int
}

func newFakeAPI(dots ...models.LocationResponse) *fakeAPI {
	f := &fakeAPI{locations: make(map[uint]models.LocationResponse), nextID: 1}
	for _, d := range dots {
		f.locations[d.ID] = d
		if d.ID >= f.nextID {
			f.nextID = d.ID + 1
		}
	}
	return f
}

func (f *fakeAPI) ListLocations(ctx context.Context) ([]models.LocationResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	out := make([]models.LocationResponse, 0, len(f.locations))
	for id := uint(1); id < f.nextID; id++ {
		if d, ok := f.locations[id]; ok {
			out = append(out, d)
		}
	}
	return out, nil
}

func (f *fakeAPI) GetLocation(ctx context.Context, id uint) (*models.LocationResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.locations[id]
	if !ok {
		return nil, &client.APIError{Message: "Location not found", Code: client.CodeNotFound, StatusCode: http.StatusNotFound}
	}
	return &d, nil
}

func (f *fakeAPI) CreateLocation(ctx context.Context, req models.CreateLocationRequest) (*models.LocationResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	d := models.LocationResponse{ID: f.nextID, Title: req.Title, Note: req.Note}
	f.locations[d.ID] = d
	f.nextID++
	return &d, nil
}

func (f *fakeAPI) UpdateLocation(ctx context.Context, id uint, req models.UpdateLocationRequest) (*models.LocationResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d := f.locations[id]
	if req.Title != nil {
		d.Title = *req.Title
	}
	f.locations[id] = d
	return &d, nil
}

func (f *fakeAPI) DeleteLocation(ctx context.Context, id uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.locations, id)
	return nil
}

func (f *fakeAPI) counter(id uint, field string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return 0, f.err
	}
	d := f.locations[id]
	var n int
	switch field {
	case "likes":
		d.Likes++
		n = d.Likes
	case "dislikes":
		d.Dislikes++
		n = d.Dislikes
	case "shares":
		d.Shares++
		n = d.Shares
	case "visitors":
		d.Visitors++
		n = d.Visitors
	}
	f.locations[id] = d
	return n, nil
}

func (f *fakeAPI) LikeLocation(ctx context.Context, id uint) (int, error) {
	return f.counter(id, "likes")
}

func (f *fakeAPI) DislikeLocation(ctx context.Context, id uint) (int, error) {
	return f.counter(id, "dislikes")
}

func (f *fakeAPI) ShareLocation(ctx context.Context, id uint) (int, error) {
	return f.counter(id, "shares")
}

func (f *fakeAPI) CheckIn(ctx context.Context, id uint, visitorName string) (int, error) {
	return f.counter(id, "visitors")
}

func (f *fakeAPI) UploadMedia(ctx context.Context, locationID uint, files ...client.UploadFile) ([]models.MediaResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.uploads++
	d := f.locations[locationID]
	var out []models.MediaResponse
	for _, file := range files {
		m := models.MediaResponse{Name: file.Name}
		d.Media = append(d.Media, m)
		out = append(out, m)
	}
	d.MediaCount = len(d.Media)
	f.locations[locationID] = d
	return out, nil
}

func (f *fakeAPI) AddComment(ctx context.Context, req models.CreateCommentRequest) (*models.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c := models.Comment{LocationID: req.LocationID, Text: req.Text, Author: req.Author}
	d := f.locations[req.LocationID]
	d.Comments = append(d.Comments, c)
	d.CommentCount = len(d.Comments)
	f.locations[req.LocationID] = d
	return &c, nil
}

func (f *fakeAPI) Advice(ctx context.Context) ([]models.Advice, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.Advice(nil), f.advice...), nil
}

func (f *fakeAPI) AddAdvice(ctx context.Context, req models.CreateAdviceRequest) (*models.Advice, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a := models.Advice{ID: uint(len(f.advice) + 1), Title: req.Title, Content: req.Body()}
	f.advice = append(f.advice, a)
	return &a, nil
}

func TestNewDefaults(t *testing.T) {
	s := New(newFakeAPI(), NewMemoryPreferences())
	st := s.Snapshot()

	if st.Language != "he" || st.Theme != "light" {
		t.Errorf("language/theme = %q/%q", st.Language, st.Theme)
	}
	if st.DonateLink != DefaultDonateLink {
		t.Errorf("donate link = %q", st.DonateLink)
	}
	if st.AccessToken != "" || st.User != nil || len(st.Stars) != 0 {
		t.Errorf("unexpected persisted state: %+v", st)
	}
}

func TestLoadDataAndCounters(t *testing.T) {
	api := newFakeAPI(
		models.LocationResponse{ID: 1, Title: "Paris"},
		models.LocationResponse{ID: 2, Title: "Rome"},
	)
	api.advice = []models.Advice{{ID: 1, Title: "Pack light"}}
	s := New(api, NewMemoryPreferences())
	ctx := context.Background()

	if err := s.LoadData(ctx); err != nil {
		t.Fatalf("LoadData: %v", err)
	}
	st := s.Snapshot()
	if len(st.Dots) != 2 || len(st.AdviceList) != 1 || st.Loading {
		t.Fatalf("after load: %d dots, %d advice, loading=%v", len(st.Dots), len(st.AdviceList), st.Loading)
	}

	if err := s.ToggleLike(ctx, 1); err != nil {
		t.Fatal(err)
	}
	if err := s.ToggleLike(ctx, 1); err != nil {
		t.Fatal(err)
	}
	if err := s.ToggleDislike(ctx, 2); err != nil {
		t.Fatal(err)
	}
	if err := s.IncrementShare(ctx, 2); err != nil {
		t.Fatal(err)
	}
	visitors, err := s.CheckIn(ctx, 2, "Dana")
	if err != nil || visitors != 1 {
		t.Fatalf("CheckIn = %d, %v", visitors, err)
	}

	paris, _ := s.Dot(1)
	rome, _ := s.Dot(2)
	if paris.Likes != 2 || paris.Title != "Paris" {
		t.Errorf("paris = %+v", paris)
	}
	if rome.Dislikes != 1 || rome.Shares != 1 || rome.Visitors != 1 {
		t.Errorf("rome = %+v", rome)
	}
}

func TestAddUpdateDeleteDot(t *testing.T) {
	s := New(newFakeAPI(), NewMemoryPreferences())
	ctx := context.Background()

	dot, err := s.AddDot(ctx, models.CreateLocationRequest{Title: "Lisbon"})
	if err != nil {
		t.Fatal(err)
	}
	s.SelectDot(&dot.ID)

	title := "Porto"
	if _, err := s.UpdateDot(ctx, dot.ID, models.UpdateLocationRequest{Title: &title}); err != nil {
		t.Fatal(err)
	}
	got, ok := s.Dot(dot.ID)
	if !ok || got.Title != "Porto" {
		t.Fatalf("after update: %+v, %v", got, ok)
	}

	if err := s.DeleteDot(ctx, dot.ID); err != nil {
		t.Fatal(err)
	}
	st := s.Snapshot()
	if len(st.Dots) != 0 {
		t.Errorf("dots = %d, want 0", len(st.Dots))
	}
	if st.SelectedDot != nil {
		t.Error("selection should be cleared when the selected dot is deleted")
	}
}

type fixedListAPI struct {
	*fakeAPI
	dots []models.LocationResponse
}

func (f *fixedListAPI) ListLocations(ctx context.Context) ([]models.LocationResponse, error) {
	return f.dots, nil
}

func TestDeleteDotLeavesLoadedSliceAlone(t *testing.T) {
	dots := []models.LocationResponse{{ID: 1, Title: "Paris"}, {ID: 2, Title: "Rome"}, {ID: 3, Title: "Oslo"}}
	api := &fixedListAPI{fakeAPI: newFakeAPI(dots...), dots: dots}
	s := New(api, NewMemoryPreferences())
	ctx := context.Background()

	if err := s.LoadData(ctx); err != nil {
		t.Fatal(err)
	}
	if err := s.DeleteDot(ctx, 1); err != nil {
		t.Fatal(err)
	}

	if dots[0].ID != 1 || dots[1].ID != 2 || dots[2].ID != 3 {
		t.Fatalf("caller's slice was rewritten: %+v", dots)
	}
	got := s.Dots()
	if len(got) != 2 || got[0].ID != 2 || got[1].ID != 3 {
		t.Fatalf("dots after delete = %+v", got)
	}
}

func TestUploadAndCommentRefetch(t *testing.T) {
	api := newFakeAPI(models.LocationResponse{ID: 1, Title: "Oslo"})
	s := New(api, NewMemoryPreferences())
	ctx := context.Background()
	if err := s.LoadData(ctx); err != nil {
		t.Fatal(err)
	}

	err := s.UploadMedia(ctx, 1, client.UploadFile{Name: "a.png", ContentType: "image/png", Content: strings.NewReader("x")})
	if err != nil {
		t.Fatal(err)
	}
	if err := s.AddComment(ctx, 1, "Lovely", "Sam"); err != nil {
		t.Fatal(err)
	}

	dot, _ := s.Dot(1)
	if dot.MediaCount != 1 || len(dot.Media) != 1 {
		t.Errorf("media = %d/%d", dot.MediaCount, len(dot.Media))
	}
	if dot.CommentCount != 1 || dot.Comments[0].Text != "Lovely" {
		t.Errorf("comments = %+v", dot.Comments)
	}
}

func TestFailureSetsUserMessage(t *testing.T) {
	api := newFakeAPI()
	api.err = &client.APIError{Message: "Title is required", Code: client.CodeValidationError, StatusCode: http.StatusBadRequest}
	s := New(api, NewMemoryPreferences())

	var notified []string
	unsubscribe := s.Subscribe(func(st State) { notified = append(notified, st.Error) })
	defer unsubscribe()

	_, err := s.AddDot(context.Background(), models.CreateLocationRequest{})
	var apiErr *client.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %v, want *client.APIError", err)
	}
	if got := s.Snapshot().Error; got != "Title is required" {
		t.Errorf("Error = %q", got)
	}
	if len(notified) == 0 || notified[len(notified)-1] != "Title is required" {
		t.Errorf("listeners saw %v", notified)
	}

	s.ClearError()
	if s.Snapshot().Error != "" {
		t.Error("ClearError did not clear")
	}

	api.err = &client.NetworkError{Err: errors.New("connection refused")}
	if err := s.LoadData(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	st := s.Snapshot()
	if st.Error != client.Messages[client.CodeNetworkError] || st.Loading {
		t.Errorf("after network failure: error=%q loading=%v", st.Error, st.Loading)
	}
}

func TestFilteredDots(t *testing.T) {
	api := newFakeAPI(
		models.LocationResponse{ID: 1, Title: "Beach in Tel Aviv", Likes: 5, MediaCount: 2},
		models.LocationResponse{ID: 2, Title: "Mountain", Note: "great BEACH view", Likes: 1, CommentCount: 3},
		models.LocationResponse{ID: 3, Title: "Desert", Likes: 10},
	)
	s := New(api, NewMemoryPreferences())
	if err := s.LoadData(context.Background()); err != nil {
		t.Fatal(err)
	}

	ids := func(dots []models.LocationResponse) []uint {
		var out []uint
		for _, d := range dots {
			out = append(out, d.ID)
		}
		return out
	}

	tests := []struct {
		name    string
		query   string
		filters SearchFilters
		want    []uint
	}{
		{"no filters", "", SearchFilters{}, []uint{1, 2, 3}},
		{"query matches title or note", "beach", SearchFilters{}, []uint{1, 2}},
		{"has media", "", SearchFilters{HasMedia: true}, []uint{1}},
		{"has comments", "", SearchFilters{HasComments: true}, []uint{2}},
		{"min likes", "", SearchFilters{MinLikes: 5}, []uint{1, 3}},
		{"combined", "beach", SearchFilters{MinLikes: 2}, []uint{1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s.SetSearchQuery(tt.query)
			s.SetSearchFilters(tt.filters)
			got := ids(s.FilteredDots())
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("got %v, want %v", got, tt.want)
				}
			}
		})
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	api := newFakeAPI(models.LocationResponse{ID: 1, Title: "Cairo"})
	s := New(api, NewMemoryPreferences())
	if err := s.LoadData(context.Background()); err != nil {
		t.Fatal(err)
	}

	st := s.Snapshot()
	st.Dots[0].Title = "changed"
	st.Stars[1] = 99

	dot, _ := s.Dot(1)
	if dot.Title != "Cairo" || s.Stars(1) != 0 {
		t.Error("mutating a snapshot leaked into the store")
	}
}

func TestSubscribeAndUnsubscribe(t *testing.T) {
	s := New(newFakeAPI(), NewMemoryPreferences())

	calls := 0
	unsubscribe := s.Subscribe(func(st State) {
		calls++
		// Reading back from inside a listener must not deadlock.
		_ = s.Snapshot()
	})
	s.SetSearchQuery("x")
	unsubscribe()
	s.SetSearchQuery("y")

	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestPreferencesPersistAcrossStores(t *testing.T) {
	prefs, err := OpenBadgerPreferences("")
	if err != nil {
		t.Fatalf("OpenBadgerPreferences: %v", err)
	}
	defer prefs.Close()

	s := New(newFakeAPI(), prefs)
	if err := s.SetLanguage("en"); err != nil {
		t.Fatal(err)
	}
	if err := s.SetTheme("dark"); err != nil {
		t.Fatal(err)
	}
	if err := s.SetSocialLinks([]string{"https://example.com/me"}); err != nil {
		t.Fatal(err)
	}
	if err := s.SetDonateLink("https://example.com/donate"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.SendStars(7, 3); err != nil {
		t.Fatal(err)
	}
	total, err := s.SendStars(7, 2)
	if err != nil || total != 5 {
		t.Fatalf("SendStars = %d, %v", total, err)
	}
	if err := s.SetUser(&models.UserResponse{ID: 4, Name: "Noa", Email: "noa@example.com"}); err != nil {
		t.Fatal(err)
	}
	if err := s.SetCurrentGroup("group-1"); err != nil {
		t.Fatal(err)
	}
	token, err := s.GenerateAccessToken()
	if err != nil {
		t.Fatal(err)
	}

	restored := New(newFakeAPI(), prefs).Snapshot()
	if restored.Language != "en" || restored.Theme != "dark" {
		t.Errorf("language/theme = %q/%q", restored.Language, restored.Theme)
	}
	if len(restored.SocialLinks) != 1 || restored.SocialLinks[0] != "https://example.com/me" {
		t.Errorf("social links = %v", restored.SocialLinks)
	}
	if restored.DonateLink != "https://example.com/donate" {
		t.Errorf("donate link = %q", restored.DonateLink)
	}
	if restored.Stars[7] != 5 {
		t.Errorf("stars = %v", restored.Stars)
	}
	if restored.User == nil || restored.User.Email != "noa@example.com" {
		t.Errorf("user = %+v", restored.User)
	}
	if restored.CurrentGroup != "group-1" {
		t.Errorf("group = %q", restored.CurrentGroup)
	}
	if restored.AccessToken != token {
		t.Errorf("token = %q, want %q", restored.AccessToken, token)
	}

	if err := s.SetUser(nil); err != nil {
		t.Fatal(err)
	}
	if New(newFakeAPI(), prefs).Snapshot().User != nil {
		t.Error("user should be gone after sign out")
	}
}

func TestGenerateAccessToken(t *testing.T) {
	s := New(newFakeAPI(), NewMemoryPreferences())

	a, err := s.GenerateAccessToken()
	if err != nil {
		t.Fatal(err)
	}
	b, err := s.GenerateAccessToken()
	if err != nil {
		t.Fatal(err)
	}
	if len(a) != 96 || strings.Trim(a, "0123456789abcdef") != "" {
		t.Errorf("token %q is not 96 hex chars", a)
	}
	if a == b {
		t.Error("tokens should differ")
	}
	if s.Snapshot().AccessToken != b {
		t.Error("latest token not stored")
	}
}

func TestBadgerPreferencesMissingKey(t *testing.T) {
	prefs, err := OpenBadgerPreferences("")
	if err != nil {
		t.Fatal(err)
	}
	defer prefs.Close()

	if _, err := prefs.Get("nope"); !errors.Is(err, ErrPreferenceNotFound) {
		t.Errorf("Get = %v, want ErrPreferenceNotFound", err)
	}
	if err := prefs.Delete("nope"); err != nil {
		t.Errorf("Delete missing = %v", err)
	}
	if err := prefs.Set("k", "v"); err != nil {
		t.Fatal(err)
	}
	if v, err := prefs.Get("k"); err != nil || v != "v" {
		t.Errorf("Get = %q, %v", v, err)
	}
}
