package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/timerapp/timerapp-backend/internal/friends"
	"github.com/timerapp/timerapp-backend/internal/settings"
	"github.com/timerapp/timerapp-backend/internal/users"
	"github.com/timerapp/timerapp-backend/pkg/enums"
	pkgerrors "github.com/timerapp/timerapp-backend/pkg/errors"
)

type stubSearcher struct {
	got users.SearchParams
}

func (s *stubSearcher) Search(ctx context.Context, params users.SearchParams) ([]users.PublicProfile, error) {
	s.got = params
	if params.Query == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "q is required")
	}
	name := "ana"
	return []users.PublicProfile{{UserID: uuid.New(), Username: &name}}, nil
}

type stubSettingsService struct {
	current *settings.Settings
	got     settings.UpdateInput
}

func (s *stubSettingsService) Get(ctx context.Context, userID uuid.UUID) (*settings.Settings, error) {
	return s.current, nil
}

func (s *stubSettingsService) Update(ctx context.Context, userID uuid.UUID, input settings.UpdateInput) (*settings.Settings, error) {
	s.got = input
	return &settings.Settings{ThemeMode: enums.ThemeModeDark, Palette: enums.PaletteA, UpdatedAt: time.Now().UTC()}, nil
}

type stubFriendsService struct {
	requestFn func(ctx context.Context, input friends.RequestInput) (*friends.RequestResult, error)
	respondFn func(ctx context.Context, input friends.RespondInput) (*friends.RespondResult, error)
	list      []users.PublicProfile
	pending   *friends.Requests
}

func (s stubFriendsService) List(ctx context.Context, userID uuid.UUID) ([]users.PublicProfile, error) {
	return s.list, nil
}

func (s stubFriendsService) Request(ctx context.Context, input friends.RequestInput) (*friends.RequestResult, error) {
	return s.requestFn(ctx, input)
}

func (s stubFriendsService) Requests(ctx context.Context, userID uuid.UUID) (*friends.Requests, error) {
	return s.pending, nil
}

func (s stubFriendsService) Respond(ctx context.Context, input friends.RespondInput) (*friends.RespondResult, error) {
	return s.respondFn(ctx, input)
}

func (s stubFriendsService) FriendIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	return nil, nil
}

func TestUserSearchPassesQueryAndLimit(t *testing.T) {
	svc := &stubSearcher{}
	rec := httptest.NewRecorder()
	UserSearch(svc, nil).ServeHTTP(rec, newRequest(http.MethodGet, "/api/v1/users/search?q=an&limit=5", "", uuid.New()))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.got.Query != "an" || svc.got.Limit != 5 {
		t.Fatalf("unexpected params %+v", svc.got)
	}
	var body struct {
		Items []users.PublicProfile `json:"items"`
	}
	decodeData(t, rec, &body)
	if len(body.Items) != 1 {
		t.Fatalf("unexpected body %+v", body)
	}
}

func TestUserSearchWithoutQueryIs400(t *testing.T) {
	rec := httptest.NewRecorder()
	UserSearch(&stubSearcher{}, nil).ServeHTTP(rec, newRequest(http.MethodGet, "/api/v1/users/search", "", uuid.New()))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestSettingsGetReturnsNullBeforeFirstSave(t *testing.T) {
	rec := httptest.NewRecorder()
	SettingsGet(&stubSettingsService{}, nil).ServeHTTP(rec, newRequest(http.MethodGet, "/api/v1/settings", "", uuid.New()))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	var body struct {
		Data *settings.Settings `json:"data"`
	}
	if err := decodeJSON(rec, &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Data != nil {
		t.Fatalf("expected null data got %+v", body.Data)
	}
}

func TestSettingsUpdate(t *testing.T) {
	svc := &stubSettingsService{}
	rec := httptest.NewRecorder()
	SettingsUpdate(svc, nil).ServeHTTP(rec, newRequest(http.MethodPatch, "/api/v1/settings", `{"theme_mode":"dark"}`, uuid.New()))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.got.ThemeMode == nil || *svc.got.ThemeMode != "dark" || svc.got.Palette != nil {
		t.Fatalf("unexpected input %+v", svc.got)
	}

	rec = httptest.NewRecorder()
	SettingsUpdate(svc, nil).ServeHTTP(rec, newRequest(http.MethodPatch, "/api/v1/settings", `{"palette":"z"}`, uuid.New()))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestFriendRequestStatusCodes(t *testing.T) {
	userID, target := uuid.New(), uuid.New()
	cases := []struct {
		result string
		want   int
	}{
		{friends.ResultRequested, http.StatusCreated},
		{friends.ResultAlreadyFriends, http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.result, func(t *testing.T) {
			var got friends.RequestInput
			svc := stubFriendsService{
				requestFn: func(ctx context.Context, input friends.RequestInput) (*friends.RequestResult, error) {
					got = input
					return &friends.RequestResult{Status: tc.result, User: users.PublicProfile{UserID: target}}, nil
				},
			}
			rec := httptest.NewRecorder()
			body := `{"to_user_id":"` + target.String() + `"}`
			FriendRequest(svc, nil).ServeHTTP(rec, newRequest(http.MethodPost, "/api/v1/friends/request", body, userID))

			if rec.Code != tc.want {
				t.Fatalf("expected %d got %d: %s", tc.want, rec.Code, rec.Body.String())
			}
			if got.UserID != userID || got.ToUserID == nil || *got.ToUserID != target {
				t.Fatalf("unexpected input %+v", got)
			}
		})
	}
}

func TestFriendRespondValidatesAction(t *testing.T) {
	called := false
	svc := stubFriendsService{
		respondFn: func(ctx context.Context, input friends.RespondInput) (*friends.RespondResult, error) {
			called = true
			return &friends.RespondResult{Status: friends.ResultAccepted}, nil
		},
	}
	requester := uuid.New().String()

	rec := httptest.NewRecorder()
	FriendRespond(svc, nil).ServeHTTP(rec, newRequest(http.MethodPost, "/api/v1/friends/respond",
		`{"requester_user_id":"`+requester+`","action":"ignore"}`, uuid.New()))
	if rec.Code != http.StatusBadRequest || called {
		t.Fatalf("expected 400 without a service call, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	FriendRespond(svc, nil).ServeHTTP(rec, newRequest(http.MethodPost, "/api/v1/friends/respond",
		`{"requester_user_id":"`+requester+`","action":"accept"}`, uuid.New()))
	if rec.Code != http.StatusOK || !called {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	var body friends.RespondResult
	decodeData(t, rec, &body)
	if body.Status != friends.ResultAccepted {
		t.Fatalf("unexpected body %+v", body)
	}
}

func TestFriendRespondMissingRequestIs404(t *testing.T) {
	svc := stubFriendsService{
		respondFn: func(ctx context.Context, input friends.RespondInput) (*friends.RespondResult, error) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "friend request not found")
		},
	}
	rec := httptest.NewRecorder()
	FriendRespond(svc, nil).ServeHTTP(rec, newRequest(http.MethodPost, "/api/v1/friends/respond",
		`{"requester_user_id":"`+uuid.New().String()+`","action":"decline"}`, uuid.New()))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", rec.Code)
	}
}

func TestFriendsListAndRequests(t *testing.T) {
	name := "grace"
	svc := stubFriendsService{
		list:    []users.PublicProfile{{UserID: uuid.New(), Username: &name}},
		pending: &friends.Requests{Incoming: []friends.PendingRequest{}, Outgoing: []friends.PendingRequest{}},
	}

	rec := httptest.NewRecorder()
	FriendsList(svc, nil).ServeHTTP(rec, newRequest(http.MethodGet, "/api/v1/friends", "", uuid.New()))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	var list struct {
		Items []users.PublicProfile `json:"items"`
	}
	decodeData(t, rec, &list)
	if len(list.Items) != 1 || *list.Items[0].Username != "grace" {
		t.Fatalf("unexpected list %+v", list)
	}

	rec = httptest.NewRecorder()
	FriendRequests(svc, nil).ServeHTTP(rec, newRequest(http.MethodGet, "/api/v1/friends/requests", "", uuid.New()))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
}
