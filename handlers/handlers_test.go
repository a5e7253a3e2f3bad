// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielhkuo/tripboard/board"
	"github.com/danielhkuo/tripboard/models"
	"github.com/danielhkuo/tripboard/session"
	"github.com/danielhkuo/tripboard/testutil"
)

const testTitle = "Test Trip"

type testServer struct {
	mux    *http.ServeMux
	client *testutil.FakeClient
	board  *board.Board
	cookie *http.Cookie
}

// newTestServer wires both handlers onto a mux backed by a fake remote
func newTestServer(t *testing.T, participants ...models.Participant) *testServer {
	t.Helper()

	client := testutil.NewFakeClient(participants...)
	b := board.New(client, testutil.DateOptions())
	t.Cleanup(b.Close)
	if err := b.Load(context.Background()); err != nil {
		t.Fatalf("Failed to load board: %v", err)
	}

	sessions := session.NewManager(testutil.GetTestConfig().SessionSalt)
	views := NewViewHandler(b, sessions, testTitle)
	intents := NewIntentHandler(b, sessions, testTitle)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /board", views.GetBoard)
	mux.HandleFunc("GET /participants", views.GetParticipants)
	mux.HandleFunc("GET /dates", views.GetDates)
	mux.HandleFunc("GET /tally", views.GetTally)
	mux.HandleFunc("GET /notices", views.GetNotices)
	mux.HandleFunc("DELETE /notices", views.DismissNotices)
	mux.HandleFunc("POST /session/active", intents.SelectParticipant)
	mux.HandleFunc("POST /session/date", intents.SelectDate)
	mux.HandleFunc("POST /session/groceries", intents.AddGroceryItem)
	mux.HandleFunc("DELETE /session/groceries/{position}", intents.RemoveGroceryItem)

	return &testServer{mux: mux, client: client, board: b}
}

// do sends a request, keeping the session cookie between calls
func (s *testServer) do(method, path string, body interface{}) *httptest.ResponseRecorder {
	req := testutil.MakeRequest(method, path, body, nil)
	if s.cookie != nil {
		req.AddCookie(s.cookie)
	}
	w := httptest.NewRecorder()
	s.mux.ServeHTTP(w, req)

	for _, c := range w.Result().Cookies() {
		if c.Name == session.CookieName {
			s.cookie = c
		}
	}
	return w
}

func defaultRoster() []models.Participant {
	return testutil.Roster("Ann Able", "Bob Baker", "Cal Cole")
}

func TestGetBoard(t *testing.T) {
	s := newTestServer(t, defaultRoster()...)

	w := s.do("GET", "/board", nil)
	testutil.AssertStatus(t, w, http.StatusOK)

	var view models.BoardView
	testutil.AssertJSON(t, w, &view)

	if view.Title != testTitle {
		t.Errorf("Expected title %q, got %q", testTitle, view.Title)
	}
	if view.Empty {
		t.Error("Expected non-empty board")
	}
	if len(view.Participants) != 3 {
		t.Fatalf("Expected 3 participants, got %d", len(view.Participants))
	}
	if !view.Participants[0].Active {
		t.Error("Expected first participant to be active by default")
	}
	if view.Dashboard == nil || view.Dashboard.Heading != "Ann Able's Dashboard" {
		t.Errorf("Unexpected dashboard: %+v", view.Dashboard)
	}
	if s.cookie == nil {
		t.Error("Expected session cookie to be set")
	}
}

func TestGetBoardEmptyRoster(t *testing.T) {
	s := newTestServer(t)

	w := s.do("GET", "/board", nil)
	testutil.AssertStatus(t, w, http.StatusOK)

	var view models.BoardView
	testutil.AssertJSON(t, w, &view)

	if !view.Empty {
		t.Error("Expected empty board")
	}
	if view.Dashboard != nil {
		t.Error("Expected no dashboard for empty roster")
	}
}

func TestSelectParticipant(t *testing.T) {
	s := newTestServer(t, defaultRoster()...)

	w := s.do("POST", "/session/active", models.SelectParticipantRequest{ParticipantID: "2"})
	testutil.AssertStatus(t, w, http.StatusOK)

	var view models.BoardView
	testutil.AssertJSON(t, w, &view)
	if view.Dashboard.Participant.ID != "2" {
		t.Errorf("Expected participant 2 active, got %s", view.Dashboard.Participant.ID)
	}

	// The selection sticks to this session only
	w = s.do("GET", "/board", nil)
	testutil.AssertJSON(t, w, &view)
	if view.Dashboard.Participant.ID != "2" {
		t.Errorf("Expected participant 2 to stay active, got %s", view.Dashboard.Participant.ID)
	}

	other := httptest.NewRecorder()
	s.mux.ServeHTTP(other, httptest.NewRequest("GET", "/board", nil))
	var fresh models.BoardView
	testutil.AssertJSON(t, other, &fresh)
	if fresh.Dashboard.Participant.ID != "1" {
		t.Errorf("Expected a new session to start on participant 1, got %s", fresh.Dashboard.Participant.ID)
	}
}

func TestSelectParticipantValidation(t *testing.T) {
	s := newTestServer(t, defaultRoster()...)

	w := s.do("POST", "/session/active", models.SelectParticipantRequest{})
	testutil.AssertStatus(t, w, http.StatusBadRequest)

	// Unknown ids fall back to the first participant
	w = s.do("POST", "/session/active", models.SelectParticipantRequest{ParticipantID: "missing"})
	testutil.AssertStatus(t, w, http.StatusOK)

	var view models.BoardView
	testutil.AssertJSON(t, w, &view)
	if view.Dashboard.Participant.ID != "1" {
		t.Errorf("Expected fallback to participant 1, got %s", view.Dashboard.Participant.ID)
	}
}

func TestSelectDateToggle(t *testing.T) {
	s := newTestServer(t, defaultRoster()...)

	w := s.do("POST", "/session/date", models.SelectDateRequest{Date: testutil.July7})
	testutil.AssertStatus(t, w, http.StatusOK)

	var view models.BoardView
	testutil.AssertJSON(t, w, &view)
	if view.Dashboard.Participant.SelectedDate != testutil.July7 {
		t.Errorf("Expected %s selected, got %q", testutil.July7, view.Dashboard.Participant.SelectedDate)
	}
	if view.Tally.VoteCount != 1 || view.Tally.LeadingDates[0] != testutil.July7 {
		t.Errorf("Unexpected tally: %+v", view.Tally)
	}

	rec, _ := s.client.Record("1")
	if rec.SelectedDate == nil || *rec.SelectedDate != testutil.July7 {
		t.Errorf("Expected remote date %s, got %v", testutil.July7, rec.SelectedDate)
	}

	// Selecting the same date again clears it
	w = s.do("POST", "/session/date", models.SelectDateRequest{Date: testutil.July7})
	testutil.AssertStatus(t, w, http.StatusOK)
	testutil.AssertJSON(t, w, &view)
	if view.Dashboard.Participant.SelectedDate != "" {
		t.Errorf("Expected date cleared, got %q", view.Dashboard.Participant.SelectedDate)
	}
	if view.Tally.HasVotes {
		t.Error("Expected no votes after clearing")
	}
}

func TestSelectDateUnknown(t *testing.T) {
	s := newTestServer(t, defaultRoster()...)

	w := s.do("POST", "/session/date", models.SelectDateRequest{Date: "July 9, 2025"})
	testutil.AssertStatus(t, w, http.StatusBadRequest)

	if len(s.client.Updates()) != 0 {
		t.Error("Expected no remote update for an unknown date")
	}
}

func TestSelectDateRemoteFailure(t *testing.T) {
	s := newTestServer(t, defaultRoster()...)
	s.client.FailUpdates(errors.New("network down"))

	w := s.do("POST", "/session/date", models.SelectDateRequest{Date: testutil.July8})
	testutil.AssertStatus(t, w, http.StatusBadGateway)

	var resp models.ErrorResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.Message != "failed to save date preference: network down" {
		t.Errorf("Unexpected error message: %q", resp.Message)
	}

	p, _ := s.board.Participant("1")
	if p.SelectedDate != "" {
		t.Errorf("Expected rollback to no date, got %q", p.SelectedDate)
	}

	w = s.do("GET", "/notices", nil)
	var notices []models.Notice
	testutil.AssertJSON(t, w, &notices)
	if len(notices) != 1 || notices[0].ParticipantID != "1" {
		t.Fatalf("Expected one notice for participant 1, got %+v", notices)
	}

	w = s.do("DELETE", "/notices", nil)
	testutil.AssertStatus(t, w, http.StatusOK)
	if len(s.board.Notices("1")) != 0 {
		t.Error("Expected notices to be dismissed")
	}
}

func TestNoticesFollowActiveParticipant(t *testing.T) {
	s := newTestServer(t, defaultRoster()...)
	s.client.FailUpdatesFor("1", errors.New("network down"))

	w := s.do("POST", "/session/date", models.SelectDateRequest{Date: testutil.July7})
	testutil.AssertStatus(t, w, http.StatusBadGateway)

	// A second browser editing someone else
	other := &testServer{mux: s.mux, client: s.client, board: s.board}
	other.do("POST", "/session/active", models.SelectParticipantRequest{ParticipantID: "2"})

	w = other.do("GET", "/notices", nil)
	var notices []models.Notice
	testutil.AssertJSON(t, w, &notices)
	if len(notices) != 0 {
		t.Errorf("Expected no notices for participant 2, got %+v", notices)
	}

	w = other.do("GET", "/board", nil)
	var view models.BoardView
	testutil.AssertJSON(t, w, &view)
	if len(view.Notices) != 0 {
		t.Errorf("Expected board without notices for participant 2, got %+v", view.Notices)
	}

	w = other.do("DELETE", "/notices", nil)
	testutil.AssertStatus(t, w, http.StatusOK)

	w = s.do("GET", "/notices", nil)
	testutil.AssertJSON(t, w, &notices)
	if len(notices) != 1 {
		t.Errorf("Expected participant 1's notice to survive, got %+v", notices)
	}
}

func TestGroceryAddRemove(t *testing.T) {
	s := newTestServer(t, defaultRoster()...)
	s.do("POST", "/session/active", models.SelectParticipantRequest{ParticipantID: "3"})

	for _, item := range []string{"  Trail mix ", "Coffee"} {
		w := s.do("POST", "/session/groceries", models.AddGroceryItemRequest{Item: item})
		testutil.AssertStatus(t, w, http.StatusOK)
	}

	p, _ := s.board.Participant("3")
	if len(p.GroceryList) != 2 || p.GroceryList[0] != "Trail mix" || p.GroceryList[1] != "Coffee" {
		t.Fatalf("Unexpected grocery list: %v", p.GroceryList)
	}

	w := s.do("DELETE", "/session/groceries/0", nil)
	testutil.AssertStatus(t, w, http.StatusOK)

	var view models.BoardView
	testutil.AssertJSON(t, w, &view)
	list := view.Dashboard.Participant.GroceryList
	if len(list) != 1 || list[0] != "Coffee" {
		t.Errorf("Expected [Coffee], got %v", list)
	}

	rec, _ := s.client.Record("3")
	if len(rec.GroceryList) != 1 || rec.GroceryList[0] != "Coffee" {
		t.Errorf("Expected remote list [Coffee], got %v", rec.GroceryList)
	}
}

func TestGroceryValidation(t *testing.T) {
	s := newTestServer(t, defaultRoster()...)

	w := s.do("POST", "/session/groceries", models.AddGroceryItemRequest{Item: "   "})
	testutil.AssertStatus(t, w, http.StatusBadRequest)

	w = s.do("DELETE", "/session/groceries/first", nil)
	testutil.AssertStatus(t, w, http.StatusBadRequest)

	req := httptest.NewRequest("POST", "/session/groceries", nil)
	req.AddCookie(s.cookie)
	w = httptest.NewRecorder()
	s.mux.ServeHTTP(w, req)
	testutil.AssertStatus(t, w, http.StatusBadRequest)

	if len(s.client.Updates()) != 0 {
		t.Errorf("Expected no remote updates, got %d", len(s.client.Updates()))
	}
}

func TestIntentsWithEmptyRoster(t *testing.T) {
	s := newTestServer(t)

	w := s.do("POST", "/session/date", models.SelectDateRequest{Date: testutil.July7})
	testutil.AssertStatus(t, w, http.StatusConflict)

	w = s.do("POST", "/session/groceries", models.AddGroceryItemRequest{Item: "Coffee"})
	testutil.AssertStatus(t, w, http.StatusConflict)

	w = s.do("DELETE", "/session/groceries/0", nil)
	testutil.AssertStatus(t, w, http.StatusConflict)
}

func TestGetDates(t *testing.T) {
	s := newTestServer(t, defaultRoster()...)
	s.do("POST", "/session/date", models.SelectDateRequest{Date: testutil.July8})

	w := s.do("GET", "/dates", nil)
	testutil.AssertStatus(t, w, http.StatusOK)

	var dates []models.DateChoice
	testutil.AssertJSON(t, w, &dates)
	if len(dates) != 2 {
		t.Fatalf("Expected 2 dates, got %d", len(dates))
	}
	if dates[0].Selected || !dates[1].Selected {
		t.Errorf("Expected only %s selected: %+v", testutil.July8, dates)
	}
	if dates[0].Label != "July 7th" {
		t.Errorf("Expected label 'July 7th', got %q", dates[0].Label)
	}
}

func TestGetParticipantsAndTally(t *testing.T) {
	roster := defaultRoster()
	roster[1].SelectedDate = testutil.July8
	roster[2].SelectedDate = testutil.July8
	s := newTestServer(t, roster...)

	w := s.do("GET", "/participants", nil)
	testutil.AssertStatus(t, w, http.StatusOK)
	var entries []models.RosterEntry
	testutil.AssertJSON(t, w, &entries)
	if len(entries) != 3 || entries[0].Name != "Ann Able" {
		t.Errorf("Unexpected roster: %+v", entries)
	}

	w = s.do("GET", "/tally", nil)
	testutil.AssertStatus(t, w, http.StatusOK)
	var tally models.Tally
	testutil.AssertJSON(t, w, &tally)
	if tally.VoteCount != 2 || len(tally.LeadingDates) != 1 || tally.LeadingDates[0] != testutil.July8 {
		t.Errorf("Unexpected tally: %+v", tally)
	}
}

func TestClientDisconnectDoesNotCancelUpdate(t *testing.T) {
	s := newTestServer(t, defaultRoster()...)
	release := s.client.Hold()

	ctx, cancel := context.WithCancel(context.Background())
	req := testutil.MakeRequest("POST", "/session/date", models.SelectDateRequest{Date: testutil.July7}, nil).WithContext(ctx)
	w := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		s.mux.ServeHTTP(w, req)
		close(done)
	}()

	<-s.client.Started()
	cancel()
	<-done
	release()

	// The queued no-op update runs after the held one, so waiting on it
	// means the first update has finished.
	m, err := s.board.RemoveGroceryItem(context.Background(), "1", 99)
	if err != nil {
		t.Fatalf("Failed to queue update: %v", err)
	}
	if err := m.Wait(context.Background()); err != nil {
		t.Fatalf("Unexpected update error: %v", err)
	}

	rec, _ := s.client.Record("1")
	if rec.SelectedDate == nil || *rec.SelectedDate != testutil.July7 {
		t.Errorf("Expected update to finish after disconnect, got %v", rec.SelectedDate)
	}
}
