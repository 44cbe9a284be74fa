package groupware

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/codemon-ai/make-meeting-room/internal/models"
)

// fakePortal imitates the portal's login flow and schedule endpoints.
type fakePortal struct {
	mu         sync.Mutex
	password   string
	listBody   string
	treeBody   string
	insertBody string
	lastInsert map[string]any
	revoked    bool
	loginPosts int
	srv        *httptest.Server
}

func newFakePortal(t *testing.T) *fakePortal {
	t.Helper()
	fp := &fakePortal{
		password:   "pw",
		listBody:   `{"resultCode":0,"result":{"resList":[]}}`,
		treeBody:   `{"resultCode":0,"result":[]}`,
		insertBody: `{"resultCode":0,"resultMessage":"SUCCESS"}`,
	}

	mux := http.NewServeMux()
	mux.HandleFunc(pathLoginPage, func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "JSESSIONID", Value: "anon", Path: "/"})
		io.WriteString(w, "<html>login</html>")
	})
	mux.HandleFunc(pathActionLogin, func(w http.ResponseWriter, r *http.Request) {
		fp.mu.Lock()
		fp.loginPosts++
		ok := r.FormValue("userId") == "jdoe" && r.FormValue("password") == fp.password && r.FormValue("userSe") == "USER"
		if ok {
			fp.revoked = false
		}
		fp.mu.Unlock()
		if ok {
			http.SetCookie(w, &http.Cookie{Name: "auth", Value: "ok", Path: "/"})
			http.Redirect(w, r, pathUserMain, http.StatusFound)
			return
		}
		http.Redirect(w, r, pathLoginPage, http.StatusFound)
	})
	mux.HandleFunc(pathUserMain, func(w http.ResponseWriter, r *http.Request) {
		if !fp.authorized(r) {
			http.Redirect(w, r, pathLoginPage, http.StatusFound)
			return
		}
		io.WriteString(w, "<html>userMain</html>")
	})
	mux.HandleFunc(pathBizbox, func(w http.ResponseWriter, r *http.Request) {})
	mux.HandleFunc("/schedule/Views/Common/resource/calendar", func(w http.ResponseWriter, r *http.Request) {})
	mux.HandleFunc(pathReservationList, fp.jsonHandler(func() string { return fp.listBody }))
	mux.HandleFunc(pathResourceTree, fp.jsonHandler(func() string { return fp.treeBody }))
	mux.HandleFunc(pathInsertReservation, func(w http.ResponseWriter, r *http.Request) {
		if !fp.authorized(r) {
			io.WriteString(w, "<html>login</html>")
			return
		}
		var payload map[string]any
		_ = json.NewDecoder(r.Body).Decode(&payload)
		fp.mu.Lock()
		fp.lastInsert = payload
		body := fp.insertBody
		fp.mu.Unlock()
		io.WriteString(w, body)
	})

	fp.srv = httptest.NewServer(mux)
	t.Cleanup(fp.srv.Close)
	return fp
}

func (fp *fakePortal) authorized(r *http.Request) bool {
	fp.mu.Lock()
	defer fp.mu.Unlock()
	c, err := r.Cookie("auth")
	return err == nil && c.Value == "ok" && !fp.revoked
}

func (fp *fakePortal) jsonHandler(body func() string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !fp.authorized(r) {
			io.WriteString(w, "<!DOCTYPE html><html>login</html>")
			return
		}
		fp.mu.Lock()
		b := body()
		fp.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, b)
	}
}

func (fp *fakePortal) set(fn func(fp *fakePortal)) {
	fp.mu.Lock()
	defer fp.mu.Unlock()
	fn(fp)
}

func newTestSession(fp *fakePortal, password string) *Session {
	return NewSession(Config{
		BaseURL:           fp.srv.URL,
		UserID:            "jdoe",
		Password:          password,
		Subscriber:        DefaultSubscriber(models.Subscriber{EmpName: "John", EmpSeq: "42"}),
		RequestsPerSecond: 1000,
	})
}

func TestSession_StateTransitions(t *testing.T) {
	fp := newFakePortal(t)
	s := newTestSession(fp, "pw")
	ctx := context.Background()

	if s.State() != StateClosed {
		t.Fatalf("new session state = %s, want closed", s.State())
	}
	if err := s.Login(ctx); !errors.Is(err, ErrInvalidState) {
		t.Errorf("Login on closed session: err = %v, want ErrInvalidState", err)
	}
	if err := s.Open(); err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if err := s.Open(); !errors.Is(err, ErrInvalidState) {
		t.Errorf("second Open: err = %v, want ErrInvalidState", err)
	}
	if _, err := s.FetchReservations(ctx, "2025-12-05"); !errors.Is(err, ErrNotAuthenticated) {
		t.Errorf("fetch before login: err = %v, want ErrNotAuthenticated", err)
	}
	if err := s.Login(ctx); err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if s.State() != StateAuthenticated {
		t.Errorf("state after login = %s", s.State())
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if s.State() != StateClosed {
		t.Errorf("state after close = %s", s.State())
	}
	if _, err := s.FetchReservations(ctx, "2025-12-05"); !errors.Is(err, ErrNotAuthenticated) {
		t.Errorf("fetch after close: err = %v, want ErrNotAuthenticated", err)
	}
}

func TestSession_LoginFailure(t *testing.T) {
	fp := newFakePortal(t)
	s := newTestSession(fp, "wrong")

	if err := s.EnsureAuthenticated(context.Background()); !errors.Is(err, ErrLoginFailed) {
		t.Fatalf("err = %v, want ErrLoginFailed", err)
	}
	if s.State() != StateOpen {
		t.Errorf("state after failed login = %s, want open", s.State())
	}

	empty := NewSession(Config{BaseURL: fp.srv.URL})
	if err := empty.EnsureAuthenticated(context.Background()); !errors.Is(err, ErrMissingCredentials) {
		t.Errorf("err = %v, want ErrMissingCredentials", err)
	}
}

func TestSession_ExpiryAndRelogin(t *testing.T) {
	fp := newFakePortal(t)
	s := newTestSession(fp, "pw")
	ctx := context.Background()

	if err := s.EnsureAuthenticated(ctx); err != nil {
		t.Fatalf("EnsureAuthenticated failed: %v", err)
	}
	fp.set(func(fp *fakePortal) { fp.revoked = true })

	if _, err := s.FetchReservations(ctx, "2025-12-05"); !errors.Is(err, ErrSessionExpired) {
		t.Fatalf("err = %v, want ErrSessionExpired", err)
	}
	if s.State() != StateOpen {
		t.Errorf("state after expiry = %s, want open", s.State())
	}

	if err := s.EnsureAuthenticated(ctx); err != nil {
		t.Fatalf("re-login failed: %v", err)
	}
	if _, err := s.FetchReservations(ctx, "2025-12-05"); err != nil {
		t.Errorf("fetch after re-login: %v", err)
	}
	if fp.loginPosts != 2 {
		t.Errorf("login posts = %d, want 2", fp.loginPosts)
	}
}

func TestFetchReservations_Shapes(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    int
		wantErr bool
	}{
		{"envelope with resList", `{"resultCode":"0","result":{"resList":[{"resName":"R3.1"},{"resName":"R2.1"}]}}`, 2, false},
		{"bare array", `[{"resNm":"R3.1"}]`, 1, false},
		{"result array", `{"resultCode":0,"result":[{"resNm":"R3.1"}]}`, 1, false},
		{"null result", `{"resultCode":0,"result":null}`, 0, false},
		{"corrupt element skipped", `[{"resName":"R3.1"},{"resName":123},{"resName":"R2.2"}]`, 2, false},
		{"portal error", `{"resultCode":-1,"resultMessage":"denied"}`, 0, true},
		{"garbage", `{"result":`, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fp := newFakePortal(t)
			fp.set(func(fp *fakePortal) { fp.listBody = tt.body })
			s := newTestSession(fp, "pw")
			if err := s.EnsureAuthenticated(context.Background()); err != nil {
				t.Fatalf("login: %v", err)
			}

			got, err := s.FetchReservations(context.Background(), "2025-12-05")
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if len(got) != tt.want {
				t.Errorf("got %d records, want %d", len(got), tt.want)
			}
		})
	}
}

func TestFetchResourceTree(t *testing.T) {
	fp := newFakePortal(t)
	fp.set(func(fp *fakePortal) {
		fp.treeBody = `{"resultCode":0,"result":{"resNm":"가산빌딩","resSeq":1,"children":[{"resNm":"R3.1","resSeq":"102"}]}}`
	})
	s := newTestSession(fp, "pw")
	if err := s.EnsureAuthenticated(context.Background()); err != nil {
		t.Fatalf("login: %v", err)
	}

	nodes, err := s.FetchResourceTree(context.Background())
	if err != nil {
		t.Fatalf("FetchResourceTree failed: %v", err)
	}
	if len(nodes) != 1 || len(nodes[0].Children) != 1 || nodes[0].Children[0].ResNm != "R3.1" {
		t.Fatalf("unexpected tree: %+v", nodes)
	}
	if seq, _ := nodes[0].Children[0].ResSeq.Int(); seq != 102 {
		t.Errorf("child resSeq = %d, want 102", seq)
	}
}

func TestSubmit(t *testing.T) {
	fp := newFakePortal(t)
	s := newTestSession(fp, "pw")
	if err := s.EnsureAuthenticated(context.Background()); err != nil {
		t.Fatalf("login: %v", err)
	}

	req := models.SubmitRequest{
		Room:        models.Room{Name: "R3.1", ResSeq: 102},
		Date:        "2025-12-05",
		Interval:    models.Interval{Start: models.MustClock("10:00"), End: models.MustClock("11:30")},
		Title:       "Design review",
		Description: "agenda",
	}
	res, err := s.Submit(context.Background(), req)
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if !res.Accepted {
		t.Errorf("expected accepted, got %+v", res)
	}

	p := fp.lastInsert
	checks := map[string]string{
		"resSeq":    "102",
		"reqText":   "Design review",
		"descText":  "agenda",
		"alldayYn":  "N",
		"apprYn":    "N",
		"startDate": "2025-12-05 10:00:00",
		"endDate":   "2025-12-05 11:30:00",
		"resName":   "R3.1",
	}
	for k, want := range checks {
		if got, _ := p[k].(string); got != want {
			t.Errorf("payload[%s] = %q, want %q", k, got, want)
		}
	}
	subs, _ := p["resSubscriberList"].([]any)
	if len(subs) != 1 {
		t.Fatalf("expected one subscriber, got %v", p["resSubscriberList"])
	}
	sub := subs[0].(map[string]any)
	if sub["loginId"] != "jdoe" || sub["empSeq"] != "42" || sub["compSeq"] != "1000" || sub["userType"] != "10" {
		t.Errorf("unexpected subscriber: %v", sub)
	}

	if _, err := s.Submit(context.Background(), models.SubmitRequest{Room: models.Room{Name: "R9.9"}}); err == nil {
		t.Error("expected error for room without resource id")
	}
}

func TestParseSubmitResponse(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		accepted bool
	}{
		{"numeric zero code", `{"resultCode":0}`, true},
		{"string zero code", `{"resultCode":"0"}`, true},
		{"success message", `{"resultCode":"E1","resultMessage":"SUCCESS"}`, true},
		{"success status", `{"status":"SUCCESS"}`, true},
		{"result contains success", `{"result":"INSERT_SUCCESS"}`, true},
		{"json string", `"SUCCESS"`, true},
		{"bare text", `SUCCESS`, true},
		{"failure code", `{"resultCode":-1,"resultMessage":"already reserved"}`, false},
		{"empty object", `{}`, false},
		{"other text", `FAIL`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := parseSubmitResponse([]byte(tt.body))
			if res.Accepted != tt.accepted {
				t.Errorf("Accepted = %v, want %v (%+v)", res.Accepted, tt.accepted, res)
			}
			if !res.Accepted && res.Message == "" {
				t.Error("rejections should carry a message")
			}
		})
	}
}
