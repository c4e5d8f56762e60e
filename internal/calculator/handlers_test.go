package calculator

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go-chi-calculator/internal/observability"
	"go-chi-calculator/internal/testutil"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func newTestRouter(t *testing.T, cfg Config) (chi.Router, *Store) {
	t.Helper()
	observability.Logger = zap.NewNop()

	st := NewStore(cfg)
	r := chi.NewRouter()
	RegisterRoutes(r, NewHandler(st))
	return r, st
}

func post(path, body string) *http.Request {
	return testutil.NewJSONRequest(http.MethodPost, path, body)
}

func TestCreateAndGetSession(t *testing.T) {
	r, st := newTestRouter(t, Config{})

	w := testutil.ExecuteRequest(post("/calculator/sessions", ""), r)
	testutil.CheckResponseCode(t, http.StatusCreated, w.Code)

	var created SessionResponse
	testutil.DecodeJSONBody(t, w.Body, &created)
	if created.ID == "" || created.Current != "0" || created.Phase != "idle" {
		t.Fatalf("unexpected create response %+v", created)
	}
	if st.Len() != 1 {
		t.Fatalf("expected 1 session, got %d", st.Len())
	}

	w = testutil.ExecuteRequest(httptest.NewRequest(http.MethodGet, "/calculator/sessions/"+created.ID, nil), r)
	testutil.CheckResponseCode(t, http.StatusOK, w.Code)

	var got SessionResponse
	testutil.DecodeJSONBody(t, w.Body, &got)
	if got.ID != created.ID {
		t.Fatalf("expected id %q, got %q", created.ID, got.ID)
	}
}

func TestUnknownSessionReturnsNotFound(t *testing.T) {
	r, _ := newTestRouter(t, Config{})

	requests := []*http.Request{
		httptest.NewRequest(http.MethodGet, "/calculator/sessions/missing", nil),
		httptest.NewRequest(http.MethodDelete, "/calculator/sessions/missing", nil),
		post("/calculator/sessions/missing/commands", `{"command":"clear"}`),
		post("/calculator/sessions/missing/keys", `{"key":"c"}`),
	}

	for _, req := range requests {
		w := testutil.ExecuteRequest(req, r)
		testutil.CheckResponseCode(t, http.StatusNotFound, w.Code)

		var body map[string]string
		testutil.DecodeJSONBody(t, w.Body, &body)
		if body["error"] != "session not found" {
			t.Fatalf("%s %s: expected error %q, got %q", req.Method, req.URL.Path, "session not found", body["error"])
		}
	}
}

func TestSendCommandDrivesSession(t *testing.T) {
	r, st := newTestRouter(t, Config{})
	sess := st.Create()
	path := "/calculator/sessions/" + sess.ID + "/commands"

	bodies := []string{
		`{"command":"digit","value":"1"}`,
		`{"command":"digit","value":"2"}`,
		`{"command":"digit","value":"3"}`,
		`{"command":"digit","value":"4"}`,
		`{"command":"operator","value":"+"}`,
		`{"command":"digit","value":"6"}`,
		`{"command":"equals"}`,
	}

	var resp SessionResponse
	for _, body := range bodies {
		w := testutil.ExecuteRequest(post(path, body), r)
		testutil.CheckResponseCode(t, http.StatusOK, w.Code)
		resp = SessionResponse{}
		testutil.DecodeJSONBody(t, w.Body, &resp)
	}

	if resp.Current != "1,240" || resp.Previous != "" || resp.Phase != "result" {
		t.Fatalf("unexpected final snapshot %+v", resp)
	}
}

func TestSendCommandRejectsBadInput(t *testing.T) {
	r, st := newTestRouter(t, Config{})
	sess := st.Create()
	path := "/calculator/sessions/" + sess.ID + "/commands"

	tests := map[string]string{
		"invalid request body": `{"command":`,
		"invalid command":      `{"command":"digit","value":"x"}`,
	}

	for want, body := range tests {
		w := testutil.ExecuteRequest(post(path, body), r)
		testutil.CheckResponseCode(t, http.StatusBadRequest, w.Code)

		var got map[string]string
		testutil.DecodeJSONBody(t, w.Body, &got)
		if got["error"] != want {
			t.Fatalf("expected error %q, got %q", want, got["error"])
		}
	}
}

func TestSendKeyReportsFaultInSnapshot(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	r, st := newTestRouter(t, Config{ErrorClearDelay: time.Hour})
	observability.Logger = zap.New(core)

	sess := st.Create()
	defer sess.Close()
	path := "/calculator/sessions/" + sess.ID + "/keys"

	var resp KeyResponse
	for _, key := range []string{"7", "/", "0", "Enter"} {
		w := testutil.ExecuteRequest(post(path, `{"key":"`+key+`"}`), r)
		testutil.CheckResponseCode(t, http.StatusOK, w.Code)
		resp = KeyResponse{}
		testutil.DecodeJSONBody(t, w.Body, &resp)
	}

	if resp.Error != "divide_by_zero" || !resp.Handled || !resp.PreventDefault {
		t.Fatalf("unexpected key response %+v", resp)
	}

	entries := logs.FilterMessage("calculator fault").All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 fault log entry, got %d", len(entries))
	}
	if entries[0].ContextMap()["session_id"] != sess.ID {
		t.Fatalf("expected session_id %q in log, got %#v", sess.ID, entries[0].ContextMap()["session_id"])
	}
}

func TestSendKeyIgnoresUnknownKey(t *testing.T) {
	r, st := newTestRouter(t, Config{})
	sess := st.Create()

	w := testutil.ExecuteRequest(post("/calculator/sessions/"+sess.ID+"/keys", `{"key":"Shift"}`), r)
	testutil.CheckResponseCode(t, http.StatusOK, w.Code)

	var resp KeyResponse
	testutil.DecodeJSONBody(t, w.Body, &resp)
	if resp.Handled || resp.PreventDefault || resp.Current != "0" {
		t.Fatalf("unexpected key response %+v", resp)
	}
}

func TestDeleteSession(t *testing.T) {
	r, st := newTestRouter(t, Config{})
	sess := st.Create()

	w := testutil.ExecuteRequest(httptest.NewRequest(http.MethodDelete, "/calculator/sessions/"+sess.ID, nil), r)
	testutil.CheckResponseCode(t, http.StatusNoContent, w.Code)

	if st.Len() != 0 {
		t.Fatalf("expected session to be removed, %d left", st.Len())
	}
}

func TestEvaluate(t *testing.T) {
	r, _ := newTestRouter(t, Config{})

	w := testutil.ExecuteRequest(post("/calculator/evaluate", `{"keys":["3","+","4","*","2","Shift","Enter"]}`), r)
	testutil.CheckResponseCode(t, http.StatusOK, w.Code)

	var resp EvaluateResponse
	testutil.DecodeJSONBody(t, w.Body, &resp)

	if resp.Current != "14" {
		t.Fatalf("expected chained result 14, got %+v", resp.Display)
	}
	if len(resp.Steps) != 7 {
		t.Fatalf("expected 7 steps, got %d", len(resp.Steps))
	}
	if step := resp.Steps[3]; step.Previous != "7 ×" || step.Command != "operator(×)" {
		t.Fatalf("expected chained step to show 7 ×, got %+v", step)
	}
	if step := resp.Steps[5]; step.Command != "" {
		t.Fatalf("expected ignored key to have no command, got %+v", step)
	}
}

func TestEvaluateErrors(t *testing.T) {
	r, _ := newTestRouter(t, Config{})

	tests := []struct {
		body   string
		status int
		msg    string
	}{
		{body: `nope`, status: http.StatusBadRequest, msg: "invalid request body"},
		{body: `{"keys":[]}`, status: http.StatusBadRequest, msg: "no keys provided"},
		{body: `{"keys":["1","%","0","="]}`, status: http.StatusUnprocessableEntity, msg: "modulo by zero"},
	}

	for _, tc := range tests {
		w := testutil.ExecuteRequest(post("/calculator/evaluate", tc.body), r)
		testutil.CheckResponseCode(t, tc.status, w.Code)

		var body map[string]string
		testutil.DecodeJSONBody(t, w.Body, &body)
		if body["error"] != tc.msg {
			t.Fatalf("body %s: expected error %q, got %q", tc.body, tc.msg, body["error"])
		}
	}
}
