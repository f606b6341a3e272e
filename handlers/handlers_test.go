package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gorilla/mux"

	"kanban-board/database"
	"kanban-board/services"
)

type testEnv struct {
	router *mux.Router
	data   *database.DataService
	auth   *services.AuthService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := database.InitDB(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to init db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	authService := services.NewAuthService("test-secret")
	dataService := database.NewDataService(db)

	return &testEnv{
		router: NewRouter(authService, dataService),
		data:   dataService,
		auth:   authService,
	}
}

// request performs one request against the router. A non-empty token is
// attached as a bearer credential.
func (e *testEnv) request(t *testing.T, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

// register creates a user through the API and returns its id and token.
func (e *testEnv) register(t *testing.T, email string) (int64, string) {
	t.Helper()

	body := fmt.Sprintf(`{"email":%q,"password":"abcdef","name":"Test User"}`, email)
	rec := e.request(t, "POST", "/auth/register", "", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("register returned %d: %s", rec.Code, rec.Body.String())
	}

	var resp authResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode register response: %v", err)
	}
	return resp.User.ID, resp.Token
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorBody {
	t.Helper()

	var envelope errorEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("failed to decode error envelope from %q: %v", rec.Body.String(), err)
	}
	return envelope.Error
}

func TestRegister(t *testing.T) {
	e := newTestEnv(t)

	rec := e.request(t, "POST", "/auth/register", "", `{"email":"a@b.com","password":"abcdef","name":"Al"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
	}

	var resp authResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Token == "" {
		t.Error("no token in register response")
	}
	if resp.User.Email != "a@b.com" || resp.User.Name != "Al" {
		t.Errorf("user = %+v", resp.User)
	}
	if strings.Contains(rec.Body.String(), "password") {
		t.Error("register response leaks the password field")
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	e := newTestEnv(t)
	e.register(t, "a@b.com")

	rec := e.request(t, "POST", "/auth/register", "", `{"email":"a@b.com","password":"abcdef","name":"Al"}`)
	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}
	if body := decodeError(t, rec); body.Code != CodeConflict {
		t.Errorf("code = %q, want CONFLICT", body.Code)
	}
}

func TestRegisterValidationListsEveryField(t *testing.T) {
	e := newTestEnv(t)

	rec := e.request(t, "POST", "/auth/register", "", `{"email":"nope","password":"abc","name":"A"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}

	body := decodeError(t, rec)
	if body.Code != CodeBadRequest {
		t.Errorf("code = %q, want BAD_REQUEST", body.Code)
	}
	if len(body.Details) != 3 {
		t.Errorf("details = %+v, want 3 entries", body.Details)
	}
	fields := map[string]bool{}
	for _, d := range body.Details {
		fields[d.Field] = true
	}
	for _, f := range []string{"email", "password", "name"} {
		if !fields[f] {
			t.Errorf("missing violation for field %q", f)
		}
	}
}

func TestLoginGenericFailureMessage(t *testing.T) {
	e := newTestEnv(t)
	e.register(t, "a@b.com")

	wrongPassword := e.request(t, "POST", "/auth/login", "", `{"email":"a@b.com","password":"nottheone"}`)
	unknownEmail := e.request(t, "POST", "/auth/login", "", `{"email":"ghost@b.com","password":"abcdef"}`)

	if wrongPassword.Code != http.StatusUnauthorized || unknownEmail.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d / %d, want 401 / 401", wrongPassword.Code, unknownEmail.Code)
	}

	a := decodeError(t, wrongPassword)
	b := decodeError(t, unknownEmail)
	if a.Message != b.Message {
		t.Errorf("messages differ, enumeration possible: %q vs %q", a.Message, b.Message)
	}
}

func TestLoginSuccess(t *testing.T) {
	e := newTestEnv(t)
	userID, _ := e.register(t, "a@b.com")

	rec := e.request(t, "POST", "/auth/login", "", `{"email":"a@b.com","password":"abcdef"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	var resp authResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.User.ID != userID {
		t.Errorf("user id = %d, want %d", resp.User.ID, userID)
	}

	got, err := e.auth.VerifyToken(resp.Token)
	if err != nil {
		t.Fatalf("returned token does not verify: %v", err)
	}
	if got != userID {
		t.Errorf("token user = %d, want %d", got, userID)
	}
}

func TestAuthGate(t *testing.T) {
	e := newTestEnv(t)

	noToken := e.request(t, "GET", "/boards/1", "", "")
	if noToken.Code != http.StatusUnauthorized {
		t.Errorf("no token: status = %d, want 401", noToken.Code)
	}
	if body := decodeError(t, noToken); body.Code != CodeUnauthorized {
		t.Errorf("code = %q, want UNAUTHORIZED", body.Code)
	}

	badToken := e.request(t, "GET", "/boards/1", "garbage", "")
	if badToken.Code != http.StatusUnauthorized {
		t.Errorf("bad token: status = %d, want 401", badToken.Code)
	}
}

func TestRegisterThenUnauthenticatedBoard(t *testing.T) {
	e := newTestEnv(t)

	rec := e.request(t, "POST", "/auth/register", "", `{"email":"a@b.com","password":"abcdef","name":"Al"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("register status = %d, want 201", rec.Code)
	}
	var resp authResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Token == "" {
		t.Fatal("no token in register response")
	}

	board := e.request(t, "GET", "/boards/1", "", "")
	if board.Code != http.StatusUnauthorized {
		t.Errorf("board without auth: status = %d, want 401", board.Code)
	}
}

func TestGetBoard(t *testing.T) {
	e := newTestEnv(t)
	userID, token := e.register(t, "a@b.com")

	board, err := e.data.CreateBoard("Sprint Board", userID)
	if err != nil {
		t.Fatalf("failed to create board: %v", err)
	}

	rec := e.request(t, "GET", fmt.Sprintf("/boards/%d", board.ID), token, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}

	var got database.Board
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("failed to decode board: %v", err)
	}
	if got.Title != "Sprint Board" || got.CreatorName != "Test User" {
		t.Errorf("board = %+v", got)
	}

	missing := e.request(t, "GET", "/boards/9999", token, "")
	if missing.Code != http.StatusNotFound {
		t.Errorf("missing board: status = %d, want 404", missing.Code)
	}
}

func TestCreateAndListColumns(t *testing.T) {
	e := newTestEnv(t)
	userID, token := e.register(t, "a@b.com")
	board, err := e.data.CreateBoard("B", userID)
	if err != nil {
		t.Fatalf("failed to create board: %v", err)
	}

	for _, c := range []struct {
		title    string
		position int
	}{{"Done", 2}, {"To Do", 0}, {"In Progress", 1}} {
		body := fmt.Sprintf(`{"title":%q,"position":%d}`, c.title, c.position)
		rec := e.request(t, "POST", fmt.Sprintf("/boards/%d/columns", board.ID), token, body)
		if rec.Code != http.StatusCreated {
			t.Fatalf("create column %q: status = %d: %s", c.title, rec.Code, rec.Body.String())
		}
	}

	rec := e.request(t, "GET", fmt.Sprintf("/boards/%d/columns", board.ID), token, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("list columns: status = %d", rec.Code)
	}

	var columns []database.Column
	if err := json.Unmarshal(rec.Body.Bytes(), &columns); err != nil {
		t.Fatalf("failed to decode columns: %v", err)
	}
	if len(columns) != 3 {
		t.Fatalf("got %d columns, want 3", len(columns))
	}
	for i, want := range []string{"To Do", "In Progress", "Done"} {
		if columns[i].Title != want {
			t.Errorf("columns[%d] = %q, want %q", i, columns[i].Title, want)
		}
	}
}

func TestCreateColumnValidation(t *testing.T) {
	e := newTestEnv(t)
	userID, token := e.register(t, "a@b.com")
	board, err := e.data.CreateBoard("B", userID)
	if err != nil {
		t.Fatalf("failed to create board: %v", err)
	}

	rec := e.request(t, "POST", fmt.Sprintf("/boards/%d/columns", board.ID), token, `{"title":"","position":-1}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if body := decodeError(t, rec); len(body.Details) != 2 {
		t.Errorf("details = %+v, want 2 entries", body.Details)
	}
}

func TestCreateColumnMissingBoard(t *testing.T) {
	e := newTestEnv(t)
	_, token := e.register(t, "a@b.com")

	rec := e.request(t, "POST", "/boards/9999/columns", token, `{"title":"Orphan","position":0}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404: %s", rec.Code, rec.Body.String())
	}
}

func TestUpdateAndDeleteColumn(t *testing.T) {
	e := newTestEnv(t)
	userID, token := e.register(t, "a@b.com")
	board, err := e.data.CreateBoard("B", userID)
	if err != nil {
		t.Fatalf("failed to create board: %v", err)
	}
	column, err := e.data.CreateColumn(board.ID, "To Do", 0)
	if err != nil {
		t.Fatalf("failed to create column: %v", err)
	}

	rec := e.request(t, "PATCH", fmt.Sprintf("/columns/%d", column.ID), token, `{"title":"Backlog"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("patch status = %d: %s", rec.Code, rec.Body.String())
	}
	var updated database.Column
	if err := json.Unmarshal(rec.Body.Bytes(), &updated); err != nil {
		t.Fatalf("failed to decode column: %v", err)
	}
	if updated.Title != "Backlog" || updated.Position != 0 {
		t.Errorf("column = %+v", updated)
	}

	missing := e.request(t, "PATCH", "/columns/9999", token, `{"title":"X"}`)
	if missing.Code != http.StatusNotFound {
		t.Errorf("patch missing: status = %d, want 404", missing.Code)
	}

	del := e.request(t, "DELETE", fmt.Sprintf("/columns/%d", column.ID), token, "")
	if del.Code != http.StatusNoContent {
		t.Errorf("delete status = %d, want 204", del.Code)
	}
	again := e.request(t, "DELETE", fmt.Sprintf("/columns/%d", column.ID), token, "")
	if again.Code != http.StatusNotFound {
		t.Errorf("second delete status = %d, want 404", again.Code)
	}
}

func TestListTasksPaginated(t *testing.T) {
	e := newTestEnv(t)
	userID, token := e.register(t, "a@b.com")
	board, err := e.data.CreateBoard("B", userID)
	if err != nil {
		t.Fatalf("failed to create board: %v", err)
	}
	column, err := e.data.CreateColumn(board.ID, "To Do", 0)
	if err != nil {
		t.Fatalf("failed to create column: %v", err)
	}
	for i := 0; i < 15; i++ {
		if _, err := e.data.CreateTask(column.ID, fmt.Sprintf("Task %02d", i), nil, "", userID); err != nil {
			t.Fatalf("failed to create task: %v", err)
		}
	}

	rec := e.request(t, "GET", fmt.Sprintf("/tasks/columns/%d/tasks?page=2&limit=10", column.ID), token, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}

	var resp taskListResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Tasks) != 5 {
		t.Errorf("page 2 = %d tasks, want 5", len(resp.Tasks))
	}
	p := resp.Pagination
	if p.Page != 2 || p.Limit != 10 || p.Total != 15 || p.TotalPages != 2 {
		t.Errorf("pagination = %+v", p)
	}
}

func TestListTasksSearchEmptyResult(t *testing.T) {
	e := newTestEnv(t)
	userID, token := e.register(t, "a@b.com")
	board, err := e.data.CreateBoard("B", userID)
	if err != nil {
		t.Fatalf("failed to create board: %v", err)
	}
	column, err := e.data.CreateColumn(board.ID, "To Do", 0)
	if err != nil {
		t.Fatalf("failed to create column: %v", err)
	}
	if _, err := e.data.CreateTask(column.ID, "Something", nil, "", userID); err != nil {
		t.Fatalf("failed to create task: %v", err)
	}

	rec := e.request(t, "GET", fmt.Sprintf("/tasks/columns/%d/tasks?search=zzz", column.ID), token, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var resp taskListResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(resp.Tasks) != 0 || resp.Pagination.Total != 0 || resp.Pagination.TotalPages != 0 {
		t.Errorf("empty search: tasks=%d pagination=%+v", len(resp.Tasks), resp.Pagination)
	}
}

func TestCreateTaskDefaultsPriority(t *testing.T) {
	e := newTestEnv(t)
	userID, token := e.register(t, "a@b.com")
	board, err := e.data.CreateBoard("B", userID)
	if err != nil {
		t.Fatalf("failed to create board: %v", err)
	}
	column, err := e.data.CreateColumn(board.ID, "To Do", 0)
	if err != nil {
		t.Fatalf("failed to create column: %v", err)
	}

	rec := e.request(t, "POST", fmt.Sprintf("/tasks/columns/%d/tasks", column.ID), token, `{"title":"X"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}

	var task database.Task
	if err := json.Unmarshal(rec.Body.Bytes(), &task); err != nil {
		t.Fatalf("failed to decode task: %v", err)
	}
	if task.Priority != database.PriorityMedium {
		t.Errorf("priority = %q, want medium", task.Priority)
	}
	if task.CreatedBy != userID {
		t.Errorf("created_by = %d, want %d", task.CreatedBy, userID)
	}
}

func TestCreateTaskBadPriority(t *testing.T) {
	e := newTestEnv(t)
	userID, token := e.register(t, "a@b.com")
	board, err := e.data.CreateBoard("B", userID)
	if err != nil {
		t.Fatalf("failed to create board: %v", err)
	}
	column, err := e.data.CreateColumn(board.ID, "To Do", 0)
	if err != nil {
		t.Fatalf("failed to create column: %v", err)
	}

	rec := e.request(t, "POST", fmt.Sprintf("/tasks/columns/%d/tasks", column.ID), token, `{"title":"X","priority":"urgent"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestMoveTaskBetweenColumns(t *testing.T) {
	e := newTestEnv(t)
	userID, token := e.register(t, "a@b.com")
	board, err := e.data.CreateBoard("B", userID)
	if err != nil {
		t.Fatalf("failed to create board: %v", err)
	}
	from, err := e.data.CreateColumn(board.ID, "To Do", 0)
	if err != nil {
		t.Fatalf("failed to create column: %v", err)
	}
	to, err := e.data.CreateColumn(board.ID, "Done", 1)
	if err != nil {
		t.Fatalf("failed to create column: %v", err)
	}
	task, err := e.data.CreateTask(from.ID, "Movable", nil, "", userID)
	if err != nil {
		t.Fatalf("failed to create task: %v", err)
	}

	rec := e.request(t, "PATCH", fmt.Sprintf("/tasks/%d", task.ID), token,
		fmt.Sprintf(`{"column_id":%d}`, to.ID))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}

	var moved database.Task
	if err := json.Unmarshal(rec.Body.Bytes(), &moved); err != nil {
		t.Fatalf("failed to decode task: %v", err)
	}
	if moved.ColumnID != to.ID {
		t.Errorf("column_id = %d, want %d", moved.ColumnID, to.ID)
	}

	list := e.request(t, "GET", fmt.Sprintf("/tasks/columns/%d/tasks", to.ID), token, "")
	var resp taskListResponse
	if err := json.Unmarshal(list.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode list: %v", err)
	}
	if resp.Pagination.Total != 1 {
		t.Errorf("target column total = %d, want 1", resp.Pagination.Total)
	}
}

func TestDeleteTask(t *testing.T) {
	e := newTestEnv(t)
	userID, token := e.register(t, "a@b.com")
	board, err := e.data.CreateBoard("B", userID)
	if err != nil {
		t.Fatalf("failed to create board: %v", err)
	}
	column, err := e.data.CreateColumn(board.ID, "To Do", 0)
	if err != nil {
		t.Fatalf("failed to create column: %v", err)
	}
	task, err := e.data.CreateTask(column.ID, "Doomed", nil, "", userID)
	if err != nil {
		t.Fatalf("failed to create task: %v", err)
	}

	rec := e.request(t, "DELETE", fmt.Sprintf("/tasks/%d", task.ID), token, "")
	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d, want 204", rec.Code)
	}
	again := e.request(t, "DELETE", fmt.Sprintf("/tasks/%d", task.ID), token, "")
	if again.Code != http.StatusNotFound {
		t.Errorf("second delete status = %d, want 404", again.Code)
	}
}

func TestCommentsOnTask(t *testing.T) {
	e := newTestEnv(t)
	userID, token := e.register(t, "a@b.com")
	board, err := e.data.CreateBoard("B", userID)
	if err != nil {
		t.Fatalf("failed to create board: %v", err)
	}
	column, err := e.data.CreateColumn(board.ID, "To Do", 0)
	if err != nil {
		t.Fatalf("failed to create column: %v", err)
	}
	task, err := e.data.CreateTask(column.ID, "Discussed", nil, "", userID)
	if err != nil {
		t.Fatalf("failed to create task: %v", err)
	}

	rec := e.request(t, "POST", fmt.Sprintf("/comments/tasks/%d/comments", task.ID), token, `{"content":"hello"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}

	var comment database.Comment
	if err := json.Unmarshal(rec.Body.Bytes(), &comment); err != nil {
		t.Fatalf("failed to decode comment: %v", err)
	}
	if comment.UserID != userID {
		t.Errorf("author = %d, want the authenticated user %d", comment.UserID, userID)
	}
	if comment.UserName != "Test User" || comment.UserEmail != "a@b.com" {
		t.Errorf("author join = %q / %q", comment.UserName, comment.UserEmail)
	}

	list := e.request(t, "GET", fmt.Sprintf("/comments/tasks/%d/comments", task.ID), token, "")
	if list.Code != http.StatusOK {
		t.Fatalf("list status = %d", list.Code)
	}
	var comments []database.Comment
	if err := json.Unmarshal(list.Body.Bytes(), &comments); err != nil {
		t.Fatalf("failed to decode comments: %v", err)
	}
	if len(comments) != 1 || comments[0].Content != "hello" {
		t.Errorf("comments = %+v", comments)
	}
}

func TestCommentOnMissingTask(t *testing.T) {
	e := newTestEnv(t)
	_, token := e.register(t, "a@b.com")

	rec := e.request(t, "POST", "/comments/tasks/9999/comments", token, `{"content":"hello"}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if body := decodeError(t, rec); body.Code != CodeNotFound {
		t.Errorf("code = %q, want NOT_FOUND", body.Code)
	}
}

func TestUnmatchedRouteEnvelope(t *testing.T) {
	e := newTestEnv(t)

	rec := e.request(t, "GET", "/nope", "", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if body := decodeError(t, rec); body.Code != CodeNotFound {
		t.Errorf("code = %q, want NOT_FOUND", body.Code)
	}
}

func TestHealth(t *testing.T) {
	e := newTestEnv(t)

	rec := e.request(t, "GET", "/health", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var resp healthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !resp.OK || resp.TS == "" {
		t.Errorf("health = %+v", resp)
	}
}

func TestMalformedBody(t *testing.T) {
	e := newTestEnv(t)

	rec := e.request(t, "POST", "/auth/register", "", `{"email":`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if body := decodeError(t, rec); body.Code != CodeBadRequest {
		t.Errorf("code = %q, want BAD_REQUEST", body.Code)
	}
}
