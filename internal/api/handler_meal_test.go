package api

import (
	"database/sql/driver"
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

const (
	mealID    = "5a3c1f0e-8d8b-4c5e-9f6a-2b1d3e4f5a6b"
	testToken = "tok-1"
)

var mealRowColumns = []string{"id", "user_id", "name", "description", "diet", "date_time", "created_at"}

// sameInstant matches a time.Time argument regardless of its location.
type sameInstant time.Time

func (s sameInstant) Match(v driver.Value) bool {
	t, ok := v.(time.Time)
	return ok && t.Equal(time.Time(s))
}

func TestMeals_RequireSession(t *testing.T) {
	router, _, _ := newTestRouter(t)

	cases := []struct{ method, path string }{
		{http.MethodGet, "/meals"},
		{http.MethodGet, "/meals/summary"},
		{http.MethodGet, "/meals/" + mealID},
		{http.MethodPost, "/meals"},
		{http.MethodPut, "/meals/" + mealID},
		{http.MethodDelete, "/meals/" + mealID},
	}
	for _, tc := range cases {
		w := doRequest(router, tc.method, tc.path, `{}`, "")
		if w.Code != http.StatusUnauthorized {
			t.Errorf("%s %s: expected 401, got %d", tc.method, tc.path, w.Code)
		}
		if got := strings.TrimSpace(w.Body.String()); got != `{"error":"Unauthorized!"}` {
			t.Errorf("%s %s: unexpected body %s", tc.method, tc.path, got)
		}
	}
}

func TestListMeals(t *testing.T) {
	router, mock, _ := newTestRouter(t)

	newer := time.Date(2024, 8, 20, 13, 0, 0, 0, time.UTC)
	older := newer.Add(-time.Hour)
	mock.ExpectQuery(q("SELECT id, user_id, name, description, diet, date_time, created_at FROM meals WHERE user_id = $1 ORDER BY date_time DESC")).
		WithArgs(testToken).
		WillReturnRows(sqlmock.NewRows(mealRowColumns).
			AddRow("m-2", testToken, "Dinner", "Pizza", false, newer, newer).
			AddRow("m-1", testToken, "Lunch", "Rice", true, older, older))

	w := doRequest(router, http.MethodGet, "/meals", "", testToken)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Meals []map[string]any `json:"meals"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if len(resp.Meals) != 2 {
		t.Fatalf("expected 2 meals, got %d", len(resp.Meals))
	}
	if resp.Meals[0]["id"] != "m-2" || resp.Meals[0]["diet"] != false {
		t.Errorf("unexpected first meal: %v", resp.Meals[0])
	}
	if resp.Meals[1]["date_time"] != "2024-08-20T12:00:00Z" {
		t.Errorf("unexpected date_time: %v", resp.Meals[1]["date_time"])
	}
}

func TestGetMeal_NotFoundIsEmptyList(t *testing.T) {
	router, mock, _ := newTestRouter(t)

	mock.ExpectQuery(q("SELECT id, user_id, name, description, diet, date_time, created_at FROM meals WHERE id = $1 AND user_id = $2")).
		WithArgs(mealID, testToken).
		WillReturnRows(sqlmock.NewRows(mealRowColumns))

	w := doRequest(router, http.MethodGet, "/meals/"+mealID, "", testToken)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	if got := strings.TrimSpace(w.Body.String()); got != `{"meals":[]}` {
		t.Errorf("unexpected body: %s", got)
	}
}

func TestGetMeal_InvalidID(t *testing.T) {
	router, mock, _ := newTestRouter(t)

	w := doRequest(router, http.MethodGet, "/meals/not-a-uuid", "", testToken)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", w.Code)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("no statement should have run: %v", err)
	}
}

func TestCreateMeal_Success(t *testing.T) {
	router, mock, pub := newTestRouter(t)

	mock.ExpectExec(q("INSERT INTO meals (id, user_id, name, description, diet, date_time) VALUES ($1, $2, $3, $4, $5, $6)")).
		WithArgs(sqlmock.AnyArg(), testToken, "Lunch", "Rice and beans", false, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	w := doRequest(router, http.MethodPost, "/meals", `{"name":"Lunch","description":"Rice and beans","diet":false}`, testToken)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", w.Code, w.Body.String())
	}
	if len(pub.published) != 1 || pub.published[0].RoutingKey != "meal.created" {
		t.Errorf("expected one meal.created event, got %+v", pub.published)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet sqlmock expectations: %v", err)
	}
}

func TestCreateMeal_MissingDiet(t *testing.T) {
	router, _, _ := newTestRouter(t)

	w := doRequest(router, http.MethodPost, "/meals", `{"name":"Lunch","description":"Rice"}`, testToken)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", w.Code)
	}
}

func TestUpdateMeal_PartialFieldsInOrder(t *testing.T) {
	router, mock, pub := newTestRouter(t)

	mock.ExpectExec(q("UPDATE meals SET name = $1 WHERE id = $2 AND user_id = $3")).
		WithArgs("Dinner", mealID, testToken).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(q("UPDATE meals SET diet = $1 WHERE id = $2 AND user_id = $3")).
		WithArgs(false, mealID, testToken).
		WillReturnResult(sqlmock.NewResult(0, 1))

	w := doRequest(router, http.MethodPut, "/meals/"+mealID, `{"diet":false,"name":"Dinner","description":null}`, testToken)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", w.Code, w.Body.String())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet sqlmock expectations: %v", err)
	}
	if len(pub.published) != 1 || pub.published[0].RoutingKey != "meal.updated" {
		t.Errorf("expected one meal.updated event, got %+v", pub.published)
	}
}

func TestUpdateMeal_DateTimeWithOffset(t *testing.T) {
	router, mock, _ := newTestRouter(t)

	mock.ExpectExec(q("UPDATE meals SET date_time = $1 WHERE id = $2 AND user_id = $3")).
		WithArgs(sameInstant(time.Date(2024, 8, 20, 15, 30, 0, 0, time.UTC)), mealID, testToken).
		WillReturnResult(sqlmock.NewResult(0, 1))

	w := doRequest(router, http.MethodPut, "/meals/"+mealID, `{"date_time":"2024-08-20T12:30:00-03:00"}`, testToken)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", w.Code, w.Body.String())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet sqlmock expectations: %v", err)
	}
}

func TestUpdateMeal_UnknownMealSucceeds(t *testing.T) {
	router, mock, pub := newTestRouter(t)

	mock.ExpectExec("UPDATE meals SET name").
		WithArgs("x", mealID, testToken).
		WillReturnResult(sqlmock.NewResult(0, 0))

	w := doRequest(router, http.MethodPut, "/meals/"+mealID, `{"name":"x"}`, testToken)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d", w.Code)
	}
	if len(pub.published) != 0 {
		t.Errorf("expected no event when no row changed, got %d", len(pub.published))
	}
}

func TestUpdateMeal_EmptyBody(t *testing.T) {
	router, _, _ := newTestRouter(t)

	w := doRequest(router, http.MethodPut, "/meals/"+mealID, "", testToken)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", w.Code)
	}
}

func TestDeleteMeal(t *testing.T) {
	router, mock, pub := newTestRouter(t)

	mock.ExpectExec(q("DELETE FROM meals WHERE id = $1 AND user_id = $2")).
		WithArgs(mealID, testToken).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(q("DELETE FROM meals WHERE id = $1 AND user_id = $2")).
		WithArgs(mealID, testToken).
		WillReturnResult(sqlmock.NewResult(0, 0))

	for i := 0; i < 2; i++ {
		w := doRequest(router, http.MethodDelete, "/meals/"+mealID, "", testToken)
		if w.Code != http.StatusNoContent {
			t.Fatalf("attempt %d: expected status 204, got %d", i+1, w.Code)
		}
	}
	if len(pub.published) != 1 || pub.published[0].RoutingKey != "meal.deleted" {
		t.Errorf("expected a single meal.deleted event, got %+v", pub.published)
	}
}

func TestDeleteMeal_InvalidID(t *testing.T) {
	router, _, _ := newTestRouter(t)

	w := doRequest(router, http.MethodDelete, "/meals/123", "", testToken)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", w.Code)
	}
}

func TestSummary(t *testing.T) {
	router, mock, _ := newTestRouter(t)

	mock.ExpectQuery(q("SELECT COUNT(*) FROM meals WHERE user_id = $1")).
		WithArgs(testToken).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))
	mock.ExpectQuery(q("SELECT COUNT(*) FROM meals WHERE user_id = $1 AND diet = $2")).
		WithArgs(testToken, true).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	mock.ExpectQuery(q("SELECT COUNT(*) FROM meals WHERE user_id = $1 AND diet = $2")).
		WithArgs(testToken, false).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(q("SELECT diet FROM meals WHERE user_id = $1 ORDER BY date_time DESC")).
		WithArgs(testToken).
		WillReturnRows(sqlmock.NewRows([]string{"diet"}).AddRow(true).AddRow(false).AddRow(true).AddRow(true))

	w := doRequest(router, http.MethodGet, "/meals/summary", "", testToken)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	want := `{"totalMeals":{"total":4},"totalMealsDietTrue":{"total":3},"totalMealsDietFalse":{"total":1},"totalMealsDietSequence":{"total":2}}`
	if got := strings.TrimSpace(w.Body.String()); got != want {
		t.Errorf("unexpected summary:\n got %s\nwant %s", got, want)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet sqlmock expectations: %v", err)
	}
}

func TestSummary_DatabaseError(t *testing.T) {
	router, mock, _ := newTestRouter(t)

	mock.ExpectQuery("SELECT COUNT").WillReturnError(sqlmock.ErrCancelled)

	w := doRequest(router, http.MethodGet, "/meals/summary", "", testToken)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", w.Code)
	}
}
