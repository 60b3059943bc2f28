package scores

import (
	"encoding/json"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupTestApp(t *testing.T) (*fiber.App, sqlmock.Sqlmock) {
	app := fiber.New()
	db, mock := setupMockDB(t)
	svc := NewService(db, zap.NewNop())
	handler := NewHandler(svc)
	handler.RegisterRoutes(app)
	return app, mock
}

func TestHandleCreatePlayer(t *testing.T) {
	app, mock := setupTestApp(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO `players`")).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	req := httptest.NewRequest("POST", "/scores/players", strings.NewReader(`{"nickname":"ferret"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var player Player
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&player))
	assert.Equal(t, "ferret", player.Nickname)
	assert.NotEmpty(t, player.ID)
}

func TestHandleCreatePlayerBadNickname(t *testing.T) {
	app, _ := setupTestApp(t)

	req := httptest.NewRequest("POST", "/scores/players", strings.NewReader(`{"nickname":"  "}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestHandleRecordGuessInvalidAnswer(t *testing.T) {
	app, _ := setupTestApp(t)

	req := httptest.NewRequest("POST", "/scores/sessions/sess-1/guesses",
		strings.NewReader(`{"cardId":"x","groundTruth":"AI","answer":"MAYBE"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestHandleLeaderboard(t *testing.T) {
	app, mock := setupTestApp(t)

	mock.ExpectQuery("SELECT players.nickname, sessions.score, sessions.best_streak FROM `sessions`").
		WillReturnRows(sqlmock.NewRows([]string{"nickname", "score", "best_streak"}).
			AddRow("ferret", 40, 12))

	req := httptest.NewRequest("GET", "/scores/leaderboard?limit=5", nil)
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var body struct {
		Leaderboard []LeaderboardEntry `json:"leaderboard"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body.Leaderboard, 1)
	assert.Equal(t, "ferret", body.Leaderboard[0].Nickname)
}

func TestHandleModelStats(t *testing.T) {
	app, mock := setupTestApp(t)

	mock.ExpectQuery("SELECT model_name, COUNT\\(\\*\\) AS guesses").
		WillReturnRows(sqlmock.NewRows([]string{"model_name", "guesses", "fooled"}).
			AddRow("Midjourney", 10, 7))

	req := httptest.NewRequest("GET", "/scores/analytics/models", nil)
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var body struct {
		Models []ModelStat `json:"models"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body.Models, 1)
	assert.InDelta(t, 0.7, body.Models[0].FoolRate, 1e-9)
}
