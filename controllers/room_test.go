package controllers

import (
	"Bullpen/middleware"
	"Bullpen/models/postgres"
	"Bullpen/services/registry"
	"Bullpen/utils"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-secret")

func setupRouter(reg *registry.Registry) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	middleware.SetUpMiddleware(router, "test-session-key")
	router.Use(utils.ErrorHandler())

	router.POST("/room", CreateRoom(reg, testSecret))
	router.GET("/rooms", ListRooms(reg))
	router.GET("/rooms/:id", GetRoom(reg))
	router.POST("/rooms/:id/join", JoinRoom(reg, testSecret))

	player := router.Group("/rooms/:id")
	player.Use(middleware.PlayerToken(testSecret, false))
	player.POST("/start", StartGame(reg))
	player.POST("/select", SelectCard(reg))
	player.POST("/take_pile", TakePile(reg))
	player.GET("/state", GetState(reg))
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}, header http.Header) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	var reader *strings.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = strings.NewReader(string(data))
	} else {
		reader = strings.NewReader("")
	}

	req, err := http.NewRequest(method, path, reader)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range header {
		req.Header[k] = v
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var response map[string]interface{}
	_ = json.Unmarshal(w.Body.Bytes(), &response)
	return w, response
}

func createRoom(t *testing.T, router *gin.Engine, name string) (roomID, playerID, token string) {
	t.Helper()
	w, response := doJSON(t, router, http.MethodPost, "/room", gin.H{"name": name}, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	return response["room_id"].(string), response["player_id"].(string), response["token"].(string)
}

func TestCreateRoom(t *testing.T) {
	router := setupRouter(registry.New(registry.Config{}, nil, nil))

	w, response := doJSON(t, router, http.MethodPost, "/room", gin.H{"name": "Alice"}, nil)
	require.Equal(t, http.StatusOK, w.Code)

	roomID := response["room_id"].(string)
	playerID := response["player_id"].(string)
	assert.Len(t, roomID, 32)
	assert.Len(t, playerID, 16)
	assert.Equal(t, fmt.Sprintf("/rooms/%s?player_id=%s", roomID, playerID), response["redirect_url"])
	assert.NotEmpty(t, response["token"])
	assert.NotEmpty(t, w.Result().Cookies(), "session cookie")

	claims, err := middleware.ParsePlayerToken(testSecret, response["token"].(string))
	require.NoError(t, err)
	assert.Equal(t, roomID, claims.RoomID)
	assert.Equal(t, playerID, claims.PlayerID)

	w, response = doJSON(t, router, http.MethodPost, "/room", gin.H{"name": "   "}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.NotEmpty(t, response["error"])
}

func TestJoinRoom(t *testing.T) {
	reg := registry.New(registry.Config{}, nil, nil)
	router := setupRouter(reg)
	roomID, _, _ := createRoom(t, router, "Alice")

	w, response := doJSON(t, router, http.MethodPost, "/rooms/"+roomID+"/join", gin.H{"name": "Bob"}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, roomID, response["room_id"])
	assert.NotEmpty(t, response["player_id"])

	w, _ = doJSON(t, router, http.MethodPost, "/rooms/"+roomID+"/join", gin.H{"name": "Bob"}, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w, _ = doJSON(t, router, http.MethodPost, "/rooms/nope/join", gin.H{"name": "Carol"}, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, response = doJSON(t, router, http.MethodGet, "/rooms/"+roomID, nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "lobby", response["status"])
	players := response["players"].([]interface{})
	require.Len(t, players, 2)
	assert.Equal(t, "Alice", players[0].(map[string]interface{})["name"])
	assert.Equal(t, "admin", players[0].(map[string]interface{})["role"])
}

func TestJoinProtectedRoom(t *testing.T) {
	reg := registry.New(registry.Config{}, nil, nil)
	router := setupRouter(reg)

	w, response := doJSON(t, router, http.MethodPost, "/room", gin.H{"name": "Alice", "password": "secret"}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	roomID := response["room_id"].(string)

	w, _ = doJSON(t, router, http.MethodPost, "/rooms/"+roomID+"/join", gin.H{"name": "Bob", "password": "wrong"}, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, _ = doJSON(t, router, http.MethodPost, "/rooms/"+roomID+"/join", gin.H{"name": "Bob", "password": "secret"}, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestStartGame(t *testing.T) {
	reg := registry.New(registry.Config{}, nil, nil)
	router := setupRouter(reg)
	roomID, adminID, _ := createRoom(t, router, "Alice")

	// Alone in the room
	w, _ := doJSON(t, router, http.MethodPost, "/rooms/"+roomID+"/start?player_id="+adminID, nil, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	_, joined := doJSON(t, router, http.MethodPost, "/rooms/"+roomID+"/join", gin.H{"name": "Bob"}, nil)
	bobID := joined["player_id"].(string)

	w, _ = doJSON(t, router, http.MethodPost, "/rooms/"+roomID+"/start?player_id="+bobID, nil, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, response := doJSON(t, router, http.MethodPost, "/rooms/"+roomID+"/start?player_id="+adminID, nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Game started", response["message"])
	assert.Equal(t, roomID, response["room_id"])
	cards := response["player_cards"].(map[string]interface{})
	assert.Len(t, cards, 1)
	assert.Len(t, cards[adminID], 10)

	w, _ = doJSON(t, router, http.MethodPost, "/rooms/"+roomID+"/join", gin.H{"name": "Carol"}, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestSelectAndState(t *testing.T) {
	reg := registry.New(registry.Config{}, nil, nil)
	router := setupRouter(reg)
	roomID, adminID, token := createRoom(t, router, "Alice")
	_, _ = doJSON(t, router, http.MethodPost, "/rooms/"+roomID+"/join", gin.H{"name": "Bob"}, nil)

	bearer := http.Header{"Authorization": []string{"Bearer " + token}}
	w, response := doJSON(t, router, http.MethodPost, "/rooms/"+roomID+"/start", nil, bearer)
	require.Equal(t, http.StatusOK, w.Code)
	hand := response["player_cards"].(map[string]interface{})[adminID].([]interface{})
	card := int(hand[0].(float64))

	w, _ = doJSON(t, router, http.MethodPost, "/rooms/"+roomID+"/select?card=abc", nil, bearer)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = doJSON(t, router, http.MethodPost, "/rooms/"+roomID+"/select?card=105", nil, bearer)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = doJSON(t, router, http.MethodPost, fmt.Sprintf("/rooms/%s/select?card=%d", roomID, card), nil, bearer)
	require.Equal(t, http.StatusOK, w.Code)

	w, _ = doJSON(t, router, http.MethodPost, fmt.Sprintf("/rooms/%s/select?card=%d", roomID, card), nil, bearer)
	assert.Equal(t, http.StatusConflict, w.Code)

	w, response = doJSON(t, router, http.MethodGet, "/rooms/"+roomID+"/state", nil, bearer)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "in_progress", response["status"])
	players := response["players"].([]interface{})
	require.Len(t, players, 2)
	assert.Len(t, players[0].(map[string]interface{})["hand"], 9)
	assert.Nil(t, players[1].(map[string]interface{})["hand"])
}

func TestTakePileWithoutPenalty(t *testing.T) {
	reg := registry.New(registry.Config{}, nil, nil)
	router := setupRouter(reg)
	roomID, adminID, _ := createRoom(t, router, "Alice")
	_, _ = doJSON(t, router, http.MethodPost, "/rooms/"+roomID+"/join", gin.H{"name": "Bob"}, nil)
	_, _ = doJSON(t, router, http.MethodPost, "/rooms/"+roomID+"/start?player_id="+adminID, nil, nil)

	w, _ := doJSON(t, router, http.MethodPost, "/rooms/"+roomID+"/take_pile?player_id="+adminID+"&pile_idx=x&low_card=3", nil, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, response := doJSON(t, router, http.MethodPost, "/rooms/"+roomID+"/take_pile?player_id="+adminID+"&pile_idx=0&low_card=3", nil, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.NotEmpty(t, response["error"])
}

func TestResolvePlayerID(t *testing.T) {
	reg := registry.New(registry.Config{}, nil, nil)
	router := setupRouter(reg)
	roomID, adminID, token := createRoom(t, router, "Alice")

	// Token and query disagree
	bearer := http.Header{"Authorization": []string{"Bearer " + token}}
	w, _ := doJSON(t, router, http.MethodGet, "/rooms/"+roomID+"/state?player_id=someone", nil, bearer)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Token of another room
	other, _, otherToken := createRoom(t, router, "Zed")
	require.NotEqual(t, roomID, other)
	w, _ = doJSON(t, router, http.MethodGet, "/rooms/"+roomID+"/state", nil, http.Header{"Authorization": []string{"Bearer " + otherToken}})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, _ = doJSON(t, router, http.MethodGet, "/rooms/"+roomID+"/state", nil, http.Header{"Authorization": []string{"Bearer garbage"}})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Nothing identifies the caller
	w, _ = doJSON(t, router, http.MethodGet, "/rooms/"+roomID+"/state", nil, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = doJSON(t, router, http.MethodGet, "/rooms/"+roomID+"/state?player_id="+adminID, nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w, _ = doJSON(t, router, http.MethodGet, "/rooms/"+roomID+"/state?player_id=ghost", nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSessionIdentifiesPlayer(t *testing.T) {
	reg := registry.New(registry.Config{}, nil, nil)
	router := setupRouter(reg)

	w, response := doJSON(t, router, http.MethodPost, "/room", gin.H{"name": "Alice"}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	roomID := response["room_id"].(string)

	header := http.Header{}
	for _, cookie := range w.Result().Cookies() {
		header.Add("Cookie", cookie.Name+"="+cookie.Value)
	}
	w, response = doJSON(t, router, http.MethodGet, "/rooms/"+roomID+"/state", nil, header)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, roomID, response["id"])
}

func TestQueryCannotOverrideSession(t *testing.T) {
	reg := registry.New(registry.Config{}, nil, nil)
	router := setupRouter(reg)

	w, response := doJSON(t, router, http.MethodPost, "/room", gin.H{"name": "Alice"}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	roomID := response["room_id"].(string)
	adminID := response["player_id"].(string)
	header := http.Header{}
	for _, cookie := range w.Result().Cookies() {
		header.Add("Cookie", cookie.Name+"="+cookie.Value)
	}

	w, response = doJSON(t, router, http.MethodPost, "/rooms/"+roomID+"/join", gin.H{"name": "Bob"}, nil)
	require.Equal(t, http.StatusOK, w.Code)
	bobID := response["player_id"].(string)

	// Alice's browser can not act as Bob
	w, _ = doJSON(t, router, http.MethodPost, "/rooms/"+roomID+"/start?player_id="+bobID, nil, header)
	assert.Equal(t, http.StatusForbidden, w.Code)
	w, _ = doJSON(t, router, http.MethodGet, "/rooms/"+roomID+"/state?player_id="+bobID, nil, header)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, _ = doJSON(t, router, http.MethodPost, "/rooms/"+roomID+"/start?player_id="+adminID, nil, header)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestListRooms(t *testing.T) {
	reg := registry.New(registry.Config{}, nil, nil)
	router := setupRouter(reg)

	w, _ := doJSON(t, router, http.MethodGet, "/rooms", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", w.Body.String())

	roomID, _, _ := createRoom(t, router, "Alice")
	w, _ = doJSON(t, router, http.MethodGet, "/rooms", nil, nil)
	var rooms []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rooms))
	require.Len(t, rooms, 1)
	assert.Equal(t, roomID, rooms[0]["id"])
	assert.Equal(t, float64(1), rooms[0]["player_count"])

	w, _ = doJSON(t, router, http.MethodGet, "/rooms/nope", nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

type fakeHistory struct {
	games []postgres.GameRecord
	err   error
	limit int
}

func (f *fakeHistory) RecentGames(limit int) ([]postgres.GameRecord, error) {
	f.limit = limit
	return f.games, f.err
}

func TestListGames(t *testing.T) {
	gin.SetMode(gin.TestMode)
	history := &fakeHistory{games: []postgres.GameRecord{{ID: "abcde", Rounds: 10, PlayerCount: 3}}}
	router := gin.New()
	router.Use(utils.ErrorHandler())
	router.GET("/games", ListGames(history))

	w, _ := doJSON(t, router, http.MethodGet, "/games", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, defaultGamesLimit, history.limit)
	assert.Contains(t, w.Body.String(), "abcde")

	w, _ = doJSON(t, router, http.MethodGet, "/games?limit=1000", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, maxGamesLimit, history.limit)

	w, _ = doJSON(t, router, http.MethodGet, "/games?limit=-1", nil, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	history.err = errors.New("connection refused")
	w, response := doJSON(t, router, http.MethodGet, "/games", nil, nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "connection refused", response["error"])
}
