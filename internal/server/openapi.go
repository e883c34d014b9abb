package server

import (
	"encoding/json"
	"net/http"

	openapi "github.com/swaggest/openapi-go"
	"github.com/swaggest/openapi-go/openapi31"
	"github.com/swaggest/swgui/v5emb"
)

// ErrorResponse is returned for all error responses.
type ErrorResponse struct {
	Error string `json:"error"`
}

// HealthResponse maps each dependency to "ok" or "error".
type HealthResponse map[string]struct {
	Status string `json:"status"`
}

// Path parameter sets, used only to document routes.

type ProfilePath struct {
	Profile string `path:"profile" description:"Player profile slug."`
}

type GamePath struct {
	Profile string `path:"profile" description:"Player profile slug."`
	GameID  string `path:"gameID" description:"Game ID returned when the game was created."`
}

type catalogListParams struct {
	ProfilePath
	Category string `query:"category" description:"Equipment type, or \"all\"."`
}

type catalogDetailParams struct {
	ProfilePath
	Name string `path:"name" description:"Equipment name."`
}

type leaderboardParams struct {
	ProfilePath
	DateKey string `path:"dateKey" description:"Day as YYYYMMDD."`
}

type createGameParams struct {
	ProfilePath
	CreateGameRequest
}

type guessParams struct {
	GamePath
	GuessRequest
}

type bonusParams struct {
	GamePath
	BonusRequest
}

type resetDailyParams struct {
	Profile string `path:"profile" description:"Player profile slug."`
}

func newOpenAPISpec() *openapi31.Spec {
	r := openapi31.NewReflector()
	r.Spec.Info.Title = "Defence Guesser API"
	r.Spec.Info.Version = "0.1.0"
	r.Spec.Info.WithDescription("Game server for Defence Guesser: locate and identify military equipment.")

	type op struct {
		method, path, summary, description string
		req                                any
		resp                               []resp
	}

	ops := []op{
		{http.MethodGet, "/healthz", "Health check", "Returns the health status of backend dependencies.", nil, []resp{
			{HealthResponse{}, http.StatusOK}, {HealthResponse{}, http.StatusServiceUnavailable},
		}},
		{http.MethodGet, "/api/{profile}/catalog", "Practice catalog", "Lists equipment, optionally filtered by category.", catalogListParams{}, []resp{
			{CatalogResponse{}, http.StatusOK},
		}},
		{http.MethodGet, "/api/{profile}/catalog/categories", "Catalog categories", "Lists the equipment types, \"all\" first.", ProfilePath{}, []resp{
			{CategoriesResponse{}, http.StatusOK},
		}},
		{http.MethodGet, "/api/{profile}/catalog/{name}", "Equipment detail", "Opens one equipment record in the practice browser.", catalogDetailParams{}, []resp{
			{EquipmentDetail{}, http.StatusOK}, {ErrorResponse{}, http.StatusNotFound},
		}},
		{http.MethodGet, "/api/{profile}/daily", "Daily challenge", "Today's date key, whether it was played, and its leaderboard.", ProfilePath{}, []resp{
			{DailyResponse{}, http.StatusOK},
		}},
		{http.MethodGet, "/api/{profile}/daily/{dateKey}/leaderboard", "Daily leaderboard", "Top scores for one day, best first.", leaderboardParams{}, []resp{
			{LeaderboardResponse{}, http.StatusOK}, {ErrorResponse{}, http.StatusBadRequest},
		}},
		{http.MethodGet, "/api/{profile}/daily/events", "Leaderboard events", "Server-Sent Events stream of leaderboard updates.", ProfilePath{}, []resp{
			{LeaderboardEvent{}, http.StatusOK},
		}},
		{http.MethodPost, "/api/{profile}/games", "Start game", "Starts a practice game, or the daily challenge when daily is true.", createGameParams{}, []resp{
			{GameResponse{}, http.StatusCreated}, {ErrorResponse{}, http.StatusBadRequest}, {ErrorResponse{}, http.StatusConflict},
		}},
		{http.MethodGet, "/api/{profile}/games/{gameID}", "Game state", "Returns the current round and running score.", GamePath{}, []resp{
			{GameResponse{}, http.StatusOK}, {ErrorResponse{}, http.StatusNotFound},
		}},
		{http.MethodPost, "/api/{profile}/games/{gameID}/guess", "Submit location", "Scores the map guess and presents the bonus choices.", guessParams{}, []resp{
			{GuessResponse{}, http.StatusOK}, {ErrorResponse{}, http.StatusBadRequest}, {ErrorResponse{}, http.StatusConflict},
		}},
		{http.MethodPost, "/api/{profile}/games/{gameID}/bonus", "Submit identification", "Scores the bonus answer and resolves the round.", bonusParams{}, []resp{
			{BonusResponse{}, http.StatusOK}, {ErrorResponse{}, http.StatusBadRequest}, {ErrorResponse{}, http.StatusConflict},
		}},
		{http.MethodPost, "/api/{profile}/games/{gameID}/bonus/skip", "Skip identification", "Resolves the round without a bonus answer.", GamePath{}, []resp{
			{BonusResponse{}, http.StatusOK}, {ErrorResponse{}, http.StatusConflict},
		}},
		{http.MethodPost, "/api/{profile}/games/{gameID}/next", "Next round", "Advances to the next round or finishes the game.", GamePath{}, []resp{
			{AdvanceResponse{}, http.StatusOK}, {ErrorResponse{}, http.StatusConflict},
		}},
		{http.MethodGet, "/api/{profile}/games/{gameID}/summary", "Game summary", "End-of-game statistics.", GamePath{}, []resp{
			{SummaryResponse{}, http.StatusOK}, {ErrorResponse{}, http.StatusConflict},
		}},
		{http.MethodPost, "/api/admin/login", "Admin login", "Exchanges admin credentials for a bearer token.", AdminLoginRequest{}, []resp{
			{AdminLoginResponse{}, http.StatusOK}, {ErrorResponse{}, http.StatusUnauthorized},
		}},
		{http.MethodGet, "/api/admin/me", "Current admin", "Returns the authenticated admin. Requires bearer token.", nil, []resp{
			{AdminMeResponse{}, http.StatusOK}, {ErrorResponse{}, http.StatusUnauthorized},
		}},
		{http.MethodGet, "/api/admin/profiles", "List profiles", "Profiles with stored daily data. Requires bearer token.", nil, []resp{
			{[]AdminProfileSummary{}, http.StatusOK}, {ErrorResponse{}, http.StatusUnauthorized},
		}},
		{http.MethodPost, "/api/admin/prune", "Prune daily data", "Drops daily data older than the retention window. Requires bearer token.", AdminPruneRequest{}, []resp{
			{AdminPruneResponse{}, http.StatusOK}, {ErrorResponse{}, http.StatusUnauthorized},
		}},
		{http.MethodDelete, "/api/admin/profiles/{profile}/daily", "Reset daily data", "Deletes a profile's leaderboards and played days. Requires bearer token.", resetDailyParams{}, []resp{
			{nil, http.StatusNoContent}, {ErrorResponse{}, http.StatusNotFound}, {ErrorResponse{}, http.StatusUnauthorized},
		}},
	}

	for _, o := range ops {
		oc, err := r.NewOperationContext(o.method, o.path)
		if err != nil {
			continue
		}
		oc.SetSummary(o.summary)
		oc.SetDescription(o.description)
		if o.req != nil {
			oc.AddReqStructure(o.req)
		}
		for _, rs := range o.resp {
			if o.path == "/api/{profile}/daily/events" {
				oc.AddRespStructure(rs.body, openapi.WithHTTPStatus(rs.status),
					openapi.WithContentType("text/event-stream"))
				continue
			}
			oc.AddRespStructure(rs.body, openapi.WithHTTPStatus(rs.status))
		}
		_ = r.AddOperation(oc)
	}

	return r.Spec
}

type resp struct {
	body   any
	status int
}

func handleOpenAPI() http.HandlerFunc {
	spec := newOpenAPISpec()
	data, _ := json.MarshalIndent(spec, "", "  ")

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	}
}

func handleSwaggerUI() http.HandlerFunc {
	return v5emb.New("Defence Guesser API", "/openapi.json", "/docs").ServeHTTP
}
