// internal/handlers/game.go
package handlers

import (
	"mime/multipart"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/gameshare/backend/internal/models"
	"github.com/gameshare/backend/internal/services"
	"github.com/gameshare/backend/internal/utils"
)

type GameHandler struct {
	gameService *services.GameService
	userService *services.UserService
}

func NewGameHandler(gameService *services.GameService, userService *services.UserService) *GameHandler {
	return &GameHandler{
		gameService: gameService,
		userService: userService,
	}
}

// GET /api/games
func (h *GameHandler) GetGames(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	games, total, err := h.gameService.SearchGames(params)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	result := utils.CreatePaginationResult(games, total, params)
	utils.PaginatedResponse(c, result)
}

// GET /api/games/popular
func (h *GameHandler) GetPopularGames(c *gin.Context) {
	games, err := h.gameService.GetPopularGames(10)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"games": games})
}

// GET /api/games/recent
func (h *GameHandler) GetRecentGames(c *gin.Context) {
	games, err := h.gameService.GetRecentGames(10)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"games": games})
}

// GET /api/games/:id
func (h *GameHandler) GetGame(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid game ID", nil)
		return
	}

	game, err := h.gameService.GetGame(id, h.requester(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"game":           game,
		"average_rating": game.AverageRating(),
	})
}

// POST /api/games
// Multipart form: title, description, category, tags + "image" and "file"
// parts.
func (h *GameHandler) CreateGame(c *gin.Context) {
	owner, ok := h.requireRequester(c)
	if !ok {
		return
	}

	req := &services.CreateGameRequest{
		Title:       c.PostForm("title"),
		Description: c.PostForm("description"),
		Category:    c.PostForm("category"),
		Tags:        parseTags(c),
	}

	image, imageCleanup := formUpload(c, "image")
	file, fileCleanup := formUpload(c, "file")
	defer imageCleanup()
	defer fileCleanup()

	game, err := h.gameService.CreateGame(owner, req, image, file)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{"game": game})
}

// PUT /api/games/:id
func (h *GameHandler) UpdateGame(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid game ID", nil)
		return
	}

	requester, ok := h.requireRequester(c)
	if !ok {
		return
	}

	var req services.UpdateGameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	game, err := h.gameService.UpdateGame(id, requester, &req)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"game": game})
}

// DELETE /api/games/:id
func (h *GameHandler) DeleteGame(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid game ID", nil)
		return
	}

	requester, ok := h.requireRequester(c)
	if !ok {
		return
	}

	if err := h.gameService.DeleteGame(id, requester); err != nil {
		handleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"message": "Game deleted successfully"})
}

// GET /api/games/:id/download
func (h *GameHandler) DownloadGame(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid game ID", nil)
		return
	}

	var downloaderID *uuid.UUID
	if userID, ok := currentUserID(c); ok {
		downloaderID = &userID
	}

	ticket, err := h.gameService.RecordDownload(id, downloaderID, c.ClientIP())
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, ticket)
}

// POST /api/games/:id/reviews
func (h *GameHandler) AddReview(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid game ID", nil)
		return
	}

	reviewer, ok := h.requireRequester(c)
	if !ok {
		return
	}

	var req struct {
		Rating  int    `json:"rating"`
		Comment string `json:"comment"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	reviews, err := h.gameService.AddReview(id, reviewer, req.Rating, req.Comment)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"reviews": reviews})
}

// PUT /api/games/:id/status (admin)
func (h *GameHandler) SetGameStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid game ID", nil)
		return
	}

	var req struct {
		IsActive bool `json:"is_active"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	game, err := h.gameService.SetGameActive(id, req.IsActive)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"game": game})
}

// requester resolves the acting user, nil when unauthenticated.
func (h *GameHandler) requester(c *gin.Context) *models.User {
	userID, ok := currentUserID(c)
	if !ok {
		return nil
	}

	user, err := h.userService.GetUser(userID)
	if err != nil {
		return nil
	}

	return user
}

func (h *GameHandler) requireRequester(c *gin.Context) (*models.User, bool) {
	user := h.requester(c)
	if user == nil {
		utils.UnauthorizedResponse(c, "")
		return nil, false
	}

	return user, true
}

// formUpload opens one multipart file part; the returned cleanup is safe to
// call even when the part was absent.
func formUpload(c *gin.Context, field string) (*services.Upload, func()) {
	header, err := c.FormFile(field)
	if err != nil {
		return nil, func() {}
	}

	file, err := header.Open()
	if err != nil {
		return nil, func() {}
	}

	return &services.Upload{
		OriginalName: header.Filename,
		ContentType:  header.Header.Get("Content-Type"),
		Size:         header.Size,
		Reader:       file,
	}, closerFunc(file)
}

func closerFunc(file multipart.File) func() {
	return func() {
		file.Close()
	}
}

// Tags arrive either as repeated form fields or one comma-separated value.
func parseTags(c *gin.Context) []string {
	tags := c.PostFormArray("tags")
	if len(tags) == 1 && strings.Contains(tags[0], ",") {
		tags = strings.Split(tags[0], ",")
	}

	cleaned := make([]string, 0, len(tags))
	for _, tag := range tags {
		if trimmed := strings.TrimSpace(tag); trimmed != "" {
			cleaned = append(cleaned, trimmed)
		}
	}

	return cleaned
}
