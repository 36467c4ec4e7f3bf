package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"vtt-bridge/internal/infrastructure/logger"
	"vtt-bridge/internal/vtt"
)

// DocumentsHandler exposes the bridge adapters to the conversational tool
// layer and the content pipeline over REST. Failure messages pass through
// verbatim so the caller can present them unchanged.
type DocumentsHandler struct {
	actors   *vtt.Actors
	items    *vtt.Items
	journals *vtt.Journals
	scenes   *vtt.Scenes
	logger   logger.Logger
}

func NewDocumentsHandler(
	actors *vtt.Actors,
	items *vtt.Items,
	journals *vtt.Journals,
	scenes *vtt.Scenes,
	log logger.Logger,
) *DocumentsHandler {
	return &DocumentsHandler{
		actors:   actors,
		items:    items,
		journals: journals,
		scenes:   scenes,
		logger:   log.WithField("handler", "documents"),
	}
}

// failureStatus maps an adapter failure message to an HTTP status.
func failureStatus(msg string) int {
	if msg == vtt.NoConnectionMsg {
		return http.StatusServiceUnavailable
	}
	return http.StatusBadGateway
}

func respond(c *gin.Context, success bool, errMsg string, result any) {
	if success {
		c.JSON(http.StatusOK, result)
		return
	}
	c.JSON(failureStatus(errMsg), result)
}

// --- actors ---

func (h *DocumentsHandler) CreateActor(c *gin.Context) {
	var req vtt.CreateActorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid actor payload"})
		return
	}

	res := h.actors.Create(c.Request.Context(), req)
	if !res.Success {
		h.logger.Warnf("create actor %q failed: %s", req.Name, res.Error)
	}
	respond(c, res.Success, res.Error, res)
}

func (h *DocumentsHandler) GetActor(c *gin.Context) {
	res := h.actors.Get(c.Request.Context(), c.Param("uuid"))
	respond(c, res.Success, res.Error, res)
}

func (h *DocumentsHandler) DeleteActor(c *gin.Context) {
	res := h.actors.Delete(c.Request.Context(), c.Param("uuid"))
	respond(c, res.Success, res.Error, res)
}

func (h *DocumentsHandler) ListActors(c *gin.Context) {
	res := h.actors.List(c.Request.Context())
	respond(c, res.Success, res.Error, res)
}

// --- items ---

func (h *DocumentsHandler) CreateItem(c *gin.Context) {
	var req vtt.CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid item payload"})
		return
	}

	res := h.items.Create(c.Request.Context(), req)
	if !res.Success {
		h.logger.Warnf("create item %q failed: %s", req.Name, res.Error)
	}
	respond(c, res.Success, res.Error, res)
}

func (h *DocumentsHandler) GetItem(c *gin.Context) {
	res := h.items.Get(c.Request.Context(), c.Param("uuid"))
	respond(c, res.Success, res.Error, res)
}

func (h *DocumentsHandler) DeleteItem(c *gin.Context) {
	res := h.items.Delete(c.Request.Context(), c.Param("uuid"))
	respond(c, res.Success, res.Error, res)
}

func (h *DocumentsHandler) ListItems(c *gin.Context) {
	res := h.items.List(c.Request.Context())
	respond(c, res.Success, res.Error, res)
}

// --- journals ---

func (h *DocumentsHandler) CreateJournal(c *gin.Context) {
	var req vtt.CreateJournalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid journal payload"})
		return
	}

	res := h.journals.Create(c.Request.Context(), req)
	if !res.Success {
		h.logger.Warnf("create journal %q failed: %s", req.Name, res.Error)
	}
	respond(c, res.Success, res.Error, res)
}

func (h *DocumentsHandler) GetJournal(c *gin.Context) {
	res := h.journals.Get(c.Request.Context(), c.Param("uuid"))
	respond(c, res.Success, res.Error, res)
}

func (h *DocumentsHandler) DeleteJournal(c *gin.Context) {
	res := h.journals.Delete(c.Request.Context(), c.Param("uuid"))
	respond(c, res.Success, res.Error, res)
}

func (h *DocumentsHandler) ListJournals(c *gin.Context) {
	res := h.journals.List(c.Request.Context())
	respond(c, res.Success, res.Error, res)
}

// --- scenes ---

func (h *DocumentsHandler) CreateScene(c *gin.Context) {
	var req vtt.CreateSceneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid scene payload"})
		return
	}

	res := h.scenes.Create(c.Request.Context(), req)
	if !res.Success {
		h.logger.Warnf("create scene %q failed: %s", req.Name, res.Error)
	}
	respond(c, res.Success, res.Error, res)
}

func (h *DocumentsHandler) GetScene(c *gin.Context) {
	res := h.scenes.Get(c.Request.Context(), c.Param("uuid"))
	respond(c, res.Success, res.Error, res)
}

func (h *DocumentsHandler) DeleteScene(c *gin.Context) {
	res := h.scenes.Delete(c.Request.Context(), c.Param("uuid"))
	respond(c, res.Success, res.Error, res)
}

func (h *DocumentsHandler) ListScenes(c *gin.Context) {
	res := h.scenes.List(c.Request.Context())
	respond(c, res.Success, res.Error, res)
}

// RegisterRoutes mounts the document endpoints under rg.
func (h *DocumentsHandler) RegisterRoutes(rg *gin.RouterGroup) {
	actors := rg.Group("/actors")
	{
		actors.POST("", h.CreateActor)
		actors.GET("", h.ListActors)
		actors.GET("/:uuid", h.GetActor)
		actors.DELETE("/:uuid", h.DeleteActor)
	}

	items := rg.Group("/items")
	{
		items.POST("", h.CreateItem)
		items.GET("", h.ListItems)
		items.GET("/:uuid", h.GetItem)
		items.DELETE("/:uuid", h.DeleteItem)
	}

	journals := rg.Group("/journals")
	{
		journals.POST("", h.CreateJournal)
		journals.GET("", h.ListJournals)
		journals.GET("/:uuid", h.GetJournal)
		journals.DELETE("/:uuid", h.DeleteJournal)
	}

	scenes := rg.Group("/scenes")
	{
		scenes.POST("", h.CreateScene)
		scenes.GET("", h.ListScenes)
		scenes.GET("/:uuid", h.GetScene)
		scenes.DELETE("/:uuid", h.DeleteScene)
	}
}
