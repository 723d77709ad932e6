package http

import (
	"context"
	"io"
	"net/http"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/amdal/case-copilot/internal/domain/entity"
	wf "github.com/amdal/case-copilot/internal/domain/workflow"
	"github.com/amdal/case-copilot/internal/storage"
	"github.com/amdal/case-copilot/internal/workflow"
	"github.com/amdal/case-copilot/pkg/utils"
)

// CaseStore is the case persistence surface the handlers use.
type CaseStore interface {
	Create(ctx context.Context, c *entity.Case) error
	GetByID(ctx context.Context, caseID string) (*entity.Case, error)
	List(ctx context.Context) ([]*entity.Case, error)
	Delete(ctx context.Context, caseID string) error
}

// MessageStore reads and appends the per-case conversation log.
type MessageStore interface {
	Append(ctx context.Context, m *entity.Message) error
	ListByCase(ctx context.Context, caseID string) ([]*entity.Message, error)
	DeleteByCase(ctx context.Context, caseID string) error
}

// DocumentStore reads and appends the per-case document log.
type DocumentStore interface {
	Append(ctx context.Context, d *entity.Document) error
	ListByCase(ctx context.Context, caseID string) ([]*entity.Document, error)
	DeleteByCase(ctx context.Context, caseID string) error
}

// StateStore deletes workflow state on case purge.
type StateStore interface {
	Delete(ctx context.Context, caseID string) error
}

// TextExtractor extracts scannable text from an uploaded file.
type TextExtractor interface {
	Text(path string, content []byte) string
}

// Handlers contains all HTTP request handlers
type Handlers struct {
	cases     CaseStore
	messages  MessageStore
	documents DocumentStore
	states    StateStore
	engine    *workflow.Engine
	files     storage.FileStore
	extractor TextExtractor
	logger    *zap.Logger
}

// NewHandlers creates a new Handlers instance
func NewHandlers(
	cases CaseStore,
	messages MessageStore,
	documents DocumentStore,
	states StateStore,
	engine *workflow.Engine,
	files storage.FileStore,
	extractor TextExtractor,
	logger *zap.Logger,
) *Handlers {
	return &Handlers{
		cases:     cases,
		messages:  messages,
		documents: documents,
		states:    states,
		engine:    engine,
		files:     files,
		extractor: extractor,
		logger:    logger,
	}
}

// CreateCaseRequest is the POST /cases payload.
type CreateCaseRequest struct {
	Title       string `json:"title" binding:"required"`
	PatientName string `json:"patient_name"`
	Payer       string `json:"payer"`
}

// ChatRequest is the POST /cases/:case_id/chat payload.
type ChatRequest struct {
	Content string `json:"content" binding:"required"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// ListCases handles GET /cases, newest first.
func (h *Handlers) ListCases(c *gin.Context) {
	cases, err := h.cases.List(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to list cases", zap.Error(err))
		c.JSON(http.StatusInternalServerError, errorResponse{"failed to retrieve cases"})
		return
	}

	responses := make([]*entity.Case, 0, len(cases))
	for _, cs := range cases {
		responses = append(responses, h.caseResponse(c.Request.Context(), cs))
	}
	c.JSON(http.StatusOK, responses)
}

// CreateCase handles POST /cases. It creates the record and seeds the
// workflow, which posts the welcome message.
func (h *Handlers) CreateCase(c *gin.Context) {
	var req CreateCaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{"title is required"})
		return
	}

	now := time.Now().UTC()
	record := &entity.Case{
		CaseID:      utils.NewID("case"),
		Title:       req.Title,
		PatientName: req.PatientName,
		Payer:       req.Payer,
		Status:      "New",
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := h.cases.Create(c.Request.Context(), record); err != nil {
		h.logger.Error("Failed to create case", zap.Error(err))
		c.JSON(http.StatusInternalServerError, errorResponse{"failed to create case"})
		return
	}

	if _, err := h.engine.InitializeCase(c.Request.Context(), record.CaseID, record.Title); err != nil {
		h.logger.Error("Failed to initialize workflow", zap.String("case_id", record.CaseID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, errorResponse{"failed to initialize case"})
		return
	}

	created, err := h.cases.GetByID(c.Request.Context(), record.CaseID)
	if err != nil || created == nil {
		h.logger.Error("Failed to reload created case", zap.String("case_id", record.CaseID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, errorResponse{"failed to create case"})
		return
	}
	c.JSON(http.StatusCreated, h.caseResponse(c.Request.Context(), created))
}

// GetCase handles GET /cases/:case_id
func (h *Handlers) GetCase(c *gin.Context) {
	caseID := c.Param("case_id")
	record, err := h.cases.GetByID(c.Request.Context(), caseID)
	if err != nil {
		h.logger.Error("Failed to get case", zap.String("case_id", caseID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, errorResponse{"failed to retrieve case"})
		return
	}
	if record == nil {
		c.JSON(http.StatusNotFound, errorResponse{"Case not found"})
		return
	}
	c.JSON(http.StatusOK, h.caseResponse(c.Request.Context(), record))
}

// DeleteCase handles DELETE /cases/:case_id. Deleting a case purges its
// messages, documents, workflow state, and stored files.
func (h *Handlers) DeleteCase(c *gin.Context) {
	ctx := c.Request.Context()
	caseID := c.Param("case_id")

	record, err := h.cases.GetByID(ctx, caseID)
	if err != nil {
		h.logger.Error("Failed to look up case", zap.String("case_id", caseID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, errorResponse{"failed to delete case"})
		return
	}
	if record == nil {
		c.JSON(http.StatusNotFound, errorResponse{"Case not found"})
		return
	}

	purge := []struct {
		what string
		del  func(context.Context, string) error
	}{
		{"messages", h.messages.DeleteByCase},
		{"documents", h.documents.DeleteByCase},
		{"state", h.states.Delete},
		{"case", h.cases.Delete},
	}
	for _, step := range purge {
		if err := step.del(ctx, caseID); err != nil {
			h.logger.Error("Failed to purge case data",
				zap.String("case_id", caseID),
				zap.String("what", step.what),
				zap.Error(err))
			c.JSON(http.StatusInternalServerError, errorResponse{"failed to delete case"})
			return
		}
	}
	if err := h.files.RemoveCaseFiles(caseID); err != nil {
		h.logger.Warn("Failed to remove case files", zap.String("case_id", caseID), zap.Error(err))
	}

	c.Status(http.StatusNoContent)
}

// ListMessages handles GET /cases/:case_id/messages, oldest first.
func (h *Handlers) ListMessages(c *gin.Context) {
	msgs, err := h.messages.ListByCase(c.Request.Context(), c.Param("case_id"))
	if err != nil {
		h.logger.Error("Failed to list messages", zap.Error(err))
		c.JSON(http.StatusInternalServerError, errorResponse{"failed to retrieve messages"})
		return
	}
	c.JSON(http.StatusOK, msgs)
}

// Chat handles POST /cases/:case_id/chat. The user message is recorded, the
// workflow runs a turn, and the last emitted message comes back.
func (h *Handlers) Chat(c *gin.Context) {
	ctx := c.Request.Context()
	caseID := c.Param("case_id")

	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{"content is required"})
		return
	}

	userMsg := &entity.Message{
		MsgID:     utils.NewID("msg"),
		CaseID:    caseID,
		Role:      entity.RoleUser,
		Content:   req.Content,
		CreatedAt: time.Now().UTC(),
	}
	if err := h.messages.Append(ctx, userMsg); err != nil {
		h.logger.Error("Failed to record user message", zap.String("case_id", caseID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, errorResponse{"failed to record message"})
		return
	}

	responses, err := h.engine.HandleUserMessage(ctx, caseID, req.Content)
	if err != nil {
		h.logger.Error("Workflow turn failed", zap.String("case_id", caseID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, errorResponse{"failed to process message"})
		return
	}
	if len(responses) == 0 {
		filler := &entity.Message{
			MsgID:     utils.NewID("msg"),
			CaseID:    caseID,
			Role:      entity.RoleAssistant,
			Content:   "I'm here if you need anything else for this case.",
			CreatedAt: time.Now().UTC(),
		}
		if err := h.messages.Append(ctx, filler); err != nil {
			h.logger.Error("Failed to record filler message", zap.String("case_id", caseID), zap.Error(err))
			c.JSON(http.StatusInternalServerError, errorResponse{"failed to record message"})
			return
		}
		responses = []*entity.Message{filler}
	}

	c.JSON(http.StatusOK, responses[len(responses)-1])
}

// ListDocuments handles GET /cases/:case_id/documents
func (h *Handlers) ListDocuments(c *gin.Context) {
	docs, err := h.documents.ListByCase(c.Request.Context(), c.Param("case_id"))
	if err != nil {
		h.logger.Error("Failed to list documents", zap.Error(err))
		c.JSON(http.StatusInternalServerError, errorResponse{"failed to retrieve documents"})
		return
	}
	c.JSON(http.StatusOK, docs)
}

// UploadDocument handles POST /cases/:case_id/documents. The file is stored,
// recorded, and handed to the workflow, which may advance the case.
func (h *Handlers) UploadDocument(c *gin.Context) {
	ctx := c.Request.Context()
	caseID := c.Param("case_id")

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{"file is required"})
		return
	}
	filename := filepath.Base(fileHeader.Filename)
	if filename == "" || filename == "." || filename == "/" {
		c.JSON(http.StatusBadRequest, errorResponse{"Invalid file name"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.logger.Error("Failed to open upload", zap.Error(err))
		c.JSON(http.StatusInternalServerError, errorResponse{"failed to read file"})
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		h.logger.Error("Failed to read upload", zap.Error(err))
		c.JSON(http.StatusInternalServerError, errorResponse{"failed to read file"})
		return
	}

	path, err := h.files.SaveFile(caseID, filename, content)
	if err != nil {
		h.logger.Error("Failed to store upload", zap.String("case_id", caseID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, errorResponse{"failed to store file"})
		return
	}

	doc := &entity.Document{
		DocID:         utils.NewID("doc"),
		CaseID:        caseID,
		Name:          filename,
		Type:          fileHeader.Header.Get("Content-Type"),
		Path:          path,
		PublicURL:     h.files.PublicURL(caseID, filename),
		UploadedAt:    time.Now().UTC(),
		ExtractedText: h.extractor.Text(filename, content),
	}
	if err := h.documents.Append(ctx, doc); err != nil {
		h.logger.Error("Failed to record document", zap.String("case_id", caseID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, errorResponse{"failed to record document"})
		return
	}

	if _, err := h.engine.HandleDocumentUpload(ctx, caseID, doc); err != nil {
		h.logger.Error("Workflow upload handling failed", zap.String("case_id", caseID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, errorResponse{"failed to process document"})
		return
	}

	c.JSON(http.StatusOK, doc)
}

// caseResponse backfills missing projection fields so clients always see a
// stage and its status text, even for rows the engine has not touched yet.
func (h *Handlers) caseResponse(ctx context.Context, record *entity.Case) *entity.Case {
	resp := *record
	if resp.WorkflowStage == "" {
		state, err := h.engine.State(ctx, resp.CaseID)
		if err == nil && state != nil {
			resp.WorkflowStage = state.Stage
		}
	}
	if defaults, ok := wf.Defaults(wf.Stage(resp.WorkflowStage)); ok {
		if resp.Status == "" {
			resp.Status = defaults.Status
		}
		if resp.WorkflowStatus == "" {
			resp.WorkflowStatus = defaults.WorkflowStatus
		}
		if resp.NextAction == "" {
			resp.NextAction = defaults.NextAction
		}
	}
	return &resp
}
