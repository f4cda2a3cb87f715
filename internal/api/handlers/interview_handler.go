package handlers

import (
	"context"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yoockh/skillsync/internal/api/response"
	"github.com/yoockh/skillsync/internal/models"
	"github.com/yoockh/skillsync/internal/providers/stt"
	"github.com/yoockh/skillsync/internal/services"
	"github.com/yoockh/skillsync/internal/utils"
)

const maxAudioBytes = 10 << 20

type InterviewHandler struct {
	svc    services.InterviewService
	speech stt.Provider // nil disables spoken answers
}

func NewInterviewHandler(svc services.InterviewService, speech stt.Provider) *InterviewHandler {
	return &InterviewHandler{svc: svc, speech: speech}
}

func (h *InterviewHandler) SpeechEnabled() bool { return h.speech != nil }

type CreateSessionRequest struct {
	JobRole       string            `json:"jobRole" binding:"omitempty,max=120"`
	Difficulty    models.Difficulty `json:"difficulty" binding:"omitempty,oneof=Easy Medium Hard"`
	Category      models.Category   `json:"category" binding:"omitempty,oneof=Technical Behavioral Mixed"`
	QuestionCount int               `json:"questionCount" binding:"omitempty,min=5,max=20"`
	TimeLimit     int               `json:"timeLimit" binding:"omitempty,min=60,max=600"`
	Skills        []string          `json:"skills" binding:"omitempty,max=20,dive,max=60"`
}

type SubmitAnswerRequest struct {
	Answer    *string `json:"answer" binding:"required"`
	TimeSpent int     `json:"timeSpent"`
}

func (h *InterviewHandler) Create(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req CreateSessionRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			writeBindError(c, err)
			return
		}
	}

	sess, err := h.svc.Create(c.Request.Context(), userID, services.CreateSessionInput{
		JobRole:       req.JobRole,
		Difficulty:    req.Difficulty,
		Category:      req.Category,
		QuestionCount: req.QuestionCount,
		TimeLimit:     req.TimeLimit,
		Skills:        req.Skills,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	response.OK(c, http.StatusCreated, sess)
}

func (h *InterviewHandler) Get(c *gin.Context) {
	h.sessionAction(c, h.svc.Get)
}

func (h *InterviewHandler) Start(c *gin.Context) {
	h.sessionAction(c, h.svc.Start)
}

func (h *InterviewHandler) Complete(c *gin.Context) {
	h.sessionAction(c, h.svc.Complete)
}

func (h *InterviewHandler) Abandon(c *gin.Context) {
	h.sessionAction(c, h.svc.Abandon)
}

func (h *InterviewHandler) SubmitAnswer(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req SubmitAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	sess, err := h.svc.SubmitAnswer(c.Request.Context(), userID, c.Param("id"), c.Param("questionId"), *req.Answer, req.TimeSpent)
	if err != nil {
		writeError(c, err)
		return
	}
	response.OK(c, http.StatusOK, sess)
}

// SubmitAudioAnswer transcribes a LINEAR16 recording and submits the text
// as the answer.
func (h *InterviewHandler) SubmitAudioAnswer(c *gin.Context) {
	const op = "InterviewHandler.SubmitAudioAnswer"

	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	if h.speech == nil {
		writeError(c, utils.E(utils.CodeUnavailable, op, "speech transcription is not enabled", nil))
		return
	}

	fh, err := c.FormFile("file")
	if err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "multipart field 'file' is required", err))
		return
	}
	if fh.Size > maxAudioBytes {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "audio file too large (max 10MB)", nil))
		return
	}

	timeSpent := 0
	if v := strings.TrimSpace(c.PostForm("timeSpent")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeError(c, utils.E(utils.CodeInvalidArgument, op, "timeSpent must be an integer", err))
			return
		}
		timeSpent = n
	}

	f, err := fh.Open()
	if err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "failed to open audio file", err))
		return
	}
	defer f.Close()

	audio, err := io.ReadAll(io.LimitReader(f, maxAudioBytes))
	if err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "failed to read audio file", err))
		return
	}
	if len(audio) == 0 {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "audio file is empty", nil))
		return
	}

	text, _, err := h.speech.Transcribe(c.Request.Context(), audio, normalizeLanguage(c.PostForm("language")))
	if err != nil {
		writeError(c, utils.E(utils.CodeUnavailable, op, "speech transcription failed", err))
		return
	}

	sess, err := h.svc.SubmitAnswer(c.Request.Context(), userID, c.Param("id"), c.Param("questionId"), text, timeSpent)
	if err != nil {
		writeError(c, err)
		return
	}
	response.OK(c, http.StatusOK, sess)
}

func (h *InterviewHandler) History(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	list, err := h.svc.History(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	response.OK(c, http.StatusOK, list)
}

func (h *InterviewHandler) Analytics(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	a, err := h.svc.Analytics(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	response.OK(c, http.StatusOK, a)
}

func (h *InterviewHandler) sessionAction(c *gin.Context, fn func(ctx context.Context, userID, sessionID string) (*models.InterviewSession, error)) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	sess, err := fn(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	response.OK(c, http.StatusOK, sess)
}

func normalizeLanguage(v string) string {
	switch v = strings.TrimSpace(v); v {
	case "", "en", "en-US":
		return "en-US"
	case "id", "id-ID":
		return "id-ID"
	default:
		return v
	}
}
