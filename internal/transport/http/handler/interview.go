package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"gopherai-interview/internal/app"
	"gopherai-interview/internal/transport/http/response"
)

type InterviewHandler struct {
	interviewService *app.InterviewService
}

type StartSessionRequest struct {
	Name  string `json:"name" binding:"required,max=128"`
	Topic string `json:"topic" binding:"required,max=128"`
}

type SubmitAnswerRequest struct {
	SessionID     string `json:"sessionId" binding:"required"`
	QuestionID    *int   `json:"questionId" binding:"required"`
	Answer        string `json:"answer"`
	IsFollowup    bool   `json:"isFollowup"`
	FollowupIndex *int   `json:"followupIndex"`
}

type EndSessionRequest struct {
	SessionID string `json:"sessionId" binding:"required"`
}

func NewInterviewHandler(interviewService *app.InterviewService) *InterviewHandler {
	return &InterviewHandler{interviewService: interviewService}
}

func (h *InterviewHandler) StartSession(c *gin.Context) {
	var req StartSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "name and topic are required")
		return
	}

	result, err := h.interviewService.StartSession(c.Request.Context(), app.StartSessionInput{
		Name:  req.Name,
		Topic: req.Topic,
	})
	if err != nil {
		h.fail(c, err, "start session failed")
		return
	}

	response.OK(c, result)
}

func (h *InterviewHandler) SubmitAnswer(c *gin.Context) {
	var req SubmitAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "sessionId and questionId are required")
		return
	}

	result, err := h.interviewService.SubmitAnswer(c.Request.Context(), app.SubmitAnswerInput{
		SessionID:     req.SessionID,
		QuestionID:    *req.QuestionID,
		Answer:        req.Answer,
		IsFollowup:    req.IsFollowup,
		FollowupIndex: req.FollowupIndex,
	})
	if err != nil {
		h.fail(c, err, "submit answer failed")
		return
	}

	response.OK(c, result)
}

func (h *InterviewHandler) EndSession(c *gin.Context) {
	var req EndSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "sessionId is required")
		return
	}

	result, err := h.interviewService.EndSession(c.Request.Context(), req.SessionID)
	if err != nil {
		h.fail(c, err, "end session failed")
		return
	}

	response.OK(c, result)
}

func (h *InterviewHandler) fail(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, app.ErrInvalidInput):
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
	case errors.Is(err, app.ErrTimeUp):
		response.Error(c, http.StatusBadRequest, response.CodeTimeUp, "Time's up!")
	case errors.Is(err, app.ErrInvalidQuestion):
		response.Error(c, http.StatusBadRequest, response.CodeInvalidQuestion, "Invalid question ID")
	case errors.Is(err, app.ErrSessionNotFound):
		response.Error(c, http.StatusNotFound, response.CodeSessionNotFound, "Session not found")
	default:
		log.Printf("%s: %v", fallback, err)
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, fallback)
	}
}
