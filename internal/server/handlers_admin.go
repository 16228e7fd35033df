package server

import (
	"fmt"

	"github.com/labstack/echo/v4"

	"github.com/einartakla1/dncs-poll-api/internal/domain"
	apperrors "github.com/einartakla1/dncs-poll-api/internal/errors"
)

type createPollRequest struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	ShowVoteCount *bool    `json:"showVoteCount"`
}

type updatePollRequest struct {
	PollID   string   `json:"pollId"`
	Question string   `json:"question"`
	Options  []string `json:"options"`
}

type setStatusRequest struct {
	PollID string `json:"pollId"`
	Status string `json:"status"`
}

type deletePollRequest struct {
	PollID string `json:"pollId"`
}

func (s *Server) handleCreatePoll(c echo.Context) error {
	var req createPollRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ValidationError("invalid request body")
	}

	poll, err := s.polls.Create(c.Request().Context(), req.Question, req.Options, req.ShowVoteCount)
	if err != nil {
		return err
	}

	if err := c.JSON(200, map[string]string{"pollId": poll.ID}); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

func (s *Server) handleUpdatePoll(c echo.Context) error {
	var req updatePollRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ValidationError("invalid request body")
	}

	if err := s.polls.Update(c.Request().Context(), req.PollID, req.Question, req.Options); err != nil {
		return err
	}

	if err := c.JSON(200, map[string]bool{"success": true}); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

func (s *Server) handleSetStatus(c echo.Context) error {
	var req setStatusRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ValidationError("invalid request body")
	}

	if err := s.polls.SetStatus(c.Request().Context(), req.PollID, domain.Status(req.Status)); err != nil {
		return err
	}

	if err := c.JSON(200, map[string]any{"success": true, "status": req.Status}); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

func (s *Server) handleDeletePoll(c echo.Context) error {
	var req deletePollRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ValidationError("invalid request body")
	}

	if err := s.polls.Delete(c.Request().Context(), req.PollID); err != nil {
		return err
	}

	if err := c.JSON(200, map[string]bool{"success": true}); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

func (s *Server) handleListPolls(c echo.Context) error {
	views, err := s.polls.List(c.Request().Context(), c.QueryParam("status"))
	if err != nil {
		return err
	}

	if err := c.JSON(200, views); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}
