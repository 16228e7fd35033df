package server

import (
	"errors"
	"fmt"

	"github.com/labstack/echo/v4"

	"github.com/einartakla1/dncs-poll-api/internal/domain"
	apperrors "github.com/einartakla1/dncs-poll-api/internal/errors"
	"github.com/einartakla1/dncs-poll-api/internal/poll"
)

type voteRequest struct {
	PollID     string `json:"pollId"`
	OptionID   *int   `json:"optionId"`
	VoterToken string `json:"voterToken"`
}

func (s *Server) handleVote(c echo.Context) error {
	var req voteRequest
	if err := c.Bind(&req); err != nil {
		return apperrors.ValidationError("invalid request body")
	}
	if req.PollID == "" {
		return apperrors.ValidationError("missing pollId")
	}
	if req.OptionID == nil {
		return apperrors.ValidationError("missing optionId")
	}

	token, err := s.resolver.Identify(c, req.VoterToken)
	if err != nil {
		if errors.Is(err, domain.ErrNoVoterIdentity) {
			return apperrors.ValidationError("missing voterToken")
		}
		return apperrors.InternalError("failed to resolve voter identity", err)
	}

	receipt, err := s.polls.CastVote(c.Request().Context(), poll.CastVoteRequest{
		PollID:        req.PollID,
		OptionID:      *req.OptionID,
		VoterToken:    token,
		ClientAddress: c.RealIP(),
	})
	if err != nil {
		return err
	}

	if err := c.JSON(200, receipt); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}

func (s *Server) handleResults(c echo.Context) error {
	pollID := c.QueryParam("pollId")
	if pollID == "" {
		return apperrors.ValidationError("missing pollId")
	}

	token := s.resolver.Peek(c, c.QueryParam("voterToken"))

	view, err := s.polls.GetResults(c.Request().Context(), pollID, token)
	if err != nil {
		return err
	}

	if err := c.JSON(200, view); err != nil {
		return fmt.Errorf("failed to send JSON response: %w", err)
	}
	return nil
}
