package api

import (
	"errors"
	"net/http"

	"ventures/internal/game"
)

// Request bodies shared by the server and the remote CLI client.
type (
	CreateVentureRequest struct {
		Name         string `json:"name"`
		StartupType  string `json:"startup_type"`
		StartingPath string `json:"starting_path"`
	}
	AdvanceRequest struct {
		Days int `json:"days"`
	}
	HireRequest struct {
		Role   string  `json:"role"`
		Salary float64 `json:"salary"`
	}
	PitchRequest struct {
		Accept bool `json:"accept"`
	}
	RepayRequest struct {
		Amount float64 `json:"amount"`
	}
	OfficeRequest struct {
		Rented bool `json:"rented"`
	}
)

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

type domainError struct {
	err    error
	status int
	code   string
}

var domainErrors = []domainError{
	{game.ErrNoVenture, http.StatusNotFound, "no_venture"},
	{game.ErrFeatureNotFound, http.StatusNotFound, "feature_not_found"},
	{game.ErrChannelNotFound, http.StatusNotFound, "channel_not_found"},
	{game.ErrInsufficientFunds, http.StatusBadRequest, "insufficient_funds"},
	{game.ErrInvalidArgument, http.StatusBadRequest, "invalid_argument"},
	{game.ErrUnknownStartupType, http.StatusBadRequest, "unknown_startup_type"},
	{game.ErrUnknownStartingPath, http.StatusBadRequest, "unknown_starting_path"},
	{game.ErrInvalidTransition, http.StatusConflict, "invalid_transition"},
	{game.ErrChannelLocked, http.StatusConflict, "channel_locked"},
	{game.ErrGameOver, http.StatusConflict, "game_over"},
}

// ErrorForCode maps an error code from an ErrorResponse back to its sentinel.
func ErrorForCode(code string) error {
	for _, d := range domainErrors {
		if d.code == code {
			return d.err
		}
	}
	return nil
}

func classify(err error) (int, string) {
	for _, d := range domainErrors {
		if errors.Is(err, d.err) {
			return d.status, d.code
		}
	}
	return http.StatusInternalServerError, ""
}
