package api

import (
	"encoding/json"
	"strings"

	apperrors "github.com/target/timeclock/internal/errors"
)

// Business reasons carried by 403 responses.
const (
	codeTrialExpired = "TRIAL_EXPIRED"
	codeSubCancelled = "SUB_CANCELLED"
)

type errorBody struct {
	Code  string `json:"code"`
	Error string `json:"error"`
}

func parseErrorBody(body []byte) errorBody {
	var eb errorBody
	_ = json.Unmarshal(body, &eb)
	eb.Code = strings.TrimSpace(eb.Code)
	eb.Error = strings.TrimSpace(eb.Error)
	return eb
}

// serverMessage returns the server's "error" field or fallback.
func serverMessage(body []byte, fallback string) string {
	if msg := parseErrorBody(body).Error; msg != "" {
		return msg
	}
	return fallback
}

func forbiddenError(body []byte) error {
	eb := parseErrorBody(body)
	switch eb.Code {
	case codeTrialExpired:
		return &apperrors.AppError{Code: apperrors.ErrCodeTrialExpired, Message: codeTrialExpired, Status: 403}
	case codeSubCancelled:
		return &apperrors.AppError{Code: apperrors.ErrCodeSubscriptionCancelled, Message: codeSubCancelled, Status: 403}
	}
	if eb.Error != "" {
		return apperrors.Forbidden(eb.Error)
	}
	return apperrors.Forbidden("Forbidden")
}
