package ws

import (
	"errors"

	"github.com/boardbox/yahtzee/internal/model"
)

// ErrorBody is the structured error sent to the originating client
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// errorCodes maps session sentinels to stable wire codes
var errorCodes = []struct {
	err  error
	code string
}{
	{model.ErrNameRequired, "name_required"},
	{model.ErrNameTaken, "name_taken"},
	{model.ErrGameInProgress, "game_in_progress"},
	{model.ErrUnknownPlayer, "unknown_player"},
	{model.ErrWrongPhase, "wrong_phase"},
	{model.ErrNotYourTurn, "not_your_turn"},
	{model.ErrNoRollsRemaining, "no_rolls_remaining"},
	{model.ErrRollsNotStarted, "rolls_not_started"},
	{model.ErrInvalidKeep, "invalid_keep"},
	{model.ErrCategoryFilled, "category_already_filled"},
	{model.ErrUnknownCategory, "unknown_category"},
	{model.ErrPersistence, "persistence_failed"},
}

func errorBody(err error) ErrorBody {
	for _, entry := range errorCodes {
		if errors.Is(err, entry.err) {
			return ErrorBody{Code: entry.code, Message: entry.err.Error()}
		}
	}
	return ErrorBody{Code: "internal", Message: "internal error"}
}
