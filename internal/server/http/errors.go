package http

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/gin-gonic/gin"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// StatusForKind maps an error kind to its HTTP status.
func StatusForKind(kind string) int {
	switch kind {
	case common.KindValidation:
		return http.StatusBadRequest
	case common.KindInvalidCredentials, common.KindInvalidRefreshToken,
		common.KindRefreshTokenExpired, common.KindUnauthorized:
		return http.StatusUnauthorized
	case common.KindEmailConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

var messages = map[string]string{
	common.KindInvalidCredentials:  "Invalid email or password",
	common.KindEmailConflict:       "Email is already registered",
	common.KindInvalidRefreshToken: "Invalid refresh token",
	common.KindRefreshTokenExpired: "Refresh token expired",
	common.KindUnauthorized:        "Unauthorized",
	common.KindInternal:            "Internal server error",
}

// abortWithError writes err as an ErrorResponse. Validation errors keep
// their own text; internal errors never leak theirs.
func abortWithError(c *gin.Context, err error) {
	kind := common.KindOf(err)

	msg, ok := messages[kind]
	if !ok {
		msg = err.Error()
	}
	if kind == common.KindInternal {
		_ = c.Error(err)
	}

	c.AbortWithStatusJSON(StatusForKind(kind), ErrorResponse{Error: kind, Message: msg})
}

func abortWithValidation(c *gin.Context, err error) {
	if !errors.Is(err, common.ErrValidation) {
		err = errors.Join(common.ErrValidation, err)
	}
	c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{Error: common.KindValidation, Message: err.Error()})
}
