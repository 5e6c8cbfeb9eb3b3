package httperr

import (
	"net/http"

	"turf-reservation/internal/pkg/errs"

	"github.com/gin-gonic/gin"
)

type Response struct {
	Status int `json:"-"`
	Error  struct {
		Message string `json:"message"`
	} `json:"error"`
	Detail any `json:"detail,omitempty"`
}

// Rule maps a sentinel error onto an HTTP status and a public message.
type Rule struct {
	Target  error
	Status  int
	Message string
}

// preserves original error for future monitoring
func AbortWithError(c *gin.Context, status int, err error, msg string, detail any) {
	if err == nil {
		panic("AbortWithError: err cannot be nil")
	}

	resp := Response{Status: status}
	resp.Error.Message = msg
	resp.Detail = detail

	_ = c.Error(gin.Error{
		Err:  err,
		Type: gin.ErrorTypePublic,
		Meta: resp,
	})
	c.AbortWithStatusJSON(status, resp)
}

// AbortWithRules answers with the first matching rule, or 500 when none matches.
func AbortWithRules(c *gin.Context, err error, rules []Rule) {
	for _, r := range rules {
		if errs.Is(err, r.Target) {
			AbortWithError(c, r.Status, err, r.Message, nil)
			return
		}
	}
	AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
}
