package httpx

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/MikeMC777/storefront/internal/apperr"
)

// ErrorBody is the JSON shape of every failed response.
type ErrorBody struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func Status(kind apperr.Kind) int {
	switch kind {
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindInvalidArgument, apperr.KindEmptyCart:
		return http.StatusBadRequest
	case apperr.KindUnauthorized:
		return http.StatusUnauthorized
	case apperr.KindForbidden:
		return http.StatusForbidden
	case apperr.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Fail records err on the context and writes the mapped status and body.
func Fail(c *gin.Context, err error) {
	kind := apperr.KindOf(err)
	_ = c.Error(err)
	c.JSON(Status(kind), ErrorBody{Error: apperr.Message(err), Code: string(kind)})
}

// Abort is Fail for middleware: the remaining handlers are skipped.
func Abort(c *gin.Context, err error) {
	Fail(c, err)
	c.Abort()
}

// BadRequest reports a malformed body.
func BadRequest(c *gin.Context, msg string) {
	Fail(c, apperr.InvalidArgument(msg))
}
