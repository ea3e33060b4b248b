package transport

import (
	"encoding/json"
	"net/http"

	"github.com/go-resty/resty/v2"
	"github.com/materials-commons/mcrel/pkg/model"
)

// ErrorResponse is the JSON an API responds with on an error status. echo
// errors carry a top level message, failed saves carry it in meta.
type ErrorResponse struct {
	Message string `json:"message"`
	Meta    struct {
		Message string `json:"message"`
	} `json:"meta"`
}

// ToErrorFromResponse turns an error status into a *model.TransportError,
// using the response's message when it has one.
func ToErrorFromResponse(req *model.Request, resp *resty.Response) *model.TransportError {
	terr := &model.TransportError{
		Method: req.Method,
		URL:    req.URL,
		Status: resp.StatusCode(),
	}

	var errorResponse ErrorResponse
	if err := json.Unmarshal(resp.Body(), &errorResponse); err == nil {
		terr.Message = errorResponse.Message
		if terr.Message == "" {
			terr.Message = errorResponse.Meta.Message
		}
	}

	if terr.Message == "" {
		terr.Message = http.StatusText(resp.StatusCode())
	}

	return terr
}
