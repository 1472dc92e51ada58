package errors

import (
	"errors"
	"fmt"

	"google.golang.org/api/googleapi"
)

type ErrorDump struct {
	TopMessage string `json:"top_message"`
	Code       Code   `json:"code,omitempty"`

	Chain []string `json:"chain,omitempty"`

	GoogleAPICode    int    `json:"google_api_code,omitempty"`
	GoogleAPIMessage string `json:"google_api_message,omitempty"`
}

func Dump(err error) ErrorDump {
	if err == nil {
		return ErrorDump{}
	}

	d := ErrorDump{
		TopMessage: err.Error(),
	}

	if te := As(err); te != nil {
		d.Code = te.Code()
	}

	for e := err; e != nil; e = errors.Unwrap(e) {
		d.Chain = append(d.Chain, fmt.Sprintf("%T: %v", e, e))
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		d.GoogleAPICode = apiErr.Code
		d.GoogleAPIMessage = apiErr.Message
	}

	return d
}
