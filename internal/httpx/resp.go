package httpx

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response is the envelope every endpoint returns.
type Response struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

// OK sends a successful response with default message "success"
func OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, Response{
		Code:    CodeSuccess,
		Message: "success",
		Data:    data,
	})
}

// Created sends a successful response with HTTP 201.
func Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, Response{
		Code:    CodeSuccess,
		Message: "success",
		Data:    data,
	})
}

// FailErr sends an error response from an AppError. Internal detail in
// err.Err is logged, not returned to the client.
func FailErr(c *gin.Context, err *AppError) {
	if err.Err != nil {
		log.Printf("[ERROR] %s (code=%d, internal_err=%v)", err.Message, err.Code, err.Err)
	}

	c.JSON(err.HTTPStatus, Response{
		Code:    err.Code,
		Message: err.Message,
		Data:    nil,
	})
}

// Fail translates any error into the envelope: AppErrors keep their
// status and code, everything else becomes a 500.
func Fail(c *gin.Context, err error) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		FailErr(c, appErr)
		return
	}
	FailErr(c, ErrInternalError("", err))
}

// ListData is the page shape for collection endpoints.
type ListData struct {
	Items  interface{} `json:"items"`
	Total  int64       `json:"total"`
	Limit  int         `json:"limit"`
	Offset int         `json:"offset"`
}

// OKItems sends a successful paged list response.
func OKItems(c *gin.Context, items interface{}, total int64, limit, offset int) {
	c.JSON(http.StatusOK, Response{
		Code:    CodeSuccess,
		Message: "success",
		Data: ListData{
			Items:  items,
			Total:  total,
			Limit:  limit,
			Offset: offset,
		},
	})
}
