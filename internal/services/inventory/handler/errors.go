package handler

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ItemNotFoundError aborts a procedure that references an unknown item.
type ItemNotFoundError struct {
	ItemID int64
}

func (e *ItemNotFoundError) Error() string {
	return fmt.Sprintf("Medical item with ID %d not found", e.ItemID)
}

func (e *ItemNotFoundError) GRPCStatus() *status.Status {
	return status.New(codes.NotFound, e.Error())
}

// InsufficientStockError aborts a procedure that would drive an item's stock
// below zero.
type InsufficientStockError struct {
	ItemID    int64
	ItemName  string
	Available int32
	Required  int32
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("Insufficient stock for item %s. Available: %d, Required: %d",
		e.ItemName, e.Available, e.Required)
}

func (e *InsufficientStockError) GRPCStatus() *status.Status {
	return status.New(codes.FailedPrecondition, e.Error())
}

type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) GRPCStatus() *status.Status {
	return status.New(codes.InvalidArgument, e.Message)
}

func invalid(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

func newValidationError(errs validator.ValidationErrors) *ValidationError {
	msgs := make([]string, 0, len(errs))
	for _, fe := range errs {
		if fe.Param() != "" {
			msgs = append(msgs, fmt.Sprintf("%s must satisfy %s=%s", fe.Namespace(), fe.Tag(), fe.Param()))
		} else {
			msgs = append(msgs, fmt.Sprintf("%s must satisfy %s", fe.Namespace(), fe.Tag()))
		}
	}
	return &ValidationError{Message: "invalid request: " + strings.Join(msgs, "; ")}
}
