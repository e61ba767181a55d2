package service

import (
	"net/http"

	"go-task-manager/internal/model"
	"go-task-manager/pkg/apierror"
)

func errValidation(message string, field string) error {
	return apierror.Wrap(model.ErrInvalidInput, "VALIDATION_ERROR", message, field, http.StatusBadRequest)
}

func errUnauthenticated(message string) error {
	return apierror.Wrap(model.ErrUnauthenticated, "UNAUTHORIZED", message, "", http.StatusUnauthorized)
}

func errTaskNotFound() error {
	return apierror.Wrap(model.ErrTaskNotFound, "NOT_FOUND", "task not found", "", http.StatusNotFound)
}
