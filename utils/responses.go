package utils

import "github.com/gofiber/fiber/v2"

// Error kinds. Store failures and validation failures get distinct kinds so
// clients can tell a rejected input from a failed write; authorization and
// not-found responses carry a redirect hint instead of being treated as
// faults.
const (
	KindValidation   = "validation"
	KindStore        = "store"
	KindUnauthorized = "unauthorized"
	KindForbidden    = "forbidden"
	KindNotFound     = "not_found"
)

type SuccessResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

type ErrorResponse struct {
	Success  bool        `json:"success"`
	Kind     string      `json:"kind"`
	Message  string      `json:"message"`
	Redirect string      `json:"redirect,omitempty"`
	Details  interface{} `json:"details,omitempty"`
}

// Success sends a success envelope.
func Success(c *fiber.Ctx, status int, data interface{}) error {
	return c.Status(status).JSON(SuccessResponse{
		Success: true,
		Data:    data,
	})
}

// Created sends 201 Created.
func Created(c *fiber.Ctx, data interface{}) error {
	return Success(c, fiber.StatusCreated, data)
}

// BadRequest sends 400 with the validation kind (malformed request body).
func BadRequest(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
		Kind:    KindValidation,
		Message: message,
	})
}

// ValidationError sends 422 with per-field details. No store call was made.
func ValidationError(c *fiber.Ctx, details map[string]string) error {
	return c.Status(fiber.StatusUnprocessableEntity).JSON(ErrorResponse{
		Kind:    KindValidation,
		Message: "Validation failed",
		Details: details,
	})
}

// StoreError sends 500 for a failed read or write against the store.
func StoreError(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
		Kind:    KindStore,
		Message: message,
	})
}

// Unauthorized sends 401.
func Unauthorized(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
		Kind:     KindUnauthorized,
		Message:  message,
		Redirect: "/login",
	})
}

// Forbidden sends 403 with a redirect hint for the client router.
func Forbidden(c *fiber.Ctx, message, redirect string) error {
	return c.Status(fiber.StatusForbidden).JSON(ErrorResponse{
		Kind:     KindForbidden,
		Message:  message,
		Redirect: redirect,
	})
}

// NotFound sends 404 with a redirect hint back to a listing screen.
func NotFound(c *fiber.Ctx, message, redirect string) error {
	return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
		Kind:     KindNotFound,
		Message:  message,
		Redirect: redirect,
	})
}
