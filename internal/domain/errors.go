package domain

import "errors"

// Доменные ошибки - используются во всех слоях приложения

// Car errors
var (
	ErrCarNotFound      = errors.New("car not found")
	ErrInvalidCarData   = errors.New("invalid car data")
	ErrInvalidPlate     = errors.New("invalid plate number")
	ErrCarHasRentals    = errors.New("car has active rentals")
	ErrInvalidCarStatus = errors.New("invalid car status")
)

// Client errors
var (
	ErrClientNotFound    = errors.New("client not found")
	ErrInvalidClientData = errors.New("invalid client data")
	ErrClientHasRentals  = errors.New("client has active rentals")
)

// Rental errors
var (
	ErrRentalNotFound          = errors.New("rental not found")
	ErrInvalidRentalData       = errors.New("invalid rental data")
	ErrInvalidDateRange        = errors.New("invalid date range")
	ErrSchedulingConflict      = errors.New("rental dates overlap an existing booking for this car")
	ErrInvalidStatusTransition = errors.New("invalid rental status transition")
)

// Expense errors
var (
	ErrExpenseNotFound    = errors.New("expense not found")
	ErrInvalidExpenseData = errors.New("invalid expense data")
)

// User errors
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrInvalidUserData    = errors.New("invalid user data")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Authorization errors
var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrTokenExpired = errors.New("token expired")
	ErrInvalidToken = errors.New("invalid token")
)

// General errors
var (
	ErrInternal   = errors.New("internal server error")
	ErrNotFound   = errors.New("not found")
	ErrBadRequest = errors.New("bad request")
	ErrConflict   = errors.New("conflict")
)
