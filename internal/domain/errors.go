package domain

import "errors"

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrServiceNotFound   = errors.New("service not found")
	ErrBookingNotFound   = errors.New("booking not found")
	ErrGoodsNotFound     = errors.New("goods not found")
	ErrOrderNotFound     = errors.New("order not found")
	ErrWorkNotFound      = errors.New("work not found")
	ErrNewsNotFound      = errors.New("news not found")
	ErrReviewNotFound    = errors.New("review not found")
	ErrTokenNotFound     = errors.New("auth token not found")
	ErrSessionNotFound   = errors.New("session not found")
	ErrSlotTaken         = errors.New("slot already booked")
	ErrStatusChanged     = errors.New("status changed concurrently")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrDuplicateReview   = errors.New("review already exists for booking")
	ErrDuplicateSlug     = errors.New("slug already exists")
	ErrDuplicateEmail    = errors.New("email already registered")
)
