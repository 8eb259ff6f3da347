package service

import "errors"

var (
	ErrInvalidOrder = errors.New("invalid order data")
	ErrNotFound     = errors.New("referenced entity not found")
	ErrGateway      = errors.New("payment gateway rejected the request")
	ErrSignature    = errors.New("webhook signature verification failed")
	ErrPersistence  = errors.New("order store unavailable")
)
