package services

import "errors"

var (
	ErrNotFound          = errors.New("record not found")
	ErrCapacityFull      = errors.New("event is full")
	ErrAlreadyRegistered = errors.New("user already registered for this event")
	ErrEventNotOpen      = errors.New("event is not available for registration")
	ErrPaymentRequired   = errors.New("payment required")
	ErrPaymentNotSettled = errors.New("payment not found or not completed")
	ErrCampaignInactive  = errors.New("campaign is not active")
	ErrGateway           = errors.New("payment gateway error")
	ErrInvalidSignature  = errors.New("invalid notification signature")
)
