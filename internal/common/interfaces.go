package common

import "context"

// CodeSender delivers a phone verification code out of band (SMS gateway).
type CodeSender interface {
	SendCode(ctx context.Context, phone, code string) error
}
