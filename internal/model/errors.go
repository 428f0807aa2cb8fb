package model

import "errors"

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrVoucherNotFound  = errors.New("voucher not found")
	ErrVoucherExhausted = errors.New("voucher is exhausted")
	ErrVoucherClaimed   = errors.New("voucher already claimed by user")
	ErrBonusClaimed     = errors.New("daily bonus already claimed today")
)
