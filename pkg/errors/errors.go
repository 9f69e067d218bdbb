package errors

import "github.com/flaboy/pin/usererrors"

// 支付回调相关错误
var (
	ErrProviderNotFound     = usererrors.New("payment.provider_not_found", "Payment provider not found")
	ErrInvalidSignature     = usererrors.New("payment.invalid_signature", "Invalid notification signature")
	ErrInvalidMerchant      = usererrors.New("payment.invalid_merchant", "Merchant identifier mismatch")
	ErrUntrustedSource      = usererrors.New("payment.untrusted_source", "Notification source not trusted")
	ErrMalformedPayload     = usererrors.New("payment.malformed_payload", "Malformed notification payload")
	ErrMissingOrderRef      = usererrors.New("payment.missing_order_reference", "Notification carries no order reference")
	ErrRemoteValidateFailed = usererrors.New("payment.remote_validate_failed", "Gateway did not confirm the notification")
)

// 对账与签发相关错误
var (
	ErrOrderNotPending   = usererrors.New("reconcile.order_not_pending", "Order is no longer awaiting payment")
	ErrOrderNotFound     = usererrors.New("reconcile.order_not_found", "No matching pending order")
	ErrCodeGeneration    = usererrors.New("voucher.code_generation_failed", "Failed to generate a unique voucher code")
	ErrIssuanceConflict  = usererrors.New("voucher.already_issued", "Order already has voucher codes")
	ErrInvalidQuantity   = usererrors.New("voucher.invalid_quantity", "Order quantity must be positive")
	ErrGiftCardOverdrawn = usererrors.New("giftcard.balance_exceeds_value", "Gift card balance may not exceed its value")
)
