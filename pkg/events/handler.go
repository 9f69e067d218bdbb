package events

import "github.com/flaboy/aira-giftcard/pkg/types"

type EventHandler interface {
	OnOrdersReconciled(event *types.OrdersReconciledEvent) error
	OnVouchersIssued(event *types.VouchersIssuedEvent) error
}

var handler EventHandler

func SetEventHandler(h EventHandler) {
	handler = h
}

func EmitOrdersReconciled(event *types.OrdersReconciledEvent) error {
	if handler != nil {
		return handler.OnOrdersReconciled(event)
	}
	return nil
}

func EmitVouchersIssued(event *types.VouchersIssuedEvent) error {
	if handler != nil {
		return handler.OnVouchersIssued(event)
	}
	return nil
}
