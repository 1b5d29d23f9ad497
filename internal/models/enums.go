package models

import "fmt"

// CylinderType is the nominal weight class of a gas cylinder. It is the
// pricing unit for the whole catalog.
type CylinderType string

const (
	Cylinder3KG   CylinderType = "3kg"
	Cylinder6KG   CylinderType = "6kg"
	Cylinder125KG CylinderType = "12.5kg"
	Cylinder25KG  CylinderType = "25kg"
	Cylinder50KG  CylinderType = "50kg"
)

// CylinderTypes lists every orderable cylinder class in display order.
var CylinderTypes = []CylinderType{
	Cylinder3KG,
	Cylinder6KG,
	Cylinder125KG,
	Cylinder25KG,
	Cylinder50KG,
}

func ParseCylinderType(s string) (CylinderType, error) {
	for _, ct := range CylinderTypes {
		if string(ct) == s {
			return ct, nil
		}
	}
	return "", fmt.Errorf("unknown cylinder type %q", s)
}

type OrderStatus string

const (
	OrderPending        OrderStatus = "pending"
	OrderConfirmed      OrderStatus = "confirmed"
	OrderProcessing     OrderStatus = "processing"
	OrderOutForDelivery OrderStatus = "out_for_delivery"
	OrderDelivered      OrderStatus = "delivered"
	OrderCancelled      OrderStatus = "cancelled"
)

type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentFailed   PaymentStatus = "failed"
	PaymentRefunded PaymentStatus = "refunded"
)

// PaymentMethod identifies how the customer intends to pay. The gateway
// integration itself is out of scope; the choice is recorded on the order.
type PaymentMethod string

const (
	PaymentPaystack     PaymentMethod = "paystack"
	PaymentFlutterwave  PaymentMethod = "flutterwave"
	PaymentBankTransfer PaymentMethod = "bank_transfer"
	PaymentUSSD         PaymentMethod = "ussd"
)

var paymentMethods = []PaymentMethod{
	PaymentPaystack,
	PaymentFlutterwave,
	PaymentBankTransfer,
	PaymentUSSD,
}

func ParsePaymentMethod(s string) (PaymentMethod, error) {
	for _, pm := range paymentMethods {
		if string(pm) == s {
			return pm, nil
		}
	}
	return "", fmt.Errorf("unknown payment method %q", s)
}

type RefillType string

const (
	RefillFull  RefillType = "refill"
	RefillTopUp RefillType = "top_up"
)
