package models

import (
	"errors"
	"strconv"
	"strings"
)

type ArqueoStatus string

const (
	ArqueoStatusOpen   ArqueoStatus = "abierto"
	ArqueoStatusClosed ArqueoStatus = "cerrado"
)

func (s ArqueoStatus) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(string(s))), nil
}

func (s *ArqueoStatus) UnmarshalJSON(b []byte) error {
	str, err := strconv.Unquote(string(b))
	if err != nil {
		return errors.New("arqueo status must be string")
	}

	arqueoStatus := map[string]ArqueoStatus{
		"abierto": ArqueoStatusOpen,
		"cerrado": ArqueoStatusClosed,
	}

	var ok bool
	*s, ok = arqueoStatus[str]
	if !ok {
		return errors.New("invalid arqueo status")
	}
	return nil
}

type SaleStatus string

const (
	SaleStatusPending   SaleStatus = "pendiente"
	SaleStatusConfirmed SaleStatus = "confirmada"
	SaleStatusVoid      SaleStatus = "anulada"
)

func (s SaleStatus) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(string(s))), nil
}

func (s *SaleStatus) UnmarshalJSON(b []byte) error {
	str, err := strconv.Unquote(string(b))
	if err != nil {
		return errors.New("sale status must be string")
	}

	saleStatus := map[string]SaleStatus{
		"pendiente":  SaleStatusPending,
		"confirmada": SaleStatusConfirmed,
		"anulada":    SaleStatusVoid,
	}

	var ok bool
	*s, ok = saleStatus[str]
	if !ok {
		return errors.New("invalid sale status")
	}
	return nil
}

type PaymentMethod string

const (
	PaymentMethodCash     PaymentMethod = "efectivo"
	PaymentMethodCard     PaymentMethod = "tarjeta"
	PaymentMethodTransfer PaymentMethod = "transferencia"
	PaymentMethodVoucher  PaymentMethod = "vale"
	PaymentMethodCoupon   PaymentMethod = "cupon"
)

// PaymentMethods lists every method in display order.
var PaymentMethods = []PaymentMethod{
	PaymentMethodCash,
	PaymentMethodCard,
	PaymentMethodTransfer,
	PaymentMethodVoucher,
	PaymentMethodCoupon,
}

var paymentMethodLabels = map[PaymentMethod]string{
	PaymentMethodCash:     "Efectivo",
	PaymentMethodCard:     "Tarjeta",
	PaymentMethodTransfer: "Transferencia",
	PaymentMethodVoucher:  "Vale",
	PaymentMethodCoupon:   "Cupón",
}

// Label is the name shown on screen and in exported sheets.
func (m PaymentMethod) Label() string {
	if l, ok := paymentMethodLabels[m]; ok {
		return l
	}
	return string(m)
}

func ParsePaymentMethod(str string) (PaymentMethod, error) {
	m := PaymentMethod(strings.ToLower(strings.TrimSpace(str)))
	if _, ok := paymentMethodLabels[m]; !ok {
		return "", errors.New("invalid payment method " + strconv.Quote(str))
	}
	return m, nil
}

func (m PaymentMethod) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(string(m))), nil
}

func (m *PaymentMethod) UnmarshalJSON(b []byte) error {
	str, err := strconv.Unquote(string(b))
	if err != nil {
		return errors.New("payment method must be string")
	}
	*m, err = ParsePaymentMethod(str)
	return err
}
