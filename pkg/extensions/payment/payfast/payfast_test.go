package payfast

import (
	"crypto/md5"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/flaboy/aira-giftcard/pkg/config"
	"github.com/flaboy/aira-giftcard/pkg/errors"
	"github.com/flaboy/aira-giftcard/pkg/extensions/payment/types"
)

func testConfig(t *testing.T) {
	t.Helper()
	cfg := &config.CommenceConfig{}
	cfg.PayFast.MerchantID = "10000100"
	cfg.PayFast.Passphrase = "secret"
	config.Config = cfg
}

func signedParams(t *testing.T, params []Param) []Param {
	t.Helper()
	return append(params, Param{Key: "signature", Value: Signature(params, config.Config.PayFast.Passphrase)})
}

func itnParams(orderNumber string) []Param {
	return []Param{
		{Key: "m_payment_id", Value: orderNumber},
		{Key: "pf_payment_id", Value: "PF123"},
		{Key: "payment_status", Value: "COMPLETE"},
		{Key: "amount_gross", Value: "150.00"},
		{Key: "merchant_id", Value: "10000100"},
		{Key: "email_address", Value: "buyer@example.com"},
	}
}

func TestSignatureKnownVector(t *testing.T) {
	params := []Param{
		{Key: "m_payment_id", Value: "ORD-1"},
		{Key: "amount_gross", Value: "150.00"},
	}

	sum := md5.Sum([]byte("m_payment_id=ORD-1&amount_gross=150.00&passphrase=secret"))
	require.Equal(t, hex.EncodeToString(sum[:]), Signature(params, "secret"))
}

func TestSignatureExcludesSignatureField(t *testing.T) {
	params := []Param{{Key: "m_payment_id", Value: "ORD-1"}}
	withSig := append(params, Param{Key: "signature", Value: "junk"})
	require.Equal(t, Signature(params, ""), Signature(withSig, ""))
}

func TestVerifyITNAcceptsSignedNotification(t *testing.T) {
	testConfig(t)
	p := &PayFast{}

	conf, err := p.verifyITN(signedParams(t, itnParams("ORD-1")))
	require.NoError(t, err)
	require.Equal(t, "payfast", conf.Provider)
	require.Equal(t, "PF123", conf.Reference)
	require.Equal(t, types.StatusComplete, conf.Status)
	require.Equal(t, "COMPLETE", conf.RawStatus)
	require.Equal(t, "ORD-1", conf.OrderNumber)
	require.Equal(t, "150", conf.GrossAmount.String())
	require.Equal(t, "ZAR", conf.Currency)
	require.True(t, conf.Complete())
}

func TestVerifyITNRejectsTamperedAmount(t *testing.T) {
	testConfig(t)
	p := &PayFast{}

	params := signedParams(t, itnParams("ORD-1"))
	for i := range params {
		if params[i].Key == "amount_gross" {
			params[i].Value = "9999.00"
		}
	}

	_, err := p.verifyITN(params)
	require.ErrorIs(t, err, errors.ErrInvalidSignature)
}

func TestVerifyITNRejectsMissingSignature(t *testing.T) {
	testConfig(t)
	p := &PayFast{}

	_, err := p.verifyITN(itnParams("ORD-1"))
	require.ErrorIs(t, err, errors.ErrInvalidSignature)
}

func TestVerifyITNRejectsWrongMerchant(t *testing.T) {
	testConfig(t)
	p := &PayFast{}

	params := itnParams("ORD-1")
	for i := range params {
		if params[i].Key == "merchant_id" {
			params[i].Value = "20000200"
		}
	}

	_, err := p.verifyITN(signedParams(t, params))
	require.ErrorIs(t, err, errors.ErrInvalidMerchant)
}

func TestVerifyITNParsesBulkOrderNumbers(t *testing.T) {
	testConfig(t)
	p := &PayFast{}

	params := append(itnParams("ORD-1"), Param{Key: "custom_str1", Value: "ORD-1, ORD-2,ORD-3"})
	conf, err := p.verifyITN(signedParams(t, params))
	require.NoError(t, err)
	require.Equal(t, []string{"ORD-1", "ORD-2", "ORD-3"}, conf.BulkOrderNumbers)
}

func TestVerifyITNNonCompleteStatus(t *testing.T) {
	testConfig(t)
	p := &PayFast{}

	for raw, normalized := range map[string]string{
		"FAILED":    types.StatusFailed,
		"CANCELLED": types.StatusCancelled,
		"PENDING":   types.StatusPending,
	} {
		params := itnParams("ORD-1")
		for i := range params {
			if params[i].Key == "payment_status" {
				params[i].Value = raw
			}
		}

		conf, err := p.verifyITN(signedParams(t, params))
		require.NoError(t, err)
		require.Equal(t, normalized, conf.Status, raw)
		require.False(t, conf.Complete())
	}
}

func TestParseOrderedFormPreservesOrder(t *testing.T) {
	params, err := ParseOrderedForm("b=2&a=1&c=hello+world&d=%26x")
	require.NoError(t, err)
	require.Equal(t, []Param{
		{Key: "b", Value: "2"},
		{Key: "a", Value: "1"},
		{Key: "c", Value: "hello world"},
		{Key: "d", Value: "&x"},
	}, params)
}

func TestParseOrderedFormRejectsBadEncoding(t *testing.T) {
	_, err := ParseOrderedForm("a=%zz")
	require.Error(t, err)
}
