package purchase

import (
	"context"
	"testing"

	"ielts-genai-prep/internal/auth/domain/model"
	"ielts-genai-prep/internal/auth/domain/repository"
	"ielts-genai-prep/internal/shared/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validReceipt() repository.PurchaseReceipt {
	return repository.PurchaseReceipt{
		Platform:      PlatformApple,
		ProductID:     "com.ieltsaiprep.academic_writing",
		TransactionID: "txn-1",
		Payload:       "opaque-receipt-data",
	}
}

func TestVerify_KnownProducts(t *testing.T) {
	v := NewReceiptVerifier(logger.NewLogger())

	for product, want := range productEntitlements {
		receipt := validReceipt()
		receipt.ProductID = product

		ent, err := v.Verify(context.Background(), receipt)
		require.NoError(t, err, product)
		assert.Equal(t, model.Entitlement{want}, ent)
	}
}

func TestVerify_GooglePlatform(t *testing.T) {
	v := NewReceiptVerifier(logger.NewLogger())

	receipt := validReceipt()
	receipt.Platform = "Google"

	ent, err := v.Verify(context.Background(), receipt)
	require.NoError(t, err)
	assert.True(t, ent.Contains(model.AssessmentAcademicWriting))
}

func TestVerify_Rejections(t *testing.T) {
	v := NewReceiptVerifier(logger.NewLogger())

	cases := []struct {
		name   string
		mutate func(*repository.PurchaseReceipt)
	}{
		{"unknown platform", func(r *repository.PurchaseReceipt) { r.Platform = "amazon" }},
		{"missing transaction", func(r *repository.PurchaseReceipt) { r.TransactionID = " " }},
		{"missing payload", func(r *repository.PurchaseReceipt) { r.Payload = "" }},
		{"unknown product", func(r *repository.PurchaseReceipt) { r.ProductID = "com.ieltsaiprep.listening" }},
		{"empty product", func(r *repository.PurchaseReceipt) { r.ProductID = "" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			receipt := validReceipt()
			tc.mutate(&receipt)

			ent, err := v.Verify(context.Background(), receipt)
			assert.ErrorIs(t, err, model.ErrPurchaseDenied)
			assert.Nil(t, ent)
		})
	}
}
