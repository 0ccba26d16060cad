package purchase

import (
	"context"
	"fmt"
	"strings"

	"ielts-genai-prep/internal/auth/domain/model"
	"ielts-genai-prep/internal/auth/domain/repository"
	"ielts-genai-prep/internal/shared/logger"
)

// Store platforms accepted on receipts.
const (
	PlatformApple  = "apple"
	PlatformGoogle = "google"
)

// productEntitlements maps store product IDs to the assessment products they
// unlock. Both stores use the same product naming.
var productEntitlements = map[string]model.AssessmentType{
	"com.ieltsaiprep.academic_writing":  model.AssessmentAcademicWriting,
	"com.ieltsaiprep.general_writing":   model.AssessmentGeneralWriting,
	"com.ieltsaiprep.academic_speaking": model.AssessmentAcademicSpeaking,
	"com.ieltsaiprep.general_speaking":  model.AssessmentGeneralSpeaking,
}

// ReceiptVerifier validates receipt shape and resolves the entitlement a
// product unlocks. The cryptographic receipt check against the Apple/Google
// billing APIs happens upstream in the store webhooks; by the time a receipt
// reaches this service it only needs to be well-formed and map to a known
// product.
type ReceiptVerifier struct {
	log logger.Logger
}

// NewReceiptVerifier creates a new receipt verifier.
func NewReceiptVerifier(log logger.Logger) *ReceiptVerifier {
	return &ReceiptVerifier{
		log: log.WithComponent("receipt_verifier"),
	}
}

// Verify resolves the entitlement for a purchase receipt.
func (v *ReceiptVerifier) Verify(ctx context.Context, receipt repository.PurchaseReceipt) (model.Entitlement, error) {
	platform := strings.ToLower(strings.TrimSpace(receipt.Platform))
	if platform != PlatformApple && platform != PlatformGoogle {
		return nil, fmt.Errorf("%w: unknown platform %q", model.ErrPurchaseDenied, receipt.Platform)
	}
	if strings.TrimSpace(receipt.TransactionID) == "" {
		return nil, fmt.Errorf("%w: missing transaction ID", model.ErrPurchaseDenied)
	}
	if strings.TrimSpace(receipt.Payload) == "" {
		return nil, fmt.Errorf("%w: missing receipt payload", model.ErrPurchaseDenied)
	}

	at, ok := productEntitlements[strings.TrimSpace(receipt.ProductID)]
	if !ok {
		v.log.Warn("receipt for unknown product: ", receipt.ProductID)
		return nil, fmt.Errorf("%w: unknown product %q", model.ErrPurchaseDenied, receipt.ProductID)
	}

	return model.Entitlement{at}, nil
}

// Ensure ReceiptVerifier implements PurchaseVerifier
var _ repository.PurchaseVerifier = (*ReceiptVerifier)(nil)
