package application

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"

	catalogtypes "github.com/Simon-Kral/Coderr/internal/domains/catalog/application/types"
)

type normalizedCreateOfferInput struct {
	OwnerID     int64              `json:"ownerId"`
	Title       string             `json:"title"`
	Image       string             `json:"image"`
	Description string             `json:"description"`
	Details     []normalizedDetail `json:"details"`
}

type normalizedDetail struct {
	Title              string   `json:"title"`
	Revisions          int      `json:"revisions"`
	DeliveryTimeInDays int      `json:"deliveryTimeInDays"`
	Price              string   `json:"price"`
	Features           []string `json:"features"`
	Tier               string   `json:"tier"`
}

// FingerprintCreateOffer builds a deterministic hash of the create-offer payload (excluding the idempotency key).
func FingerprintCreateOffer(input catalogtypes.CreateOfferInput) (string, error) {
	normalized := normalizedCreateOfferInput{
		OwnerID:     input.OwnerID,
		Title:       input.Title,
		Image:       input.Image,
		Description: input.Description,
	}
	for _, detail := range input.Details {
		normalized.Details = append(normalized.Details, normalizedDetail{
			Title:              detail.Title,
			Revisions:          detail.Revisions,
			DeliveryTimeInDays: detail.DeliveryTimeInDays,
			Price:              detail.Price.String(),
			Features:           append([]string{}, detail.Features...),
			Tier:               string(detail.Tier),
		})
	}
	sort.Slice(normalized.Details, func(i, j int) bool {
		return normalized.Details[i].Tier < normalized.Details[j].Tier
	})
	payload, err := json.Marshal(normalized)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:]), nil
}
