package domain

import "errors"

var (
	ErrInvalidRating   = errors.New("rating must be between 1 and 5")
	ErrInvalidBusiness = errors.New("business account id must be greater than zero")
	ErrInvalidReviewer = errors.New("reviewer account id must be greater than zero")
)

// Review is one customer's verdict on a business account. A reviewer may hold
// at most one review per business.
type Review struct {
	ID          int64
	BusinessID  int64
	ReviewerID  int64
	Rating      int
	Description string
}

// NewReview validates the invariants and builds a review.
func NewReview(businessID, reviewerID int64, rating int, description string) (*Review, error) {
	if businessID <= 0 {
		return nil, ErrInvalidBusiness
	}
	if reviewerID <= 0 {
		return nil, ErrInvalidReviewer
	}
	review := &Review{
		BusinessID:  businessID,
		ReviewerID:  reviewerID,
		Description: description,
	}
	if err := review.SetRating(rating); err != nil {
		return nil, err
	}
	return review, nil
}

// SetRating stores a star rating in the 1 to 5 range.
func (r *Review) SetRating(rating int) error {
	if rating < 1 || rating > 5 {
		return ErrInvalidRating
	}
	r.Rating = rating
	return nil
}

// UpdateDescription replaces the review text.
func (r *Review) UpdateDescription(description string) {
	r.Description = description
}

// Clone returns a copy of the review.
func (r *Review) Clone() *Review {
	if r == nil {
		return nil
	}
	copy := *r
	return &copy
}
