package service

import "github.com/muralia/muralia/internal/domain"

// CanMutate reports whether the account may mutate the given image.
// Only the owning account may delete (or, in the future, edit) an image;
// an anonymous requester may never mutate.
func CanMutate(account *domain.Account, image *domain.Image) bool {
	return account != nil && image != nil && account.ID == image.OwnerID
}
