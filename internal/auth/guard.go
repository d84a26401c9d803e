package auth

import "github.com/LOUBNATANASSA/project-tasks/internal/model"

// CanMutate is the ownership check: an identity may mutate an owned
// resource iff it is present and it IS the owner. Ownership is assigned
// at creation and never reassigned, so this single comparison is the
// entire authorization model.
//
// The caller decides how a denial is reported — services turn it into a
// Forbidden error, which is deliberately distinct from NotFound: a
// mismatched owner learns the resource exists but may not touch it.
func CanMutate(identity *model.Identity, ownerID string) bool {
	return identity != nil && identity.ID != "" && identity.ID == ownerID
}
