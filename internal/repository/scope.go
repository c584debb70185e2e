package repository

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/nasiyabro/nasiya-backend/internal/domain"
)

// Scope is the visibility filter applied to every list and aggregate query.
// Admins see everything; everyone else is fenced to their magazine, and in
// individual business mode additionally to their own records.
type Scope struct {
	All        bool
	MagazineID uuid.UUID
	SellerID   uuid.UUID
}

// ScopeFor derives the query scope from the actor and the magazine's
// business mode.
func ScopeFor(actor domain.Actor, businessMode string) Scope {
	if actor.IsAdmin() {
		return Scope{All: true}
	}
	s := Scope{MagazineID: actor.MagazineID}
	if businessMode == domain.BusinessModeIndividual {
		s.SellerID = actor.UserID
	}
	return s
}

// filter appends scope conditions for the given table alias. args grows by
// however many placeholders the fragment uses.
func (s Scope) filter(alias string, args *[]interface{}) string {
	if s.All {
		return ""
	}
	*args = append(*args, s.MagazineID)
	cond := fmt.Sprintf(" AND %s.magazine_id = $%d", alias, len(*args))
	if s.SellerID != uuid.Nil {
		*args = append(*args, s.SellerID)
		cond += fmt.Sprintf(" AND %s.seller_id = $%d", alias, len(*args))
	}
	return cond
}

// Allows reports whether a record in the given magazine is visible to the
// scope. Seller fencing is checked by callers that know the record's seller.
func (s Scope) Allows(magazineID uuid.UUID) bool {
	return s.All || s.MagazineID == magazineID
}
