package auth

// Gate is a capability predicate over an authenticated principal.
type Gate func(p *Principal) error

// RequireActive passes active principals.
func RequireActive(p *Principal) error {
	if p == nil || !p.IsActive {
		return forbidden("active account")
	}
	return nil
}

// RequireBusinessOwner passes principals flagged as business owners.
func RequireBusinessOwner(p *Principal) error {
	if p == nil || !p.IsBusinessOwner {
		return forbidden("business owner access")
	}
	return nil
}

// RequireAdmin passes administrators.
func RequireAdmin(p *Principal) error {
	if p == nil || !p.IsAdmin {
		return forbidden("admin access")
	}
	return nil
}

// RequireOwner passes when p created the record. Services call it after
// loading the record, since only they know which field holds the owner.
func RequireOwner(p *Principal, ownerID, resource string) error {
	if p == nil || ownerID == "" || p.ID != ownerID {
		return forbidden("ownership of this " + resource)
	}
	return nil
}

// RequireOwnerOrAdmin is RequireOwner that also lets administrators through.
func RequireOwnerOrAdmin(p *Principal, ownerID, resource string) error {
	if p != nil && p.IsAdmin {
		return nil
	}
	return RequireOwner(p, ownerID, resource)
}
