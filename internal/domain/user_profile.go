package domain

import "time"

// UserProfile is the extended profile row kept in the usuario table. It is
// created out-of-band when a new identity registers with the auth provider;
// this service only reads it, keyed by the provider's opaque uid.
type UserProfile struct {
	ID        int64
	AuthUID   string
	Name      string
	Surname   string
	Role      Role
	CreatedAt time.Time
}

// FullName joins name and surname the way history messages render actors.
func (p *UserProfile) FullName() string {
	if p.Surname == "" {
		return p.Name
	}
	return p.Name + " " + p.Surname
}
