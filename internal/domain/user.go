package domain

// User is the staff profile returned by login and persisted with the token
type User struct {
	ID          int      `json:"id"`
	StaffID     string   `json:"staffId"`
	FullName    string   `json:"fullName"`
	Department  string   `json:"department"`
	Role        string   `json:"role"`
	Permissions []string `json:"permissions,omitempty"`
}

// Can reports whether the profile carries the given permission
func (u User) Can(permission string) bool {
	for _, p := range u.Permissions {
		if p == permission {
			return true
		}
	}
	return false
}
