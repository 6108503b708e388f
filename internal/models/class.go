package models

// ClassInfo represents the class a mooc belongs to
type ClassInfo struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	OwnerID int    `json:"ownerId"`
}
