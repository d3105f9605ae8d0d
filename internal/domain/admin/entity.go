package admin

import "time"

type Admin struct {
	ID        string
	UserID    string
	Name      string
	Email     string
	CreatedAt time.Time
}
