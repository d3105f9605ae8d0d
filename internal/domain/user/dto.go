package user

// UserResponse represents user data in API responses
type UserResponse struct {
	ID            string  `json:"id"`
	Email         string  `json:"email"`
	OAuthProvider *string `json:"oauth_provider,omitempty"`
	CreatedAt     string  `json:"created_at"`
}

func ToResponse(u User) UserResponse {
	return UserResponse{
		ID:            u.ID,
		Email:         u.Email,
		OAuthProvider: u.OAuthProvider,
		CreatedAt:     u.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}
