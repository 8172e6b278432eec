package model

type User struct {
	ID      string `json:"id,omitempty"`
	Address string `json:"address,omitempty"`
	Name    string `json:"name,omitempty"`
}

type CreateUserRequest struct {
	Address string `json:"address"`
	Name    string `json:"name"`
}

type CreateUserResponse struct {
	ID string `json:"id"`
}

type GetUserRequest struct {
	ID string `json:"id"`
}

type GetUserResponse User
