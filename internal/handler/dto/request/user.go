package request

import "library-api/internal/usecase/commands"

type UpdateUserRequest struct {
	Name *string `json:"name" binding:"omitempty,max=100"`
	Role *string `json:"role" binding:"omitempty,oneof=MEMBER LIBRARIAN ADMIN"`
}

func (r *UpdateUserRequest) ToCommand() commands.UpdateUserRequest {
	return commands.UpdateUserRequest{Name: r.Name, Role: r.Role}
}
