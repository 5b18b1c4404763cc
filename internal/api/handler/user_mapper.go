package handler

import (
	"github.com/userdesk/accounts-api/internal/core/domain"
	"github.com/userdesk/accounts-api/internal/core/ports"
)

// --- Request → Service input ---

func toSignupInput(req signupRequest) ports.SignupInput {
	confirm := req.PasswordConfirm
	if confirm == "" {
		confirm = req.PasswordConfirmation
	}
	return ports.SignupInput{
		Username:        req.Username,
		Email:           req.Email,
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Password:        req.Password,
		PasswordConfirm: confirm,
	}
}

func toUpdateInput(id, actorRole string, fields []string, req updateUserRequest) ports.UpdateUserInput {
	return ports.UpdateUserInput{
		ID:          id,
		ActorRole:   actorRole,
		Fields:      fields,
		Email:       req.Email,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		IsActive:    req.IsActive,
		IsStaff:     req.IsStaff,
		IsSuperuser: req.IsSuperuser,
	}
}

// --- Domain → Response ---

func toUserResponse(u *domain.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func toAdminUserResponse(u *domain.User) adminUserResponse {
	return adminUserResponse{
		userResponse: toUserResponse(u),
		IsStaff:      u.IsStaff,
		IsSuperuser:  u.IsSuperuser,
	}
}

func toListUsersResponse(res *ports.ListUsersResult) listUsersResponse {
	items := make([]adminUserRow, 0, len(res.Items))
	for _, u := range res.Items {
		items = append(items, adminUserRow{
			ID:        u.ID,
			Username:  u.Username,
			Email:     u.Email,
			FirstName: u.FirstName,
			LastName:  u.LastName,
			IsStaff:   u.IsStaff,
			CreatedAt: u.CreatedAt,
		})
	}
	return listUsersResponse{
		Items:      items,
		Total:      res.Total,
		Page:       res.Page,
		Limit:      res.Limit,
		TotalPages: res.TotalPages,
	}
}
