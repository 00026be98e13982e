package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"storefront/api"
	models "storefront/model"
)

func (s *Service) LoadUsers(ctx context.Context) ([]models.User, error) {
	us, err := s.backend.ListUsers(ctx)
	if err != nil {
		return nil, fail(msgLoadUsers, err)
	}
	return us, nil
}

// SaveUser creates a user when editingID is 0 and updates it otherwise.
// The backend answers 400 when the email belongs to someone else.
func (s *Service) SaveUser(ctx context.Context, editingID int64, name, email string) (string, error) {
	u := models.User{Name: strings.TrimSpace(name), Email: strings.TrimSpace(email)}
	if u.Name == "" || u.Email == "" {
		return "", fail(msgFillFields, nil)
	}

	var err error
	msg := "User created successfully!"
	if editingID != 0 {
		_, err = s.backend.UpdateUser(ctx, editingID, u)
		msg = "User updated successfully!"
	} else {
		_, err = s.backend.CreateUser(ctx, u)
	}
	if err != nil {
		if api.IsBadRequest(err) {
			return "", fail(msgEmailInUse, err)
		}
		return "", fail(msgSaveUser, err)
	}
	return msg, nil
}

// DeleteUser removes user id and, when it is the one currently selected,
// clears the selection stored under sessionKey. The deletion is reported as
// done even if clearing the selection fails.
func (s *Service) DeleteUser(ctx context.Context, sessionKey string, current *models.User, id int64) (string, error) {
	if err := s.backend.DeleteUser(ctx, id); err != nil {
		return "", fail(msgDeleteUser, err)
	}
	if current != nil && current.ID == id {
		if err := s.DeselectUser(ctx, sessionKey); err != nil {
			s.log.Warn("clear selection of deleted user", zap.Int64("user_id", id), zap.Error(err))
		}
	}
	return "User deleted successfully!", nil
}
