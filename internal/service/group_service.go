package service

import (
	"fmt"
	"strings"

	"github.com/MiraclePlan/miracleplan-backend/internal/domain"
	"github.com/MiraclePlan/miracleplan-backend/internal/storage"
)

type GroupService struct {
	storage *storage.Storage
}

func NewGroupService(s *storage.Storage) *GroupService {
	return &GroupService{storage: s}
}

// Create makes a new group with the caller as creator and first member.
func (s *GroupService) Create(creatorID int64, name string) (*domain.Group, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("group name cannot be empty: %w", domain.ErrInvalid)
	}

	group := &domain.Group{
		Name:      name,
		CreatorID: creatorID,
	}
	if err := s.storage.CreateGroup(group); err != nil {
		return nil, fmt.Errorf("create group: %w", err)
	}
	return group, nil
}

// Delete removes a group. Only the creator may do this.
func (s *GroupService) Delete(groupID, userID int64) error {
	group, err := s.get(groupID)
	if err != nil {
		return err
	}
	if group.CreatorID != userID {
		return fmt.Errorf("group %d: %w", groupID, domain.ErrForbidden)
	}
	return s.storage.DeleteGroup(groupID)
}

func (s *GroupService) Join(groupID, userID int64) (*domain.Group, error) {
	group, err := s.get(groupID)
	if err != nil {
		return nil, err
	}
	if err := s.storage.AddMember(groupID, userID); err != nil {
		return nil, fmt.Errorf("join group: %w", err)
	}
	return group, nil
}

func (s *GroupService) Leave(groupID, userID int64) (*domain.Group, error) {
	group, err := s.get(groupID)
	if err != nil {
		return nil, err
	}
	removed, err := s.storage.RemoveMember(groupID, userID)
	if err != nil {
		return nil, fmt.Errorf("leave group: %w", err)
	}
	if !removed {
		return nil, fmt.Errorf("membership in group %d: %w", groupID, domain.ErrNotFound)
	}
	return group, nil
}

func (s *GroupService) Members(groupID int64) ([]*domain.User, error) {
	if _, err := s.get(groupID); err != nil {
		return nil, err
	}
	return s.storage.ListGroupMembers(groupID)
}

func (s *GroupService) Joined(userID int64) ([]*domain.Group, error) {
	return s.storage.ListJoinedGroups(userID)
}

func (s *GroupService) NotJoined(userID int64) ([]*domain.Group, error) {
	return s.storage.ListNotJoinedGroups(userID)
}

func (s *GroupService) get(groupID int64) (*domain.Group, error) {
	group, err := s.storage.GetGroup(groupID)
	if err != nil {
		return nil, fmt.Errorf("get group: %w", err)
	}
	if group == nil {
		return nil, fmt.Errorf("group %d: %w", groupID, domain.ErrNotFound)
	}
	return group, nil
}
