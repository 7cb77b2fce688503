package service

import "swayum-canteen/order-svc/internal/domain"

type MenuService struct {
	repository MenuRepository
}

func NewMenuService(repository MenuRepository) *MenuService {
	return &MenuService{repository: repository}
}

func (s *MenuService) ListItems(category string) ([]domain.MenuItem, error) {
	return s.repository.ListItems(category)
}

func (s *MenuService) GetItem(id int) (*domain.MenuItem, error) {
	return s.repository.GetItem(id)
}
