package usecase

import (
	"context"
	"fmt"

	"petromatch/internal/domain/job"
	"petromatch/internal/repository"
)

type BoardUsecase interface {
	List(ctx context.Context) ([]job.Board, error)
}

type Boards struct {
	repo repository.BoardRepository
}

func NewBoards(repo repository.BoardRepository) *Boards {
	return &Boards{repo: repo}
}

func (s *Boards) List(ctx context.Context) ([]job.Board, error) {
	boards, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: list boards: %v", ErrInternal, err)
	}
	return boards, nil
}
