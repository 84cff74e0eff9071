package articles

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/webshopkit/webshop-backend/pkg/auth"
	"github.com/webshopkit/webshop-backend/pkg/db/models"
	pkgerrors "github.com/webshopkit/webshop-backend/pkg/errors"
)

type articleRepository interface {
	Create(ctx context.Context, article *models.Article) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Article, error)
	Search(ctx context.Context, namePrefix, category string) ([]models.Article, error)
	Update(ctx context.Context, article *models.Article) error
	Discontinue(ctx context.Context, id uuid.UUID) (int64, error)
}

// Service exposes catalog operations. Reads are open to every authenticated
// caller; mutations are staff-only.
type Service interface {
	Create(ctx context.Context, access auth.Access, input CreateArticleInput) (*ArticleDTO, error)
	GetByID(ctx context.Context, id uuid.UUID) (*ArticleDTO, error)
	Search(ctx context.Context, namePrefix, category string) ([]ArticleDTO, error)
	Update(ctx context.Context, access auth.Access, id uuid.UUID, input UpdateArticleInput) (*ArticleDTO, error)
	Discontinue(ctx context.Context, access auth.Access, id uuid.UUID) error
}

type service struct {
	repo articleRepository
}

// NewService builds the articles service.
func NewService(repo articleRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("article repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, access auth.Access, input CreateArticleInput) (*ArticleDTO, error) {
	if !access.IsStaff() {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "staff role required")
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "article name is required")
	}
	if input.Price.LessThan(decimal.Zero) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
	}

	article := &models.Article{
		Name:     input.Name,
		Category: input.Category,
		Price:    input.Price,
	}
	if err := s.repo.Create(ctx, article); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create article")
	}
	return ToDTO(article), nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*ArticleDTO, error) {
	article, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "article not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load article")
	}
	return ToDTO(article), nil
}

func (s *service) Search(ctx context.Context, namePrefix, category string) ([]ArticleDTO, error) {
	rows, err := s.repo.Search(ctx, namePrefix, category)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "search articles")
	}
	out := make([]ArticleDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *ToDTO(&rows[i]))
	}
	return out, nil
}

func (s *service) Update(ctx context.Context, access auth.Access, id uuid.UUID, input UpdateArticleInput) (*ArticleDTO, error) {
	if !access.IsStaff() {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "staff role required")
	}

	article, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "article not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load article")
	}

	if input.Name != nil {
		if strings.TrimSpace(*input.Name) == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "article name cannot be empty")
		}
		article.Name = *input.Name
	}
	if input.Category != nil {
		article.Category = *input.Category
	}
	if input.Price != nil {
		if input.Price.LessThan(decimal.Zero) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
		}
		article.Price = *input.Price
	}

	if err := s.repo.Update(ctx, article); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update article")
	}
	return ToDTO(article), nil
}

func (s *service) Discontinue(ctx context.Context, access auth.Access, id uuid.UUID) error {
	if !access.IsStaff() {
		return pkgerrors.New(pkgerrors.CodeForbidden, "staff role required")
	}
	affected, err := s.repo.Discontinue(ctx, id)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "discontinue article")
	}
	if affected == 0 {
		// either unknown or already discontinued; look to tell apart
		if _, err := s.repo.FindByID(ctx, id); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "article not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load article")
		}
	}
	return nil
}
