package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sakif/memories/internal/apperror"
	"github.com/sakif/memories/internal/model"
	"github.com/sakif/memories/internal/repository"
)

// PoemService handles the poetry catalog.
type PoemService struct {
	repo   repository.PoemRepository
	logger *slog.Logger
}

func NewPoemService(repo repository.PoemRepository, logger *slog.Logger) *PoemService {
	return &PoemService{repo: repo, logger: logger}
}

func validateLanguage(l model.Language) error {
	if !l.Valid() {
		return apperror.ValidationFailed("language",
			fmt.Sprintf("language must be %q or %q", model.LanguageEnglish, model.LanguageHindi))
	}
	return nil
}

// ValidateAuthor is exported for the handler's ?author= filter.
func ValidateAuthor(a model.Author) error {
	if !a.Valid() {
		return apperror.ValidationFailed("author",
			fmt.Sprintf("author must be %q or %q", model.AuthorNikita, model.AuthorShubham))
	}
	return nil
}

// Create stores a poem. Author is required and fixed forever; language
// defaults to english.
func (s *PoemService) Create(ctx context.Context, title, content string, author model.Author, language model.Language) (*model.Poem, error) {
	if err := ValidateAuthor(author); err != nil {
		return nil, err
	}
	if language == "" {
		language = model.LanguageEnglish
	}
	if err := validateLanguage(language); err != nil {
		return nil, err
	}

	poem := &model.Poem{Title: title, Content: content, Author: author, Language: language}
	if err := s.repo.Create(ctx, poem); err != nil {
		s.logger.Error("failed to create poem", slog.String("error", err.Error()))
		return nil, fmt.Errorf("creating poem: %w", err)
	}

	s.logger.Info("poem created",
		slog.String("id", poem.ID),
		slog.String("author", string(poem.Author)),
	)
	return poem, nil
}

func (s *PoemService) GetByID(ctx context.Context, id string) (*model.Poem, error) {
	id, err := requireID("poem", id)
	if err != nil {
		return nil, err
	}
	return s.repo.GetByID(ctx, id)
}

// List returns poems newest first. An empty author lists everyone's.
func (s *PoemService) List(ctx context.Context, author model.Author) ([]model.Poem, error) {
	if author != "" {
		if err := ValidateAuthor(author); err != nil {
			return nil, err
		}
	}

	poems, err := s.repo.List(ctx, repository.PoemFilter{Author: author})
	if err != nil {
		s.logger.Error("failed to list poems", slog.String("error", err.Error()))
		return nil, fmt.Errorf("listing poems: %w", err)
	}
	return poems, nil
}

// Update applies the fields present in upd. The repository bumps UpdatedAt.
func (s *PoemService) Update(ctx context.Context, id string, upd model.PoemUpdate) (*model.Poem, error) {
	id, err := requireID("poem", id)
	if err != nil {
		return nil, err
	}
	if upd.Language != nil {
		if err := validateLanguage(*upd.Language); err != nil {
			return nil, err
		}
	}

	poem, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if upd.Title != nil {
		poem.Title = *upd.Title
	}
	if upd.Content != nil {
		poem.Content = *upd.Content
	}
	if upd.Language != nil {
		poem.Language = *upd.Language
	}

	if err := s.repo.Update(ctx, poem); err != nil {
		if apperror.IsNotFound(err) {
			return nil, err
		}
		s.logger.Error("failed to update poem",
			slog.String("id", id),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("updating poem: %w", err)
	}

	s.logger.Info("poem updated", slog.String("id", id))
	return poem, nil
}

// Delete removes a poem. A missing id is not an error.
func (s *PoemService) Delete(ctx context.Context, id string) error {
	return deleteIdempotent(ctx, s.logger, "poem", id, s.repo.Delete)
}
