package commands

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"library-api/internal/domain/book"
	"library-api/internal/pkg/clock"
	"library-api/internal/pkg/errs"
	"library-api/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrSummaryNotConfigured = errs.New("AI summary is not configured")
	ErrSummaryUpstream      = errs.New("AI summary generation failed")
)

const summarySystemPrompt = "You are a professional librarian and book reviewer. Generate accurate, helpful book descriptions."

type SummaryResult struct {
	Book       *book.Book
	Summary    string
	TokensUsed int
}

type SummaryCommands interface {
	GenerateSummary(ctx context.Context, bookID uuid.UUID) (*SummaryResult, error)
}

type summaryUseCaseImpl struct {
	uow       shared.UnitOfWork
	completer TextCompleter
	clock     clock.Clock
}

func NewSummaryUseCase(uow shared.UnitOfWork, completer TextCompleter, clk clock.Clock) SummaryCommands {
	return &summaryUseCaseImpl{uow: uow, completer: completer, clock: clk}
}

// GenerateSummary asks the model for a description and stores it on the book. The model
// call happens outside the transaction.
func (uc *summaryUseCaseImpl) GenerateSummary(ctx context.Context, bookID uuid.UUID) (*SummaryResult, error) {
	if !uc.completer.Configured() {
		return nil, ErrSummaryNotConfigured
	}

	b, err := uc.uow.CommandReads().BookByID(ctx, bookID)
	if err != nil {
		return nil, notFoundAs(err, book.ErrBookNotFound)
	}

	completion, err := uc.completer.Complete(ctx, summarySystemPrompt, summaryPrompt(b.Details()))
	if err != nil {
		slog.Error("summary generation failed", "book_id", bookID, "error", err.Error())
		return nil, errs.Mark(err, ErrSummaryUpstream)
	}

	err = uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		now := uc.clock.Now()
		if derr := tx.Books().SetDescription(ctx, tx.DB(), bookID, completion.Text, now); derr != nil {
			return notFoundAs(derr, book.ErrBookNotFound)
		}
		b.SetDescription(completion.Text, now)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &SummaryResult{
		Book:       b,
		Summary:    completion.Text,
		TokensUsed: completion.TokensUsed,
	}, nil
}

func summaryPrompt(d book.Details) string {
	var sb strings.Builder
	sb.WriteString("Generate a concise, engaging 2-3 paragraph summary for the following book:\n\n")
	fmt.Fprintf(&sb, "Title: %s\n", d.Title)
	fmt.Fprintf(&sb, "Author: %s\n", d.Author)
	if len(d.Genre) > 0 {
		fmt.Fprintf(&sb, "Genre: %s\n", strings.Join(d.Genre, ", "))
	}
	if d.Publisher != nil {
		fmt.Fprintf(&sb, "Publisher: %s\n", *d.Publisher)
	}
	if d.PublishedAt != nil {
		fmt.Fprintf(&sb, "Published: %d\n", d.PublishedAt.Year())
	}
	sb.WriteString("\nWrite a description that would help a library patron decide whether to borrow this book.\n")
	sb.WriteString("Focus on what the book is about, its significance, and who would enjoy reading it.\n")
	sb.WriteString("Keep the tone informative but engaging.")
	return sb.String()
}
