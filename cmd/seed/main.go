package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"library-api/cmd/bootstrap"
	"library-api/cmd/bootstrap/components"
	"library-api/internal/domain/book"
	"library-api/internal/domain/user"
	"library-api/internal/pkg/errs"
	"library-api/internal/pkg/ptr"
	"library-api/internal/usecase/commands"

	"go.uber.org/fx"
)

type seedAccount struct {
	name     string
	email    string
	password string
	role     user.Role
}

var accounts = []seedAccount{
	{name: "Admin User", email: "admin@library.com", password: "Admin123!", role: user.RoleAdmin},
	{name: "Library Staff", email: "librarian@library.com", password: "Librarian123!", role: user.RoleLibrarian},
	{name: "John Doe", email: "member@library.com", password: "Member123!", role: user.RoleMember},
}

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

var books = []commands.CreateBookRequest{
	{
		Details: book.Details{
			Title: "Clean Code", Author: "Robert C. Martin", ISBN: ptr.Of("9780132350884"),
			Description: ptr.Of("A Handbook of Agile Software Craftsmanship"),
			Genre:       []string{"Programming", "Software Engineering"},
			Publisher:   ptr.Of("Prentice Hall"), PublishedAt: date(2008, time.August, 1), Pages: ptr.Of(464),
			Location: ptr.Of("A-01"), Tags: []string{"clean code", "refactoring", "best practices"},
		},
		Copies: ptr.Of(3),
	},
	{
		Details: book.Details{
			Title: "The Pragmatic Programmer", Author: "David Thomas, Andrew Hunt", ISBN: ptr.Of("9780135957059"),
			Description: ptr.Of("Your Journey to Mastery"),
			Genre:       []string{"Programming", "Software Engineering"},
			Publisher:   ptr.Of("Addison-Wesley"), PublishedAt: date(2019, time.September, 13), Pages: ptr.Of(352),
			Location: ptr.Of("A-02"), Tags: []string{"pragmatic", "career", "best practices"},
		},
		Copies: ptr.Of(2),
	},
	{
		Details: book.Details{
			Title: "Design Patterns", Author: "Gang of Four", ISBN: ptr.Of("9780201633610"),
			Description: ptr.Of("Elements of Reusable Object-Oriented Software"),
			Genre:       []string{"Programming", "Software Architecture"},
			Publisher:   ptr.Of("Addison-Wesley"), PublishedAt: date(1994, time.October, 21), Pages: ptr.Of(395),
			Location: ptr.Of("A-03"), Tags: []string{"design patterns", "OOP", "architecture"},
		},
		Copies: ptr.Of(2),
	},
	{
		Details: book.Details{
			Title: "Dune", Author: "Frank Herbert", ISBN: ptr.Of("9780441013593"),
			Description: ptr.Of("A science fiction masterpiece set in the distant future"),
			Genre:       []string{"Science Fiction", "Fantasy"},
			Publisher:   ptr.Of("Ace Books"), PublishedAt: date(1965, time.August, 1), Pages: ptr.Of(688),
			Location: ptr.Of("B-01"), Tags: []string{"sci-fi", "epic", "classic"},
		},
		Copies: ptr.Of(4),
	},
	{
		Details: book.Details{
			Title: "The Great Gatsby", Author: "F. Scott Fitzgerald", ISBN: ptr.Of("9780743273565"),
			Description: ptr.Of("A story of the fabulously wealthy Jay Gatsby"),
			Genre:       []string{"Fiction", "Classic Literature"},
			Publisher:   ptr.Of("Scribner"), PublishedAt: date(1925, time.April, 10), Pages: ptr.Of(180),
			Location: ptr.Of("C-01"), Tags: []string{"classic", "american literature", "jazz age"},
		},
		Copies: ptr.Of(3),
	},
}

// seed is idempotent: existing accounts and ISBNs are skipped.
func seed(auth commands.AuthCommands, users commands.UserCommands, catalog commands.BookCommands) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	for _, a := range accounts {
		res, err := auth.Register(ctx, commands.RegisterRequest{Name: a.name, Email: a.email, Password: a.password})
		if errs.Is(err, user.ErrEmailTaken) {
			slog.Info("account exists, skipping", "email", a.email)
			continue
		}
		if err != nil {
			return errs.Wrapf(err, "register %s", a.email)
		}
		if a.role != user.RoleMember {
			role := a.role.String()
			if _, err := users.Update(ctx, res.User.ID(), commands.UpdateUserRequest{Role: &role}); err != nil {
				return errs.Wrapf(err, "grant %s to %s", a.role, a.email)
			}
		}
		slog.Info("account created", "email", a.email, "role", a.role)
	}

	for _, req := range books {
		b, err := catalog.Create(ctx, req)
		if errs.Is(err, book.ErrDuplicateISBN) {
			slog.Info("book exists, skipping", "title", req.Details.Title)
			continue
		}
		if err != nil {
			return errs.Wrapf(err, "create %q", req.Details.Title)
		}
		slog.Info("book created", "id", b.ID(), "title", b.Title())
	}

	return nil
}

func main() {
	var seedErr error
	app := fx.New(
		bootstrap.ConfigModule,
		bootstrap.DBModule,
		bootstrap.RedisModule,
		bootstrap.JWTModule,
		components.PersistenceModule,
		components.UseCaseModule,
		fx.Invoke(func(auth commands.AuthCommands, users commands.UserCommands, catalog commands.BookCommands) {
			seedErr = seed(auth, users, catalog)
		}),
		fx.NopLogger,
	)

	if err := app.Err(); err != nil {
		slog.Error("failed to build seed application", "error", err)
		os.Exit(1)
	}
	if seedErr != nil {
		slog.Error("seed failed", "error", seedErr)
		os.Exit(1)
	}
	slog.Info("seed completed", "accounts", len(accounts), "books", len(books))
}
