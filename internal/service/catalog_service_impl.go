package service

import (
	"context"
	"time"

	"github.com/alexanderramin/plateplan/internal/app"
	"github.com/alexanderramin/plateplan/internal/db"
	"github.com/alexanderramin/plateplan/internal/domain"
	"github.com/alexanderramin/plateplan/internal/repository"
	"github.com/alexanderramin/plateplan/internal/template"
)

type catalogService struct {
	templates repository.TemplateRepo
	uow       db.UnitOfWork
	observer  UseCaseObserver
}

func NewCatalogService(templates repository.TemplateRepo, uow db.UnitOfWork, observers ...UseCaseObserver) app.CatalogUseCase {
	return &catalogService{templates: templates, uow: uow, observer: useCaseObserverOrNoop(observers)}
}

// Import loads every catalog file in dir and upserts the templates in one
// transaction. A single invalid entry aborts the whole import.
func (s *catalogService) Import(ctx context.Context, dir string) (resp *app.CatalogImportResult, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"dir": dir}
	defer observe(ctx, s.observer, "catalog-import", startedAt, fields, &err)

	if dir == "" {
		return nil, app.InvalidInput("catalog directory is required")
	}
	templates, err := template.LoadDir(dir)
	if err != nil {
		return nil, app.InvalidInput("%s", err.Error())
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txTemplates := repository.NewSQLiteTemplateRepo(tx)
		for i := range templates {
			if err := txTemplates.Upsert(ctx, &templates[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	fields["imported"] = len(templates)
	return &app.CatalogImportResult{Imported: len(templates), Templates: templates}, nil
}

func (s *catalogService) List(ctx context.Context, kind domain.Kind) ([]domain.Template, error) {
	if kind != "" && !kind.Valid() {
		return nil, app.InvalidInput("unknown kind %q", kind)
	}
	return s.templates.List(ctx, kind)
}
