package service

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/alexanderramin/apo/internal/contract"
	"github.com/alexanderramin/apo/internal/db"
	"github.com/alexanderramin/apo/internal/docstore"
	"github.com/alexanderramin/apo/internal/document"
	"github.com/alexanderramin/apo/internal/domain"
	"github.com/alexanderramin/apo/internal/intelligence"
	"github.com/alexanderramin/apo/internal/repository"
)

type projectService struct {
	projects  repository.ProjectRepo
	tasks     repository.ProjectTaskRepo
	store     docstore.Store
	extractor intelligence.ExtractionService
	uow       db.UnitOfWork
	settings  Settings
	observer  UseCaseObserver
}

func NewProjectService(
	projects repository.ProjectRepo,
	tasks repository.ProjectTaskRepo,
	store docstore.Store,
	extractor intelligence.ExtractionService,
	uow db.UnitOfWork,
	settings Settings,
	observers ...UseCaseObserver,
) ProjectService {
	return &projectService{
		projects:  projects,
		tasks:     tasks,
		store:     store,
		extractor: extractor,
		uow:       uow,
		settings:  settings.withDefaults(),
		observer:  useCaseObserverOrNoop(observers),
	}
}

func (s *projectService) Create(ctx context.Context, req contract.CreateProjectRequest) (project *domain.Project, err error) {
	startedAt := s.settings.Clock()
	fields := map[string]any{"workspace_id": req.WorkspaceID, "bytes": len(req.Content)}
	defer func() { observe(ctx, s.observer, "create-project", startedAt, fields, err) }()

	if strings.TrimSpace(req.OwnerID) == "" {
		return nil, domain.ErrUnauthenticated
	}

	now := s.settings.now()
	project = &domain.Project{
		ID:          s.settings.NewID(),
		WorkspaceID: req.WorkspaceID,
		OwnerID:     req.OwnerID,
		Name:        strings.TrimSpace(req.Name),
		Status:      domain.ExtractionIdle,
		ProjectType: domain.GeneralProjectType,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err = project.Validate(); err != nil {
		return nil, err
	}

	if len(req.Content) > 0 {
		fileName := req.FileName
		if fileName == "" {
			fileName = "document.txt"
		}
		url, putErr := s.store.Put(ctx, docstore.ObjectPath(req.WorkspaceID, fileName, now), req.Content)
		if putErr != nil {
			return nil, upstreamError("storing document", putErr)
		}
		project.FileURL = url
		project.Status = domain.ExtractionParsing
	}
	fields["project_id"] = project.ID

	if err = s.projects.Create(ctx, project); err != nil {
		return nil, persistenceError("creating project", err)
	}
	return project, nil
}

func (s *projectService) Process(ctx context.Context, projectID string) (result *contract.ProcessResult, err error) {
	startedAt := s.settings.Clock()
	fields := map[string]any{"project_id": projectID}
	defer func() { observe(ctx, s.observer, "process-document", startedAt, fields, err) }()

	project, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}

	extraction, err := s.extract(ctx, project)
	if err != nil {
		s.markFailed(ctx, project, err)
		return nil, err
	}
	fields["milestones"] = len(extraction.Data.Milestones)
	fields["tasks"] = len(extraction.Tasks)
	fields["model"] = extraction.Model

	now := s.settings.now()
	project.ApplyExtraction(extraction.Data, extraction.Client, extraction.SuccessCriteria,
		extraction.CustomFields, extraction.ProjectType, now)
	for i := range extraction.Tasks {
		extraction.Tasks[i].ProjectID = project.ID
		extraction.Tasks[i].CreatedAt = now
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		if err := repository.NewSQLiteProjectRepo(tx).Update(ctx, project); err != nil {
			return persistenceError("saving extraction", err)
		}
		if err := repository.NewSQLiteProjectTaskRepo(tx).ReplaceGenerated(ctx, project.ID, extraction.Tasks); err != nil {
			return persistenceError("saving extracted tasks", err)
		}
		return nil
	})
	if err != nil {
		s.markFailed(ctx, project, err)
		return nil, err
	}

	return &contract.ProcessResult{
		Project:   project,
		TaskCount: len(extraction.Tasks),
		Warnings:  extraction.Warnings,
	}, nil
}

// extract runs fetch, text extraction and the oracle call for project.
func (s *projectService) extract(ctx context.Context, project *domain.Project) (*intelligence.ExtractionResult, error) {
	if project.FileURL == "" {
		return nil, domain.ErrMissingDocument
	}

	project.Status = domain.ExtractionParsing
	project.StatusError = ""
	project.UpdatedAt = s.settings.now()
	if err := s.projects.UpdateStatus(ctx, project); err != nil {
		return nil, persistenceError("marking project parsing", err)
	}

	data, err := s.store.Fetch(ctx, project.FileURL)
	if err != nil {
		return nil, upstreamError("fetching document", err)
	}
	text, err := document.Extract(path.Base(project.FileURL), data)
	if err != nil {
		return nil, err
	}

	result, err := s.extractor.Extract(ctx, project.Name, text)
	if err != nil {
		return nil, classifyOracleError(err)
	}
	return result, nil
}

// markFailed records the failure even when ctx has already expired.
func (s *projectService) markFailed(ctx context.Context, project *domain.Project, cause error) {
	project.MarkFailed(cause, s.settings.now())
	_ = s.projects.UpdateStatus(context.WithoutCancel(ctx), project)
}

func (s *projectService) Get(ctx context.Context, projectID string) (*contract.ProjectView, error) {
	project, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	tasks, err := s.tasks.ListByProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("loading project tasks: %w", err)
	}
	return &contract.ProjectView{
		Project: project,
		Tasks:   tasks,
		Type:    domain.LookupProjectType(project.ProjectType),
	}, nil
}

func (s *projectService) ListByWorkspace(ctx context.Context, workspaceID string) ([]*domain.Project, error) {
	return s.projects.ListByWorkspace(ctx, workspaceID)
}
