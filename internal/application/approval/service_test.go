package approval

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	domainApproval "github.com/docflow/docflow/internal/domain/approval"
	approvalMocks "github.com/docflow/docflow/internal/domain/approval/mocks"
	"github.com/docflow/docflow/internal/domain/document"
	"github.com/docflow/docflow/internal/domain/template"
	templateMocks "github.com/docflow/docflow/internal/domain/template/mocks"
	"github.com/docflow/docflow/internal/domain/user"
	userMocks "github.com/docflow/docflow/internal/domain/user/mocks"
)

type chainFixture struct {
	svc          *Service
	templateRepo *templateMocks.MockRepository
	approvalRepo *approvalMocks.MockRepository
	userRepo     *userMocks.MockRepository
	now          time.Time
}

func newChainFixture(t *testing.T) *chainFixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	f := &chainFixture{
		templateRepo: templateMocks.NewMockRepository(ctrl),
		approvalRepo: approvalMocks.NewMockRepository(ctrl),
		userRepo:     userMocks.NewMockRepository(ctrl),
		now:          time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC),
	}
	f.svc = NewService(f.templateRepo, f.approvalRepo, f.userRepo, zerolog.Nop())
	f.svc.now = func() time.Time { return f.now }
	return f
}

func activeUser(id uuid.UUID) *user.User {
	return &user.User{UserID: id, Status: user.StatusActive}
}

func draftDocument() *document.Document {
	payload, _ := json.Marshal(map[string]interface{}{"days": 8.0})
	return &document.Document{
		DocumentID:     uuid.New(),
		DocumentTypeID: uuid.New(),
		SubmitterID:    uuid.New(),
		Status:         document.StatusDraft,
		Data:           payload,
	}
}

func TestResolveTemplate(t *testing.T) {
	t.Run("first applicable template wins", func(t *testing.T) {
		f := newChainFixture(t)
		doc := draftDocument()
		conditional := &template.ApprovalTemplate{
			TemplateID:     uuid.New(),
			DocumentTypeID: doc.DocumentTypeID,
			Condition:      &template.Rule{Field: "days", Operator: template.OpGreater, Value: 10.0},
			Active:         true,
		}
		fallback := &template.ApprovalTemplate{
			TemplateID:     uuid.New(),
			DocumentTypeID: doc.DocumentTypeID,
			Default:        true,
			Active:         true,
		}
		f.templateRepo.EXPECT().ListActiveByDocumentType(gomock.Any(), doc.DocumentTypeID).
			Return([]*template.ApprovalTemplate{conditional, fallback}, nil)

		got, err := f.svc.ResolveTemplate(context.Background(), doc)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, fallback.TemplateID, got.TemplateID)
	})

	t.Run("matching condition beats fallback order", func(t *testing.T) {
		f := newChainFixture(t)
		doc := draftDocument()
		conditional := &template.ApprovalTemplate{
			TemplateID:     uuid.New(),
			DocumentTypeID: doc.DocumentTypeID,
			Condition:      &template.Rule{Field: "days", Operator: template.OpGreater, Value: 5.0},
			Active:         true,
		}
		f.templateRepo.EXPECT().ListActiveByDocumentType(gomock.Any(), doc.DocumentTypeID).
			Return([]*template.ApprovalTemplate{conditional}, nil)

		got, err := f.svc.ResolveTemplate(context.Background(), doc)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, conditional.TemplateID, got.TemplateID)
	})

	t.Run("no templates resolves nil", func(t *testing.T) {
		f := newChainFixture(t)
		doc := draftDocument()
		f.templateRepo.EXPECT().ListActiveByDocumentType(gomock.Any(), doc.DocumentTypeID).Return(nil, nil)

		got, err := f.svc.ResolveTemplate(context.Background(), doc)
		require.NoError(t, err)
		assert.Nil(t, got)
	})
}

func TestResolveApprover(t *testing.T) {
	t.Run("specific user", func(t *testing.T) {
		f := newChainFixture(t)
		doc := draftDocument()
		targetID := uuid.New()
		f.userRepo.EXPECT().GetByID(gomock.Any(), targetID).Return(activeUser(targetID), nil)

		got, err := f.svc.ResolveApprover(context.Background(), &template.Step{
			ApproverType: template.ApproverSpecificUser,
			UserID:       &targetID,
		}, doc)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, targetID, got.UserID)
	})

	t.Run("role resolves within submitter department", func(t *testing.T) {
		f := newChainFixture(t)
		doc := draftDocument()
		roleID := uuid.New()
		deptID := uuid.New()
		holderID := uuid.New()
		submitter := activeUser(doc.SubmitterID)
		submitter.DepartmentID = &deptID
		f.userRepo.EXPECT().GetByID(gomock.Any(), doc.SubmitterID).Return(submitter, nil)
		f.userRepo.EXPECT().FindActiveByRoleInDepartment(gomock.Any(), roleID, deptID).
			Return(activeUser(holderID), nil)

		got, err := f.svc.ResolveApprover(context.Background(), &template.Step{
			ApproverType: template.ApproverRole,
			RoleID:       &roleID,
		}, doc)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, holderID, got.UserID)
	})

	t.Run("role without submitter department resolves nil", func(t *testing.T) {
		f := newChainFixture(t)
		doc := draftDocument()
		roleID := uuid.New()
		f.userRepo.EXPECT().GetByID(gomock.Any(), doc.SubmitterID).Return(activeUser(doc.SubmitterID), nil)

		got, err := f.svc.ResolveApprover(context.Background(), &template.Step{
			ApproverType: template.ApproverRole,
			RoleID:       &roleID,
		}, doc)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("dynamic resolves direct manager", func(t *testing.T) {
		f := newChainFixture(t)
		doc := draftDocument()
		managerID := uuid.New()
		f.userRepo.EXPECT().ManagerOf(gomock.Any(), doc.SubmitterID).Return(activeUser(managerID), nil)

		got, err := f.svc.ResolveApprover(context.Background(), &template.Step{
			ApproverType: template.ApproverDynamic,
		}, doc)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, managerID, got.UserID)
	})
}

func TestInitializeChain(t *testing.T) {
	t.Run("creates pending steps with due dates", func(t *testing.T) {
		f := newChainFixture(t)
		doc := draftDocument()
		tmpl := &template.ApprovalTemplate{TemplateID: uuid.New(), DocumentTypeID: doc.DocumentTypeID, Default: true, Active: true}
		managerID := uuid.New()
		hrID := uuid.New()
		sla24, sla48 := 24, 48
		steps := []*template.Step{
			{StepID: uuid.New(), TemplateID: tmpl.TemplateID, Sequence: 1, StepName: "Manager", ApproverType: template.ApproverDynamic, SLAHours: &sla24},
			{StepID: uuid.New(), TemplateID: tmpl.TemplateID, Sequence: 2, StepName: "HR", ApproverType: template.ApproverSpecificUser, UserID: &hrID, SLAHours: &sla48},
		}
		f.templateRepo.EXPECT().ListActiveByDocumentType(gomock.Any(), doc.DocumentTypeID).
			Return([]*template.ApprovalTemplate{tmpl}, nil)
		f.templateRepo.EXPECT().ListSteps(gomock.Any(), tmpl.TemplateID).Return(steps, nil)
		f.userRepo.EXPECT().ManagerOf(gomock.Any(), doc.SubmitterID).Return(activeUser(managerID), nil)
		f.userRepo.EXPECT().GetByID(gomock.Any(), hrID).Return(activeUser(hrID), nil)

		var created []*domainApproval.Step
		f.approvalRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Times(2).
			DoAndReturn(func(_ context.Context, step *domainApproval.Step) error {
				created = append(created, step)
				return nil
			})

		require.NoError(t, f.svc.InitializeChain(context.Background(), doc))
		require.Len(t, created, 2)

		first, second := created[0], created[1]
		assert.Equal(t, 1, first.Sequence)
		assert.Equal(t, managerID, first.ApproverID)
		assert.Equal(t, domainApproval.StatusPending, first.Status)
		require.NotNil(t, first.DueAt)
		assert.Equal(t, f.now.Add(24*time.Hour), *first.DueAt)

		assert.Equal(t, 2, second.Sequence)
		assert.Equal(t, hrID, second.ApproverID)
		require.NotNil(t, second.DueAt)
		assert.Equal(t, f.now.Add(48*time.Hour), *second.DueAt)
	})

	t.Run("unresolvable approver leaves a sequence gap", func(t *testing.T) {
		f := newChainFixture(t)
		doc := draftDocument()
		tmpl := &template.ApprovalTemplate{TemplateID: uuid.New(), DocumentTypeID: doc.DocumentTypeID, Default: true, Active: true}
		hrID := uuid.New()
		steps := []*template.Step{
			{StepID: uuid.New(), TemplateID: tmpl.TemplateID, Sequence: 1, StepName: "Manager", ApproverType: template.ApproverDynamic},
			{StepID: uuid.New(), TemplateID: tmpl.TemplateID, Sequence: 2, StepName: "HR", ApproverType: template.ApproverSpecificUser, UserID: &hrID},
		}
		f.templateRepo.EXPECT().ListActiveByDocumentType(gomock.Any(), doc.DocumentTypeID).
			Return([]*template.ApprovalTemplate{tmpl}, nil)
		f.templateRepo.EXPECT().ListSteps(gomock.Any(), tmpl.TemplateID).Return(steps, nil)
		f.userRepo.EXPECT().ManagerOf(gomock.Any(), doc.SubmitterID).Return(nil, nil)
		f.userRepo.EXPECT().GetByID(gomock.Any(), hrID).Return(activeUser(hrID), nil)

		var created []*domainApproval.Step
		f.approvalRepo.EXPECT().Create(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, step *domainApproval.Step) error {
				created = append(created, step)
				return nil
			})

		require.NoError(t, f.svc.InitializeChain(context.Background(), doc))
		require.Len(t, created, 1)
		assert.Equal(t, 2, created[0].Sequence)
	})

	t.Run("no matching template creates nothing", func(t *testing.T) {
		f := newChainFixture(t)
		doc := draftDocument()
		f.templateRepo.EXPECT().ListActiveByDocumentType(gomock.Any(), doc.DocumentTypeID).Return(nil, nil)

		assert.NoError(t, f.svc.InitializeChain(context.Background(), doc))
	})
}

func TestCreateTemplate(t *testing.T) {
	roleID := uuid.New()
	validSteps := func() []*template.Step {
		return []*template.Step{
			{Sequence: 1, StepName: "Manager", ApproverType: template.ApproverRole, RoleID: &roleID},
		}
	}

	t.Run("rejects second default for a document type", func(t *testing.T) {
		f := newChainFixture(t)
		tmpl := &template.ApprovalTemplate{DocumentTypeID: uuid.New(), Name: "default chain", Default: true, Active: true}
		f.templateRepo.EXPECT().HasDefaultActive(gomock.Any(), tmpl.DocumentTypeID, nil).Return(true, nil)

		err := f.svc.CreateTemplate(context.Background(), tmpl, validSteps())
		assert.ErrorIs(t, err, ErrDuplicateDefault)
	})

	t.Run("assigns identifiers and persists", func(t *testing.T) {
		f := newChainFixture(t)
		tmpl := &template.ApprovalTemplate{DocumentTypeID: uuid.New(), Name: "default chain", Default: true, Active: true}
		steps := validSteps()
		f.templateRepo.EXPECT().HasDefaultActive(gomock.Any(), tmpl.DocumentTypeID, nil).Return(false, nil)
		f.templateRepo.EXPECT().Create(gomock.Any(), tmpl, steps).Return(nil)

		require.NoError(t, f.svc.CreateTemplate(context.Background(), tmpl, steps))
		assert.NotEqual(t, uuid.Nil, tmpl.TemplateID)
		assert.Equal(t, f.now, tmpl.CreatedAt)
		assert.Equal(t, tmpl.TemplateID, steps[0].TemplateID)
		assert.NotEqual(t, uuid.Nil, steps[0].StepID)
	})

	t.Run("rejects duplicate sequences", func(t *testing.T) {
		f := newChainFixture(t)
		tmpl := &template.ApprovalTemplate{DocumentTypeID: uuid.New(), Name: "broken chain", Active: true}
		steps := []*template.Step{
			{Sequence: 1, StepName: "A", ApproverType: template.ApproverDynamic},
			{Sequence: 1, StepName: "B", ApproverType: template.ApproverDynamic},
		}

		err := f.svc.CreateTemplate(context.Background(), tmpl, steps)
		assert.Error(t, err)
	})
}
