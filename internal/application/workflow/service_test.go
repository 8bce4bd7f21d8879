package workflow

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appAudit "github.com/docflow/docflow/internal/application/audit"
	"github.com/docflow/docflow/internal/domain/approval"
	"github.com/docflow/docflow/internal/domain/audit"
	"github.com/docflow/docflow/internal/domain/document"
	"github.com/docflow/docflow/internal/domain/user"
)

// fakeDocumentRepo is an in-memory document store.
type fakeDocumentRepo struct {
	mu   sync.Mutex
	docs map[uuid.UUID]*document.Document
}

func newFakeDocumentRepo() *fakeDocumentRepo {
	return &fakeDocumentRepo{docs: map[uuid.UUID]*document.Document{}}
}

func (r *fakeDocumentRepo) Create(ctx context.Context, d *document.Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *d
	r.docs[d.DocumentID] = &cp
	return nil
}

func (r *fakeDocumentRepo) GetByID(ctx context.Context, documentID uuid.UUID) (*document.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.docs[documentID]
	if !ok {
		return nil, nil
	}
	cp := *d
	return &cp, nil
}

func (r *fakeDocumentRepo) List(ctx context.Context, filter document.Filter, limit, offset int) ([]*document.Document, error) {
	return nil, nil
}

func (r *fakeDocumentRepo) Update(ctx context.Context, d *document.Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *d
	r.docs[d.DocumentID] = &cp
	return nil
}

func (r *fakeDocumentRepo) SoftDelete(ctx context.Context, documentID uuid.UUID, now time.Time) error {
	return nil
}

func (r *fakeDocumentRepo) SumPayloadField(ctx context.Context, submitterID, documentTypeID uuid.UUID, statuses []document.Status, year int, field string) (float64, error) {
	return 0, nil
}

func (r *fakeDocumentRepo) CountByNumberPrefix(ctx context.Context, prefix string) (int64, error) {
	return 0, nil
}

func (r *fakeDocumentRepo) CountByStatus(ctx context.Context, submitterID uuid.UUID) (map[document.Status]int64, error) {
	return nil, nil
}

// fakeApprovalRepo is an in-memory step store whose compound methods mirror
// the transactional semantics of the real repository.
type fakeApprovalRepo struct {
	mu       sync.Mutex
	steps    map[uuid.UUID]*approval.Step
	docs     *fakeDocumentRepo
	advanced int
}

func newFakeApprovalRepo(docs *fakeDocumentRepo) *fakeApprovalRepo {
	return &fakeApprovalRepo{steps: map[uuid.UUID]*approval.Step{}, docs: docs}
}

func (r *fakeApprovalRepo) Create(ctx context.Context, step *approval.Step) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *step
	r.steps[step.StepID] = &cp
	return nil
}

func (r *fakeApprovalRepo) GetByID(ctx context.Context, stepID uuid.UUID) (*approval.Step, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.steps[stepID]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (r *fakeApprovalRepo) ListByDocument(ctx context.Context, documentID uuid.UUID) ([]*approval.Step, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*approval.Step
	for _, s := range r.steps {
		if s.DocumentID == documentID {
			cp := *s
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeApprovalRepo) ListPendingByApprover(ctx context.Context, approverID uuid.UUID, limit, offset int) ([]*approval.Step, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*approval.Step
	for _, s := range r.steps {
		if s.ApproverID == approverID && s.IsPending() {
			cp := *s
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *fakeApprovalRepo) Update(ctx context.Context, step *approval.Step) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *step
	r.steps[step.StepID] = &cp
	return nil
}

func (r *fakeApprovalRepo) SaveDecision(ctx context.Context, step *approval.Step, doc *document.Document, skipSiblings bool, now time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if step != nil {
		cp := *step
		r.steps[step.StepID] = &cp
	}
	if err := r.docs.Update(ctx, doc); err != nil {
		return err
	}
	if skipSiblings {
		for _, s := range r.steps {
			if s.DocumentID == doc.DocumentID && s.IsPending() {
				s.Status = approval.StatusSkipped
				s.UpdatedAt = now
			}
		}
	}
	return nil
}

func (r *fakeApprovalRepo) AdvanceDocument(ctx context.Context, documentID uuid.UUID, now time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	doc, err := r.docs.GetByID(ctx, documentID)
	if err != nil || doc == nil {
		return false, err
	}
	if doc.Status != document.StatusPending {
		return false, nil
	}
	for _, s := range r.steps {
		if s.DocumentID != documentID {
			continue
		}
		if s.IsPending() {
			return false, nil
		}
		if s.Status != approval.StatusApproved && s.Status != approval.StatusSkipped {
			return false, nil
		}
	}
	if err := doc.Approve(now); err != nil {
		return false, err
	}
	if err := r.docs.Update(ctx, doc); err != nil {
		return false, err
	}
	r.advanced++
	return true, nil
}

func (r *fakeApprovalRepo) CountPendingByDocument(ctx context.Context, documentID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, s := range r.steps {
		if s.DocumentID == documentID && s.IsPending() {
			n++
		}
	}
	return n, nil
}

func (r *fakeApprovalRepo) CountPendingByApprover(ctx context.Context, approverID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, s := range r.steps {
		if s.ApproverID == approverID && s.IsPending() {
			n++
		}
	}
	return n, nil
}

func (r *fakeApprovalRepo) CountBreachedByApprover(ctx context.Context, approverID uuid.UUID, now time.Time) (int64, error) {
	return 0, nil
}

// fakeUserRepo only resolves delegate targets.
type fakeUserRepo struct {
	users map[uuid.UUID]*user.User
}

func (r *fakeUserRepo) Create(ctx context.Context, u *user.User) error { return nil }

func (r *fakeUserRepo) GetByID(ctx context.Context, userID uuid.UUID) (*user.User, error) {
	return r.users[userID], nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	return nil, nil
}

func (r *fakeUserRepo) List(ctx context.Context, filter user.Filter, limit, offset int) ([]*user.User, error) {
	return nil, nil
}

func (r *fakeUserRepo) Update(ctx context.Context, u *user.User) error { return nil }

func (r *fakeUserRepo) FindActiveByRoleInDepartment(ctx context.Context, roleID, departmentID uuid.UUID) (*user.User, error) {
	return nil, nil
}

func (r *fakeUserRepo) ManagerOf(ctx context.Context, userID uuid.UUID) (*user.User, error) {
	return nil, nil
}

type fakeAuditRepo struct {
	mu      sync.Mutex
	entries []*audit.Entry
}

func (r *fakeAuditRepo) Create(ctx context.Context, e *audit.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, e)
	return nil
}

func (r *fakeAuditRepo) ListByEntity(ctx context.Context, entityType audit.EntityType, entityID uuid.UUID, limit, offset int) ([]*audit.Entry, error) {
	return nil, nil
}

type fixture struct {
	svc   *Service
	docs  *fakeDocumentRepo
	steps *fakeApprovalRepo
	users *fakeUserRepo
	now   time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	docs := newFakeDocumentRepo()
	steps := newFakeApprovalRepo(docs)
	users := &fakeUserRepo{users: map[uuid.UUID]*user.User{}}
	auditSvc := appAudit.NewService(&fakeAuditRepo{}, zerolog.Nop())
	svc := NewService(steps, docs, users, auditSvc, zerolog.Nop(), 7*24*time.Hour)
	now := time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }
	return &fixture{svc: svc, docs: docs, steps: steps, users: users, now: now}
}

func (f *fixture) pendingDocument(t *testing.T, submitterID uuid.UUID) *document.Document {
	t.Helper()
	submitted := f.now.Add(-time.Hour)
	doc := &document.Document{
		DocumentID:     uuid.New(),
		DocumentNumber: "LV-2025-0001",
		DocumentTypeID: uuid.New(),
		SubmitterID:    submitterID,
		Title:          "Annual leave",
		Status:         document.StatusPending,
		SubmittedAt:    &submitted,
	}
	require.NoError(t, f.docs.Create(context.Background(), doc))
	return doc
}

func (f *fixture) pendingStep(t *testing.T, documentID, approverID uuid.UUID, sequence int) *approval.Step {
	t.Helper()
	step := &approval.Step{
		StepID:     uuid.New(),
		DocumentID: documentID,
		Sequence:   sequence,
		StepName:   "Approval",
		ApproverID: approverID,
		Status:     approval.StatusPending,
	}
	require.NoError(t, f.steps.Create(context.Background(), step))
	return step
}

func TestApprove_SequentialChainAdvancesOnLastStep(t *testing.T) {
	f := newFixture(t)
	manager := uuid.New()
	finance := uuid.New()
	doc := f.pendingDocument(t, uuid.New())
	s1 := f.pendingStep(t, doc.DocumentID, manager, 1)
	s2 := f.pendingStep(t, doc.DocumentID, finance, 2)

	got, err := f.svc.Approve(context.Background(), s1.StepID, manager, nil)
	require.NoError(t, err)
	assert.Equal(t, approval.StatusApproved, got.Status)
	require.NotNil(t, got.ActionTakenAt)
	assert.Equal(t, f.now, *got.ActionTakenAt)

	cur, err := f.docs.GetByID(context.Background(), doc.DocumentID)
	require.NoError(t, err)
	assert.Equal(t, document.StatusPending, cur.Status)

	comment := "looks good"
	_, err = f.svc.Approve(context.Background(), s2.StepID, finance, &comment)
	require.NoError(t, err)

	cur, err = f.docs.GetByID(context.Background(), doc.DocumentID)
	require.NoError(t, err)
	assert.Equal(t, document.StatusApproved, cur.Status)
	require.NotNil(t, cur.CompletedAt)
	assert.Equal(t, f.now, *cur.CompletedAt)
}

func TestApprove_WrongActor(t *testing.T) {
	f := newFixture(t)
	doc := f.pendingDocument(t, uuid.New())
	step := f.pendingStep(t, doc.DocumentID, uuid.New(), 1)

	_, err := f.svc.Approve(context.Background(), step.StepID, uuid.New(), nil)
	assert.ErrorIs(t, err, ErrNotApprover)
}

func TestApprove_UnknownStep(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Approve(context.Background(), uuid.New(), uuid.New(), nil)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestApprove_AlreadyResolvedStep(t *testing.T) {
	f := newFixture(t)
	approver := uuid.New()
	doc := f.pendingDocument(t, uuid.New())
	step := f.pendingStep(t, doc.DocumentID, approver, 1)
	step.Status = approval.StatusSkipped
	require.NoError(t, f.steps.Update(context.Background(), step))

	_, err := f.svc.Approve(context.Background(), step.StepID, approver, nil)
	assert.ErrorIs(t, err, approval.ErrInvalidTransition)
}

func TestReject_RequiresComment(t *testing.T) {
	f := newFixture(t)
	approver := uuid.New()
	doc := f.pendingDocument(t, uuid.New())
	step := f.pendingStep(t, doc.DocumentID, approver, 1)

	_, err := f.svc.Reject(context.Background(), step.StepID, approver, nil)
	assert.ErrorIs(t, err, ErrCommentRequired)

	empty := ""
	_, err = f.svc.Reject(context.Background(), step.StepID, approver, &empty)
	assert.ErrorIs(t, err, ErrCommentRequired)
}

func TestReject_SkipsPendingSiblings(t *testing.T) {
	f := newFixture(t)
	manager := uuid.New()
	finance := uuid.New()
	doc := f.pendingDocument(t, uuid.New())
	s1 := f.pendingStep(t, doc.DocumentID, manager, 1)
	s2 := f.pendingStep(t, doc.DocumentID, finance, 2)

	comment := "budget exceeded"
	got, err := f.svc.Reject(context.Background(), s1.StepID, manager, &comment)
	require.NoError(t, err)
	assert.Equal(t, approval.StatusRejected, got.Status)
	require.NotNil(t, got.Comment)
	assert.Equal(t, comment, *got.Comment)

	cur, err := f.docs.GetByID(context.Background(), doc.DocumentID)
	require.NoError(t, err)
	assert.Equal(t, document.StatusRejected, cur.Status)
	require.NotNil(t, cur.CompletedAt)

	sibling, err := f.steps.GetByID(context.Background(), s2.StepID)
	require.NoError(t, err)
	assert.Equal(t, approval.StatusSkipped, sibling.Status)
}

func TestReturn_DocumentStaysResubmittable(t *testing.T) {
	f := newFixture(t)
	manager := uuid.New()
	doc := f.pendingDocument(t, uuid.New())
	s1 := f.pendingStep(t, doc.DocumentID, manager, 1)
	s2 := f.pendingStep(t, doc.DocumentID, uuid.New(), 2)

	comment := "missing receipts"
	_, err := f.svc.Return(context.Background(), s1.StepID, manager, &comment)
	require.NoError(t, err)

	cur, err := f.docs.GetByID(context.Background(), doc.DocumentID)
	require.NoError(t, err)
	assert.Equal(t, document.StatusReturned, cur.Status)
	assert.Nil(t, cur.CompletedAt)
	assert.True(t, cur.CanBeEdited())

	sibling, err := f.steps.GetByID(context.Background(), s2.StepID)
	require.NoError(t, err)
	assert.Equal(t, approval.StatusSkipped, sibling.Status)

	// The returned document can re-enter the pipeline.
	require.NoError(t, cur.Submit(f.now))
	assert.Equal(t, document.StatusPending, cur.Status)
}

func TestDelegate(t *testing.T) {
	f := newFixture(t)
	approver := uuid.New()
	target := uuid.New()
	f.users.users[target] = &user.User{UserID: target, Name: "Dana", Status: user.StatusActive}
	doc := f.pendingDocument(t, uuid.New())
	step := f.pendingStep(t, doc.DocumentID, approver, 1)

	got, err := f.svc.Delegate(context.Background(), step.StepID, approver, target, nil)
	require.NoError(t, err)
	assert.Equal(t, approval.StatusPending, got.Status)
	assert.Equal(t, target, got.ApproverID)
	require.NotNil(t, got.DelegatedFromID)
	assert.Equal(t, approver, *got.DelegatedFromID)
	require.NotNil(t, got.DelegationEndAt)
	assert.Equal(t, f.now.Add(7*24*time.Hour), *got.DelegationEndAt)

	// The delegate can act on the step.
	_, err = f.svc.Approve(context.Background(), step.StepID, target, nil)
	require.NoError(t, err)
}

func TestDelegate_InactiveTarget(t *testing.T) {
	f := newFixture(t)
	approver := uuid.New()
	target := uuid.New()
	f.users.users[target] = &user.User{UserID: target, Name: "Dana", Status: user.StatusDisabled}
	doc := f.pendingDocument(t, uuid.New())
	step := f.pendingStep(t, doc.DocumentID, approver, 1)

	_, err := f.svc.Delegate(context.Background(), step.StepID, approver, target, nil)
	assert.ErrorIs(t, err, ErrUserNotFound)

	_, err = f.svc.Delegate(context.Background(), step.StepID, approver, uuid.New(), nil)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestCancel(t *testing.T) {
	f := newFixture(t)
	submitter := uuid.New()
	doc := f.pendingDocument(t, submitter)
	step := f.pendingStep(t, doc.DocumentID, uuid.New(), 1)

	_, err := f.svc.Cancel(context.Background(), doc.DocumentID, uuid.New())
	assert.ErrorIs(t, err, ErrNotSubmitter)

	got, err := f.svc.Cancel(context.Background(), doc.DocumentID, submitter)
	require.NoError(t, err)
	assert.Equal(t, document.StatusCancelled, got.Status)

	cur, err := f.steps.GetByID(context.Background(), step.StepID)
	require.NoError(t, err)
	assert.Equal(t, approval.StatusSkipped, cur.Status)

	_, err = f.svc.Cancel(context.Background(), doc.DocumentID, submitter)
	assert.ErrorIs(t, err, document.ErrInvalidTransition)
}

func TestApprove_ConcurrentSiblingsCompleteOnce(t *testing.T) {
	f := newFixture(t)
	a := uuid.New()
	b := uuid.New()
	doc := f.pendingDocument(t, uuid.New())
	s1 := f.pendingStep(t, doc.DocumentID, a, 1)
	s2 := f.pendingStep(t, doc.DocumentID, b, 1)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, errs[0] = f.svc.Approve(context.Background(), s1.StepID, a, nil)
	}()
	go func() {
		defer wg.Done()
		_, errs[1] = f.svc.Approve(context.Background(), s2.StepID, b, nil)
	}()
	wg.Wait()

	require.NoError(t, errs[0])
	require.NoError(t, errs[1])

	cur, err := f.docs.GetByID(context.Background(), doc.DocumentID)
	require.NoError(t, err)
	assert.Equal(t, document.StatusApproved, cur.Status)
	require.NotNil(t, cur.CompletedAt)

	f.steps.mu.Lock()
	advanced := f.steps.advanced
	f.steps.mu.Unlock()
	assert.Equal(t, 1, advanced)
}
