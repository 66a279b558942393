package filing

import (
	"context"
	"io"
	"time"

	"github.com/docfiling/backend/internal/domain/audit"
	"github.com/docfiling/backend/internal/domain/filing"
	"github.com/stretchr/testify/mock"
)

// MockRegionRepository is a mock implementation of filing.RegionRepository
type MockRegionRepository struct {
	mock.Mock
}

func (m *MockRegionRepository) FindByID(ctx context.Context, id uint) (*filing.Region, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*filing.Region), args.Error(1)
}

func (m *MockRegionRepository) FindByName(ctx context.Context, name string) (*filing.Region, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*filing.Region), args.Error(1)
}

func (m *MockRegionRepository) FindAll(ctx context.Context) ([]filing.Region, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]filing.Region), args.Error(1)
}

func (m *MockRegionRepository) GetOrCreate(ctx context.Context, name string) (*filing.Region, bool, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, false, args.Error(2)
	}
	return args.Get(0).(*filing.Region), args.Bool(1), args.Error(2)
}

func (m *MockRegionRepository) Update(ctx context.Context, region *filing.Region) error {
	args := m.Called(ctx, region)
	return args.Error(0)
}

func (m *MockRegionRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRegionRepository) EnsureNames(ctx context.Context, names []string) (int64, error) {
	args := m.Called(ctx, names)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRegionRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// MockEnvelopeRepository is a mock implementation of filing.EnvelopeRepository
type MockEnvelopeRepository struct {
	mock.Mock
}

func (m *MockEnvelopeRepository) FindByID(ctx context.Context, id uint) (*filing.Envelope, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*filing.Envelope), args.Error(1)
}

func (m *MockEnvelopeRepository) FindByRegion(ctx context.Context, regionID uint) ([]filing.Envelope, error) {
	args := m.Called(ctx, regionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]filing.Envelope), args.Error(1)
}

func (m *MockEnvelopeRepository) Create(ctx context.Context, envelope *filing.Envelope) error {
	args := m.Called(ctx, envelope)
	return args.Error(0)
}

func (m *MockEnvelopeRepository) UpdateHeader(ctx context.Context, envelope *filing.Envelope) error {
	args := m.Called(ctx, envelope)
	return args.Error(0)
}

func (m *MockEnvelopeRepository) ReplaceMetas(ctx context.Context, envelopeID uint, metas []filing.EnvelopeMeta) error {
	args := m.Called(ctx, envelopeID, metas)
	return args.Error(0)
}

func (m *MockEnvelopeRepository) ReplaceDocuments(ctx context.Context, envelopeID uint, documents []filing.Document) error {
	args := m.Called(ctx, envelopeID, documents)
	return args.Error(0)
}

func (m *MockEnvelopeRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockEnvelopeRepository) List(ctx context.Context, filter filing.ListFilter) ([]filing.EnvelopeListing, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]filing.EnvelopeListing), args.Error(1)
}

func (m *MockEnvelopeRepository) DistinctDoorNumbers(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockEnvelopeRepository) FindTitles(ctx context.Context, ids []uint) (map[uint]string, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uint]string), args.Error(1)
}

func (m *MockEnvelopeRepository) SetPrinted(ctx context.Context, ids []uint, printed bool) (int64, error) {
	args := m.Called(ctx, ids, printed)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockEnvelopeRepository) ReplaceDoorNumber(ctx context.Context, selector filing.DoorSelector, newDoor string) (int64, error) {
	args := m.Called(ctx, selector, newDoor)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockEnvelopeRepository) FindDocument(ctx context.Context, envelopeID, documentID uint) (*filing.Document, error) {
	args := m.Called(ctx, envelopeID, documentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*filing.Document), args.Error(1)
}

func (m *MockEnvelopeRepository) SetDocumentFile(ctx context.Context, documentID uint, storageKey string) error {
	args := m.Called(ctx, documentID, storageKey)
	return args.Error(0)
}

// MockDocumentTypeRepository is a mock implementation of filing.DocumentTypeRepository
type MockDocumentTypeRepository struct {
	mock.Mock
}

func (m *MockDocumentTypeRepository) FindByID(ctx context.Context, id uint) (*filing.DocumentType, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*filing.DocumentType), args.Error(1)
}

func (m *MockDocumentTypeRepository) FindAll(ctx context.Context) ([]filing.DocumentType, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]filing.DocumentType), args.Error(1)
}

func (m *MockDocumentTypeRepository) InsertIfAbsent(ctx context.Context, name string) (*filing.DocumentType, bool, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, false, args.Error(2)
	}
	return args.Get(0).(*filing.DocumentType), args.Bool(1), args.Error(2)
}

func (m *MockDocumentTypeRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockDocumentTypeRepository) EnsureNames(ctx context.Context, names []string) (int64, error) {
	args := m.Called(ctx, names)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockDocumentTypeRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// MockAuditRepository is a mock implementation of audit.Repository
type MockAuditRepository struct {
	mock.Mock
}

func (m *MockAuditRepository) Append(ctx context.Context, entry *audit.Entry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockAuditRepository) Recent(ctx context.Context, limit int) ([]audit.Entry, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]audit.Entry), args.Error(1)
}

// MockFileStorage is a mock implementation of FileStorage
type MockFileStorage struct {
	mock.Mock
}

func (m *MockFileStorage) Upload(ctx context.Context, storageKey string, body io.Reader, size int64, contentType string) error {
	args := m.Called(ctx, storageKey, body, size, contentType)
	return args.Error(0)
}

func (m *MockFileStorage) GenerateDownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error) {
	args := m.Called(ctx, storageKey, expiresIn)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

func (m *MockFileStorage) DeleteObject(ctx context.Context, storageKey string) error {
	args := m.Called(ctx, storageKey)
	return args.Error(0)
}

// MockSeeder is a mock implementation of Seeder
type MockSeeder struct {
	mock.Mock
}

func (m *MockSeeder) EnsureDefaults(ctx context.Context) (filing.SeedResult, error) {
	args := m.Called(ctx)
	return args.Get(0).(filing.SeedResult), args.Error(1)
}

// captureNotifier records every published entry
type captureNotifier struct {
	entries []audit.Entry
}

func (c *captureNotifier) Notify(_ context.Context, entry audit.Entry) {
	c.entries = append(c.entries, entry)
}

// testDeps bundles mocks wired through a no-op transaction scope
type testDeps struct {
	regions   *MockRegionRepository
	envelopes *MockEnvelopeRepository
	docTypes  *MockDocumentTypeRepository
	audits    *MockAuditRepository
	storage   *MockFileStorage
	notifier  *captureNotifier
	scope     *NoOpTransactionScope
	recorder  *Recorder
	auditSeq  uint
}

func newTestDeps() *testDeps {
	d := &testDeps{
		regions:   new(MockRegionRepository),
		envelopes: new(MockEnvelopeRepository),
		docTypes:  new(MockDocumentTypeRepository),
		audits:    new(MockAuditRepository),
		storage:   new(MockFileStorage),
		notifier:  &captureNotifier{},
	}
	d.scope = NewNoOpTransactionScope(d.regions, d.envelopes, d.docTypes, d.audits)
	d.recorder = NewRecorder(nil, d.notifier)
	return d
}

// expectAudit makes Append assign an ID and capture the entry
func (d *testDeps) expectAudit(action audit.Action, details string) {
	d.audits.On("Append", mock.Anything, mock.MatchedBy(func(e *audit.Entry) bool {
		return e.Action == action && e.Details == details
	})).Run(func(args mock.Arguments) {
		e := args.Get(1).(*audit.Entry)
		d.auditSeq++
		e.ID = d.auditSeq
		e.Timestamp = time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	}).Return(nil).Once()
}

func (d *testDeps) assertExpectations(t mock.TestingT) {
	d.regions.AssertExpectations(t)
	d.envelopes.AssertExpectations(t)
	d.docTypes.AssertExpectations(t)
	d.audits.AssertExpectations(t)
	d.storage.AssertExpectations(t)
}
