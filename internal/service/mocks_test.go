package service

import (
	"sync"
	"time"

	"go-fabric-ledger/internal/model"
	"go-fabric-ledger/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// memStore is a shared in-memory backing for the mock repositories, guarded by
// one mutex so concurrent tests see consistent snapshots.
type memStore struct {
	mu        sync.Mutex
	entries   map[uuid.UUID]*model.FabricEntry
	rolls     map[uuid.UUID]*model.FabricRoll
	quality   map[uuid.UUID]*model.QualityParameters // keyed by entry ID
	approvals map[uuid.UUID]*model.RollApproval      // keyed by roll ID
}

func newMemStore() *memStore {
	return &memStore{
		entries:   make(map[uuid.UUID]*model.FabricEntry),
		rolls:     make(map[uuid.UUID]*model.FabricRoll),
		quality:   make(map[uuid.UUID]*model.QualityParameters),
		approvals: make(map[uuid.UUID]*model.RollApproval),
	}
}

// seedEntry inserts an entry with n rolls of the given value and returns the
// entry and its rolls in batch order.
func (s *memStore) seedEntry(status model.FabricStatus, n int, rollValue float64) (*model.FabricEntry, []*model.FabricRoll) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry := &model.FabricEntry{
		SellerName:        "Acme Textiles",
		QuantityValue:     rollValue * float64(n),
		QuantityUnit:      model.UnitKG,
		Color:             "Navy",
		FabricType:        model.FabricKnitted,
		PONumber:          "PO-1001",
		FabricComposition: "100% Cotton",
		InwardedBy:        "clerk@example.com",
		DateInwarded:      time.Now(),
		UatValue:          rollValue * float64(n),
		UatUnit:           model.UnitKG,
		Status:            status,
	}
	entry.ID = uuid.New()
	s.entries[entry.ID] = entry

	rolls := make([]*model.FabricRoll, n)
	for i := 0; i < n; i++ {
		roll := &model.FabricRoll{
			FabricEntryID: entry.ID,
			RollValue:     rollValue,
			RollUnit:      model.UnitKG,
			BatchNumber:   i + 1,
		}
		roll.ID = uuid.New()
		s.rolls[roll.ID] = roll
		rolls[i] = roll
	}
	return entry, rolls
}

func (s *memStore) entryStatus(id uuid.UUID) model.FabricStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.entries[id].Status
}

// ---- EntryRepository ----

type mockEntryRepo struct {
	store *memStore
}

func (m *mockEntryRepo) Create(entry *model.FabricEntry, rolls []model.FabricRoll, rib *model.RibDetails) error {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	entry.ID = uuid.New()
	m.store.entries[entry.ID] = entry
	for i := range rolls {
		rolls[i].ID = uuid.New()
		rolls[i].FabricEntryID = entry.ID
		r := rolls[i]
		m.store.rolls[r.ID] = &r
	}
	entry.Rolls = rolls
	entry.RibDetails = rib
	return nil
}

func (m *mockEntryRepo) FindByID(id uuid.UUID) (*model.FabricEntry, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	entry, ok := m.store.entries[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := m.store.loadLocked(entry)
	return &cp, nil
}

// loadLocked copies an entry with rolls, approvals and quality attached, the
// way the real repository preloads them. Caller holds the store mutex.
func (s *memStore) loadLocked(entry *model.FabricEntry) model.FabricEntry {
	cp := *entry
	cp.Rolls = nil
	for _, r := range s.rolls {
		if r.FabricEntryID != entry.ID {
			continue
		}
		roll := *r
		if a, ok := s.approvals[roll.ID]; ok {
			approval := *a
			roll.Approval = &approval
		}
		cp.Rolls = append(cp.Rolls, roll)
	}
	if q, ok := s.quality[entry.ID]; ok {
		quality := *q
		cp.Quality = &quality
	}
	return cp
}

func (m *mockEntryRepo) FindAll(filter repository.EntryFilter) ([]model.FabricEntry, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	var out []model.FabricEntry
	for _, e := range m.store.entries {
		if filter.Status != "" && e.Status != filter.Status {
			continue
		}
		if filter.SellerName != "" && e.SellerName != filter.SellerName {
			continue
		}
		if filter.PONumber != "" && e.PONumber != filter.PONumber {
			continue
		}
		if filter.InwardedBy != "" && e.InwardedBy != filter.InwardedBy {
			continue
		}
		out = append(out, m.store.loadLocked(e))
	}
	return out, nil
}

func (m *mockEntryRepo) Update(entry *model.FabricEntry) error {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	if _, ok := m.store.entries[entry.ID]; !ok {
		return gorm.ErrRecordNotFound
	}
	cp := *entry
	m.store.entries[entry.ID] = &cp
	return nil
}

func (m *mockEntryRepo) UpdateStatusFrom(id uuid.UUID, from, to model.FabricStatus) (bool, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	entry, ok := m.store.entries[id]
	if !ok || entry.Status != from {
		return false, nil
	}
	entry.Status = to
	return true, nil
}

func (m *mockEntryRepo) AttachDocument(id uuid.UUID, documentURL string) error {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	entry, ok := m.store.entries[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	entry.FtpDocumentURL = documentURL
	return nil
}

func (m *mockEntryRepo) Delete(id uuid.UUID) error {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	delete(m.store.entries, id)
	return nil
}

// ---- RollRepository ----

type mockRollRepo struct {
	store *memStore
}

func (m *mockRollRepo) FindByID(id uuid.UUID) (*model.FabricRoll, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	roll, ok := m.store.rolls[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *roll
	return &cp, nil
}

func (m *mockRollRepo) FindByEntry(entryID uuid.UUID) ([]model.FabricRoll, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	var out []model.FabricRoll
	for _, r := range m.store.rolls {
		if r.FabricEntryID == entryID {
			out = append(out, *r)
		}
	}
	return out, nil
}

// ---- QualityRepository ----

type mockQualityRepo struct {
	store *memStore
}

func (m *mockQualityRepo) Create(record *model.QualityParameters) error {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	if _, exists := m.store.quality[record.FabricEntryID]; exists {
		return gorm.ErrDuplicatedKey
	}
	record.ID = uuid.New()
	cp := *record
	m.store.quality[record.FabricEntryID] = &cp
	return nil
}

func (m *mockQualityRepo) FindByEntry(entryID uuid.UUID) (*model.QualityParameters, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	record, ok := m.store.quality[entryID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *record
	return &cp, nil
}

// ---- ApprovalRepository ----

type mockApprovalRepo struct {
	store *memStore
}

func (m *mockApprovalRepo) Create(approval *model.RollApproval) error {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	if _, exists := m.store.approvals[approval.FabricRollID]; exists {
		return gorm.ErrDuplicatedKey
	}
	approval.ID = uuid.New()
	cp := *approval
	m.store.approvals[approval.FabricRollID] = &cp
	return nil
}

func (m *mockApprovalRepo) FindByID(id uuid.UUID) (*model.RollApproval, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	for _, a := range m.store.approvals {
		if a.ID == id {
			cp := *a
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockApprovalRepo) FindByRoll(rollID uuid.UUID) (*model.RollApproval, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	approval, ok := m.store.approvals[rollID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *approval
	return &cp, nil
}

func (m *mockApprovalRepo) FindByEntry(entryID uuid.UUID) ([]model.RollApproval, error) {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	var out []model.RollApproval
	for rollID, a := range m.store.approvals {
		roll, ok := m.store.rolls[rollID]
		if ok && roll.FabricEntryID == entryID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (m *mockApprovalRepo) UpdateEvidence(id uuid.UUID, evidenceRef string) error {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	for _, a := range m.store.approvals {
		if a.ID == id {
			a.DebitNoteURL = evidenceRef
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

// ---- fixtures ----

type fixture struct {
	store        *memStore
	entryRepo    *mockEntryRepo
	rollRepo     *mockRollRepo
	qualityRepo  *mockQualityRepo
	approvalRepo *mockApprovalRepo
}

func newFixture() *fixture {
	store := newMemStore()
	return &fixture{
		store:        store,
		entryRepo:    &mockEntryRepo{store},
		rollRepo:     &mockRollRepo{store},
		qualityRepo:  &mockQualityRepo{store},
		approvalRepo: &mockApprovalRepo{store},
	}
}

var (
	clerk    = Actor{ID: "u1", Email: "clerk@example.com", Name: "Clerk", Role: model.RoleInwardClerk}
	checker  = Actor{ID: "u2", Email: "checker@example.com", Name: "Checker", Role: model.RoleQualityChecker}
	approver = Actor{ID: "u3", Email: "approver@example.com", Name: "Approver", Role: model.RoleApprover}
	admin    = Actor{ID: "u4", Email: "admin@example.com", Name: "Admin", Role: model.RoleSuperadmin}
)
