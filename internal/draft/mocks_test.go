package draft

import (
	"context"
	"fmt"
	"time"

	"ms-composer/internal/backend"
	"ms-composer/internal/draft/session"
	"ms-composer/internal/logger"
	"ms-composer/internal/media"
	"ms-composer/internal/models"
)

// mockBase gives every mock a call counter and a per-method failure switch.
type mockBase struct {
	calls  map[string]int
	failOn map[string]bool
}

func newMockBase() mockBase {
	return mockBase{calls: map[string]int{}, failOn: map[string]bool{}}
}

func (m *mockBase) hit(name string) error {
	m.calls[name]++
	if m.failOn[name] {
		return fmt.Errorf("simulated %s failure", name)
	}
	return nil
}

// ---------------- event API mock ----------------

type mockEventAPI struct {
	mockBase
	records      map[string]*models.EventRecord
	bySlug       map[string]*models.EventRecord
	lastDetails  models.DetailsForm
	lastSponsors []models.Sponsor
	lastArtists  []models.Artist
	lastState    models.PublishState
}

func newMockEventAPI() *mockEventAPI {
	return &mockEventAPI{
		mockBase: newMockBase(),
		records:  map[string]*models.EventRecord{},
		bySlug:   map[string]*models.EventRecord{},
	}
}

func (m *mockEventAPI) addRecord(rec *models.EventRecord) {
	m.records[rec.ID] = rec
	if rec.Slug != "" {
		m.bySlug[rec.Slug] = rec
	}
}

func (m *mockEventAPI) CreateEvent(_ context.Context, f models.DetailsForm) (*models.EventRecord, error) {
	if err := m.hit("CreateEvent"); err != nil {
		return nil, err
	}
	id := fmt.Sprintf("evt-%d", len(m.records)+1)
	rec := &models.EventRecord{
		ID:           id,
		Slug:         id + "-slug",
		Title:        f.Title,
		Description:  f.Description,
		Category:     f.Category,
		Subcategory:  f.Subcategory,
		PublishState: models.PublishStateDraft,
	}
	m.addRecord(rec)
	return rec, nil
}

func (m *mockEventAPI) UpdateDetails(_ context.Context, _ string, f models.DetailsForm) error {
	if err := m.hit("UpdateDetails"); err != nil {
		return err
	}
	m.lastDetails = f
	return nil
}

func (m *mockEventAPI) UpdateSchedule(_ context.Context, _ string, _, _ time.Time) error {
	return m.hit("UpdateSchedule")
}

func (m *mockEventAPI) UpdateAdditionalInfo(_ context.Context, _ string, _ models.AdditionalInfoForm, state models.PublishState) error {
	if err := m.hit("UpdateAdditionalInfo"); err != nil {
		return err
	}
	m.lastState = state
	return nil
}

func (m *mockEventAPI) ReplaceSponsors(_ context.Context, _ string, sponsors []models.Sponsor) error {
	if err := m.hit("ReplaceSponsors"); err != nil {
		return err
	}
	m.lastSponsors = sponsors
	return nil
}

func (m *mockEventAPI) ReplaceArtists(_ context.Context, _ string, artists []models.Artist) error {
	if err := m.hit("ReplaceArtists"); err != nil {
		return err
	}
	m.lastArtists = artists
	return nil
}

func (m *mockEventAPI) SetPublishState(_ context.Context, _ string, state models.PublishState) error {
	if err := m.hit("SetPublishState"); err != nil {
		return err
	}
	m.lastState = state
	return nil
}

func (m *mockEventAPI) GetEvent(_ context.Context, eventID string) (*models.EventRecord, error) {
	if err := m.hit("GetEvent"); err != nil {
		return nil, err
	}
	rec, ok := m.records[eventID]
	if !ok {
		return nil, fmt.Errorf("event %s: %w", eventID, backend.ErrNotFound)
	}
	cp := *rec
	return &cp, nil
}

func (m *mockEventAPI) GetEventBySlug(_ context.Context, slug string) (*models.EventRecord, error) {
	if err := m.hit("GetEventBySlug"); err != nil {
		return nil, err
	}
	rec, ok := m.bySlug[slug]
	if !ok {
		return nil, fmt.Errorf("slug %s: %w", slug, backend.ErrNotFound)
	}
	cp := *rec
	return &cp, nil
}

// writeCount sums the mutating calls, used by the zero-write assertions.
func (m *mockEventAPI) writeCount() int {
	n := 0
	for _, name := range []string{"CreateEvent", "UpdateDetails", "UpdateSchedule", "UpdateAdditionalInfo", "ReplaceSponsors", "ReplaceArtists", "SetPublishState"} {
		n += m.calls[name]
	}
	return n
}

// ---------------- venue API mock ----------------

type mockVenueAPI struct {
	mockBase
	created        []models.Venue
	updated        []models.Venue
	updateNotFound bool
}

func newMockVenueAPI() *mockVenueAPI {
	return &mockVenueAPI{mockBase: newMockBase()}
}

func (m *mockVenueAPI) CreateVenue(_ context.Context, v models.Venue) (*models.Venue, error) {
	if err := m.hit("CreateVenue"); err != nil {
		return nil, err
	}
	v.ID = fmt.Sprintf("venue-%d", len(m.created)+1)
	m.created = append(m.created, v)
	return &v, nil
}

func (m *mockVenueAPI) UpdateVenue(_ context.Context, v models.Venue) error {
	if err := m.hit("UpdateVenue"); err != nil {
		return err
	}
	if m.updateNotFound {
		return fmt.Errorf("venue %s: %w", v.ID, backend.ErrNotFound)
	}
	m.updated = append(m.updated, v)
	return nil
}

// ---------------- ticket API mock ----------------

type mockTicketAPI struct {
	mockBase
	created []models.Ticket
	deleted []string
}

func newMockTicketAPI() *mockTicketAPI {
	return &mockTicketAPI{mockBase: newMockBase()}
}

func (m *mockTicketAPI) CreateTicket(_ context.Context, t models.Ticket) (*models.Ticket, error) {
	if err := m.hit("CreateTicket"); err != nil {
		return nil, err
	}
	t.ID = fmt.Sprintf("ticket-%d", len(m.created)+1)
	m.created = append(m.created, t)
	return &t, nil
}

func (m *mockTicketAPI) DeleteTicket(_ context.Context, ticketID string) error {
	if err := m.hit("DeleteTicket"); err != nil {
		return err
	}
	m.deleted = append(m.deleted, ticketID)
	return nil
}

// ---------------- artist API mock ----------------

type mockArtistAPI struct {
	mockBase
	created  []models.Artist
	failName string
}

func newMockArtistAPI() *mockArtistAPI {
	return &mockArtistAPI{mockBase: newMockBase()}
}

func (m *mockArtistAPI) CreateArtist(_ context.Context, a models.Artist) (*models.Artist, error) {
	m.calls["CreateArtist"]++
	if m.failName != "" && a.Name == m.failName {
		return nil, fmt.Errorf("simulated create failure for %s", a.Name)
	}
	a.ID = fmt.Sprintf("artist-%d", len(m.created)+1)
	m.created = append(m.created, a)
	return &a, nil
}

func (m *mockArtistAPI) createdNames() []string {
	names := make([]string, 0, len(m.created))
	for _, a := range m.created {
		names = append(names, a.Name)
	}
	return names
}

// ---------------- media API mock ----------------

type mockMediaAPI struct {
	mockBase
	seq           int
	persistedURLs []string
	uploadedFiles []string
	deletedFlyers int
	deletedImages []string
}

func newMockMediaAPI() *mockMediaAPI {
	return &mockMediaAPI{mockBase: newMockBase()}
}

func (m *mockMediaAPI) nextImage() *models.ImageRecord {
	m.seq++
	id := fmt.Sprintf("img-%d", m.seq)
	return &models.ImageRecord{ID: id, URL: "https://cdn.example/" + id}
}

func (m *mockMediaAPI) PersistFlyer(_ context.Context, _, stagedURL string) (*models.ImageRecord, error) {
	if err := m.hit("PersistFlyer"); err != nil {
		return nil, err
	}
	m.persistedURLs = append(m.persistedURLs, stagedURL)
	return m.nextImage(), nil
}

func (m *mockMediaAPI) PersistGalleryImage(_ context.Context, _, stagedURL string) (*models.ImageRecord, error) {
	if err := m.hit("PersistGalleryImage"); err != nil {
		return nil, err
	}
	m.persistedURLs = append(m.persistedURLs, stagedURL)
	return m.nextImage(), nil
}

func (m *mockMediaAPI) UploadFlyer(_ context.Context, _, filename string, _ []byte) (*models.ImageRecord, error) {
	if err := m.hit("UploadFlyer"); err != nil {
		return nil, err
	}
	m.uploadedFiles = append(m.uploadedFiles, filename)
	return m.nextImage(), nil
}

func (m *mockMediaAPI) UploadGalleryImage(_ context.Context, _, filename string, _ []byte) (*models.ImageRecord, error) {
	if err := m.hit("UploadGalleryImage"); err != nil {
		return nil, err
	}
	m.uploadedFiles = append(m.uploadedFiles, filename)
	return m.nextImage(), nil
}

func (m *mockMediaAPI) DeleteFlyer(_ context.Context, _ string) error {
	if err := m.hit("DeleteFlyer"); err != nil {
		return err
	}
	m.deletedFlyers++
	return nil
}

func (m *mockMediaAPI) DeleteGalleryImage(_ context.Context, _, imageID string) error {
	if err := m.hit("DeleteGalleryImage"); err != nil {
		return err
	}
	m.deletedImages = append(m.deletedImages, imageID)
	return nil
}

// ---------------- stager mock ----------------

type mockStager struct {
	calls int
	fail  bool
}

func (m *mockStager) Stage(_ context.Context, filename string, _ []byte) (*media.StagedFile, error) {
	m.calls++
	if m.fail {
		return nil, fmt.Errorf("simulated staging outage")
	}
	return &media.StagedFile{
		TempID: fmt.Sprintf("tmp-%d", m.calls),
		URL:    "https://staging.example/" + filename,
	}, nil
}

// ---------------- session store mock ----------------

type memSessionStore struct {
	sessions map[string]*session.DraftSession
	deleted  []string
	failSave bool
}

func newMemSessionStore() *memSessionStore {
	return &memSessionStore{sessions: map[string]*session.DraftSession{}}
}

func (m *memSessionStore) Get(_ context.Context, id string) (*session.DraftSession, error) {
	s, ok := m.sessions[id]
	if !ok {
		return nil, session.ErrSessionNotFound
	}
	return s, nil
}

func (m *memSessionStore) Save(_ context.Context, s *session.DraftSession) error {
	if m.failSave {
		return fmt.Errorf("simulated session save failure")
	}
	m.sessions[s.ID] = s
	return nil
}

func (m *memSessionStore) Delete(_ context.Context, id string) error {
	delete(m.sessions, id)
	m.deleted = append(m.deleted, id)
	return nil
}

// ---------------- kafka mock ----------------

type mockKafka struct {
	draftCreated []string
	stepsSaved   []string
	published    []string
}

func (m *mockKafka) PublishDraftCreated(draftID, eventID string) error {
	m.draftCreated = append(m.draftCreated, eventID)
	return nil
}

func (m *mockKafka) PublishStepSaved(draftID, eventID, step string) error {
	m.stepsSaved = append(m.stepsSaved, step)
	return nil
}

func (m *mockKafka) PublishEventPublished(eventID, slug string) error {
	m.published = append(m.published, eventID)
	return nil
}

// ---------------- test environment ----------------

type testEnv struct {
	svc      *Service
	events   *mockEventAPI
	venues   *mockVenueAPI
	tickets  *mockTicketAPI
	artists  *mockArtistAPI
	mediaAPI *mockMediaAPI
	stager   *mockStager
	store    *memSessionStore
	kafka    *mockKafka
}

func newTestEnv() *testEnv {
	env := &testEnv{
		events:   newMockEventAPI(),
		venues:   newMockVenueAPI(),
		tickets:  newMockTicketAPI(),
		artists:  newMockArtistAPI(),
		mediaAPI: newMockMediaAPI(),
		stager:   &mockStager{},
		store:    newMemSessionStore(),
		kafka:    &mockKafka{},
	}
	env.svc = NewService(
		env.events,
		env.venues,
		env.tickets,
		env.artists,
		env.mediaAPI,
		env.stager,
		env.store,
		env.kafka,
		&logger.Logger{},
		"https://ticketly.example/events",
	)
	return env
}

// ---------------- fixtures ----------------

func validDetails() models.DetailsForm {
	return models.DetailsForm{
		Title:       "Summer Fest",
		Description: "Two days of music",
		Category:    "music",
		Subcategory: "festival",
		EventType:   "in-person",
	}
}

func validSchedule() models.ScheduleForm {
	return models.ScheduleForm{
		StartDate: "2026-09-12",
		StartTime: "18:00",
		EndDate:   "2026-09-13",
		EndTime:   "02:00",
	}
}

func validVenue() models.Venue {
	return models.Venue{
		Name:         "Riverside Arena",
		AddressLine1: "1 Quay Street",
		City:         "Portsport",
		State:        "WS",
		Country:      "Freedonia",
		PostalCode:   "10001",
		Phone:        "+1 555 0100",
		Email:        "box@riverside.example",
	}
}

func validTicket() models.Ticket {
	return models.Ticket{
		Name:     "General Admission",
		Category: "GA",
		Price:    35,
		Capacity: 500,
	}
}

// attachCover hangs a staged cover on the draft so the details gate passes.
func attachCover(d *Draft) {
	d.Event.Cover = &models.MediaAttachment{
		TempID: "tmp-cover",
		URL:    "https://staging.example/cover.png",
		Kind:   models.MediaKindCover,
		State:  models.MediaStaged,
	}
}
