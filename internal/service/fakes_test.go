package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/noah-isme/tutor-directory-api/internal/models"
	appErrors "github.com/noah-isme/tutor-directory-api/pkg/errors"
)

type fakeCatalog struct {
	version   string
	tutors    []models.Tutor
	reviews   []models.Review
	subjects  []models.Subject
	levels    []models.EducationLevel
	locations []models.Location
	listCalls int
	err       error
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		version: "v1",
		tutors:  directoryTutors(),
		reviews: []models.Review{
			{ID: "r1", TutorID: "t1", StudentName: "كريم", Rating: 5},
			{ID: "r2", TutorID: "t2", StudentName: "ليلى", Rating: 4},
		},
		subjects: []models.Subject{
			{ID: "s1", Name: "رياضيات", EducationLevels: []string{"ثانوي"}},
			{ID: "s2", Name: "فيزياء", EducationLevels: []string{"ثانوي"}},
			{ID: "s3", Name: "كيمياء", EducationLevels: []string{"ثانوي"}},
			{ID: "s4", Name: "لغة عربية", EducationLevels: []string{"ابتدائي", "إعدادي"}},
			{ID: "s5", Name: "لغة إنجليزية", EducationLevels: []string{"إعدادي"}},
		},
		levels: []models.EducationLevel{
			{ID: "l1", Name: "ابتدائي", Subjects: []string{"لغة عربية"}},
			{ID: "l2", Name: "إعدادي", Subjects: []string{"لغة عربية", "لغة إنجليزية"}},
			{ID: "l3", Name: "ثانوي", Subjects: []string{"رياضيات", "فيزياء", "كيمياء"}},
		},
		locations: []models.Location{
			{ID: "loc1", Name: "القاهرة", Type: models.LocationCity},
			{ID: "loc2", Name: "الجيزة", Type: models.LocationCity},
			{ID: "loc3", Name: "الإسكندرية", Type: models.LocationCity},
			{ID: "loc4", Name: "أونلاين", Type: models.LocationOnline},
		},
	}
}

func (f *fakeCatalog) Version(context.Context) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.version, nil
}

func (f *fakeCatalog) ListTutors(context.Context) ([]models.Tutor, error) {
	f.listCalls++
	if f.err != nil {
		return nil, f.err
	}
	out := make([]models.Tutor, 0, len(f.tutors))
	for _, t := range f.tutors {
		out = append(out, t.Clone())
	}
	return out, nil
}

func (f *fakeCatalog) FindTutor(_ context.Context, id string) (*models.Tutor, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, t := range f.tutors {
		if t.ID == id {
			clone := t.Clone()
			return &clone, nil
		}
	}
	return nil, appErrors.Clone(appErrors.ErrNotFound, "tutor not found")
}

func (f *fakeCatalog) ListReviews(_ context.Context, id string) ([]models.Review, error) {
	out := []models.Review{}
	for _, r := range f.reviews {
		if r.TutorID == id {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeCatalog) ListSubjects(context.Context) ([]models.Subject, error) {
	return f.subjects, f.err
}

func (f *fakeCatalog) ListLevels(context.Context) ([]models.EducationLevel, error) {
	return f.levels, f.err
}

func (f *fakeCatalog) ListLocations(context.Context) ([]models.Location, error) {
	return f.locations, f.err
}

type memoryCache struct {
	entries map[string][]byte
	ttls    map[string]time.Duration
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: map[string][]byte{}, ttls: map[string]time.Duration{}}
}

func (m *memoryCache) Get(_ context.Context, key string, dest interface{}) error {
	raw, ok := m.entries[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (m *memoryCache) Set(_ context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.entries[key] = raw
	m.ttls[key] = ttl
	return nil
}

func (m *memoryCache) DeleteByPattern(_ context.Context, pattern string) error {
	prefix := strings.TrimSuffix(pattern, "*")
	for key := range m.entries {
		if strings.HasPrefix(key, prefix) {
			delete(m.entries, key)
		}
	}
	return nil
}

type fakeInbox struct {
	applications []models.TeacherApplication
	messages     []models.ContactMessage
	err          error
}

func (f *fakeInbox) CreateApplication(_ context.Context, app *models.TeacherApplication) error {
	if f.err != nil {
		return f.err
	}
	f.applications = append(f.applications, *app)
	return nil
}

func (f *fakeInbox) ListApplications(context.Context, models.InboxFilter) ([]models.TeacherApplication, int, error) {
	return f.applications, len(f.applications), f.err
}

func (f *fakeInbox) CountPendingApplications(context.Context) (int, error) {
	count := 0
	for _, app := range f.applications {
		if app.Status == models.ApplicationPending {
			count++
		}
	}
	return count, f.err
}

func (f *fakeInbox) CreateMessage(_ context.Context, msg *models.ContactMessage) error {
	if f.err != nil {
		return f.err
	}
	f.messages = append(f.messages, *msg)
	return nil
}

func (f *fakeInbox) ListMessages(context.Context, models.InboxFilter) ([]models.ContactMessage, int, error) {
	return f.messages, len(f.messages), f.err
}

func (f *fakeInbox) CountUnreadMessages(context.Context) (int, error) {
	count := 0
	for _, msg := range f.messages {
		if !msg.IsRead {
			count++
		}
	}
	return count, f.err
}
