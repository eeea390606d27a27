package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"campusevents/internal/domain"
)

// fakeEventRepo is an in-memory EventRepository for tests.
type fakeEventRepo struct {
	byID      map[string]*domain.Event
	nextID    int
	createErr error
	getErr    error // if set, GetByID returns this error for any id
	listErr   error
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{
		byID:   make(map[string]*domain.Event),
		nextID: 1,
	}
}

func (f *fakeEventRepo) Create(ctx context.Context, e *domain.Event) error {
	if f.createErr != nil {
		return f.createErr
	}
	e.ID = fmt.Sprintf("ev-%d", f.nextID)
	f.nextID++
	f.byID[e.ID] = e
	return nil
}

func (f *fakeEventRepo) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	if e, ok := f.byID[id]; ok {
		return e, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeEventRepo) List(ctx context.Context) ([]*domain.Event, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]*domain.Event, 0, len(f.byID))
	for _, e := range f.byID {
		out = append(out, e)
	}
	return out, nil
}

func (f *fakeEventRepo) Delete(ctx context.Context, id string) error {
	if _, ok := f.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeEventRepo) SetWinners(ctx context.Context, id string, winners *domain.Winners) (*domain.Event, error) {
	e, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	e.Winners = winners
	return e, nil
}

// fakeRegistrationRepo is an in-memory RegistrationRepository. Register mimics
// the conditional upsert: it revives a cancelled record in place and reports
// ErrAlreadyRegistered for an active one.
type fakeRegistrationRepo struct {
	byID        map[string]*domain.Registration
	students    map[string]*domain.StudentSummary // studentID -> summary for ListByEventID
	nextID      int
	registerErr error
	setErr      error
}

func newFakeRegistrationRepo() *fakeRegistrationRepo {
	return &fakeRegistrationRepo{
		byID:     make(map[string]*domain.Registration),
		students: make(map[string]*domain.StudentSummary),
		nextID:   1,
	}
}

func (f *fakeRegistrationRepo) Register(ctx context.Context, reg *domain.Registration) (bool, error) {
	if f.registerErr != nil {
		return false, f.registerErr
	}
	for _, existing := range f.byID {
		if existing.EventID == reg.EventID && existing.StudentID == reg.StudentID {
			if existing.Status == domain.RegistrationStatusRegistered {
				return false, domain.ErrAlreadyRegistered
			}
			existing.Status = domain.RegistrationStatusRegistered
			existing.UpdatedAt = reg.UpdatedAt
			*reg = *existing
			return false, nil
		}
	}
	reg.ID = fmt.Sprintf("reg-%d", f.nextID)
	f.nextID++
	cp := *reg
	f.byID[reg.ID] = &cp
	return true, nil
}

func (f *fakeRegistrationRepo) GetByID(ctx context.Context, id string) (*domain.Registration, error) {
	if r, ok := f.byID[id]; ok {
		return r, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeRegistrationRepo) GetByEventAndStudent(ctx context.Context, eventID, studentID string) (*domain.Registration, error) {
	for _, r := range f.byID {
		if r.EventID == eventID && r.StudentID == studentID {
			return r, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeRegistrationRepo) ListByStudentID(ctx context.Context, studentID string) ([]*domain.Registration, error) {
	var out []*domain.Registration
	for _, r := range f.byID {
		if r.StudentID == studentID {
			out = append(out, r)
		}
	}
	if out == nil {
		out = []*domain.Registration{}
	}
	return out, nil
}

func (f *fakeRegistrationRepo) ListByEventID(ctx context.Context, eventID string) ([]*domain.RegistrationWithStudent, error) {
	var out []*domain.RegistrationWithStudent
	for _, r := range f.byID {
		if r.EventID == eventID {
			student := f.students[r.StudentID]
			if student == nil {
				student = &domain.StudentSummary{ID: r.StudentID}
			}
			out = append(out, &domain.RegistrationWithStudent{Registration: r, Student: student})
		}
	}
	if out == nil {
		out = []*domain.RegistrationWithStudent{}
	}
	return out, nil
}

func (f *fakeRegistrationRepo) SetStatus(ctx context.Context, id, status string, updatedAt time.Time) (*domain.Registration, error) {
	if f.setErr != nil {
		return nil, f.setErr
	}
	r, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	r.Status = status
	r.UpdatedAt = updatedAt
	return r, nil
}

// fakeUserRepo is an in-memory UserRepository for tests.
type fakeUserRepo struct {
	byID      map[string]*domain.User
	nextID    int
	createErr error
	updateErr error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byID:   make(map[string]*domain.User),
		nextID: 1,
	}
}

func (f *fakeUserRepo) Create(ctx context.Context, u *domain.User) error {
	if f.createErr != nil {
		return f.createErr
	}
	for _, existing := range f.byID {
		if strings.EqualFold(existing.Email, u.Email) {
			return domain.ErrDuplicateEmail
		}
	}
	u.ID = fmt.Sprintf("user-%d", f.nextID)
	f.nextID++
	f.byID[u.ID] = u
	return nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	for _, u := range f.byID {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if u, ok := f.byID[id]; ok {
		return u, nil
	}
	return nil, domain.ErrUserNotFound
}

func (f *fakeUserRepo) Update(ctx context.Context, u *domain.User) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	if _, ok := f.byID[u.ID]; !ok {
		return domain.ErrUserNotFound
	}
	f.byID[u.ID] = u
	return nil
}

// fakeOTPRepo is an in-memory OTPRepository for tests.
type fakeOTPRepo struct {
	hashes    map[string]string
	expiries  map[string]time.Time
	upsertErr error
	deleteErr error
}

func newFakeOTPRepo() *fakeOTPRepo {
	return &fakeOTPRepo{
		hashes:   make(map[string]string),
		expiries: make(map[string]time.Time),
	}
}

func (f *fakeOTPRepo) Upsert(ctx context.Context, userID, codeHash string, expiresAt time.Time) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	f.hashes[userID] = codeHash
	f.expiries[userID] = expiresAt
	return nil
}

func (f *fakeOTPRepo) Get(ctx context.Context, userID string) (string, time.Time, error) {
	hash, ok := f.hashes[userID]
	if !ok {
		return "", time.Time{}, domain.ErrNotFound
	}
	return hash, f.expiries[userID], nil
}

func (f *fakeOTPRepo) Delete(ctx context.Context, userID string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	delete(f.hashes, userID)
	delete(f.expiries, userID)
	return nil
}

// fakeEmailService records sent emails; per-method errors are configurable.
type fakeEmailService struct {
	welcomes   []*domain.WelcomeEmailData
	otps       []*domain.OTPEmailData
	welcomeErr error
	otpErr     error
}

func newFakeEmailService() *fakeEmailService {
	return &fakeEmailService{}
}

func (f *fakeEmailService) SendWelcome(ctx context.Context, data *domain.WelcomeEmailData) error {
	if f.welcomeErr != nil {
		return f.welcomeErr
	}
	f.welcomes = append(f.welcomes, data)
	return nil
}

func (f *fakeEmailService) SendOTPCode(ctx context.Context, data *domain.OTPEmailData) error {
	if f.otpErr != nil {
		return f.otpErr
	}
	f.otps = append(f.otps, data)
	return nil
}

// fakeHasher is a deterministic PasswordHasher for tests.
type fakeHasher struct {
	saltErr error
	hashErr error
}

func (f *fakeHasher) GenerateSalt() (string, error) {
	if f.saltErr != nil {
		return "", f.saltErr
	}
	return "test-salt", nil
}

func (f *fakeHasher) Hash(salt, password string) (string, error) {
	if f.hashErr != nil {
		return "", f.hashErr
	}
	return "hash(" + salt + ":" + password + ")", nil
}

func (f *fakeHasher) Compare(hash, salt, password string) error {
	if hash == "hash("+salt+":"+password+")" {
		return nil
	}
	return errors.New("password mismatch")
}

// fakeTokenIssuer issues predictable tokens.
type fakeTokenIssuer struct {
	issueErr error
}

func (f *fakeTokenIssuer) Issue(userID, email, role string, expiry time.Duration) (string, error) {
	if f.issueErr != nil {
		return "", f.issueErr
	}
	return "token-" + userID, nil
}
