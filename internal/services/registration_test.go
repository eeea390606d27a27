package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"campusevents/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedEvent(t *testing.T, repo *fakeEventRepo, title string, fee int64) *domain.Event {
	t.Helper()
	now := time.Now()
	ev := domain.NewEvent(title, "", now.Add(72*time.Hour), "Main Hall", "org-1", "technical", fee, nil, "", now, now)
	require.NoError(t, repo.Create(context.Background(), ev))
	return ev
}

func TestRegistrationService_Register(t *testing.T) {
	ctx := context.Background()
	timeout := 5 * time.Second

	t.Run("creates new registration", func(t *testing.T) {
		eventRepo := newFakeEventRepo()
		regRepo := newFakeRegistrationRepo()
		ev := seedEvent(t, eventRepo, "Hackathon", 0)

		svc := NewRegistrationService(eventRepo, regRepo, timeout)
		reg, created, err := svc.Register(ctx, ev.ID, "stu-1")
		require.NoError(t, err)
		require.True(t, created)
		require.NotEmpty(t, reg.ID)
		assert.Equal(t, ev.ID, reg.EventID)
		assert.Equal(t, "stu-1", reg.StudentID)
		assert.Equal(t, domain.RegistrationStatusRegistered, reg.Status)
	})

	t.Run("event not found", func(t *testing.T) {
		svc := NewRegistrationService(newFakeEventRepo(), newFakeRegistrationRepo(), timeout)
		reg, created, err := svc.Register(ctx, "ev-missing", "stu-1")
		require.True(t, errors.Is(err, domain.ErrNotFound))
		require.Nil(t, reg)
		require.False(t, created)
	})

	t.Run("repeat register is rejected without mutation", func(t *testing.T) {
		eventRepo := newFakeEventRepo()
		regRepo := newFakeRegistrationRepo()
		ev := seedEvent(t, eventRepo, "Hackathon", 0)

		svc := NewRegistrationService(eventRepo, regRepo, timeout)
		first, created, err := svc.Register(ctx, ev.ID, "stu-1")
		require.NoError(t, err)
		require.True(t, created)

		_, _, err = svc.Register(ctx, ev.ID, "stu-1")
		require.True(t, errors.Is(err, domain.ErrAlreadyRegistered))

		// The original record is untouched.
		got, err := regRepo.GetByID(ctx, first.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.RegistrationStatusRegistered, got.Status)
		assert.Equal(t, first.RegisteredAt, got.RegisteredAt)
	})

	t.Run("register after cancel revives the same record", func(t *testing.T) {
		eventRepo := newFakeEventRepo()
		regRepo := newFakeRegistrationRepo()
		ev := seedEvent(t, eventRepo, "Hackathon", 0)

		svc := NewRegistrationService(eventRepo, regRepo, timeout)
		first, _, err := svc.Register(ctx, ev.ID, "stu-1")
		require.NoError(t, err)

		_, err = svc.Cancel(ctx, first.ID, "stu-1")
		require.NoError(t, err)

		revived, created, err := svc.Register(ctx, ev.ID, "stu-1")
		require.NoError(t, err)
		require.False(t, created, "revival reuses the cancelled record")
		assert.Equal(t, first.ID, revived.ID)
		assert.Equal(t, domain.RegistrationStatusRegistered, revived.Status)
	})

	t.Run("repo error", func(t *testing.T) {
		eventRepo := newFakeEventRepo()
		regRepo := newFakeRegistrationRepo()
		regRepo.registerErr = errors.New("db down")
		ev := seedEvent(t, eventRepo, "Hackathon", 0)

		svc := NewRegistrationService(eventRepo, regRepo, timeout)
		_, _, err := svc.Register(ctx, ev.ID, "stu-1")
		require.Error(t, err)
		require.False(t, errors.Is(err, domain.ErrAlreadyRegistered))
	})
}

func TestRegistrationService_Cancel(t *testing.T) {
	ctx := context.Background()
	timeout := 5 * time.Second

	setup := func(t *testing.T) (*fakeEventRepo, *fakeRegistrationRepo, domain.RegistrationService, *domain.Registration) {
		eventRepo := newFakeEventRepo()
		regRepo := newFakeRegistrationRepo()
		ev := seedEvent(t, eventRepo, "Hackathon", 0)
		svc := NewRegistrationService(eventRepo, regRepo, timeout)
		reg, _, err := svc.Register(ctx, ev.ID, "stu-1")
		require.NoError(t, err)
		return eventRepo, regRepo, svc, reg
	}

	t.Run("owner cancels", func(t *testing.T) {
		_, _, svc, reg := setup(t)
		got, err := svc.Cancel(ctx, reg.ID, "stu-1")
		require.NoError(t, err)
		assert.Equal(t, domain.RegistrationStatusCancelled, got.Status)
	})

	t.Run("repeated cancel is no-op success", func(t *testing.T) {
		_, regRepo, svc, reg := setup(t)
		_, err := svc.Cancel(ctx, reg.ID, "stu-1")
		require.NoError(t, err)

		// A second cancel must not write again.
		regRepo.setErr = errors.New("unexpected write")
		got, err := svc.Cancel(ctx, reg.ID, "stu-1")
		require.NoError(t, err)
		assert.Equal(t, domain.RegistrationStatusCancelled, got.Status)
	})

	t.Run("non-owner is forbidden and nothing changes", func(t *testing.T) {
		_, regRepo, svc, reg := setup(t)
		got, err := svc.Cancel(ctx, reg.ID, "stu-2")
		require.True(t, errors.Is(err, domain.ErrForbidden))
		require.Nil(t, got)

		stored, err := regRepo.GetByID(ctx, reg.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.RegistrationStatusRegistered, stored.Status)
	})

	t.Run("registration not found", func(t *testing.T) {
		_, _, svc, _ := setup(t)
		got, err := svc.Cancel(ctx, "reg-missing", "stu-1")
		require.True(t, errors.Is(err, domain.ErrNotFound))
		require.Nil(t, got)
	})
}

func TestRegistrationService_ListForStudent(t *testing.T) {
	ctx := context.Background()
	timeout := 5 * time.Second

	t.Run("joins events and includes cancelled registrations", func(t *testing.T) {
		eventRepo := newFakeEventRepo()
		regRepo := newFakeRegistrationRepo()
		ev1 := seedEvent(t, eventRepo, "Hackathon", 0)
		ev2 := seedEvent(t, eventRepo, "Quiz Night", 5000)

		svc := NewRegistrationService(eventRepo, regRepo, timeout)
		_, _, err := svc.Register(ctx, ev1.ID, "stu-1")
		require.NoError(t, err)
		reg2, _, err := svc.Register(ctx, ev2.ID, "stu-1")
		require.NoError(t, err)
		_, err = svc.Cancel(ctx, reg2.ID, "stu-1")
		require.NoError(t, err)
		_, _, err = svc.Register(ctx, ev1.ID, "stu-other")
		require.NoError(t, err)

		got, err := svc.ListForStudent(ctx, "stu-1")
		require.NoError(t, err)
		require.Len(t, got, 2)
		for _, item := range got {
			require.NotNil(t, item.Event)
			assert.Equal(t, "stu-1", item.Registration.StudentID)
			assert.Equal(t, item.Registration.EventID, item.Event.ID)
		}
	})

	t.Run("skips registrations whose event was deleted", func(t *testing.T) {
		eventRepo := newFakeEventRepo()
		regRepo := newFakeRegistrationRepo()
		ev1 := seedEvent(t, eventRepo, "Hackathon", 0)
		ev2 := seedEvent(t, eventRepo, "Quiz Night", 0)

		svc := NewRegistrationService(eventRepo, regRepo, timeout)
		_, _, err := svc.Register(ctx, ev1.ID, "stu-1")
		require.NoError(t, err)
		_, _, err = svc.Register(ctx, ev2.ID, "stu-1")
		require.NoError(t, err)
		require.NoError(t, eventRepo.Delete(ctx, ev2.ID))

		got, err := svc.ListForStudent(ctx, "stu-1")
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, ev1.ID, got[0].Event.ID)
	})

	t.Run("empty for unknown student", func(t *testing.T) {
		svc := NewRegistrationService(newFakeEventRepo(), newFakeRegistrationRepo(), timeout)
		got, err := svc.ListForStudent(ctx, "stu-none")
		require.NoError(t, err)
		require.NotNil(t, got)
		require.Empty(t, got)
	})
}

func TestRegistrationService_ListForEvent(t *testing.T) {
	ctx := context.Background()
	timeout := 5 * time.Second

	t.Run("organizer role sees attendees", func(t *testing.T) {
		eventRepo := newFakeEventRepo()
		regRepo := newFakeRegistrationRepo()
		regRepo.students["stu-1"] = &domain.StudentSummary{ID: "stu-1", Name: "Asha", Email: "asha@college.edu"}
		ev := seedEvent(t, eventRepo, "Hackathon", 0)

		svc := NewRegistrationService(eventRepo, regRepo, timeout)
		_, _, err := svc.Register(ctx, ev.ID, "stu-1")
		require.NoError(t, err)

		for _, role := range []string{domain.RoleClub, domain.RoleTNP, domain.RoleAdmin} {
			got, err := svc.ListForEvent(ctx, ev.ID, role)
			require.NoError(t, err)
			require.Len(t, got, 1)
			assert.Equal(t, "Asha", got[0].Student.Name)
		}
	})

	t.Run("student role is forbidden", func(t *testing.T) {
		eventRepo := newFakeEventRepo()
		ev := seedEvent(t, eventRepo, "Hackathon", 0)

		svc := NewRegistrationService(eventRepo, newFakeRegistrationRepo(), timeout)
		got, err := svc.ListForEvent(ctx, ev.ID, domain.RoleStudent)
		require.True(t, errors.Is(err, domain.ErrForbidden))
		require.Nil(t, got)
	})

	t.Run("event not found", func(t *testing.T) {
		svc := NewRegistrationService(newFakeEventRepo(), newFakeRegistrationRepo(), timeout)
		got, err := svc.ListForEvent(ctx, "ev-missing", domain.RoleClub)
		require.True(t, errors.Is(err, domain.ErrNotFound))
		require.Nil(t, got)
	})
}
