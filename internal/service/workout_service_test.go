package service

import (
	"coachplan/fitness-app/internal/domain"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newWorkoutFixture(t *testing.T) (WorkoutService, primitive.ObjectID, *domain.WorkoutTemplate) {
	t.Helper()
	templateRepo := &stubTemplateRepo{}
	sessionRepo := &stubSessionRepo{}
	svc := NewWorkoutService(templateRepo, sessionRepo, testAudit())

	userID := primitive.NewObjectID()
	template, err := svc.CreateTemplate(context.Background(), userID, &domain.WorkoutTemplate{
		Name: "Full Body A",
		Exercises: []domain.TemplateExercise{
			{Name: "Squat", Sets: 3, Reps: 5},
			{Name: "Bench Press", Sets: 3, Reps: 8},
			{Name: "Plank", PrescriptionType: domain.PrescriptionTime, Sets: 3, Seconds: 45},
		},
	})
	require.NoError(t, err)
	return svc, userID, template
}

func TestStartSessionSnapshotsTemplate(t *testing.T) {
	svc, userID, template := newWorkoutFixture(t)
	ctx := context.Background()

	session, err := svc.StartSession(ctx, userID, template.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.SessionInProgress, session.Status)
	assert.Equal(t, 0, session.CompletionPercent)
	require.Len(t, session.Exercises, 3)

	// Editing the template after the session started must not change the
	// session's exercise list.
	template.Exercises = template.Exercises[:1]
	template.Exercises[0].Name = "Front Squat"
	_, err = svc.UpdateTemplate(ctx, userID, template)
	require.NoError(t, err)

	reloaded, err := svc.GetSession(ctx, userID, session.ID)
	require.NoError(t, err)
	require.Len(t, reloaded.Exercises, 3)
	assert.Equal(t, "Squat", reloaded.Exercises[0].Name)
}

func TestStartSessionConflictsWithOpenSession(t *testing.T) {
	svc, userID, template := newWorkoutFixture(t)
	ctx := context.Background()

	first, err := svc.StartSession(ctx, userID, template.ID)
	require.NoError(t, err)

	_, err = svc.StartSession(ctx, userID, template.ID)
	assert.ErrorIs(t, err, ErrSessionInProgress)

	// Finishing the open session unblocks the next start.
	_, err = svc.FinishSession(ctx, userID, first.ID, "")
	require.NoError(t, err)
	_, err = svc.StartSession(ctx, userID, template.ID)
	assert.NoError(t, err)
}

func TestSetExerciseCompletionRecomputesPercent(t *testing.T) {
	svc, userID, template := newWorkoutFixture(t)
	ctx := context.Background()

	session, err := svc.StartSession(ctx, userID, template.ID)
	require.NoError(t, err)

	session, err = svc.SetExerciseCompletion(ctx, userID, session.ID, session.Exercises[0].ID, true)
	require.NoError(t, err)
	assert.Equal(t, 33, session.CompletionPercent)
	assert.True(t, session.Exercises[0].IsCompleted)
	assert.NotNil(t, session.Exercises[0].CompletedAt)

	session, err = svc.SetExerciseCompletion(ctx, userID, session.ID, session.Exercises[1].ID, true)
	require.NoError(t, err)
	assert.Equal(t, 67, session.CompletionPercent)

	// Unchecking brings the percentage back down.
	session, err = svc.SetExerciseCompletion(ctx, userID, session.ID, session.Exercises[1].ID, false)
	require.NoError(t, err)
	assert.Equal(t, 33, session.CompletionPercent)
	assert.Nil(t, session.Exercises[1].CompletedAt)

	_, err = svc.SetExerciseCompletion(ctx, userID, session.ID, primitive.NewObjectID(), true)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFinishSessionKeepsPartialPercent(t *testing.T) {
	svc, userID, template := newWorkoutFixture(t)
	ctx := context.Background()

	session, err := svc.StartSession(ctx, userID, template.ID)
	require.NoError(t, err)

	for _, exID := range []primitive.ObjectID{session.Exercises[0].ID, session.Exercises[1].ID} {
		session, err = svc.SetExerciseCompletion(ctx, userID, session.ID, exID, true)
		require.NoError(t, err)
	}

	finished, err := svc.FinishSession(ctx, userID, session.ID, "felt strong")
	require.NoError(t, err)
	assert.Equal(t, domain.SessionFinished, finished.Status)
	assert.Equal(t, 67, finished.CompletionPercent, "finishing does not bump the percentage")
	assert.Equal(t, "felt strong", finished.DayNote)
	require.NotNil(t, finished.FinishedAt)
}

func TestFinishedSessionRejectsFurtherChanges(t *testing.T) {
	svc, userID, template := newWorkoutFixture(t)
	ctx := context.Background()

	session, err := svc.StartSession(ctx, userID, template.ID)
	require.NoError(t, err)
	finished, err := svc.FinishSession(ctx, userID, session.ID, "")
	require.NoError(t, err)

	_, err = svc.SetExerciseCompletion(ctx, userID, finished.ID, finished.Exercises[0].ID, true)
	assert.ErrorIs(t, err, ErrSessionFinished)
	_, err = svc.FinishSession(ctx, userID, finished.ID, "again")
	assert.ErrorIs(t, err, ErrSessionFinished)
}

func TestResetSessionClearsProgressKeepsStatus(t *testing.T) {
	svc, userID, template := newWorkoutFixture(t)
	ctx := context.Background()

	session, err := svc.StartSession(ctx, userID, template.ID)
	require.NoError(t, err)
	session, err = svc.SetExerciseCompletion(ctx, userID, session.ID, session.Exercises[0].ID, true)
	require.NoError(t, err)
	finished, err := svc.FinishSession(ctx, userID, session.ID, "")
	require.NoError(t, err)

	reset, err := svc.ResetSession(ctx, userID, finished.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, reset.CompletionPercent)
	for _, ex := range reset.Exercises {
		assert.False(t, ex.IsCompleted)
		assert.Nil(t, ex.CompletedAt)
	}
	assert.Equal(t, domain.SessionFinished, reset.Status, "reset does not reopen the session")
}

func TestTemplateOwnership(t *testing.T) {
	svc, _, template := newWorkoutFixture(t)
	ctx := context.Background()
	stranger := primitive.NewObjectID()

	_, err := svc.GetTemplate(ctx, stranger, template.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = svc.StartSession(ctx, stranger, template.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	err = svc.DeleteTemplate(ctx, stranger, template.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListTemplatesDerivesStatus(t *testing.T) {
	svc, userID, template := newWorkoutFixture(t)
	ctx := context.Background()

	summaries, err := svc.ListTemplates(ctx, userID)
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	assert.Equal(t, domain.TemplateNotStarted, summaries[0].Status)

	session, err := svc.StartSession(ctx, userID, template.ID)
	require.NoError(t, err)
	summaries, err = svc.ListTemplates(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, domain.TemplateInProgress, summaries[0].Status)

	_, err = svc.FinishSession(ctx, userID, session.ID, "")
	require.NoError(t, err)
	summaries, err = svc.ListTemplates(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, domain.TemplateDone, summaries[0].Status)
	assert.NotNil(t, summaries[0].LastCompletedAt)
}

func TestCalendarMonthGroupsByDay(t *testing.T) {
	svc, userID, template := newWorkoutFixture(t)
	ctx := context.Background()

	session, err := svc.StartSession(ctx, userID, template.ID)
	require.NoError(t, err)
	finished, err := svc.FinishSession(ctx, userID, session.ID, "")
	require.NoError(t, err)

	now := time.Now().UTC()
	days, err := svc.CalendarMonth(ctx, userID, now.Year(), int(now.Month()))
	require.NoError(t, err)
	require.Len(t, days, 1)
	assert.Equal(t, finished.FinishedAt.Format("2006-01-02"), days[0].Date)
	assert.Equal(t, 1, days[0].Count)

	_, err = svc.CalendarMonth(ctx, userID, now.Year(), 13)
	require.Error(t, err)

	daySessions, err := svc.CalendarDaySessions(ctx, userID, *finished.FinishedAt)
	require.NoError(t, err)
	assert.Len(t, daySessions, 1)
}
