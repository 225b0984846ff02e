package repositories

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/deepsyllabus/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestMemoryRepository(t *testing.T) *memoryRepository {
	t.Helper()
	return NewMemoryRepository(zap.NewNop())
}

func threeDrafts() []models.ComponentDraft {
	return []models.ComponentDraft{
		{Type: models.ComponentTypeVideo, Content: `{"idea":"v","link":""}`},
		{Type: models.ComponentTypeExplanation, Content: `{"content":"e","sections":["a"]}`},
		{Type: models.ComponentTypeAssessment, Content: `{"type":"quiz","content":"q"}`},
	}
}

func TestMemoryRepository_Init(t *testing.T) {
	repo := newTestMemoryRepository(t)

	assert.NoError(t, repo.Init(context.Background()))
	assert.NoError(t, repo.Init(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Error(t, repo.Init(ctx))
}

func TestMemoryRepository_CreateAndGet(t *testing.T) {
	repo := newTestMemoryRepository(t)
	ctx := context.Background()

	created, err := repo.CreateSyllabusWithComponents(ctx, "Intro to Linear Algebra", "Intro to Linear Algebra. Vectors.", threeDrafts())
	require.NoError(t, err)
	require.Len(t, created.Components, 3)

	got, err := repo.GetSyllabus(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, created.Title, got.Title)
	assert.Equal(t, created.Synopsis, got.Synopsis)
	assert.Empty(t, got.Files)
	require.Len(t, got.Components, 3)
	for i, ct := range models.ComponentTypes {
		assert.Equal(t, ct, got.Components[i].Type)
		assert.Equal(t, created.Components[i].ID, got.Components[i].ID)
		assert.False(t, got.Components[i].Accepted)
	}

	exists, err := repo.SyllabusExists(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestMemoryRepository_GetMissing(t *testing.T) {
	repo := newTestMemoryRepository(t)

	got, err := repo.GetSyllabus(context.Background(), "missing")
	assert.NoError(t, err)
	assert.Nil(t, got)

	exists, err := repo.SyllabusExists(context.Background(), "missing")
	assert.NoError(t, err)
	assert.False(t, exists)
}

func TestMemoryRepository_CreateSyllabusWithComponents_InvalidType(t *testing.T) {
	repo := newTestMemoryRepository(t)
	drafts := append(threeDrafts(), models.ComponentDraft{Type: "podcast", Content: "{}"})

	created, err := repo.CreateSyllabusWithComponents(context.Background(), "T", "S", drafts)

	assert.Error(t, err)
	assert.Nil(t, created)
	all, err := repo.GetAllSyllabi(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all, "nothing may be stored when a draft is rejected")
}

func TestMemoryRepository_ReturnedValuesAreDetached(t *testing.T) {
	repo := newTestMemoryRepository(t)
	ctx := context.Background()

	created, err := repo.CreateSyllabusWithComponents(ctx, "T", "S", threeDrafts())
	require.NoError(t, err)
	created.Title = "changed"
	created.Components[0].Content = "changed"

	got, err := repo.GetSyllabus(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "T", got.Title)
	assert.NotEqual(t, "changed", got.Components[0].Content)
}

func TestMemoryRepository_GetAllSyllabi(t *testing.T) {
	repo := newTestMemoryRepository(t)
	ctx := context.Background()

	empty, err := repo.GetAllSyllabi(ctx)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	first, err := repo.CreateSyllabusWithComponents(ctx, "First", "First.", threeDrafts())
	require.NoError(t, err)
	second, err := repo.CreateSyllabus(ctx, "Second", "Second.")
	require.NoError(t, err)

	all, err := repo.GetAllSyllabi(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, second.ID, all[0].ID)
	assert.Equal(t, first.ID, all[1].ID)
	for _, s := range all {
		assert.NotNil(t, s.Components)
		assert.Empty(t, s.Components)
		assert.NotNil(t, s.Files)
		assert.Empty(t, s.Files)
	}
}

func TestMemoryRepository_Components(t *testing.T) {
	repo := newTestMemoryRepository(t)
	ctx := context.Background()

	syllabus, err := repo.CreateSyllabus(ctx, "T", "S")
	require.NoError(t, err)

	component, err := repo.CreateComponent(ctx, syllabus.ID, models.ComponentTypeVideo, `{"idea":"a"}`, false)
	require.NoError(t, err)

	_, err = repo.CreateComponent(ctx, syllabus.ID, models.ComponentType("podcast"), `{}`, false)
	assert.Error(t, err)
	_, err = repo.CreateComponent(ctx, "missing", models.ComponentTypeVideo, `{}`, false)
	assert.Error(t, err)

	updated, err := repo.UpdateComponent(ctx, component.ID, `{"idea":"b"}`, true)
	require.NoError(t, err)
	assert.Equal(t, `{"idea":"b"}`, updated.Content)
	assert.True(t, updated.Accepted)
	assert.Equal(t, models.ComponentTypeVideo, updated.Type)
	assert.False(t, updated.Modified.Before(updated.Created))

	accepted, err := repo.SetComponentAccepted(ctx, component.ID, false)
	require.NoError(t, err)
	assert.False(t, accepted.Accepted)
	assert.Equal(t, `{"idea":"b"}`, accepted.Content)

	missing, err := repo.UpdateComponent(ctx, "missing", "x", true)
	assert.NoError(t, err)
	assert.Nil(t, missing)
	missing, err = repo.SetComponentAccepted(ctx, "missing", true)
	assert.NoError(t, err)
	assert.Nil(t, missing)

	got, err := repo.GetSyllabus(ctx, syllabus.ID)
	require.NoError(t, err)
	require.Len(t, got.Components, 1)
	assert.Equal(t, `{"idea":"b"}`, got.Components[0].Content)
}

func TestMemoryRepository_FilesAndDelete(t *testing.T) {
	repo := newTestMemoryRepository(t)
	ctx := context.Background()

	syllabus, err := repo.CreateSyllabusWithComponents(ctx, "T", "S", threeDrafts())
	require.NoError(t, err)
	other, err := repo.CreateSyllabusWithComponents(ctx, "Other", "Other.", threeDrafts())
	require.NoError(t, err)

	_, err = repo.AddFile(ctx, syllabus.ID, "a.pdf", "mock://uploads/a", 10, "application/pdf")
	require.NoError(t, err)
	_, err = repo.AddFile(ctx, syllabus.ID, "b.txt", "mock://uploads/b", 20, "text/plain")
	require.NoError(t, err)
	_, err = repo.AddFile(ctx, "missing", "c.txt", "mock://uploads/c", 1, "text/plain")
	assert.Error(t, err)

	got, err := repo.GetSyllabus(ctx, syllabus.ID)
	require.NoError(t, err)
	require.Len(t, got.Files, 2)
	assert.Equal(t, "a.pdf", got.Files[0].Name)
	assert.Equal(t, "b.txt", got.Files[1].Name)

	files, found, err := repo.DeleteSyllabus(ctx, syllabus.ID)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Len(t, files, 2)

	gone, err := repo.GetSyllabus(ctx, syllabus.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)

	// Components of the deleted syllabus are gone with it.
	orphan, err := repo.SetComponentAccepted(ctx, syllabus.Components[0].ID, true)
	assert.NoError(t, err)
	assert.Nil(t, orphan)

	// The other syllabus is untouched.
	kept, err := repo.GetSyllabus(ctx, other.ID)
	require.NoError(t, err)
	assert.Len(t, kept.Components, 3)

	_, found, err = repo.DeleteSyllabus(ctx, syllabus.ID)
	require.NoError(t, err)
	assert.False(t, found)

	all, err := repo.GetAllSyllabi(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, other.ID, all[0].ID)
}

func TestMemoryRepository_ConcurrentAccess(t *testing.T) {
	repo := newTestMemoryRepository(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s, err := repo.CreateSyllabusWithComponents(ctx, fmt.Sprintf("T%d", i), "S", threeDrafts())
			if !assert.NoError(t, err) {
				return
			}
			_, err = repo.SetComponentAccepted(ctx, s.Components[0].ID, true)
			assert.NoError(t, err)
			_, err = repo.GetAllSyllabi(ctx)
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	all, err := repo.GetAllSyllabi(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 20)
}
