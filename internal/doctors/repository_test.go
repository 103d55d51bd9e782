package doctors

import (
	"context"
	"testing"

	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryLookupIsCaseInsensitive(t *testing.T) {
	repo := NewInMemoryRepository()
	repo.Add("Dr. Smith", "General Medicine")

	got, err := repo.GetByName(context.Background(), "dr. smith")
	require.NoError(t, err)
	assert.Equal(t, "Dr. Smith", got.Name)

	_, err = repo.GetByName(context.Background(), "Dr. Nobody")
	assert.ErrorIs(t, err, ErrDoctorNotFound)
}

func TestInMemoryListingsAreOrderedByID(t *testing.T) {
	repo := NewInMemoryRepository()
	repo.Add("Dr. Zhou", "Cardiology")
	repo.Add("Dr. Adams", "Cardiology")
	repo.Add("Dr. Baker", "Dermatology")

	all, err := repo.ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Dr. Zhou", all[0].Name, "insertion order, not name order")

	cardio, err := repo.ListBySpecialty(context.Background(), "cardiology")
	require.NoError(t, err)
	require.Len(t, cardio, 2)
	assert.Equal(t, "Dr. Zhou", cardio[0].Name)
	assert.Equal(t, "Dr. Adams", cardio[1].Name)
}

func TestInMemoryResolveSpecialty(t *testing.T) {
	repo := NewInMemoryRepository()
	repo.MapDisease("Chest Pain", "Cardiology")

	specialty, ok, err := repo.ResolveSpecialty(context.Background(), "chest pain")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Cardiology", specialty)

	_, ok, err = repo.ResolveSpecialty(context.Background(), "unknown ailment")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPostgresGetByName(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("SELECT id, name, specialty").
		WithArgs("Dr. Smith").
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "specialty"}).
			AddRow(int64(1), "Dr. Smith", "General Medicine"))

	repo := NewPostgresRepositoryWithDB(mock)
	got, err := repo.GetByName(context.Background(), "Dr. Smith")
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.ID)
	assert.Equal(t, "General Medicine", got.Specialty)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresResolveSpecialtyMiss(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("SELECT specialty").
		WithArgs("hiccups").
		WillReturnRows(pgxmock.NewRows([]string{"specialty"}))

	repo := NewPostgresRepositoryWithDB(mock)
	_, ok, err := repo.ResolveSpecialty(context.Background(), "hiccups")
	require.NoError(t, err)
	assert.False(t, ok)
}
