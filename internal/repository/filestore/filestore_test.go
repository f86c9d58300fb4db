package filestore_test

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	apperrors "github.com/vytor/flashstudy/internal/errors"
	"github.com/vytor/flashstudy/internal/models"
	"github.com/vytor/flashstudy/internal/repository/filestore"
	"github.com/vytor/flashstudy/internal/testutil"
)

type FileStoreSuite struct {
	suite.Suite
	root string
	dir  *filestore.Dir
}

func (s *FileStoreSuite) SetupTest() {
	s.root = s.T().TempDir()
	dir, err := filestore.NewDir(s.root)
	s.Require().NoError(err)
	s.dir = dir
}

func (s *FileStoreSuite) TestCardsRoundTrip() {
	ctx := testutil.Context()
	repo := filestore.NewCardRepository(s.dir)

	due, err := models.ParseDate("2024-05-03")
	s.Require().NoError(err)
	cards := []models.Flashcard{
		{Question: "2+2", Answer: "4", Category: "Math", ReviewDate: &due},
		{Question: "Capital of France", Answer: "Paris", Category: "Geo"},
	}
	s.Require().NoError(repo.Save(ctx, "alice", cards))
	s.FileExists(filepath.Join(s.root, "alice_flashcards.json"))

	loaded, err := repo.Load(ctx, "alice")
	s.Require().NoError(err)
	s.Equal(cards, loaded)
}

func (s *FileStoreSuite) TestCardsSaveEmptyCollection() {
	ctx := testutil.Context()
	repo := filestore.NewCardRepository(s.dir)

	s.Require().NoError(repo.Save(ctx, "alice", nil))
	loaded, err := repo.Load(ctx, "alice")
	s.Require().NoError(err)
	s.Empty(loaded)
}

func (s *FileStoreSuite) TestCardsLoadMissing() {
	_, err := filestore.NewCardRepository(s.dir).Load(testutil.Context(), "bob")
	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *FileStoreSuite) TestCardsLoadMalformed() {
	s.Require().NoError(os.WriteFile(filepath.Join(s.root, "bob_flashcards.json"), []byte("{not json"), 0o644))
	_, err := filestore.NewCardRepository(s.dir).Load(testutil.Context(), "bob")
	s.ErrorIs(err, apperrors.ErrIOFailure)
}

func (s *FileStoreSuite) TestInvalidUsername() {
	repo := filestore.NewCardRepository(s.dir)
	for _, name := range []string{"", "..", "a/b", "x y"} {
		err := repo.Save(testutil.Context(), name, nil)
		s.ErrorIs(err, apperrors.ErrValidation, name)
	}
}

func (s *FileStoreSuite) TestScoresAppendAndList() {
	ctx := testutil.Context()
	repo := filestore.NewScoreRepository(s.dir)

	empty, err := repo.List(ctx, "alice")
	s.Require().NoError(err)
	s.NotNil(empty)
	s.Empty(empty)

	s.Require().NoError(repo.Append(ctx, "alice", models.ScoreRecord{Score: 3, Total: 4, Date: "2024-05-01"}))
	s.Require().NoError(repo.Append(ctx, "alice", models.ScoreRecord{Score: 1, Total: 2, Date: "2024-05-02"}))

	history, err := repo.List(ctx, "alice")
	s.Require().NoError(err)
	s.Equal([]models.ScoreRecord{
		{Score: 3, Total: 4, Date: "2024-05-01"},
		{Score: 1, Total: 2, Date: "2024-05-02"},
	}, history)
}

func (s *FileStoreSuite) TestScoresConcurrentAppends() {
	ctx := testutil.Context()
	repo := filestore.NewScoreRepository(s.dir)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			assert.NoError(s.T(), repo.Append(ctx, "alice", models.ScoreRecord{Score: n, Total: 20}))
		}(i)
	}
	wg.Wait()

	history, err := repo.List(ctx, "alice")
	s.Require().NoError(err)
	s.Len(history, 20)
}

func (s *FileStoreSuite) TestProfile() {
	ctx := testutil.Context()
	repo := filestore.NewProfileRepository(s.dir)

	p, err := repo.Get(ctx, "alice")
	s.Require().NoError(err)
	s.Nil(p)

	want := models.Profile{Name: "Alice", Email: "alice@example.com"}
	s.Require().NoError(repo.Save(ctx, "alice", want))

	p, err = repo.Get(ctx, "alice")
	s.Require().NoError(err)
	s.Require().NotNil(p)
	s.Equal(want, *p)
}

func (s *FileStoreSuite) TestCredentials() {
	ctx := testutil.Context()
	repo := filestore.NewCredentialRepository(s.dir)

	c, err := repo.Get(ctx, "alice")
	s.Require().NoError(err)
	s.Nil(c)

	s.Require().NoError(repo.Create(ctx, models.Credential{Username: "alice", PasswordHash: "h1"}))
	s.Require().NoError(repo.Create(ctx, models.Credential{Username: "bob", PasswordHash: "h2"}))

	err = repo.Create(ctx, models.Credential{Username: "alice", PasswordHash: "other"})
	s.ErrorIs(err, apperrors.ErrConflict)

	c, err = repo.Get(ctx, "alice")
	s.Require().NoError(err)
	s.Require().NotNil(c)
	s.Equal("h1", c.PasswordHash)

	s.FileExists(filepath.Join(s.root, "users.json"))
}

func (s *FileStoreSuite) TestNoTempFilesLeft() {
	ctx := testutil.Context()
	s.Require().NoError(filestore.NewProfileRepository(s.dir).Save(ctx, "alice", models.Profile{Name: "A", Email: "a@b.co"}))

	entries, err := os.ReadDir(s.root)
	s.Require().NoError(err)
	s.Len(entries, 1)
	s.Equal("alice_profile.json", entries[0].Name())
}

func TestFileStoreSuite(t *testing.T) {
	suite.Run(t, new(FileStoreSuite))
}

func TestNewDirCreatesDirectory(t *testing.T) {
	root := filepath.Join(t.TempDir(), "nested", "data")
	dir, err := filestore.NewDir(root)
	require.NoError(t, err)
	assert.Equal(t, root, dir.Root())
	assert.DirExists(t, root)
}
